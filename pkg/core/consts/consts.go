package consts

type contextKey string

// TraceKey context 中 TraceID 的键
const TraceKey contextKey = "traceId"

const (
	EnvDev  = "dev"
	EnvProd = "prod"
	EnvTest = "test"
)

// TraceHeaderName 上游传入 TraceID 的请求头
const TraceHeaderName = "X-Trace-Id"
