package tracer

import (
	"cardmarket/pkg/core/consts"
	"context"

	"github.com/openzipkin/zipkin-go"
	"github.com/openzipkin/zipkin-go/model"
)

// ZipkinTracer Zipkin追踪实现
type ZipkinTracer struct {
	tracer  *zipkin.Tracer
	appName string
}

func NewZipkinTracer(tracer *zipkin.Tracer, appName string) *ZipkinTracer {
	return &ZipkinTracer{
		tracer:  tracer,
		appName: appName,
	}
}

func (t *ZipkinTracer) StartTrace(ctx context.Context, name string) (context.Context, string, func()) {
	span, newCtx := t.tracer.StartSpanFromContext(ctx, t.appName+"."+name)
	traceId := span.Context().TraceID.String()
	return context.WithValue(newCtx, consts.TraceKey, traceId), traceId, span.Finish
}

// StartTraceWithParent 上游 TraceID 为 zipkin 的十六进制格式时挂到同一条链路上
func (t *ZipkinTracer) StartTraceWithParent(ctx context.Context, name string, parentTraceID string) (context.Context, string, func(), error) {
	traceID, err := model.TraceIDFromHex(parentTraceID)
	if err != nil {
		return ctx, "", func() {}, err
	}

	span := t.tracer.StartSpan(t.appName+"."+name, zipkin.Parent(model.SpanContext{TraceID: traceID}))
	newCtx := zipkin.NewContext(ctx, span)
	traceId := span.Context().TraceID.String()
	return context.WithValue(newCtx, consts.TraceKey, traceId), traceId, span.Finish, nil
}
