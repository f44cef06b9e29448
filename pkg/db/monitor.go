package db

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	startTimeKey = "gorm:monitor_start_time"
	callerKey    = "gorm:monitor_caller"
)

// QueryMetrics 单条 SQL 的执行指标
type QueryMetrics struct {
	TraceID      string
	Table        string
	Operation    string
	SQL          string
	Driver       string
	Duration     time.Duration
	RowsAffected int64
	IsSlowQuery  bool
	ErrorCode    string
	ErrorMessage string
	Caller       *CallerInfo
}

// GORMMonitorPlugin 记录慢查询与失败的 SQL
type GORMMonitorPlugin struct {
	userPackage   string
	traceKey      interface{}
	logger        *zap.Logger
	slowThreshold time.Duration
	debug         bool
	recorder      func(*QueryMetrics)
}

type GORMMonitorConfig struct {
	UserPackage   string              // 用户包名前缀，用于定位调用方
	TraceKey      interface{}         // context 中 TraceID 的键
	Logger        *zap.Logger         // 为空时使用 zap.NewProduction
	SlowThreshold time.Duration       // 慢查询阈值，默认 200ms
	Debug         bool                // 打印每一条 SQL
	Recorder      func(*QueryMetrics) // 可选，接收每条 SQL 的指标
}

func NewGORMMonitorPlugin(config GORMMonitorConfig) *GORMMonitorPlugin {
	p := &GORMMonitorPlugin{
		userPackage:   config.UserPackage,
		traceKey:      config.TraceKey,
		logger:        config.Logger,
		slowThreshold: config.SlowThreshold,
		debug:         config.Debug,
		recorder:      config.Recorder,
	}
	if p.slowThreshold <= 0 {
		p.slowThreshold = 200 * time.Millisecond
	}
	if p.logger == nil {
		l, err := zap.NewProduction()
		if err != nil {
			l = zap.NewNop()
		}
		p.logger = l.Named("gorm_monitor")
	}
	return p
}

// Name 实现 gorm.Plugin 接口
func (p *GORMMonitorPlugin) Name() string {
	return "gorm:monitor"
}

// Initialize 实现 gorm.Plugin 接口
func (p *GORMMonitorPlugin) Initialize(db *gorm.DB) error {
	if db == nil {
		return errors.New("数据库对象不能为 nil")
	}

	cb := db.Callback()
	registrations := []struct {
		name   string
		before func() error
		after  func() error
	}{
		{"create",
			func() error { return cb.Create().Before("gorm:create").Register("monitor:create_before", p.before) },
			func() error { return cb.Create().After("gorm:create").Register("monitor:create_after", p.after) }},
		{"update",
			func() error { return cb.Update().Before("gorm:update").Register("monitor:update_before", p.before) },
			func() error { return cb.Update().After("gorm:update").Register("monitor:update_after", p.after) }},
		{"delete",
			func() error { return cb.Delete().Before("gorm:delete").Register("monitor:delete_before", p.before) },
			func() error { return cb.Delete().After("gorm:delete").Register("monitor:delete_after", p.after) }},
		{"query",
			func() error { return cb.Query().Before("gorm:query").Register("monitor:query_before", p.before) },
			func() error { return cb.Query().After("gorm:query").Register("monitor:query_after", p.after) }},
		{"raw",
			func() error { return cb.Raw().Before("gorm:raw").Register("monitor:raw_before", p.before) },
			func() error { return cb.Raw().After("gorm:raw").Register("monitor:raw_after", p.after) }},
		{"row",
			func() error { return cb.Row().Before("gorm:row").Register("monitor:row_before", p.before) },
			func() error { return cb.Row().After("gorm:row").Register("monitor:row_after", p.after) }},
	}
	for _, r := range registrations {
		if err := r.before(); err != nil {
			return fmt.Errorf("注册 %s 监控回调失败: %w", r.name, err)
		}
		if err := r.after(); err != nil {
			return fmt.Errorf("注册 %s 监控回调失败: %w", r.name, err)
		}
	}

	p.logger.Info("GORM 监控插件初始化成功",
		zap.Duration("slow_threshold", p.slowThreshold),
		zap.Bool("debug", p.debug))
	return nil
}

func (p *GORMMonitorPlugin) before(db *gorm.DB) {
	db.InstanceSet(startTimeKey, time.Now())
	if caller := p.getCallerInfo(); caller != nil {
		db.InstanceSet(callerKey, caller)
	}
}

func (p *GORMMonitorPlugin) after(db *gorm.DB) {
	v, ok := db.InstanceGet(startTimeKey)
	if !ok {
		return
	}
	start, ok := v.(time.Time)
	if !ok {
		return
	}

	m := p.buildMetrics(db, time.Since(start))
	if p.recorder != nil {
		p.recorder(m)
	}
	p.report(m)
}

func (p *GORMMonitorPlugin) buildMetrics(db *gorm.DB, duration time.Duration) *QueryMetrics {
	m := &QueryMetrics{
		Duration:    duration,
		IsSlowQuery: duration >= p.slowThreshold,
	}
	if db.Statement != nil {
		m.Table = db.Statement.Table
		m.SQL = db.Statement.SQL.String()
		m.TraceID = p.traceID(db.Statement.Context)
	}
	m.RowsAffected = db.RowsAffected
	m.Operation = operationOf(m.SQL)
	if db.Dialector != nil {
		m.Driver = db.Dialector.Name()
	}
	if db.Error != nil && !errors.Is(db.Error, gorm.ErrRecordNotFound) {
		m.ErrorMessage = db.Error.Error()
		m.ErrorCode = errorCodeOf(db.Error)
	}
	if v, ok := db.InstanceGet(callerKey); ok {
		m.Caller, _ = v.(*CallerInfo)
	}
	return m
}

func (p *GORMMonitorPlugin) report(m *QueryMetrics) {
	fields := []zap.Field{
		zap.String("trace_id", m.TraceID),
		zap.String("table", m.Table),
		zap.String("operation", m.Operation),
		zap.Duration("duration", m.Duration),
		zap.Int64("rows_affected", m.RowsAffected),
	}
	if m.Caller != nil {
		fields = append(fields, zap.String("caller", fmt.Sprintf("%s:%d %s", m.Caller.File, m.Caller.Line, m.Caller.Function)))
	}

	switch {
	case m.ErrorMessage != "":
		p.logger.Error("SQL 执行失败", append(fields,
			zap.String("error_code", m.ErrorCode),
			zap.String("error", m.ErrorMessage),
			zap.String("sql", truncate(m.SQL)))...)
	case m.IsSlowQuery:
		p.logger.Warn("检测到慢查询", append(fields,
			zap.Duration("threshold", p.slowThreshold),
			zap.String("sql", truncate(m.SQL)))...)
	case p.debug:
		p.logger.Debug("SQL", append(fields, zap.String("sql", truncate(m.SQL)))...)
	}
}

func (p *GORMMonitorPlugin) traceID(ctx context.Context) string {
	if ctx == nil || p.traceKey == nil {
		return ""
	}
	if v := ctx.Value(p.traceKey); v != nil {
		return fmt.Sprintf("%v", v)
	}
	return ""
}

// CallerInfo 调用者信息
type CallerInfo struct {
	Function string
	File     string
	Line     int
}

func (p *GORMMonitorPlugin) getCallerInfo() *CallerInfo {
	pcs := make([]uintptr, 24)
	n := runtime.Callers(3, pcs)
	frames := runtime.CallersFrames(pcs[:n])

	for {
		frame, more := frames.Next()
		if p.isUserCode(frame.Function, frame.File) {
			return &CallerInfo{
				Function: lastSegment(frame.Function, "."),
				File:     lastSegment(frame.File, "/"),
				Line:     frame.Line,
			}
		}
		if !more {
			return nil
		}
	}
}

func (p *GORMMonitorPlugin) isUserCode(function, file string) bool {
	if strings.Contains(function, "gorm.io/") || strings.Contains(file, "gorm.io/") ||
		strings.Contains(function, "cardmarket/pkg/db.") || strings.Contains(function, "cardmarket/pkg/core/mvc.") {
		return false
	}
	if p.userPackage != "" {
		return strings.Contains(function, p.userPackage)
	}
	for _, pattern := range []string{"runtime.", "reflect.", "database/sql.", "github.com/gofiber/fiber"} {
		if strings.HasPrefix(function, pattern) || strings.Contains(function, pattern) {
			return false
		}
	}
	return true
}

func lastSegment(s, sep string) string {
	if i := strings.LastIndex(s, "/"); i != -1 && sep == "." {
		s = s[i+1:]
	}
	if i := strings.LastIndex(s, sep); i != -1 {
		return s[i+1:]
	}
	return s
}

func errorCodeOf(err error) string {
	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return "DUPLICATE"
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return "FOREIGN_KEY"
	case errors.Is(err, context.DeadlineExceeded):
		return "TIMEOUT"
	}
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "duplicate"), strings.Contains(msg, "unique"):
		return "DUPLICATE"
	case strings.Contains(msg, "timeout"):
		return "TIMEOUT"
	case strings.Contains(msg, "connection"):
		return "CONNECTION"
	default:
		return "UNKNOWN"
	}
}

func operationOf(sql string) string {
	s := strings.ToUpper(strings.TrimSpace(sql))
	for _, op := range []string{"SELECT", "INSERT", "UPDATE", "DELETE", "CREATE", "DROP", "ALTER"} {
		if strings.HasPrefix(s, op) {
			return op
		}
	}
	return "OTHER"
}

func truncate(sql string) string {
	if len(sql) > 500 {
		return sql[:500] + "... (truncated)"
	}
	return sql
}
