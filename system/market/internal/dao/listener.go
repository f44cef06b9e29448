package dao

import (
	"context"

	"cardmarket/system/market/internal/model"
)

type Op string

const (
	OpCreate Op = "create"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

// ChangeEvent 一次成功写入的描述，删除时 Entity 为 nil
type ChangeEvent struct {
	Kind   model.Kind
	Op     Op
	ID     int64
	Entity model.Entity
}

// ChangeListener 在 Facade 写入成功后被调用，返回的错误只记录日志
type ChangeListener interface {
	OnChange(ctx context.Context, event ChangeEvent) error
}

type ChangeListenerFunc func(ctx context.Context, event ChangeEvent) error

func (f ChangeListenerFunc) OnChange(ctx context.Context, event ChangeEvent) error {
	return f(ctx, event)
}

func (f *Facade) AddListener(l ChangeListener) {
	if l == nil {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listeners = append(f.listeners, l)
}

func (f *Facade) notify(ctx context.Context, event ChangeEvent) {
	f.mu.RLock()
	listeners := f.listeners
	f.mu.RUnlock()

	for _, l := range listeners {
		if err := l.OnChange(ctx, event); err != nil {
			f.log.WithTrace(ctx).WithErr(err).
				WithField("kind", event.Kind.String()).
				WithField("op", string(event.Op)).
				WithField("id", event.ID).
				Warn("变更通知处理失败")
		}
	}
}
