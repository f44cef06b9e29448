package dao

import (
	"context"

	errorc "cardmarket/pkg/core/err"
	"cardmarket/system/market/internal/model"
)

type entityPtr[T any] interface {
	*T
	model.Entity
}

func typedStore[T any, PT entityPtr[T]](f *Facade) (store[T], error) {
	kind := PT(new(T)).Kind()
	b, err := f.lookup(kind)
	if err != nil {
		return nil, err
	}
	s, ok := b.typed.(store[T])
	if !ok {
		return nil, errorc.New("实体类型不匹配: "+kind.String(), nil).Unsupported()
	}
	return s, nil
}

// FindAll 按具体类型读取全部实体
func FindAll[T any, PT entityPtr[T]](ctx context.Context, f *Facade) ([]*T, error) {
	s, err := typedStore[T, PT](f)
	if err != nil {
		return nil, err
	}
	return s.FindAll(ctx)
}

// FindByID 按具体类型读取单个实体，不存在时返回 nil, nil
func FindByID[T any, PT entityPtr[T]](ctx context.Context, f *Facade, id int64) (*T, error) {
	s, err := typedStore[T, PT](f)
	if err != nil {
		return nil, err
	}
	return s.FindById(ctx, id)
}

// Save 经由 Facade 保存，变更监听器同样会收到通知
func Save[T any, PT entityPtr[T]](ctx context.Context, f *Facade, entity *T) error {
	if entity == nil {
		return errorc.New("实体不能为空", nil).ValidWithCtx()
	}
	return f.Save(ctx, PT(entity))
}
