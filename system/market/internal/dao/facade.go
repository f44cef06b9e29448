package dao

import (
	"context"
	"sync"

	errorc "cardmarket/pkg/core/err"
	"cardmarket/pkg/core/logger"
	"cardmarket/system/market/internal/model"
)

// store 单个实体在 Facade 中可用的读写能力
type store[T any] interface {
	FindAll(ctx context.Context) ([]*T, error)
	FindById(ctx context.Context, id int64) (*T, error)
	Create(ctx context.Context, entity *T) error
	DeleteById(ctx context.Context, id int64) error
	UpdateById(ctx context.Context, id int64, entity *T) (int64, error)
}

type binding struct {
	kind      model.Kind
	typed     interface{}
	newEntity func() model.Entity
	findAll   func(ctx context.Context) ([]model.Entity, error)
	findByID  func(ctx context.Context, id int64) (model.Entity, error)
	save      func(ctx context.Context, e model.Entity) error
	remove    func(ctx context.Context, id int64) error
	// update 为 nil 表示该实体不支持更新
	update func(ctx context.Context, id int64, e model.Entity) (int64, error)
}

func bind[T any, PT interface {
	*T
	model.Entity
}](kind model.Kind, s store[T], updatable bool) *binding {
	b := &binding{
		kind:      kind,
		typed:     s,
		newEntity: func() model.Entity { return PT(new(T)) },
		findAll: func(ctx context.Context) ([]model.Entity, error) {
			rows, err := s.FindAll(ctx)
			if err != nil {
				return nil, err
			}
			out := make([]model.Entity, 0, len(rows))
			for _, r := range rows {
				out = append(out, PT(r))
			}
			return out, nil
		},
		findByID: func(ctx context.Context, id int64) (model.Entity, error) {
			v, err := s.FindById(ctx, id)
			if err != nil || v == nil {
				return nil, err
			}
			return PT(v), nil
		},
		save: func(ctx context.Context, e model.Entity) error {
			v, ok := e.(PT)
			if !ok || v == nil {
				return mismatch(kind, e)
			}
			return s.Create(ctx, v)
		},
		remove: s.DeleteById,
	}
	if updatable {
		b.update = func(ctx context.Context, id int64, e model.Entity) (int64, error) {
			v, ok := e.(PT)
			if !ok || v == nil {
				return 0, mismatch(kind, e)
			}
			return s.UpdateById(ctx, id, v)
		}
	}
	return b
}

func mismatch(kind model.Kind, e model.Entity) error {
	got := "nil"
	if e != nil {
		got = e.Kind().String()
	}
	return errorc.New("实体类型不匹配: 期望 "+kind.String()+"，实际 "+got, nil).Unsupported()
}

// Facade 按实体类型分发增删改查
type Facade struct {
	log      *logger.Log
	err      *errorc.ErrorBuilder
	bindings map[model.Kind]*binding

	mu        sync.RWMutex
	listeners []ChangeListener
}

func NewFacade(daos *Daos, log *logger.Log) *Facade {
	f := &Facade{
		log:      log.WithEntryName("Facade"),
		err:      errorc.NewErrorBuilder("Facade"),
		bindings: make(map[model.Kind]*binding),
	}
	f.register(bind[model.Card](model.KindCard, daos.Card, true))
	f.register(bind[model.Offer](model.KindOffer, daos.Offer, true))
	f.register(bind[model.Order](model.KindOrder, daos.Order, true))
	f.register(bind[model.Discussion](model.KindDiscussion, daos.Discussion, false))
	f.register(bind[model.Message](model.KindMessage, daos.Message, true))
	f.register(bind[model.Review](model.KindReview, daos.Review, true))
	f.register(bind[model.Exchange](model.KindExchange, daos.Exchange, true))
	f.register(bind[model.User](model.KindUser, daos.User, false))
	return f
}

func (f *Facade) register(b *binding) {
	f.bindings[b.kind] = b
}

func (f *Facade) lookup(kind model.Kind) (*binding, error) {
	b, ok := f.bindings[kind]
	if !ok {
		return nil, f.err.New("不支持的实体类型: "+kind.String(), nil).Unsupported()
	}
	return b, nil
}

// Supports 判断实体类型是否支持更新以外的基本操作，updatable 为 true 时同时要求支持更新
func (f *Facade) Supports(kind model.Kind, updatable bool) bool {
	b, ok := f.bindings[kind]
	if !ok {
		return false
	}
	return !updatable || b.update != nil
}

// New 创建指定类型的空实体，用于解析请求体
func (f *Facade) New(kind model.Kind) (model.Entity, error) {
	b, err := f.lookup(kind)
	if err != nil {
		return nil, err
	}
	return b.newEntity(), nil
}

func (f *Facade) RetrieveAll(ctx context.Context, kind model.Kind) ([]model.Entity, error) {
	b, err := f.lookup(kind)
	if err != nil {
		return nil, err
	}
	return b.findAll(ctx)
}

// RetrieveByID 记录不存在时返回 nil, nil
func (f *Facade) RetrieveByID(ctx context.Context, kind model.Kind, id int64) (model.Entity, error) {
	b, err := f.lookup(kind)
	if err != nil {
		return nil, err
	}
	return b.findByID(ctx, id)
}

// Save 插入实体，类型由实体自身决定，成功后实体携带新的主键
func (f *Facade) Save(ctx context.Context, e model.Entity) error {
	if e == nil {
		return f.err.New("实体不能为空", nil).ValidWithCtx()
	}
	b, err := f.lookup(e.Kind())
	if err != nil {
		return err
	}
	if err := b.save(ctx, e); err != nil {
		return err
	}
	f.notify(ctx, ChangeEvent{Kind: b.kind, Op: OpCreate, ID: e.GetID(), Entity: e})
	return nil
}

func (f *Facade) Delete(ctx context.Context, kind model.Kind, id int64) error {
	b, err := f.lookup(kind)
	if err != nil {
		return err
	}
	if err := b.remove(ctx, id); err != nil {
		return err
	}
	f.notify(ctx, ChangeEvent{Kind: kind, Op: OpDelete, ID: id})
	return nil
}

// Update 按主键写入全部可变字段，User 与 Discussion 不支持
func (f *Facade) Update(ctx context.Context, kind model.Kind, id int64, e model.Entity) (int64, error) {
	b, err := f.lookup(kind)
	if err != nil {
		return 0, err
	}
	if b.update == nil {
		return 0, f.err.New("实体类型不支持更新: "+kind.String(), nil).Unsupported()
	}
	rows, err := b.update(ctx, id, e)
	if err != nil {
		return 0, err
	}
	e.SetID(id)
	f.notify(ctx, ChangeEvent{Kind: kind, Op: OpUpdate, ID: id, Entity: e})
	return rows, nil
}
