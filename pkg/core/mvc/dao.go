package mvc

import (
	"context"
)

// IBaseDao 定义通用的数据访问接口
//
// 读操作查不到记录时返回 (nil, nil) 或空切片；写操作影响行数不符合预期时返回带错误码的 errorc.Error。
type IBaseDao[T any] interface {
	// Create 插入记录，成功后主键回填到 entity
	Create(ctx context.Context, entity *T) error
	// DeleteById 根据主键删除记录，未命中返回 NotFound
	DeleteById(ctx context.Context, id int64) error
	// UpdateById 根据主键更新全部非主键字段（包含零值），未命中返回 NotFound
	UpdateById(ctx context.Context, id int64, entity *T) (int64, error)
	// FindAll 查询全部记录，无记录时返回空切片
	FindAll(ctx context.Context) ([]*T, error)
	// FindById 根据主键查询，不存在返回 (nil, nil)
	FindById(ctx context.Context, id int64) (*T, error)
	// FindByColumn 根据指定列查询记录
	FindByColumn(ctx context.Context, column string, value interface{}) ([]*T, error)
	// FindOneByColumn 根据指定列查询单条记录，不存在返回 (nil, nil)
	FindOneByColumn(ctx context.Context, column string, value interface{}) (*T, error)
	// FindPage 分页查询
	FindPage(ctx context.Context, page *Page) ([]*T, int64, error)
	// Count 统计记录数
	Count(ctx context.Context) (int64, error)
	// ExistsByColumn 判断指定列是否存在该值
	ExistsByColumn(ctx context.Context, column string, value interface{}) (bool, error)
	// PrimaryKey 返回主键列名
	PrimaryKey() string
	// WithTx 使用事务创建临时的IBaseDao实例
	WithTx(tx interface{}) IBaseDao[T]
}
