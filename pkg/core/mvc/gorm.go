package mvc

import (
	"context"
	"errors"
	"sync"

	errorc "cardmarket/pkg/core/err"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/schema"
)

// GormDaoImpl GORM数据访问实现
type GormDaoImpl[T any] struct {
	db *gorm.DB
	pk string
}

var schemaCache sync.Map

// NewGormDao 创建GORM数据访问实例
func NewGormDao[T any](db *gorm.DB) IBaseDao[T] {
	return &GormDaoImpl[T]{
		db: db,
		pk: primaryKeyOf[T](db),
	}
}

// primaryKeyOf 通过 gorm 的 schema 解析出主键列名，解析失败时回退到 id
func primaryKeyOf[T any](db *gorm.DB) string {
	if db == nil {
		return "id"
	}
	s, err := schema.Parse(new(T), &schemaCache, db.NamingStrategy)
	if err != nil || s.PrioritizedPrimaryField == nil {
		return "id"
	}
	return s.PrioritizedPrimaryField.DBName
}

// WithTx 使用事务创建临时的IBaseDao实例
func (d *GormDaoImpl[T]) WithTx(tx interface{}) IBaseDao[T] {
	if gormDB, ok := tx.(*gorm.DB); ok {
		return &GormDaoImpl[T]{
			db: gormDB,
			pk: d.pk,
		}
	}
	return d
}

func (d *GormDaoImpl[T]) PrimaryKey() string {
	return d.pk
}

// eq 列名经过方言转义，大小写敏感的数据库同样可用
func (d *GormDaoImpl[T]) eq(column string, value interface{}) clause.Expression {
	return clause.Eq{Column: clause.Column{Name: column}, Value: value}
}

func (d *GormDaoImpl[T]) Create(ctx context.Context, entity *T) error {
	result := d.db.WithContext(ctx).Create(entity)
	if result.Error != nil {
		return errorc.New("保存记录失败", result.Error).DB()
	}
	if result.RowsAffected != 1 {
		return errorc.New("保存记录失败：影响行数异常", nil).DB()
	}
	return nil
}

func (d *GormDaoImpl[T]) DeleteById(ctx context.Context, id int64) error {
	result := d.db.WithContext(ctx).Where(d.eq(d.pk, id)).Delete(new(T))
	if result.Error != nil {
		return errorc.New("删除记录失败", result.Error).DB()
	}
	if result.RowsAffected == 0 {
		return errorc.New("要删除的记录不存在", nil).NotFound()
	}
	if result.RowsAffected != 1 {
		return errorc.New("删除记录失败：影响行数异常", nil).DB()
	}
	return nil
}

func (d *GormDaoImpl[T]) UpdateById(ctx context.Context, id int64, entity *T) (int64, error) {
	result := d.db.WithContext(ctx).Model(new(T)).
		Where(d.eq(d.pk, id)).
		Select("*").Omit(d.pk).
		Updates(entity)
	if result.Error != nil {
		return 0, errorc.New("更新记录失败", result.Error).DB()
	}
	if result.RowsAffected == 0 {
		return 0, errorc.New("要更新的记录不存在", nil).NotFound()
	}
	return result.RowsAffected, nil
}

func (d *GormDaoImpl[T]) FindAll(ctx context.Context) ([]*T, error) {
	entities := make([]*T, 0)
	err := d.db.WithContext(ctx).Find(&entities).Error
	if err != nil {
		return nil, errorc.New("查询记录失败", err).DB()
	}
	return entities, nil
}

func (d *GormDaoImpl[T]) FindById(ctx context.Context, id int64) (*T, error) {
	var entity T
	err := d.db.WithContext(ctx).Where(d.eq(d.pk, id)).Take(&entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, errorc.New("查询记录失败", err).DB()
	}
	return &entity, nil
}

func (d *GormDaoImpl[T]) FindByColumn(ctx context.Context, column string, value interface{}) ([]*T, error) {
	entities := make([]*T, 0)
	err := d.db.WithContext(ctx).Where(d.eq(column, value)).Find(&entities).Error
	if err != nil {
		return nil, errorc.New("查询记录失败", err).DB()
	}
	return entities, nil
}

func (d *GormDaoImpl[T]) FindOneByColumn(ctx context.Context, column string, value interface{}) (*T, error) {
	var entity T
	err := d.db.WithContext(ctx).Where(d.eq(column, value)).Take(&entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, errorc.New("查询记录失败", err).DB()
	}
	return &entity, nil
}

func (d *GormDaoImpl[T]) FindPage(ctx context.Context, page *Page) ([]*T, int64, error) {
	entities := make([]*T, 0)
	var total int64

	db := d.db.WithContext(ctx).Model(new(T))

	err := db.Count(&total).Error
	if err != nil {
		return nil, 0, errorc.New("查询记录失败", err).DB()
	}

	db = db.Scopes(Paginate(page))
	if page.Sort != "" {
		db = db.Order(page.Sort)
	} else {
		db = db.Order(clause.OrderByColumn{Column: clause.Column{Name: d.pk}})
	}

	err = db.Find(&entities).Error
	if err != nil {
		return nil, 0, errorc.New("查询记录失败", err).DB()
	}

	return entities, total, nil
}

func (d *GormDaoImpl[T]) Count(ctx context.Context) (int64, error) {
	var count int64
	err := d.db.WithContext(ctx).Model(new(T)).Count(&count).Error
	if err != nil {
		return 0, errorc.New("统计记录失败", err).DB()
	}
	return count, nil
}

func (d *GormDaoImpl[T]) ExistsByColumn(ctx context.Context, column string, value interface{}) (bool, error) {
	var count int64
	err := d.db.WithContext(ctx).Model(new(T)).Where(d.eq(column, value)).Count(&count).Error
	if err != nil {
		return false, errorc.New("查询记录失败", err).DB()
	}
	return count > 0, nil
}
