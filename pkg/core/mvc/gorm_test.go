package mvc

import (
	"context"
	"testing"

	errorc "cardmarket/pkg/core/err"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type testItem struct {
	ItemID int64   `gorm:"column:idItem;primaryKey;autoIncrement"`
	Name   string  `gorm:"column:nome"`
	Price  float64 `gorm:"column:prezzo"`
	Active bool    `gorm:"column:attivo"`
}

func (testItem) TableName() string { return "Item" }

func setupDao(t *testing.T) (IBaseDao[testItem], *gorm.DB) {
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&testItem{}))
	return NewGormDao[testItem](db), db
}

func TestGormDao_PrimaryKeyFromSchema(t *testing.T) {
	dao, _ := setupDao(t)
	assert.Equal(t, "idItem", dao.PrimaryKey())
}

func TestGormDao_CreateAndFind(t *testing.T) {
	dao, _ := setupDao(t)
	ctx := context.Background()

	item := &testItem{Name: "Pikachu", Price: 12.5, Active: true}
	require.NoError(t, dao.Create(ctx, item))
	assert.NotZero(t, item.ItemID)

	found, err := dao.FindById(ctx, item.ItemID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "Pikachu", found.Name)

	all, err := dao.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestGormDao_FindMissingReturnsNil(t *testing.T) {
	dao, _ := setupDao(t)

	found, err := dao.FindById(context.Background(), 999)
	assert.NoError(t, err)
	assert.Nil(t, found)

	one, err := dao.FindOneByColumn(context.Background(), "nome", "nessuno")
	assert.NoError(t, err)
	assert.Nil(t, one)

	all, err := dao.FindAll(context.Background())
	assert.NoError(t, err)
	assert.NotNil(t, all)
	assert.Empty(t, all)
}

func TestGormDao_UpdateWritesZeroValues(t *testing.T) {
	dao, _ := setupDao(t)
	ctx := context.Background()

	item := &testItem{Name: "Charizard", Price: 99, Active: true}
	require.NoError(t, dao.Create(ctx, item))

	rows, err := dao.UpdateById(ctx, item.ItemID, &testItem{Name: "Charizard", Price: 0, Active: false})
	require.NoError(t, err)
	assert.Equal(t, int64(1), rows)

	found, err := dao.FindById(ctx, item.ItemID)
	require.NoError(t, err)
	assert.Equal(t, float64(0), found.Price)
	assert.False(t, found.Active)
	assert.Equal(t, item.ItemID, found.ItemID)
}

func TestGormDao_UpdateMissingIsNotFound(t *testing.T) {
	dao, _ := setupDao(t)

	_, err := dao.UpdateById(context.Background(), 42, &testItem{Name: "x"})
	assert.True(t, errorc.IsNotFound(err))
}

func TestGormDao_DeleteById(t *testing.T) {
	dao, _ := setupDao(t)
	ctx := context.Background()

	item := &testItem{Name: "Mew"}
	require.NoError(t, dao.Create(ctx, item))

	require.NoError(t, dao.DeleteById(ctx, item.ItemID))

	err := dao.DeleteById(ctx, item.ItemID)
	assert.True(t, errorc.IsNotFound(err))

	count, err := dao.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestGormDao_FindPageAndExists(t *testing.T) {
	dao, _ := setupDao(t)
	ctx := context.Background()

	for _, n := range []string{"a", "b", "c"} {
		require.NoError(t, dao.Create(ctx, &testItem{Name: n}))
	}

	items, total, err := dao.FindPage(ctx, &Page{PageNum: 2, Size: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, items, 1)
	assert.Equal(t, "c", items[0].Name)

	ok, err := dao.ExistsByColumn(ctx, "nome", "b")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestGormDao_WithTxRollsBack(t *testing.T) {
	dao, db := setupDao(t)
	ctx := context.Background()

	_ = db.Transaction(func(tx *gorm.DB) error {
		require.NoError(t, dao.WithTx(tx).Create(ctx, &testItem{Name: "rollback"}))
		return errorc.New("回滚", nil)
	})

	count, err := dao.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}
