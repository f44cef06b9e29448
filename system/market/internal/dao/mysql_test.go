package dao

import (
	"context"
	"regexp"
	"testing"

	errorc "cardmarket/pkg/core/err"
	"cardmarket/pkg/core/logger"
	"cardmarket/system/market/internal/model"

	"github.com/DATA-DOG/go-sqlmock"
	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func setupMock(t *testing.T) (*Daos, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
		SkipDefaultTransaction: true,
		TranslateError:         true,
	})
	require.NoError(t, err)
	return NewDaos(db, logger.GetLogger()), mock
}

func TestMysql_DuplicateKeyIsConflict(t *testing.T) {
	d, mock := setupMock(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO `Utente`")).
		WillReturnError(&mysqldriver.MySQLError{Number: 1062, Message: "Duplicate entry 'alice@example.com' for key 'email'"})

	err := d.User.Create(context.Background(), &model.User{Email: "alice@example.com", Password: "x", Username: "alice"})
	require.Error(t, err)
	assert.True(t, errorc.IsConflict(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMysql_ForeignKeyIsConflict(t *testing.T) {
	d, mock := setupMock(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO `Offerta`")).
		WillReturnError(&mysqldriver.MySQLError{Number: 1452, Message: "Cannot add or update a child row"})

	err := d.Offer.Create(context.Background(), &model.Offer{Condition: "nuovo", Price: 1, UserID: 9, CardID: 9})
	assert.True(t, errorc.IsConflict(err))
}

func TestMysql_InvalidConnIsUnavailable(t *testing.T) {
	d, mock := setupMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `Carta` WHERE `idCarta` = ?")).
		WillReturnError(mysqldriver.ErrInvalidConn)

	card, err := d.Card.FindById(context.Background(), 5)
	assert.Nil(t, card)
	assert.True(t, errorc.IsUnavailable(err))
}

func TestMysql_DeleteNothingIsNotFound(t *testing.T) {
	d, mock := setupMock(t)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM `Recensione` WHERE `idRecensione` = ?")).
		WithArgs(int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := d.Review.DeleteById(context.Background(), 3)
	assert.True(t, errorc.IsNotFound(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMysql_UpdateWritesEveryColumn(t *testing.T) {
	d, mock := setupMock(t)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE `Carta` SET `nome`=?,`espansione`=?,`rarita`=?,`descrizione`=?,`immagine`=? WHERE `idCarta` = ?")).
		WithArgs("Mew", "", "", "", "", int64(8)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	rows, err := d.Card.UpdateById(context.Background(), 8, &model.Card{Name: "Mew"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), rows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMysql_FindInUserCartQuery(t *testing.T) {
	d, mock := setupMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT * FROM `Offerta` WHERE `idOfferta` IN (SELECT `idOfferta` FROM `CarrelloContieneOfferta` WHERE `idCarrello` IN (SELECT `idCarrello` FROM `Carrello` WHERE `idUtente` = ?)) ORDER BY `idOfferta`")).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"idOfferta", "condizione", "prezzo", "idUtente", "idCarta"}).
			AddRow(int64(3), "nuovo", 10.0, int64(1), int64(5)))

	offers, err := d.Offer.FindInUserCart(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, offers, 1)
	assert.Equal(t, &model.Offer{ID: 3, Condition: "nuovo", Price: 10, UserID: 1, CardID: 5}, offers[0])
	assert.NoError(t, mock.ExpectationsWereMet())
}
