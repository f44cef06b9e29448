package errorc

import (
	"context"
	"database/sql/driver"
	"errors"
	"net"

	"github.com/go-sql-driver/mysql"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

var notfounds = []error{gorm.ErrRecordNotFound, redis.Nil}

// 约束冲突：唯一键、外键、检查约束
var conflicts = []error{gorm.ErrDuplicatedKey, gorm.ErrForeignKeyViolated, gorm.ErrCheckConstraintViolated}

// 连接类故障
var unavailables = []error{driver.ErrBadConn, mysql.ErrInvalidConn, context.DeadlineExceeded}

// MySQL 错误号：1062 唯一键冲突，1451/1452 外键约束，3819 检查约束
var mysqlConflictNumbers = map[uint16]struct{}{
	1062: {},
	1451: {},
	1452: {},
	3819: {},
}

func getErrCode(err error) *ErrorCode {
	if err == nil {
		return ErrorCodeUnknown
	}

	var e *Error
	if errors.As(err, &e) && e.ErrorCode != nil {
		return e.ErrorCode
	}

	for _, target := range notfounds {
		if errors.Is(err, target) {
			return ErrorCodeNotFound
		}
	}

	for _, target := range conflicts {
		if errors.Is(err, target) {
			return ErrorCodeConflict
		}
	}

	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		if _, ok := mysqlConflictNumbers[mysqlErr.Number]; ok {
			return ErrorCodeConflict
		}
	}

	for _, target := range unavailables {
		if errors.Is(err, target) {
			return ErrorCodeUnavailable
		}
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return ErrorCodeUnavailable
	}

	return ErrorCodeUnknown
}
