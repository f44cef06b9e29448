package config

import (
	"context"
	"fmt"
	"net"
	"time"

	mysqldriver "github.com/go-sql-driver/mysql"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Database struct {
	Driver   string `yaml:"driver" json:"driver,omitempty"`
	Host     string `yaml:"host" json:"host,omitempty"`
	Port     int64  `yaml:"port" json:"port,omitempty"`
	User     string `yaml:"user" json:"user,omitempty"`
	Password string `yaml:"password" json:"password,omitempty"`
	DbName   string `yaml:"db-name" json:"db-name,omitempty"`
	MaxIdle  int    `yaml:"max-idle" json:"max-idle,omitempty"`
	MaxOpen  int    `yaml:"max-open" json:"max-open,omitempty"`
	// MaxLifetime 连接最长存活时间，单位分钟
	MaxLifetime int `yaml:"max-lifetime" json:"max-lifetime,omitempty"`
}

// GormConfig 所有驱动共用的 gorm 配置，驱动错误统一翻译成 gorm.ErrDuplicatedKey 等
func GormConfig() *gorm.Config {
	return &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
	}
}

func InitPg(database Database, proxyConfig ProxyConfig) (*gorm.DB, error) {
	// 构建DSN
	dsn := fmt.Sprintf("host=%s port=%d user=%s dbname=%s sslmode=disable password=%s",
		database.Host, database.Port, database.User, database.DbName, database.Password)

	// PostgreSQL的驱动不直接支持自定义dialer，代理需要在网络层面配置
	db, err := gorm.Open(postgres.Open(dsn), GormConfig())
	if err != nil {
		return nil, err
	}
	return db, configurePool(db, database)
}

// InitMysql clientFoundRows=true 让 UPDATE 返回匹配行数，写入相同值时不会被误判为记录不存在
func InitMysql(database Database, proxyConfig ProxyConfig) (*gorm.DB, error) {
	network := "tcp"
	if proxyConfig.Enabled {
		// 注册自定义dialer到MySQL驱动
		network = fmt.Sprintf("proxy_%d", time.Now().UnixNano())
		dialer := proxyConfig.GetContextDialer()

		mysqldriver.RegisterDialContext(network, func(ctx context.Context, addr string) (net.Conn, error) {
			return dialer(ctx, "tcp", addr)
		})
	}

	dsn := fmt.Sprintf("%s:%s@%s(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local&clientFoundRows=true",
		database.User, database.Password, network, database.Host, database.Port, database.DbName)

	db, err := gorm.Open(mysql.Open(dsn), GormConfig())
	if err != nil {
		return nil, err
	}
	return db, configurePool(db, database)
}

func configurePool(db *gorm.DB, database Database) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}

	maxIdle, maxOpen, lifetime := 10, 100, time.Hour
	if database.MaxIdle > 0 {
		maxIdle = database.MaxIdle
	}
	if database.MaxOpen > 0 {
		maxOpen = database.MaxOpen
	}
	if database.MaxLifetime > 0 {
		lifetime = time.Duration(database.MaxLifetime) * time.Minute
	}
	sqlDB.SetMaxIdleConns(maxIdle)
	sqlDB.SetMaxOpenConns(maxOpen)
	sqlDB.SetConnMaxLifetime(lifetime)
	return nil
}
