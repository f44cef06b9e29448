package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"cardmarket/app"
	"cardmarket/base"
	"cardmarket/pkg/core/consts"
	"cardmarket/pkg/core/rocketmq"
	"cardmarket/pkg/core/start"
	"cardmarket/pkg/core/system"
	"cardmarket/pkg/db"
	"cardmarket/router"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	env, filename := getBaseInfo()

	file, err := os.ReadFile(filename)
	if err != nil {
		panic(fmt.Sprintf("读取配置文件失败,因为：%v", err))
	}

	configures := start.NewConfigures(file, env)
	base.Configures = configures
	base.Logger = configures.Logger
	base.ENV = env
	base.UserAuth = configures.UserAuth
	base.Tracer = configures.EnableTracer()

	base.DB = configures.EnableDB()

	zapLogger, err := createZapLogger(env)
	if err != nil {
		configures.Logger.Panic(fmt.Sprintf("创建 zap logger 失败: %v", err))
	}
	logCfg := configures.Config.Log
	if err := base.DB.Use(db.NewGORMMonitorPlugin(db.GORMMonitorConfig{
		UserPackage:   "cardmarket",
		TraceKey:      consts.TraceKey,
		Logger:        zapLogger.Named("gorm_monitor"),
		SlowThreshold: time.Duration(logCfg.SlowSqlMs) * time.Millisecond,
		Debug:         logCfg.SqlDebug,
	})); err != nil {
		configures.Logger.Panic(fmt.Sprintf("注册 SQL 监控插件失败: %v", err))
	}

	// 执行数据库迁移
	if err := db.AutoMigrate(base.DB); err != nil {
		configures.Logger.Panic(fmt.Sprintf("数据库迁移失败: %v", err))
	}
	system.RegisterClose("database", func() error {
		sqlDB, err := base.DB.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	})

	base.RDB = configures.EnableRedis()
	if base.RDB != nil {
		system.RegisterClose("redis", base.RDB.Close)
	}
	base.Cache = configures.EnableCache(base.RDB)
	base.Locker = configures.EnableLocker(base.RDB)

	base.MQ, err = rocketmq.NewRocketMQManager(env, configures.Config.RocketMQ, base.RDB)
	if err != nil {
		configures.Logger.Panic(fmt.Sprintf("初始化 RocketMQ 失败: %v", err))
	}
	system.RegisterClose("rocketmq", base.MQ.Shutdown)

	if spec := configures.Config.Market.KeepaliveCron; spec != "" {
		c, err := db.StartKeepalive(base.DB, spec)
		if err != nil {
			configures.Logger.Panic(fmt.Sprintf("添加数据库保活任务失败: %v", err))
		}
		system.RegisterClose("keepalive", func() error {
			<-c.Stop().Done()
			return nil
		})
		base.Logger.Info("已启动数据库保活任务: " + spec)
	}

	// 创建应用组合根
	appRoot := app.NewApp()
	if err := appRoot.Start(); err != nil {
		configures.Logger.Panic(fmt.Sprintf("启动组件失败: %v", err))
	}

	// 创建 Fiber 应用
	fiberApp := app.GetApp()

	// 注册路由
	router.Register(appRoot, fiberApp)

	system.RegisterClose("fiber", fiberApp.Shutdown)
	system.WatchSignal()

	if err := fiberApp.Listen(fmt.Sprintf(":%d", configures.Config.Port)); err != nil {
		base.Logger.WithErr(err).Error("HTTP 服务退出")
	}
	system.Shutdown()
}

func getBaseInfo() (string, string) {
	// 定义命令行参数
	env := flag.String("env", "dev", "环境配置 (dev, prod, test等)")
	configFile := flag.String("config", "", "配置文件路径，默认为 ./resources/{env}.yaml")

	flag.Parse()

	// 如果没有指定配置文件路径，则使用默认路径
	var filename string
	if *configFile == "" {
		getwd, err := os.Getwd()
		if err != nil {
			panic(fmt.Sprintf("获取当前文件位置失败,因为：%v", err))
		}
		filename = getwd + "/resources/" + *env + ".yaml"
	} else {
		filename = *configFile
	}
	return *env, filename
}

// createZapLogger 创建 SQL 监控使用的 zap logger
func createZapLogger(env string) (*zap.Logger, error) {
	var config zap.Config

	if env == consts.EnvProd {
		config = zap.NewProductionConfig()
		config.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	} else {
		config = zap.NewDevelopmentConfig()
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}

	// 设置时间格式
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return config.Build()
}
