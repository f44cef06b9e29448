package start

import (
	"cardmarket/pkg/core/config"
	"cardmarket/pkg/core/logger"
	"cardmarket/pkg/core/security"
	"cardmarket/pkg/core/tracer"
	"fmt"
	"net"
	"time"

	"github.com/bsm/redislock"
	"github.com/go-redis/cache/v9"
	"github.com/redis/go-redis/v9"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

type Config struct {
	AppName  string              `yaml:"app-name"`
	Env      string              `yaml:"env"`
	Host     string              `yaml:"host"`
	Port     int                 `yaml:"port"`
	Jwt      config.JwtConfig    `yaml:"jwt"`
	Redis    config.RedisConfig  `yaml:"redis"`
	Database config.Database     `yaml:"db"`
	Proxy    config.ProxyConfig  `yaml:"proxy"`
	RocketMQ config.RocketMQ     `yaml:"rocketmq"`
	Zipkin   config.ZipkinConfig `yaml:"zipkin"`
	Log      config.LogConfig    `yaml:"log"`
	Market   config.MarketConfig `yaml:"market"`
}

type Configures struct {
	Config   Config
	Logger   *logger.Log
	UserAuth *security.UserAuth
}

func NewConfigures(file []byte, env string) *Configures {
	cfg, err := ParseConfig(file)
	if err != nil {
		panic(fmt.Sprintf("读取文件信息失败，因为%v", err))
	}

	cfg.Env = env
	cfg.Host, _ = getLocalIP()

	level := cfg.Log.Level
	if level == "" {
		level = "debug"
	}

	c := &Configures{
		Config: cfg,
		Logger: logger.InitLogger(level),
	}

	c.UserAuth = c.EnableUserAuth()

	return c
}

// ParseConfig 解析 YAML 配置并补齐默认值
func ParseConfig(file []byte) (Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(file, &cfg); err != nil {
		return cfg, err
	}
	if cfg.AppName == "" {
		cfg.AppName = "cardmarket"
	}
	if cfg.Port == 0 {
		cfg.Port = 8080
	}
	if cfg.Database.Driver == "" {
		cfg.Database.Driver = "mysql"
	}
	if cfg.Market.CheckoutLockTTL <= 0 {
		cfg.Market.CheckoutLockTTL = 10
	}
	if cfg.Market.CardCacheTTL <= 0 {
		cfg.Market.CardCacheTTL = 300
	}
	if cfg.RocketMQ.Topic == "" {
		cfg.RocketMQ.Topic = "market_entity_change"
	}
	return cfg, nil
}

// getLocalIP 获取本机IP地址（优先获取内网IP）
func getLocalIP() (string, error) {
	addrs, err := net.InterfaceAddrs()
	if err != nil {
		return "", err
	}

	for _, addr := range addrs {
		if ipnet, ok := addr.(*net.IPNet); ok && !ipnet.IP.IsLoopback() {
			if ipnet.IP.To4() != nil && ipnet.IP.IsPrivate() {
				return ipnet.IP.String(), nil
			}
		}
	}

	// 如果没找到内网IP，返回第一个非回环地址
	for _, addr := range addrs {
		if ipnet, ok := addr.(*net.IPNet); ok && !ipnet.IP.IsLoopback() {
			if ipnet.IP.To4() != nil {
				return ipnet.IP.String(), nil
			}
		}
	}

	return "127.0.0.1", nil
}

func (c *Configures) EnableUserAuth() *security.UserAuth {
	expire := c.Config.Jwt.ExpireTime
	if expire <= 0 {
		expire = 24
	}
	return security.NewUserAuth([]byte(c.Config.Jwt.Secret), time.Duration(expire)*time.Hour)
}

// EnableRedis 未配置 Redis 时返回 nil，依赖 Redis 的功能自动降级
func (c *Configures) EnableRedis() redis.UniversalClient {
	if c.Config.Redis.Host == "" {
		return nil
	}
	return config.InitRDB(c.Config.Redis, c.Config.Proxy)
}

func (c *Configures) EnableCache(rdb redis.UniversalClient) *cache.Cache {
	return config.InitCache(rdb)
}

func (c *Configures) EnableLocker(rdb redis.UniversalClient) *redislock.Client {
	if rdb == nil {
		return nil
	}
	return redislock.New(rdb)
}

// EnableTracer 配置了 zipkin 时使用 zipkin，否则只生成 TraceID
func (c *Configures) EnableTracer() tracer.Tracer {
	if !c.Config.Zipkin.Enable {
		return tracer.NewSimpleTracer()
	}
	zt, err := config.InitZipkin(c.Config.Zipkin, c.Config.AppName, c.Config.Host)
	if err != nil {
		c.Logger.WithErr(err).Warn("zipkin 初始化失败，使用简单追踪")
		return tracer.NewSimpleTracer()
	}
	return tracer.NewZipkinTracer(zt, c.Config.AppName)
}

// EnableDB 按配置的驱动建立连接
func (c *Configures) EnableDB() *gorm.DB {
	if c.Config.Database.Driver == "postgres" {
		return c.EnablePg()
	}
	return c.EnableMysql()
}

func (c *Configures) EnablePg() *gorm.DB {
	db, err := config.InitPg(c.Config.Database, c.Config.Proxy)
	if err != nil {
		c.Logger.WithField("database", c.Config.Database.Host).WithField("err", err).Panic("failed connect database")
	}
	c.Logger.Info("connect database success")
	return db
}

func (c *Configures) EnableMysql() *gorm.DB {
	db, err := config.InitMysql(c.Config.Database, c.Config.Proxy)
	if err != nil {
		c.Logger.WithField("database", c.Config.Database.Host).WithField("err", err).Panic("failed connect database")
	}
	c.Logger.Info("connect database success")
	return db
}
