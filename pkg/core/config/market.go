package config

// MarketConfig 交易市场的业务参数
type MarketConfig struct {
	// CheckoutLockTTL 结算时用户锁的有效期，单位秒
	CheckoutLockTTL int `yaml:"checkout-lock-ttl"`
	// CardCacheTTL 卡牌缓存有效期，单位秒
	CardCacheTTL int `yaml:"card-cache-ttl"`
	// KeepaliveCron 数据库保活任务的 cron 表达式，为空时不启动
	KeepaliveCron string `yaml:"keepalive-cron"`
	// AdminEmails 登录后授予实体管理权限的邮箱
	AdminEmails []string `yaml:"admin-emails"`
}
