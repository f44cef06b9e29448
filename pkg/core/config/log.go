package config

type LogConfig struct {
	Level string `yaml:"level"`
	// SlowSqlMs 超过该耗时的 SQL 记为慢查询
	SlowSqlMs int `yaml:"slow-sql-ms"`
	// SqlDebug 打印全部 SQL
	SqlDebug bool `yaml:"sql-debug"`
}
