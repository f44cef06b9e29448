package config

type JwtConfig struct {
	Secret string `yaml:"secret" json:"secret,omitempty"`
	// ExpireTime token 有效期，单位小时
	ExpireTime int `yaml:"expire-time" json:"expire-time,omitempty"`
}
