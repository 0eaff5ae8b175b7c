package config

import (
	"errors"
	"sync"

	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/viper"
)

var (
	instance Config
	once     sync.Once
)

// Init 加载配置：先读 config.yaml，再用环境变量覆盖
func Init() {
	once.Do(func() {
		v := viper.New()
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")

		if err := v.ReadInConfig(); err != nil {
			// 配置文件缺失时允许纯环境变量启动
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				panic(err)
			}
		} else if err := v.Unmarshal(&instance); err != nil {
			panic(err)
		}

		if err := envconfig.Process("", &instance); err != nil {
			panic(err)
		}

		setDefaults(&instance)
	})
}

func setDefaults(c *Config) {
	if c.Host == "" {
		c.Host = "0.0.0.0"
	}
	if c.Port == "" {
		c.Port = "8080"
	}
	if c.Prefix == "" {
		c.Prefix = "api"
	}
	if c.Mode == "" {
		c.Mode = ModeDebug
	}
	if c.JWT.AccessExpire <= 0 {
		c.JWT.AccessExpire = 7 * 24 * 3600
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// Get 获取全局配置，未 Init 时返回默认值（测试场景）
func Get() *Config {
	once.Do(func() {
		setDefaults(&instance)
	})
	return &instance
}
