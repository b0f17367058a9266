package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Cfg 全局可访问的配置实例
var Cfg *Config

// LoadConfig 从文件加载配置并填充到 Cfg
func LoadConfig() error {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")

	viper.SetEnvPrefix("LIGHTHOUSE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFoundError) {
			return fmt.Errorf("config file not found: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}

	Cfg = &cfg

	return nil
}

func setDefaults() {
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("worker.offline_timeout", 300)
	viper.SetDefault("worker.token_ttl", 24)
	viper.SetDefault("worker.probe_timeout", 5)
	viper.SetDefault("worker.probe_spec", "*/30 * * * * *")
	viper.SetDefault("worker.sweep_spec", "0 * * * * *")
	viper.SetDefault("analytics.default_timezone", "Asia/Ho_Chi_Minh")
	viper.SetDefault("analytics.cache_ttl", 600)
	viper.SetDefault("analytics.backfill_spec", "0 */10 * * * *")
	viper.SetDefault("analytics.backfill_batch", 200)
}
