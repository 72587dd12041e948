package config

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Log       Logger          `mapstructure:"logger"`
	DB        Database        `mapstructure:"database"`
	API       API             `mapstructure:"api"`
	Scheduler Scheduler       `mapstructure:"scheduler"`
	Screener  Screener        `mapstructure:"screener"`
	Watchlist WatchlistConfig `mapstructure:"watchlist"`
	Cache     Cache           `mapstructure:"cache"`
}

type Logger struct {
	Level    string `mapstructure:"level"`
	Encoding string `mapstructure:"encoding"`
}

type Database struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	DBName          string `mapstructure:"name"`
	SSLMode         string `mapstructure:"ssl_mode"`
	TimeZone        string `mapstructure:"time_zone"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime string `mapstructure:"conn_max_lifetime"`
	LogLevel        string `mapstructure:"log_level"`
}

type API struct {
	Port int `mapstructure:"port"`
}

type Scheduler struct {
	MaxConcurrency  int           `mapstructure:"max_concurrency"`
	TimeoutDuration time.Duration `mapstructure:"timeout_duration"`
	AfterMarketCron string        `mapstructure:"after_market_cron"`
	PriceUpdateCron string        `mapstructure:"price_update_cron"`
	CleanupCron     string        `mapstructure:"cleanup_cron"`
}

// Screener holds the candidate-admission thresholds. Defaults mirror the
// production values: 25% drop from the 52-week high, recovered to at least
// 70% of it, 1.5x average volume, and an absolute price floor of 85.
type Screener struct {
	PriceDropThreshold      float64 `mapstructure:"price_drop_threshold"`
	RecoveryThreshold       float64 `mapstructure:"recovery_threshold"`
	VolumeIncreaseThreshold float64 `mapstructure:"volume_increase_threshold"`
	MinPrice                float64 `mapstructure:"min_price"`
	LookbackDays            int     `mapstructure:"lookback_days"`
}

type WatchlistConfig struct {
	RetentionDays int  `mapstructure:"retention_days"`
	DefaultUserID uint `mapstructure:"default_user_id"`
}

type Cache struct {
	DefaultExpiration time.Duration `mapstructure:"default_expiration"`
	CleanupInterval   time.Duration `mapstructure:"cleanup_interval"`
	BreakoutTTL       time.Duration `mapstructure:"breakout_ttl"`
}

func Load() (*Config, error) {
	// Local development convenience; ignored when no .env file exists.
	_ = godotenv.Load()

	viper.SetConfigType("yaml")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.encoding", "json")
	viper.SetDefault("api.port", 8080)
	viper.SetDefault("scheduler.max_concurrency", 8)
	viper.SetDefault("scheduler.timeout_duration", 10*time.Minute)
	viper.SetDefault("scheduler.after_market_cron", "15 16 * * 1-5")
	viper.SetDefault("scheduler.price_update_cron", "*/15 9-16 * * 1-5")
	viper.SetDefault("scheduler.cleanup_cron", "0 5 * * *")
	viper.SetDefault("screener.price_drop_threshold", 0.25)
	viper.SetDefault("screener.recovery_threshold", 0.70)
	viper.SetDefault("screener.volume_increase_threshold", 1.5)
	viper.SetDefault("screener.min_price", 85.0)
	viper.SetDefault("screener.lookback_days", 365)
	viper.SetDefault("watchlist.retention_days", 90)
	viper.SetDefault("watchlist.default_user_id", 1)
	viper.SetDefault("cache.default_expiration", 5*time.Minute)
	viper.SetDefault("cache.cleanup_interval", 10*time.Minute)
	viper.SetDefault("cache.breakout_ttl", 5*time.Minute)

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
