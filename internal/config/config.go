package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/RoyceAzure/lab/qkart/internal/constants"
	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	viper "github.com/spf13/viper"
)

/*
把init跟read分開
init : 需要設置viper watch 與 onConfigChange
read : 一般讀取  需要使用讀寫鎖
*/
var config_siongleton *ConfigSingleTon
var muonce sync.Once

type ConfigSingleTon struct {
	Config *Config
	mu     sync.RWMutex
}

type Config struct {
	ModulerName                string `mapstructure:"MODULER_NAME"`
	Env                        string `mapstructure:"ENV"`
	ServerPort                 string `mapstructure:"SERVER_PORT"`
	LogLevel                   string `mapstructure:"LOG_LEVEL"`
	StoreDriver                string `mapstructure:"STORE_DRIVER"`
	MongoUri                   string `mapstructure:"MONGO_URI"`
	MongoDb                    string `mapstructure:"MONGO_DB"`
	MongoTransactions          bool   `mapstructure:"MONGO_TRANSACTIONS"`
	DbName                     string `mapstructure:"POSTGRES_DB"`
	DbHost                     string `mapstructure:"POSTGRES_HOST"`
	DbPort                     string `mapstructure:"POSTGRES_PORT"`
	DbUser                     string `mapstructure:"POSTGRES_USER"`
	DbPas                      string `mapstructure:"POSTGRES_PASSWORD"`
	JwtSecret                  string `mapstructure:"JWT_SECRET"`
	JwtAccessExpirationMinutes int    `mapstructure:"JWT_ACCESS_EXPIRATION_MINUTES"`
	JwtRefreshExpirationDays   int    `mapstructure:"JWT_REFRESH_EXPIRATION_DAYS"`
	DefaultWalletMoney         string `mapstructure:"DEFAULT_WALLET_MONEY"`
	ProductsSeedFile           string `mapstructure:"PRODUCTS_SEED_FILE"`
	RateLimitCapacity          int    `mapstructure:"RATE_LIMIT_CAPACITY"`
	RateLimitRatePS            int    `mapstructure:"RATE_LIMIT_RATE_PS"`
	RedisAddr                  string `mapstructure:"REDIS_ADDR"`
	RedisPassword              string `mapstructure:"REDIS_PASSWORD"`
	KafkaLogBrokers            string `mapstructure:"KAFKA_LOG_BROKERS"`
	KafkaLogTopic              string `mapstructure:"KAFKA_LOG_TOPIC"`
}

var defaults = map[string]interface{}{
	"MODULER_NAME":                  "qkart",
	"ENV":                           string(constants.Dev),
	"SERVER_PORT":                   "8082",
	"LOG_LEVEL":                     "info",
	"STORE_DRIVER":                  string(constants.MongoDriver),
	"MONGO_URI":                     "mongodb://127.0.0.1:27017",
	"MONGO_DB":                      "qkart",
	"MONGO_TRANSACTIONS":            false,
	"POSTGRES_DB":                   "qkart",
	"POSTGRES_HOST":                 "127.0.0.1",
	"POSTGRES_PORT":                 "5432",
	"POSTGRES_USER":                 "postgres",
	"POSTGRES_PASSWORD":             "",
	"JWT_SECRET":                    "",
	"JWT_ACCESS_EXPIRATION_MINUTES": 240,
	"JWT_REFRESH_EXPIRATION_DAYS":   30,
	"DEFAULT_WALLET_MONEY":          "5000",
	"PRODUCTS_SEED_FILE":            "",
	"RATE_LIMIT_CAPACITY":           20,
	"RATE_LIMIT_RATE_PS":            1,
	"REDIS_ADDR":                    "",
	"REDIS_PASSWORD":                "",
	"KAFKA_LOG_BROKERS":             "",
	"KAFKA_LOG_TOPIC":               "qkart-log",
}

func GetConfig() *Config {
	initConfig()
	config_siongleton.mu.RLock()
	defer config_siongleton.mu.RUnlock()
	return config_siongleton.Config
}

func initConfig() {
	if config_siongleton == nil {
		muonce.Do(func() {
			config_siongleton = &ConfigSingleTon{}
			v := viper.New()
			cf, err := LoadConfig(v, configFile())
			if err != nil {
				log.Fatal().Err(err).Msg("error read config")
			}
			config_siongleton.Config = cf

			if v.ConfigFileUsed() == "" {
				return
			}
			v.OnConfigChange(func(e fsnotify.Event) {
				cf, err := unmarshal(v)
				if err != nil {
					log.Error().Err(err).Str("file", e.Name).Msg("failed to reload config file")
					return
				}
				config_siongleton.mu.Lock()
				config_siongleton.Config = cf
				config_siongleton.mu.Unlock()
				log.Info().Str("file", e.Name).Msg("config reloaded")
			})
			v.WatchConfig()
		})
	}
}

func configFile() string {
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		return path
	}
	return ".env"
}

/*
單純回傳錯誤  由外部決定要不要Fatal, 畢竟有可能有替代方案
設定檔不存在時只讀環境變數
*/
func LoadConfig(v *viper.Viper, path string) (*Config, error) {
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			v.SetConfigType("env")
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("read config file %s: %w", path, err)
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}
	return unmarshal(v)
}

func unmarshal(v *viper.Viper) (*Config, error) {
	cf := &Config{}
	if err := v.Unmarshal(cf); err != nil {
		return nil, err
	}
	if err := cf.Validate(); err != nil {
		return nil, err
	}
	return cf, nil
}

func (cf *Config) Validate() error {
	switch constants.StoreDriver(cf.StoreDriver) {
	case constants.MongoDriver, constants.PostgresDriver, constants.MemoryDriver:
	default:
		return fmt.Errorf("unsupported STORE_DRIVER %q", cf.StoreDriver)
	}
	if _, err := decimal.NewFromString(cf.DefaultWalletMoney); err != nil {
		return fmt.Errorf("invalid DEFAULT_WALLET_MONEY %q: %w", cf.DefaultWalletMoney, err)
	}
	if cf.JwtAccessExpirationMinutes <= 0 || cf.JwtRefreshExpirationDays <= 0 {
		return errors.New("token expiration must be positive")
	}
	return nil
}

func (cf *Config) DefaultWallet() decimal.Decimal {
	return decimal.RequireFromString(cf.DefaultWalletMoney)
}

func (cf *Config) AccessTokenDuration() time.Duration {
	return time.Duration(cf.JwtAccessExpirationMinutes) * time.Minute
}

func (cf *Config) RefreshTokenDuration() time.Duration {
	return time.Duration(cf.JwtRefreshExpirationDays) * 24 * time.Hour
}

func (cf *Config) PostgresDSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", cf.DbUser, cf.DbPas, cf.DbHost, cf.DbPort, cf.DbName)
}

func (cf *Config) KafkaBrokers() []string {
	var brokers []string
	for _, b := range strings.Split(cf.KafkaLogBrokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}
