package config

import (
	"bytes"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type AppCfg struct {
	Name string
	Env  string
	Host string
	Port int
}

type LogCfg struct {
	Level string
}

type DBCfg struct {
	Driver             string // postgres | sqlite
	DSN                string
	MaxOpen            int
	MaxIdle            int
	ConnMaxLifetimeSec int
	AutoMigrate        bool
	Locked             bool // refuse inserts and updates; deletes still run
}

type RedisCfg struct {
	Addr     string
	Password string
	DB       int
	PoolSize int
}

type MQCfg struct {
	URL      string
	Exchange string
}

type AuthCfg struct {
	JWTSecret   string
	Issuer      string
	TokenTTLSec int
}

type CoreCfg struct {
	BaseURL    string
	TimeoutSec int
}

type FilterCfg struct {
	Validator   string // core | syntax
	CacheTTLSec int
}

type TelemetryCfg struct {
	Enabled      bool
	OtlpEndpoint string
	SampleRatio  float64
}

type Config struct {
	App       AppCfg
	Log       LogCfg
	Database  DBCfg
	Redis     RedisCfg
	RabbitMQ  MQCfg
	Auth      AuthCfg
	Core      CoreCfg
	Filter    FilterCfg
	Telemetry TelemetryCfg
}

func (c FilterCfg) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSec) * time.Second
}

func (c CoreCfg) Timeout() time.Duration {
	if c.TimeoutSec <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.TimeoutSec) * time.Second
}

func (c AuthCfg) TokenTTL() time.Duration {
	return time.Duration(c.TokenTTLSec) * time.Second
}

func Load() (*Config, error) {
	// .env is optional; real environment variables win over it
	_ = godotenv.Load()

	base := viper.New()
	base.SetConfigName("config")
	base.SetConfigType("yaml")
	base.AddConfigPath("./configs")
	base.AddConfigPath(".")
	bindEnv(base)

	// First assign a default value (effective regardless of whether there is a file or not)
	setDefaults(base)

	// Read the file (if any)
	if err := base.ReadInConfig(); err == nil {
		// After finding the file, manually perform one expansion of ${ENV}, and then parse it.
		path := base.ConfigFileUsed()
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		expanded := os.ExpandEnv(string(raw))

		// Load the expanded content with a new viper and copy the env settings.
		v := viper.New()
		v.SetConfigType("yaml")
		if err := v.ReadConfig(bytes.NewBufferString(expanded)); err != nil {
			return nil, err
		}
		bindEnv(v)
		setDefaults(v)

		cfg := new(Config)
		if err := v.Unmarshal(&cfg); err != nil {
			return nil, err
		}
		return cfg, nil
	}

	// No files are also allowed, using only env + default values
	cfg := new(Config)
	if err := base.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// bindEnv maps APP_<SECTION>_<KEY> onto section.key, e.g. APP_DATABASE_DSN -> database.dsn.
func bindEnv(v *viper.Viper) {
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetEnvPrefix("APP")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "phoenix-views")
	v.SetDefault("app.env", "debug")
	v.SetDefault("app.host", "0.0.0.0")
	v.SetDefault("app.port", 8080)
	v.SetDefault("log.level", "info")
	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.dsn", "")
	v.SetDefault("database.maxOpen", 20)
	v.SetDefault("database.maxIdle", 10)
	v.SetDefault("database.connMaxLifetimeSec", 3600)
	v.SetDefault("database.autoMigrate", false)
	v.SetDefault("database.locked", false)
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.poolSize", 10)
	v.SetDefault("rabbitmq.url", "")
	v.SetDefault("rabbitmq.exchange", "phoenix.saved_views")
	v.SetDefault("auth.jwtSecret", "")
	v.SetDefault("auth.issuer", "phoenix")
	v.SetDefault("auth.tokenTTLSec", 86400)
	v.SetDefault("core.baseURL", "")
	v.SetDefault("core.timeoutSec", 10)
	v.SetDefault("filter.validator", "syntax")
	v.SetDefault("filter.cacheTTLSec", 300)
	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.otlpEndpoint", "")
	v.SetDefault("telemetry.sampleRatio", 1.0)
}
