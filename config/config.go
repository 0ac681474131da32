package config

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"
	"github.com/stripe/stripe-go/v79/client"
	"go.uber.org/zap"

	"goflare.io/ember"
	emberConfig "goflare.io/ember/config"
	"goflare.io/ignite"

	"github.com/Jaysins/ohship-tenant-sub001/checkout_session"
	"github.com/Jaysins/ohship-tenant-sub001/driver"
	"github.com/Jaysins/ohship-tenant-sub001/location"
	"github.com/Jaysins/ohship-tenant-sub001/payment_method"
)

const (
	ServerStartPort = ":8080"

	SessionDriverMemory   = "memory"
	SessionDriverRedis    = "redis"
	SessionDriverPostgres = "postgres"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Backend  BackendConfig  `mapstructure:"backend"`
	Session  SessionConfig  `mapstructure:"session"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Postgres PostgresConfig `mapstructure:"postgres"`
	Stripe   StripeConfig   `mapstructure:"stripe"`
	Checkout CheckoutConfig `mapstructure:"checkout"`
	Log      LogConfig      `mapstructure:"log"`
}

type ServerConfig struct {
	Address string `mapstructure:"address"`
}

type BackendConfig struct {
	BaseURL  string        `mapstructure:"base_url"`
	TenantID string        `mapstructure:"tenant_id"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

type SessionConfig struct {
	Driver     string        `mapstructure:"driver"`
	CookieName string        `mapstructure:"cookie_name"`
	TTL        time.Duration `mapstructure:"ttl"`
	// IdleTimeout evicts wizards of sessions that stopped making requests.
	IdleTimeout time.Duration `mapstructure:"idle_timeout"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type PostgresConfig struct {
	URL string `mapstructure:"url"`
}

type StripeConfig struct {
	SecretKey  string `mapstructure:"secret_key"`
	SuccessURL string `mapstructure:"success_url"`
	CancelURL  string `mapstructure:"cancel_url"`
}

type CheckoutConfig struct {
	DefaultCurrency             string `mapstructure:"default_currency"`
	RequireDeclaredValueOnQuote bool   `mapstructure:"require_declared_value_on_quote"`
}

type LogConfig struct {
	Development bool `mapstructure:"development"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.address", ServerStartPort)
	v.SetDefault("backend.base_url", "http://localhost:8000/api/v1")
	v.SetDefault("backend.tenant_id", "")
	v.SetDefault("backend.timeout", 30*time.Second)
	v.SetDefault("session.driver", SessionDriverMemory)
	v.SetDefault("session.cookie_name", "ohship_checkout")
	v.SetDefault("session.ttl", 2*time.Hour)
	v.SetDefault("session.idle_timeout", 2*time.Hour)
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("postgres.url", "")
	v.SetDefault("stripe.secret_key", "")
	v.SetDefault("stripe.success_url", "")
	v.SetDefault("stripe.cancel_url", "")
	v.SetDefault("checkout.default_currency", "USD")
	v.SetDefault("checkout.require_declared_value_on_quote", false)
	v.SetDefault("log.development", false)
}

// Load reads config.yaml from dir when present; OHSHIP_* environment
// variables override file values (OHSHIP_BACKEND_BASE_URL, ...).
func Load(dir string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)
	v.SetEnvPrefix("OHSHIP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func (c *Config) validate() error {
	switch c.Session.Driver {
	case SessionDriverMemory:
	case SessionDriverRedis:
		if c.Redis.Addr == "" {
			return errors.New("session driver redis requires redis.addr")
		}
	case SessionDriverPostgres:
		if c.Postgres.URL == "" {
			return errors.New("session driver postgres requires postgres.url")
		}
	default:
		return fmt.Errorf("unknown session driver %q", c.Session.Driver)
	}
	if c.Backend.BaseURL == "" {
		return errors.New("backend.base_url is required")
	}
	return nil
}

func ProvideApplicationConfig() (*Config, error) {
	return Load(".")
}

// ProvideRedis connects when redis.addr is set and returns nil otherwise.
func ProvideRedis(appConfig *Config) (*redis.Client, error) {
	if appConfig.Redis.Addr == "" {
		return nil, nil
	}
	return driver.ConnectRedis(appConfig.Redis.Addr, appConfig.Redis.Password, appConfig.Redis.DB)
}

// ProvideEmber backs the lookup cache with redis, or disables caching
// when redis is not configured.
func ProvideEmber(conn *redis.Client, logger *zap.Logger) (driver.Cache, error) {
	if conn == nil {
		logger.Info("redis not configured, lookup cache disabled")
		return driver.NopCache{}, nil
	}

	config := emberConfig.NewConfig()
	cache, err := ember.NewMultiCache(context.Background(), &config, conn)
	if err != nil {
		logger.Error("failed to create cache", zap.Error(err))
		return nil, fmt.Errorf("failed to create cache: %w", err)
	}

	return driver.NewCache(cache), nil
}

func ProvideIgnite() ignite.Manager {
	return ignite.NewManager()
}

func ProvideAPIClient(appConfig *Config, buffers driver.BufferPool, logger *zap.Logger) driver.APIClient {
	return driver.NewAPIClient(driver.ClientOptions{
		BaseURL:  appConfig.Backend.BaseURL,
		TenantID: appConfig.Backend.TenantID,
		Timeout:  appConfig.Backend.Timeout,
	}, buffers, logger)
}

func ProvideTenantID(appConfig *Config) string {
	return appConfig.Backend.TenantID
}

// ProvideSessionProvider picks the transient state backend.
func ProvideSessionProvider(appConfig *Config, conn *redis.Client, logger *zap.Logger) (checkout_session.Provider, error) {
	switch appConfig.Session.Driver {
	case SessionDriverRedis:
		if conn == nil {
			return nil, errors.New("session driver redis requires a redis connection")
		}
		return checkout_session.NewRedisProvider(conn, appConfig.Session.TTL), nil

	case SessionDriverPostgres:
		db, err := driver.ConnectSQL(appConfig.Postgres.URL)
		if err != nil {
			return nil, err
		}
		tm := driver.NewTransactionManager(db.Pool, logger)
		return checkout_session.NewPostgresProvider(checkout_session.NewRepository(db.Pool), tm), nil
	}

	return checkout_session.NewMemoryProvider(), nil
}

func ProvideLocationSource() location.Source {
	return location.NewStaticSource(location.DefaultCountries)
}

// ProvideInitiators registers the gateway initiators keyed by provider.
// Providers without an entry go through the backend.
func ProvideInitiators(appConfig *Config, logger *zap.Logger) map[string]payment_method.Initiator {
	initiators := make(map[string]payment_method.Initiator)
	if appConfig.Stripe.SecretKey == "" {
		return initiators
	}

	sc := client.New(appConfig.Stripe.SecretKey, nil)
	initiators[payment_method.ProviderStripe] = payment_method.NewStripeInitiator(sc.CheckoutSessions, payment_method.StripeOptions{
		SuccessURL: appConfig.Stripe.SuccessURL,
		CancelURL:  appConfig.Stripe.CancelURL,
	}, logger)
	return initiators
}

func NewLogger(appConfig *Config) *zap.Logger {
	if appConfig.Log.Development {
		logger, _ := zap.NewDevelopment()
		return logger
	}
	logger, _ := zap.NewProduction()
	return logger
}
