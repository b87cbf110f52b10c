package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const configFileEnvName = "POS_CONFIG_FILE"

const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

type checkout struct {
	EnforceStockCap bool          `mapstructure:"enforce_stock_cap"`
	StockFloor      string        `mapstructure:"stock_floor"`
	Mode            string        `mapstructure:"mode"`
	Timeout         time.Duration `mapstructure:"timeout"`
}

type admin struct {
	PasswordHash string        `mapstructure:"password_hash"`
	TokenSecret  string        `mapstructure:"token_secret"`
	TokenTTL     time.Duration `mapstructure:"token_ttl"`
}

type notify struct {
	WhatsAppBaseURL string        `mapstructure:"whatsapp_base_url"`
	CountryCode     string        `mapstructure:"country_code"`
	Timeout         time.Duration `mapstructure:"timeout"`
	Attempts        int           `mapstructure:"attempts"`
}

type topics struct {
	OrdersPlaced    string `mapstructure:"orders_placed"`
	SalesTallyGroup string `mapstructure:"sales_tally_group"`
}

type brokerTLS struct {
	CA   string `mapstructure:"ca"`
	Cert string `mapstructure:"cert"`
	Key  string `mapstructure:"key"`
}

// Enabled reports whether all three files are set.
func (t brokerTLS) Enabled() bool {
	return t.CA != "" && t.Cert != "" && t.Key != ""
}

type broker struct {
	Enabled            bool      `mapstructure:"enabled"`
	SeedBrokers        []string  `mapstructure:"seed_brokers"`
	SchemaRegistryURLs []string  `mapstructure:"schema_registry_urls"`
	Topics             topics    `mapstructure:"topics"`
	TLS                brokerTLS `mapstructure:"tls"`
}

type Config struct {
	LogLevel           slog.Level    `mapstructure:"log_level"`
	HTTPServerAddr     string        `mapstructure:"http_server_addr"`
	HTTPRequestTimeout time.Duration `mapstructure:"http_request_timeout"`
	Storage            string        `mapstructure:"storage"`
	SQLDB              string        `mapstructure:"sql_db"`
	Checkout           checkout      `mapstructure:"checkout"`
	Admin              admin         `mapstructure:"admin"`
	Notify             notify        `mapstructure:"notify"`
	Broker             broker        `mapstructure:"broker"`
}

func Load() Config {
	cfg, err := load(getConfigFilepath())
	if err != nil {
		die(err)
	}
	return cfg
}

func load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetConfigFile(path)

	err := v.ReadInConfig()
	if err != nil {
		return Config{}, err
	}

	var cfg Config
	err = v.UnmarshalExact(&cfg)
	if err != nil {
		return Config{}, err
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log_level", int(slog.LevelInfo))
	v.SetDefault("http_server_addr", ":8080")
	v.SetDefault("http_request_timeout", 5*time.Second)
	v.SetDefault("storage", StoragePostgres)
	v.SetDefault("checkout.enforce_stock_cap", true)
	v.SetDefault("checkout.stock_floor", "allow_negative")
	v.SetDefault("checkout.mode", "atomic")
	v.SetDefault("checkout.timeout", 5*time.Second)
	v.SetDefault("admin.token_ttl", 12*time.Hour)
	v.SetDefault("notify.whatsapp_base_url", "https://wa.me/")
	v.SetDefault("notify.timeout", 5*time.Second)
	v.SetDefault("notify.attempts", 3)
	v.SetDefault("broker.topics.orders_placed", "orders-placed")
	v.SetDefault("broker.topics.sales_tally_group", "sales-tally")
}

func (c Config) validate() error {
	switch c.Storage {
	case StoragePostgres:
		if c.SQLDB == "" {
			return fmt.Errorf("sql_db is required for %q storage", c.Storage)
		}
	case StorageMemory:
	default:
		return fmt.Errorf("unknown storage %q", c.Storage)
	}

	if c.Admin.TokenSecret == "" {
		return fmt.Errorf("admin.token_secret is required")
	}

	if c.Broker.Enabled {
		if len(c.Broker.SeedBrokers) == 0 {
			return fmt.Errorf("broker.seed_brokers is required when broker is enabled")
		}
		if len(c.Broker.SchemaRegistryURLs) == 0 {
			return fmt.Errorf("broker.schema_registry_urls is required when broker is enabled")
		}
	}
	return nil
}

func getConfigFilepath() string {
	cmdLine := pflag.NewFlagSet(os.Args[0], pflag.ExitOnError)
	arg := cmdLine.String("config", "/config.yaml", "config file")
	_ = cmdLine.Parse(os.Args[1:])
	env, ok := os.LookupEnv(configFileEnvName)
	if ok {
		return env
	}
	return *arg
}

func die(err error) {
	fmt.Printf("failed to load config file: %v\n", err)
	os.Exit(2)
}

func mask(s string) string {
	if s == "" {
		return ""
	}
	return "***"
}

func (c Config) Print() {
	tamplate := `
	General:
	LogLevel=%q
	HTTPServerAddr=%q
	HTTPRequestTimeout=%s
	Storage=%q
	SQLDB=%q

	Checkout:
	EnforceStockCap=%t
	StockFloor=%q
	Mode=%q
	Timeout=%s

	Admin:
	PasswordHash=%q
	TokenSecret=%q
	TokenTTL=%s

	Notify:
	WhatsAppBaseURL=%q
	CountryCode=%q
	Timeout=%s
	Attempts=%d

	BrokerConfig:
	Enabled=%t
	SeedBrokers=%q
	SchemaRegistryURLs=%q
	TLS=%t
	Topics:
		OrdersPlaced=%q
		SalesTallyGroup=%q

`
	fmt.Println("Loaded config:")
	fmt.Printf(
		strings.TrimLeft(tamplate, "\n"),
		c.LogLevel,
		c.HTTPServerAddr,
		c.HTTPRequestTimeout,
		c.Storage,
		mask(c.SQLDB),
		c.Checkout.EnforceStockCap,
		c.Checkout.StockFloor,
		c.Checkout.Mode,
		c.Checkout.Timeout,
		mask(c.Admin.PasswordHash),
		mask(c.Admin.TokenSecret),
		c.Admin.TokenTTL,
		c.Notify.WhatsAppBaseURL,
		c.Notify.CountryCode,
		c.Notify.Timeout,
		c.Notify.Attempts,
		c.Broker.Enabled,
		c.Broker.SeedBrokers,
		c.Broker.SchemaRegistryURLs,
		c.Broker.TLS.Enabled(),
		c.Broker.Topics.OrdersPlaced,
		c.Broker.Topics.SalesTallyGroup,
	)
}
