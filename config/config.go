package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const configFileEnvName = "SHOPLIST_CONFIG_FILE"

const (
	StorageDriverBolt     = "bolt"
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"
)

type storage struct {
	Driver     string `mapstructure:"driver"`
	BoltPath   string `mapstructure:"bolt_path"`
	SQLDB      string `mapstructure:"sql_db"`
	CatalogKey string `mapstructure:"catalog_key"`
}

type seed struct {
	URL         string        `mapstructure:"url"`
	Timeout     time.Duration `mapstructure:"timeout"`
	MaxAttempts int           `mapstructure:"max_attempts"`
}

type ids struct {
	Policy string `mapstructure:"policy"`
	Node   int64  `mapstructure:"node"`
}

type topics struct {
	CatalogChanged string `mapstructure:"catalog_changed"`
}

type brokerTLS struct {
	CAFile   string `mapstructure:"ca_file"`
	CertFile string `mapstructure:"cert_file"`
	KeyFile  string `mapstructure:"key_file"`
}

type broker struct {
	SeedBrokers        []string  `mapstructure:"seed_brokers"`
	SchemaRegistryURLs []string  `mapstructure:"schema_registry_urls"`
	Topics             topics    `mapstructure:"topics"`
	TLS                brokerTLS `mapstructure:"tls"`
}

type Config struct {
	LogLevel       slog.Level `mapstructure:"log_level"`
	HTTPServerAddr string     `mapstructure:"http_server_addr"`
	Storage        storage    `mapstructure:"storage"`
	Seed           seed       `mapstructure:"seed"`
	IDs            ids        `mapstructure:"ids"`
	Broker         broker     `mapstructure:"broker"`
}

// TLSEnabled reports whether all broker TLS files are set.
func (c Config) TLSEnabled() bool {
	t := c.Broker.TLS
	return t.CAFile != "" && t.CertFile != "" && t.KeyFile != ""
}

// EventsEnabled reports whether catalog changes are published to Kafka.
func (c Config) EventsEnabled() bool {
	return len(c.Broker.SeedBrokers) != 0
}

func Load() Config {
	cfg, err := LoadFile(getConfigFilepath())
	if err != nil {
		die(err)
	}
	return cfg
}

func LoadFile(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, err
	}

	var cfg Config
	if err := v.UnmarshalExact(&cfg, decodeHook()); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// decodeHook lets log_level be written as "DEBUG", "INFO", ...
func decodeHook() viper.DecoderConfigOption {
	return viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.TextUnmarshallerHookFunc(),
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log_level", "INFO")
	v.SetDefault("http_server_addr", ":8080")
	v.SetDefault("storage.driver", StorageDriverBolt)
	v.SetDefault("storage.bolt_path", "shoplist.db")
	v.SetDefault("storage.sql_db", "")
	v.SetDefault("storage.catalog_key", "productCatalog")
	v.SetDefault("seed.url", "https://dummyjson.com/products")
	v.SetDefault("seed.timeout", 10*time.Second)
	v.SetDefault("seed.max_attempts", 1)
	v.SetDefault("ids.policy", "legacy")
	v.SetDefault("ids.node", 1)
	v.SetDefault("broker.seed_brokers", []string{})
	v.SetDefault("broker.schema_registry_urls", []string{})
	v.SetDefault("broker.topics.catalog_changed", "catalog_changed")
	v.SetDefault("broker.tls.ca_file", "")
	v.SetDefault("broker.tls.cert_file", "")
	v.SetDefault("broker.tls.key_file", "")
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

func (c Config) Print() {
	tamplate := `
	General:
	LogLevel=%q
	HTTPServerAddr=%q

	Storage:
	Driver=%q
	BoltPath=%q
	CatalogKey=%q

	Seed:
	URL=%q
	Timeout=%q
	MaxAttempts=%d

	IDs:
	Policy=%q
	Node=%d

	BrokerConfig:
	SeedBrokers=%q
	SchemaRegistryURLs=%q
	Topics:
		CatalogChanged=%q
	TLS=%t

`
	fmt.Println("Loaded config:")
	fmt.Printf(
		strings.TrimLeft(tamplate, "\n"),
		c.LogLevel,
		c.HTTPServerAddr,
		c.Storage.Driver,
		c.Storage.BoltPath,
		c.Storage.CatalogKey,
		c.Seed.URL,
		c.Seed.Timeout,
		c.Seed.MaxAttempts,
		c.IDs.Policy,
		c.IDs.Node,
		c.Broker.SeedBrokers,
		c.Broker.SchemaRegistryURLs,
		c.Broker.Topics.CatalogChanged,
		c.TLSEnabled(),
	)
}
