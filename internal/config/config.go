package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. FINANCETRACKER_STORE_BACKEND.
const EnvPrefix = "FINANCETRACKER"

type Config struct {
	Store   StoreConfig   `mapstructure:"store"`
	Slots   SlotsConfig   `mapstructure:"slots"`
	Catalog CatalogConfig `mapstructure:"catalog"`
	AMQP    AMQPConfig    `mapstructure:"amqp"`
	Sheets  SheetsConfig  `mapstructure:"sheets"`
	Cache   CacheConfig   `mapstructure:"cache"`
	Log     LogConfig     `mapstructure:"log"`
	Worker  WorkerConfig  `mapstructure:"worker"`
}

// StoreConfig selects the slot backend.
type StoreConfig struct {
	Backend    string `mapstructure:"backend"`
	Dir        string `mapstructure:"dir"`
	SQLitePath string `mapstructure:"sqlite_path"`
}

// SlotsConfig names the persisted slots.
type SlotsConfig struct {
	CategoriesKey   string `mapstructure:"categories_key"`
	TransactionsKey string `mapstructure:"transactions_key"`
}

type CatalogConfig struct {
	Schema string `mapstructure:"schema"`
}

// AMQPConfig enables slot change events when URL is set.
type AMQPConfig struct {
	URL      string `mapstructure:"url"`
	Exchange string `mapstructure:"exchange"`
	Queue    string `mapstructure:"queue"`
}

type SheetsConfig struct {
	SpreadsheetID   string `mapstructure:"spreadsheet_id"`
	SheetName       string `mapstructure:"sheet_name"`
	CredentialsFile string `mapstructure:"credentials_file"`
}

// CacheConfig sizes the read cache in front of the store. Size 0 disables it.
type CacheConfig struct {
	Size int           `mapstructure:"size"`
	TTL  time.Duration `mapstructure:"ttl"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// WorkerConfig drives the revalidation worker. A zero interval disables the
// periodic pass and leaves only the event path.
type WorkerConfig struct {
	RevalidateInterval time.Duration `mapstructure:"revalidate_interval"`
	CacheSweepInterval time.Duration `mapstructure:"cache_sweep_interval"`
}

var (
	validBackends = []string{"memory", "file", "sqlite"}
	validSchemas  = []string{"object", "legacy"}
	validLevels   = []string{"debug", "info", "warn", "warning", "error"}
	validFormats  = []string{"text", "json"}
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("store.backend", "file")
	v.SetDefault("store.dir", "./data")
	v.SetDefault("store.sqlite_path", "./data/financetracker.db")

	v.SetDefault("slots.categories_key", "finance-tracker-categories")
	v.SetDefault("slots.transactions_key", "finance-tracker-transactions")

	v.SetDefault("catalog.schema", "object")

	v.SetDefault("amqp.url", "")
	v.SetDefault("amqp.exchange", "financetracker")
	v.SetDefault("amqp.queue", "slot_changes")

	v.SetDefault("sheets.spreadsheet_id", "")
	v.SetDefault("sheets.sheet_name", "Transactions")
	v.SetDefault("sheets.credentials_file", "")

	v.SetDefault("cache.size", 16)
	v.SetDefault("cache.ttl", 5*time.Minute)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("worker.revalidate_interval", 15*time.Minute)
	v.SetDefault("worker.cache_sweep_interval", time.Minute)
}

// Load reads defaults, an optional YAML file and FINANCETRACKER_* env vars,
// in increasing priority. The file is FINANCETRACKER_CONFIG when set, else
// financetracker.yaml in the working directory or ~/.config/financetracker.
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigType("yaml")
	cfgPath := os.Getenv(EnvPrefix + "_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.SetConfigName("financetracker")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "financetracker"))
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &c, nil
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errs []string

	if !slices.Contains(validBackends, c.Store.Backend) {
		errs = append(errs, fmt.Sprintf("invalid store backend '%s': must be one of %v", c.Store.Backend, validBackends))
	}
	if c.Store.Backend == "file" && c.Store.Dir == "" {
		errs = append(errs, "store directory cannot be empty when using file backend")
	}
	if c.Store.Backend == "sqlite" && c.Store.SQLitePath == "" {
		errs = append(errs, "SQLite database path cannot be empty when using sqlite backend")
	}

	if c.Slots.CategoriesKey == "" || c.Slots.TransactionsKey == "" {
		errs = append(errs, "slot keys cannot be empty")
	} else if c.Slots.CategoriesKey == c.Slots.TransactionsKey {
		errs = append(errs, fmt.Sprintf("slot keys must differ, both are '%s'", c.Slots.CategoriesKey))
	}

	if !slices.Contains(validSchemas, c.Catalog.Schema) {
		errs = append(errs, fmt.Sprintf("invalid catalog schema '%s': must be one of %v", c.Catalog.Schema, validSchemas))
	}

	if c.AMQP.URL != "" {
		if parsedURL, err := url.Parse(c.AMQP.URL); err != nil {
			errs = append(errs, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQP.URL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errs = append(errs, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQP.Exchange == "" {
			errs = append(errs, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQP.Queue == "" {
			errs = append(errs, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	if c.Cache.Size < 0 {
		errs = append(errs, fmt.Sprintf("invalid cache size %d: must not be negative", c.Cache.Size))
	}
	if c.Cache.Size > 0 && c.Cache.TTL <= 0 {
		errs = append(errs, fmt.Sprintf("invalid cache ttl %v: must be positive", c.Cache.TTL))
	}

	if c.Worker.RevalidateInterval < 0 {
		errs = append(errs, fmt.Sprintf("invalid worker revalidate interval %v: must not be negative", c.Worker.RevalidateInterval))
	}
	if c.Worker.CacheSweepInterval < 0 {
		errs = append(errs, fmt.Sprintf("invalid worker cache sweep interval %v: must not be negative", c.Worker.CacheSweepInterval))
	}

	if !slices.Contains(validLevels, strings.ToLower(c.Log.Level)) {
		errs = append(errs, fmt.Sprintf("invalid log level '%s': must be one of %v", c.Log.Level, validLevels))
	}
	if !slices.Contains(validFormats, c.Log.Format) {
		errs = append(errs, fmt.Sprintf("invalid log format '%s': must be one of %v", c.Log.Format, validFormats))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}

// ValidateSheets checks the settings the sheets export needs. They are only
// required by that command, so Validate does not enforce them.
func (c *Config) ValidateSheets() error {
	var errs []string
	if c.Sheets.SpreadsheetID == "" {
		errs = append(errs, "sheets spreadsheet id is required for export")
	}
	if c.Sheets.SheetName == "" {
		errs = append(errs, "sheets sheet name is required for export")
	}
	if c.Sheets.CredentialsFile != "" {
		if _, err := os.Stat(c.Sheets.CredentialsFile); os.IsNotExist(err) {
			errs = append(errs, fmt.Sprintf("sheets credentials file does not exist: %s", c.Sheets.CredentialsFile))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("sheets configuration invalid:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}
