package backend

import (
	"fmt"
	"time"

	"financetracker/internal/config"
)

// Config holds configuration for backend creation
type Config struct {
	Type BackendType

	// Directory of the file backend, and seed directory of the memory backend.
	DataDirectory string
	SQLiteDBPath  string

	CacheSize int
	CacheTTL  time.Duration

	// Change events are published when AMQPURL is set.
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string
}

// FromAppConfig converts the application config to backend config
func FromAppConfig(appConfig *config.Config) (Config, error) {
	if appConfig == nil {
		return Config{}, fmt.Errorf("app config is nil")
	}

	backendType := BackendType(appConfig.Store.Backend)
	if !backendType.IsValid() {
		return Config{}, fmt.Errorf("invalid backend type in config: %s", appConfig.Store.Backend)
	}

	return Config{
		Type:          backendType,
		DataDirectory: appConfig.Store.Dir,
		SQLiteDBPath:  appConfig.Store.SQLitePath,
		CacheSize:     appConfig.Cache.Size,
		CacheTTL:      appConfig.Cache.TTL,
		AMQPURL:       appConfig.AMQP.URL,
		AMQPExchange:  appConfig.AMQP.Exchange,
		AMQPQueue:     appConfig.AMQP.Queue,
	}, nil
}

// Validate validates the backend configuration
func (c Config) Validate() error {
	if !c.Type.IsValid() {
		return fmt.Errorf("invalid backend type: %s", c.Type)
	}

	switch c.Type {
	case SQLiteBackend:
		if c.SQLiteDBPath == "" {
			return fmt.Errorf("SQLite database path is required for sqlite backend")
		}
	case FileBackend:
		if c.DataDirectory == "" {
			return fmt.Errorf("data directory is required for file backend")
		}
	case MemoryBackend:
		// an empty DataDirectory means no seed data
	}

	if c.CacheSize > 0 && c.CacheTTL <= 0 {
		return fmt.Errorf("cache ttl must be positive when the cache is enabled")
	}
	return nil
}

// GetBackendTypes returns all valid backend types
func GetBackendTypes() []BackendType {
	return []BackendType{MemoryBackend, FileBackend, SQLiteBackend}
}

// GetBackendTypeStrings returns all valid backend type strings
func GetBackendTypeStrings() []string {
	types := GetBackendTypes()
	strs := make([]string, len(types))
	for i, t := range types {
		strs[i] = t.String()
	}
	return strs
}
