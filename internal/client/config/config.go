package config

import (
	"fmt"
	"time"
)

// Store backends.
const (
	StoreREST     = "rest"
	StorePostgres = "postgres"
	StoreS3       = "s3"
)

// Config holds runtime settings for the memoria CLI.
type Config struct {
	BaseURL        string
	AnonKey        string
	Bucket         string
	LogLevel       string
	RowStore       string
	DatabaseDSN    string
	BlobStore      string
	S3Endpoint     string
	S3Region       string
	S3AccessKey    string
	S3SecretKey    string
	S3PublicURL    string
	RequestTimeout time.Duration
	DataDir        string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.BaseURL = "http://127.0.0.1:54321"
	c.Bucket = "memorial-images"
	c.LogLevel = "info"
	c.RowStore = StoreREST
	c.BlobStore = StoreREST
	c.S3Region = "us-east-1"
	c.RequestTimeout = 15 * time.Second
	c.DataDir = "data"
}

// Validate checks the combinations the client cannot start with.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("base url is required")
	}
	switch c.RowStore {
	case StoreREST:
	case StorePostgres:
		if c.DatabaseDSN == "" {
			return fmt.Errorf("row store %q requires a database dsn", c.RowStore)
		}
	default:
		return fmt.Errorf("unknown row store %q", c.RowStore)
	}
	switch c.BlobStore {
	case StoreREST, StoreS3:
	default:
		return fmt.Errorf("unknown blob store %q", c.BlobStore)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be positive")
	}
	return nil
}

// LoadConfig constructs a Config from defaults, then overlays the
// environment, the JSON file named by -c/-config (if any) and flags from
// args (usually os.Args[1:]). Later sources take precedence.
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := loadEnv(cfg); err != nil {
		return nil, err
	}
	if err := parseJSON(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
