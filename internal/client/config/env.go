package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// envFile is read from the working directory when present.
var envFile = ".env"

// loadEnv overlays cfg with MEMORIA_* variables. Values from envFile never
// override variables already set in the process environment.
func loadEnv(cfg *Config) error {
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", envFile, err)
	}

	strs := map[string]*string{
		"MEMORIA_URL":           &cfg.BaseURL,
		"MEMORIA_ANON_KEY":      &cfg.AnonKey,
		"MEMORIA_BUCKET":        &cfg.Bucket,
		"MEMORIA_LOG_LEVEL":     &cfg.LogLevel,
		"MEMORIA_ROW_STORE":     &cfg.RowStore,
		"MEMORIA_DATABASE_DSN":  &cfg.DatabaseDSN,
		"MEMORIA_BLOB_STORE":    &cfg.BlobStore,
		"MEMORIA_S3_ENDPOINT":   &cfg.S3Endpoint,
		"MEMORIA_S3_REGION":     &cfg.S3Region,
		"MEMORIA_S3_ACCESS_KEY": &cfg.S3AccessKey,
		"MEMORIA_S3_SECRET_KEY": &cfg.S3SecretKey,
		"MEMORIA_S3_PUBLIC_URL": &cfg.S3PublicURL,
		"MEMORIA_DATA_DIR":      &cfg.DataDir,
	}
	for key, dst := range strs {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			*dst = v
		}
	}

	if v, ok := os.LookupEnv("MEMORIA_REQUEST_TIMEOUT"); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("MEMORIA_REQUEST_TIMEOUT: %w", err)
		}
		cfg.RequestTimeout = d
	}
	return nil
}
