package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/dmitrijs2005/memoria/internal/flagx"
)

// Duration accepts "15s" style strings or integer nanoseconds.
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch x := v.(type) {
	case string:
		p, err := time.ParseDuration(x)
		if err != nil {
			return err
		}
		*d = Duration(p)
	case float64:
		*d = Duration(time.Duration(x))
	default:
		return fmt.Errorf("invalid duration %s", string(b))
	}
	return nil
}

// JsonConfig is the on-disk shape. Absent keys leave the current value.
type JsonConfig struct {
	BaseURL        *string   `json:"base_url"`
	AnonKey        *string   `json:"anon_key"`
	Bucket         *string   `json:"bucket"`
	LogLevel       *string   `json:"log_level"`
	RowStore       *string   `json:"row_store"`
	DatabaseDSN    *string   `json:"database_dsn"`
	BlobStore      *string   `json:"blob_store"`
	S3Endpoint     *string   `json:"s3_endpoint"`
	S3Region       *string   `json:"s3_region"`
	S3AccessKey    *string   `json:"s3_access_key"`
	S3SecretKey    *string   `json:"s3_secret_key"`
	S3PublicURL    *string   `json:"s3_public_base_url"`
	RequestTimeout *Duration `json:"request_timeout"`
	DataDir        *string   `json:"data_dir"`
}

// parseJSON overlays cfg with the file named by -c/-config in args.
// Without such a flag it does nothing.
func parseJSON(cfg *Config, args []string) error {
	path := flagx.ConfigPath(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&cfg.BaseURL, jc.BaseURL)
	set(&cfg.AnonKey, jc.AnonKey)
	set(&cfg.Bucket, jc.Bucket)
	set(&cfg.LogLevel, jc.LogLevel)
	set(&cfg.RowStore, jc.RowStore)
	set(&cfg.DatabaseDSN, jc.DatabaseDSN)
	set(&cfg.BlobStore, jc.BlobStore)
	set(&cfg.S3Endpoint, jc.S3Endpoint)
	set(&cfg.S3Region, jc.S3Region)
	set(&cfg.S3AccessKey, jc.S3AccessKey)
	set(&cfg.S3SecretKey, jc.S3SecretKey)
	set(&cfg.S3PublicURL, jc.S3PublicURL)
	set(&cfg.DataDir, jc.DataDir)
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = time.Duration(*jc.RequestTimeout)
	}
	return nil
}
