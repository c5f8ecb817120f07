// Package config loads runtime configuration for the memoria terminal client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Environment variables MEMORIA_*, after an optional .env file in the
//     working directory has been loaded with godotenv.
//  3. Optional JSON file selected via flags: -c or -config.
//  4. Command-line flags, which override earlier values.
//
// Supported flags
//
//	-u string   base URL of the backend (auth, rest and storage APIs)
//	-k string   public anon key sent as the apikey header
//	-b string   storage bucket for memorial images
//	-l string   log level: debug, info, warn, error
//	-r string   row store: rest or postgres
//	-d string   Postgres DSN, used when -r postgres
//	-s string   blob store: rest or s3
//	-e string   S3 endpoint, used when -s s3
//	-g string   S3 region, used when -s s3
//	-t duration request timeout
//	-p string   local data directory (theme and session database)
//
// # JSON schema
//
// Durations can be strings like "15s" or integer nanoseconds:
//
//	{
//	  "base_url": "https://project.supabase.co",
//	  "anon_key": "eyJ...",
//	  "bucket": "memorial-images",
//	  "log_level": "info",
//	  "row_store": "rest",
//	  "database_dsn": "",
//	  "blob_store": "s3",
//	  "s3_endpoint": "http://127.0.0.1:9000",
//	  "s3_region": "us-east-1",
//	  "s3_access_key": "minio",
//	  "s3_secret_key": "minio123",
//	  "s3_public_base_url": "",
//	  "request_timeout": "15s",
//	  "data_dir": "data"
//	}
//
// S3 credentials have no flags; pass them through the environment or JSON.
package config
