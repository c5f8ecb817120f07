package config

import (
	"flag"
	"io"

	"github.com/dmitrijs2005/memoria/internal/flagx"
)

var knownFlags = []string{"-u", "-k", "-b", "-l", "-r", "-d", "-s", "-e", "-g", "-t", "-p"}

// parseFlags populates Config fields from command-line flags. Only the
// flags listed in knownFlags are considered; everything else in args is
// dropped by flagx.FilterArgs.
func parseFlags(cfg *Config, args []string) error {
	args = flagx.FilterArgs(args, knownFlags)

	fs := flag.NewFlagSet("memoria", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.BaseURL, "u", cfg.BaseURL, "backend base url")
	fs.StringVar(&cfg.AnonKey, "k", cfg.AnonKey, "anon key")
	fs.StringVar(&cfg.Bucket, "b", cfg.Bucket, "image bucket")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")
	fs.StringVar(&cfg.RowStore, "r", cfg.RowStore, "row store: rest or postgres")
	fs.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "postgres dsn")
	fs.StringVar(&cfg.BlobStore, "s", cfg.BlobStore, "blob store: rest or s3")
	fs.StringVar(&cfg.S3Endpoint, "e", cfg.S3Endpoint, "s3 endpoint")
	fs.StringVar(&cfg.S3Region, "g", cfg.S3Region, "s3 region")
	fs.DurationVar(&cfg.RequestTimeout, "t", cfg.RequestTimeout, "request timeout")
	fs.StringVar(&cfg.DataDir, "p", cfg.DataDir, "local data directory")

	return fs.Parse(args)
}
