package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/dmitrijs2005/memoria/internal/client/client"
	"github.com/dmitrijs2005/memoria/internal/client/config"
	"github.com/dmitrijs2005/memoria/internal/client/repositories/images"
	"github.com/dmitrijs2005/memoria/internal/client/repositories/memorials"
	"github.com/dmitrijs2005/memoria/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/memoria/internal/client/services"
	"github.com/dmitrijs2005/memoria/internal/client/session"
	"github.com/dmitrijs2005/memoria/internal/client/theme"
	"github.com/dmitrijs2005/memoria/internal/filex"
	"github.com/dmitrijs2005/memoria/internal/logging"
)

// localDBName is the sqlite file in the data directory holding the theme
// preference and the persisted auth session.
const localDBName = "memoria.db"

// NewAppFromConfig wires the local store, the backend clients and the core
// services described by cfg. The returned cleanup closes what was opened.
func NewAppFromConfig(ctx context.Context, cfg *config.Config, in io.Reader, out io.Writer) (*App, func(), error) {
	logger := logging.NewTextLogger(os.Stderr, cfg.LogLevel)

	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}
	fail := func(err error) (*App, func(), error) {
		cleanup()
		return nil, nil, err
	}

	dir, err := filex.EnsureDir(cfg.DataDir)
	if err != nil {
		return fail(fmt.Errorf("data dir: %w", err))
	}

	db, err := client.InitDatabase(ctx, filepath.Join(dir, localDBName))
	if err != nil {
		logger.Error(ctx, "error initializing database", "error", err)
		return fail(err)
	}
	closers = append(closers, func() { _ = db.Close() })

	kv := metadata.NewSQLiteRepository(db)

	rest, err := client.NewRESTClient(cfg.BaseURL, cfg.AnonKey,
		client.WithHTTPClient(client.NewHTTPClient(cfg.RequestTimeout)),
		client.WithBucket(cfg.Bucket),
		client.WithSessionPersister(metadata.NewSessionPersister(kv)),
		client.WithLogger(logger.With("component", "rest")),
	)
	if err != nil {
		return fail(err)
	}

	var rows client.RowStore = rest
	if cfg.RowStore == config.StorePostgres {
		pg, err := memorials.OpenDB(ctx, cfg.DatabaseDSN)
		if err != nil {
			logger.Error(ctx, "error connecting to postgres", "error", err)
			return fail(err)
		}
		closers = append(closers, func() { _ = pg.Close() })
		rows = memorials.NewPostgresRepository(pg)
	}

	var blobs client.BlobStore = rest
	if cfg.BlobStore == config.StoreS3 {
		s3repo, err := images.NewS3Repository(ctx, images.Config{
			Region:        cfg.S3Region,
			Endpoint:      cfg.S3Endpoint,
			AccessKey:     cfg.S3AccessKey,
			SecretKey:     cfg.S3SecretKey,
			Bucket:        cfg.Bucket,
			PublicBaseURL: cfg.S3PublicURL,
		})
		if err != nil {
			logger.Error(ctx, "error configuring s3", "error", err)
			return fail(err)
		}
		blobs = s3repo
	}

	auth := services.NewAuthService(rest, logger)
	app := NewApp(Deps{
		Session:   session.New(auth, logger),
		Memorials: services.NewMemorialService(rows, blobs, logger),
		Theme:     theme.NewStore(kv, logger),
		Logger:    logger,
		In:        in,
		Out:       out,
	})

	logger.Debug(ctx, "client configured", "url", cfg.BaseURL, "rows", cfg.RowStore, "blobs", cfg.BlobStore, "data", dir)
	return app, cleanup, nil
}
