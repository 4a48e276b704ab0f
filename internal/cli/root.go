// Package cli implements reviewctl, a terminal front end for the review
// analysis backend.
package cli

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"review_ai/internal/adapters/observability"
	redisad "review_ai/internal/adapters/redis"
	"review_ai/internal/adapters/reviewapi"
	"review_ai/internal/app"
	"review_ai/internal/domain"
	"review_ai/internal/shared"
	mysqlrepo "review_ai/internal/storage/mysql"
)

type options struct {
	cfgFile string
	backend string
	cfg     shared.Config
}

func NewRootCmd() *cobra.Command {
	o := &options{}
	root := &cobra.Command{
		Use:           "reviewctl",
		Short:         "Look up places and review analyses from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return o.load(cmd)
		},
	}
	root.PersistentFlags().StringVar(&o.cfgFile, "config", "", "YAML file overlaid on the environment")
	root.PersistentFlags().StringVar(&o.backend, "backend", "", "backend base URL (overrides BACKEND_BASE_URL)")

	root.AddCommand(
		newSuggestCmd(o),
		newRetrieveCmd(o),
		newSearchCmd(o),
		newPrefetchCmd(o),
		newRecentCmd(o),
	)
	return root
}

// Execute runs reviewctl; SIGINT cancels in-flight lookups.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return NewRootCmd().ExecuteContext(ctx)
}

func (o *options) load(cmd *cobra.Command) error {
	cfg := shared.Load()
	if o.cfgFile != "" {
		var err error
		if cfg, err = cfg.LoadFile(o.cfgFile); err != nil {
			return err
		}
	}
	if o.backend != "" {
		cfg.BackendBase = o.backend
	}
	o.cfg = cfg
	log.Logger = observability.NewLoggerTo(cmd.ErrOrStderr(), cfg.AppEnv)
	return nil
}

// deps are the services a command works with. Close releases the cache and
// database connections.
type deps struct {
	suggest  *app.SuggestService
	analysis *app.AnalysisService
	closers  []func() error
}

func (o *options) open(ctx context.Context, retries int) (*deps, error) {
	d := &deps{}

	var lookups domain.LookupLog = mysqlrepo.Nop{}
	if o.cfg.MySQLDSN != "" {
		db, err := sql.Open("mysql", o.cfg.MySQLDSN)
		if err != nil {
			return nil, fmt.Errorf("open mysql: %w", err)
		}
		if err := db.PingContext(ctx); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("ping mysql: %w", err)
		}
		d.closers = append(d.closers, db.Close)
		lookups = mysqlrepo.New(db)
	}

	var cache domain.Cache
	if o.cfg.RedisAddr != "" {
		rc := redisad.New(o.cfg.RedisAddr, o.cfg.RedisPass, o.cfg.RedisDB)
		if err := rc.Ping(ctx); err != nil {
			log.Warn().Err(err).Str("addr", o.cfg.RedisAddr).Msg("redis unreachable, lookups will miss")
		}
		d.closers = append(d.closers, rc.Close)
		cache = rc
	}

	api, err := reviewapi.New(o.cfg.BackendBase, o.cfg.BackendTimeout, o.cfg.BackendRPS, retries)
	if err != nil {
		d.Close()
		return nil, err
	}
	d.suggest = app.NewSuggestService(api, cache, o.cfg.CacheTTL)
	d.analysis = app.NewAnalysisService(api, cache, lookups, o.cfg.CacheTTL)
	return d, nil
}

func (d *deps) Close() {
	for _, c := range d.closers {
		if err := c(); err != nil {
			log.Debug().Err(err).Msg("close")
		}
	}
}
