package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"sync"
	"sync/atomic"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/semaphore"

	"stayin/internal/adapters/feed"
	"stayin/internal/adapters/observability"
	redisad "stayin/internal/adapters/redis"
	"stayin/internal/app"
	"stayin/internal/domain"
	"stayin/internal/shared"
	mysqlrepo "stayin/internal/storage/mysql"
)

var rootCmd = &cobra.Command{
	Use:   "seed",
	Short: "Replace the hotel catalog from a seed file or a remote feed",
	Long: `seed clears every hotel and room, then imports the catalog either from
a YAML seed file (--file) or from the configured JSON feed (--feed).`,
	Args: cobra.NoArgs,
	RunE: run,
}

func init() {
	rootCmd.Flags().String("file", "seed/catalog.yml", "YAML seed file")
	rootCmd.Flags().Bool("feed", false, "import from feed_base_url instead of a file")
	rootCmd.Flags().Bool("keep", false, "do not clear the catalog first")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()
	cfg, err := shared.Load()
	if err != nil {
		return err
	}
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel, "stayin-seed")

	file, _ := cmd.Flags().GetString("file")
	useFeed, _ := cmd.Flags().GetBool("feed")
	keep, _ := cmd.Flags().GetBool("keep")

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		return fmt.Errorf("sql.Open: %w", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		return fmt.Errorf("db.Ping: %w", err)
	}
	log.Info().Msg("db ping ok")

	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer cache.Close()

	var src domain.CatalogFeed
	if useFeed {
		client, err := feed.New(cfg.FeedBase, cfg.FeedKey, cfg.FeedRPS)
		if err != nil {
			return fmt.Errorf("feed client: %w", err)
		}
		src = client
	}
	cat := app.NewCatalogService(mysqlrepo.New(db), cache, src)

	// load the source before clearing anything
	var jobs []func(context.Context) (int64, error)
	if useFeed {
		raws, err := src.GetHotels(ctx)
		if err != nil {
			return fmt.Errorf("fetch feed hotels: %w", err)
		}
		for _, raw := range raws {
			raw := raw
			jobs = append(jobs, func(ctx context.Context) (int64, error) { return cat.ImportHotel(ctx, raw) })
		}
	} else {
		sf, err := app.LoadSeedFile(file)
		if err != nil {
			return fmt.Errorf("load seed file: %w", err)
		}
		for _, sh := range sf.Hotels {
			sh := sh
			jobs = append(jobs, func(ctx context.Context) (int64, error) { return cat.SeedHotel(ctx, sh) })
		}
	}

	if !keep {
		log.Info().Msg("clearing catalog")
		if err := cat.ClearCatalog(ctx); err != nil {
			return fmt.Errorf("clear catalog: %w", err)
		}
	}

	log.Info().Int("hotels", len(jobs)).Int("workers", cfg.SeedWorkers).Bool("feed", useFeed).Msg("seed starting")
	workers := cfg.SeedWorkers
	if workers <= 0 {
		workers = 1
	}
	sem := semaphore.NewWeighted(int64(workers))
	var wg sync.WaitGroup
	var failed atomic.Int32

	for i, job := range jobs {
		i, job := i, job
		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			return fmt.Errorf("semaphore acquire: %w", err)
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer sem.Release(1)

			id, err := job(ctx)
			if err != nil {
				failed.Add(1)
				log.Warn().Int("n", i).Err(err).Msg("seed hotel failed")
				return
			}
			log.Info().Int64("id", id).Msg("seed hotel ok")
		}()
	}
	wg.Wait()

	if n := failed.Load(); n > 0 {
		return fmt.Errorf("%d of %d hotels failed", n, len(jobs))
	}
	log.Info().Msg("seed completed")
	return nil
}
