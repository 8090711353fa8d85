// Command catalog-ingest bulk-loads product feed files into PostgreSQL.
//
// A feed is a gzip-compressed NDJSON file with one product per line.
// Multiple feeds are read concurrently; duplicate product IDs across feeds
// are dropped (first occurrence wins) using a bloom filter so huge feeds do
// not need an in-memory ID set.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/go-faster/errors"
	pgzip "github.com/klauspost/pgzip"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/xenking/storefront-cart/internal/domain/product"
	"github.com/xenking/storefront-cart/internal/storage/postgres"
)

const (
	bloomCapacity = 10_000_000
	bloomFPR      = 0.001
	batchSize     = 500
	progressEvery = 100_000
)

type feedProduct struct {
	ID             string              `json:"id"`
	Name           string              `json:"name"`
	Price          decimal.Decimal     `json:"price"`
	Category       string              `json:"category"`
	Image          string              `json:"image"`
	VariantOptions map[string][]string `json:"variant_options"`
	Available      bool                `json:"available"`
}

func main() {
	var (
		feedDir     string
		databaseURL string
	)

	flag.StringVar(&feedDir, "feed-dir", "feeds", "directory containing *.ndjson.gz product feeds")
	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, feedDir, databaseURL); err != nil {
		slog.Error("catalog ingest failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("catalog ingest completed successfully")
}

func run(ctx context.Context, feedDir, databaseURL string) error {
	feeds, err := filepath.Glob(filepath.Join(feedDir, "*.ndjson.gz"))
	if err != nil {
		return errors.Wrap(err, "glob feed files")
	}
	if len(feeds) == 0 {
		return errors.Errorf("no *.ndjson.gz feeds found in %s", feedDir)
	}

	slog.Info("connecting to database")

	pool, err := postgres.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	if err := postgres.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	repo := postgres.NewProductRepository(pool)

	// Readers stream feeds concurrently; a single writer owns the bloom
	// filter and the current batch, so deduplication needs no locking.
	products := make(chan feedProduct, 4*batchSize)

	g, ctx := errgroup.WithContext(ctx)

	readers, rctx := errgroup.WithContext(ctx)
	for _, feed := range feeds {
		readers.Go(readFeed(rctx, feed, products))
	}
	g.Go(func() error {
		defer close(products)
		return readers.Wait()
	})
	g.Go(writeProducts(ctx, repo, products))

	return g.Wait()
}

// readFeed streams one gzipped NDJSON feed into the products channel.
func readFeed(ctx context.Context, path string, products chan<- feedProduct) func() error {
	return func() error {
		f, err := os.Open(path)
		if err != nil {
			return errors.Wrapf(err, "open %s", path)
		}
		defer func() { _ = f.Close() }()

		gz, err := pgzip.NewReader(f)
		if err != nil {
			return errors.Wrapf(err, "create gzip reader for %s", path)
		}
		defer func() { _ = gz.Close() }()

		var count uint64
		scanner := bufio.NewScanner(gz)
		scanner.Buffer(make([]byte, 0, 1<<20), 1<<20)

		for scanner.Scan() {
			line := scanner.Bytes()
			if len(line) == 0 {
				continue
			}

			var p feedProduct
			if err := json.Unmarshal(line, &p); err != nil {
				return errors.Wrapf(err, "parse product line in %s", path)
			}
			if p.ID == "" {
				return errors.Errorf("product without id in %s", path)
			}

			select {
			case products <- p:
			case <-ctx.Done():
				return ctx.Err()
			}

			count++
			if count%progressEvery == 0 {
				slog.Info("feed progress", slog.String("feed", path), slog.Uint64("products", count))
			}
		}
		if err := scanner.Err(); err != nil {
			return errors.Wrapf(err, "scan %s", path)
		}

		slog.Info("feed complete", slog.String("feed", path), slog.Uint64("products", count))
		return nil
	}
}

// writeProducts drains the channel, drops duplicate IDs, and upserts in
// batches. First occurrence of an ID wins.
func writeProducts(ctx context.Context, repo *postgres.ProductRepository, products <-chan feedProduct) func() error {
	return func() error {
		filter := bloom.NewWithEstimates(bloomCapacity, bloomFPR)
		batch := make([]product.Product, 0, batchSize)

		var written, dupes uint64

		flush := func() error {
			if len(batch) == 0 {
				return nil
			}
			if err := repo.UpsertBatch(ctx, batch); err != nil {
				return err
			}
			written += uint64(len(batch))
			batch = batch[:0]
			return nil
		}

		for p := range products {
			if filter.TestAndAddString(p.ID) {
				dupes++
				continue
			}

			batch = append(batch, product.Product{
				ID:             p.ID,
				Name:           p.Name,
				Price:          p.Price,
				Category:       p.Category,
				Image:          p.Image,
				VariantOptions: p.VariantOptions,
				Available:      p.Available,
			})
			if len(batch) == batchSize {
				if err := flush(); err != nil {
					return err
				}
				slog.Info("write progress", slog.Uint64("written", written), slog.Uint64("dupes", dupes))
			}
		}

		if err := flush(); err != nil {
			return err
		}

		slog.Info("write complete", slog.Uint64("written", written), slog.Uint64("dupes", dupes))
		return nil
	}
}
