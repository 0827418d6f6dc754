package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/portfolio/backend/internal/logging"
	"github.com/portfolio/backend/internal/repository"
)

func usage() {
	fmt.Fprintln(os.Stderr, `Usage: migrate [command]

Commands:
  (default)   create the messages table or collection indexes if missing
  reset       drop the messages table or collection, then recreate it

Environment:
  STORE_DRIVER   mongo (default) or postgres
  MONGODB_URI    mongo connection string
  MONGODB_DB     mongo database name
  DATABASE_URL   postgres connection string`)
	os.Exit(1)
}

func main() {
	_ = godotenv.Load()
	_ = godotenv.Load("../.env")
	logging.Setup("portfolio-migrate", os.Getenv("LOG_LEVEL"))

	cmd := ""
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}
	if cmd != "" && cmd != "reset" {
		usage()
	}
	reset := cmd == "reset"

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	switch driver := getEnv("STORE_DRIVER", "mongo"); driver {
	case "postgres":
		migratePostgres(ctx, reset)
	case "mongo":
		migrateMongo(ctx, reset)
	default:
		logging.Fatal("unsupported STORE_DRIVER", "driver", driver)
	}
}

func migratePostgres(ctx context.Context, reset bool) {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		logging.Fatal("DATABASE_URL is required")
	}
	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		logging.Fatal("connect failed", "error", err)
	}
	defer pool.Close()

	if reset {
		slog.Info("dropping messages table")
		if _, err := pool.Exec(ctx, repository.DropMessagesSchema); err != nil {
			logging.Fatal("drop failed", "error", err)
		}
	}
	if _, err := pool.Exec(ctx, repository.MessagesSchema); err != nil {
		logging.Fatal("schema apply failed", "error", err)
	}
	slog.Info("postgres schema applied")
}

func migrateMongo(ctx context.Context, reset bool) {
	store := repository.NewMongoStore(getEnv("MONGODB_URI", "mongodb://localhost:27017"), getEnv("MONGODB_DB", "portfolio"))
	defer func() {
		if err := store.Close(context.Background()); err != nil {
			slog.Error("close failed", "error", err)
		}
	}()
	repo := repository.NewMongoMessageRepository(store)

	if reset {
		slog.Info("dropping messages collection")
		if err := repo.Drop(ctx); err != nil {
			logging.Fatal("drop failed", "error", err)
		}
	}
	if err := repo.EnsureIndexes(ctx); err != nil {
		logging.Fatal("create indexes failed", "error", err)
	}
	slog.Info("mongodb indexes ensured", "collection", repository.MessagesCollection)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
