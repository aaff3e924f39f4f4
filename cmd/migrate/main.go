// Command migrate applies or rolls back the embedded database migrations.
//
//	migrate [up|down|status|version]
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/osse101/QuPot_Go/internal/config"
	"github.com/osse101/QuPot_Go/internal/database"
)

// commandTimeout bounds waiting for the database plus the migration itself
const commandTimeout = time.Minute

func main() {
	_ = godotenv.Load()

	cmd := "up"
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}

	if err := run(cmd); err != nil {
		fmt.Fprintf(os.Stderr, "migrate %s: %v\n", cmd, err)
		os.Exit(1)
	}
}

func run(cmd string) error {
	switch cmd {
	case "up", "down", "status", "version":
	default:
		printUsage()
		return fmt.Errorf("unknown command %q", cmd)
	}

	// Only the connection settings matter here; the rest of Load's checks do not apply
	cfg := &config.Config{
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", "postgres"),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBName:     getEnv("DB_NAME", "qupot"),
	}

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	pool, err := waitForDB(ctx, cfg.GetDBConnString())
	if err != nil {
		return err
	}
	defer pool.Close()

	switch cmd {
	case "up":
		return database.Migrate(ctx, pool)
	case "down":
		return database.MigrateDown(ctx, pool)
	case "status":
		return database.MigrationStatus(ctx, pool)
	default:
		version, err := database.MigrationVersion(ctx, pool)
		if err != nil {
			return err
		}
		fmt.Println(version)
		return nil
	}
}

// waitForDB retries the connection until the database accepts it or ctx expires,
// so the command can run right after the database container starts
func waitForDB(ctx context.Context, connString string) (*pgxpool.Pool, error) {
	policy := backoff.NewExponentialBackOff()
	policy.MaxInterval = 2 * time.Second

	notify := func(err error, wait time.Duration) {
		fmt.Fprintf(os.Stderr, "database not ready, retrying in %s: %v\n", wait.Round(time.Millisecond), err)
	}

	return backoff.RetryNotifyWithData(func() (*pgxpool.Pool, error) {
		return database.NewPool(ctx, connString, config.DefaultDBMaxConns, config.DefaultDBMaxConnIdleTime, config.DefaultDBMaxConnLifetime)
	}, backoff.WithContext(policy, ctx), notify)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func printUsage() {
	fmt.Println("Usage: migrate <command>")
	fmt.Println("Commands:")
	fmt.Println("  up       Apply all pending migrations (default)")
	fmt.Println("  down     Roll back the most recent migration")
	fmt.Println("  status   Print the state of every migration")
	fmt.Println("  version  Print the current schema version")
}
