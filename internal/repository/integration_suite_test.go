//go:build integration

package repository_test

import (
	"context"
	"fmt"
	"log"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

var tcPool *pgxpool.Pool

func TestMain(m *testing.M) {
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("test_db"),
		postgres.WithUsername("test_user"),
		postgres.WithPassword("test_pass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		log.Fatalf("failed to start postgres testcontainer: %v", err)
	}

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		if termErr := pgContainer.Terminate(ctx); termErr != nil {
			log.Printf("failed to terminate container after conn string error: %v", termErr)
		}
		log.Fatalf("failed to get connection string from container: %v", err)
	}

	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		if termErr := pgContainer.Terminate(ctx); termErr != nil {
			log.Printf("failed to terminate container after pool create error: %v", termErr)
		}
		log.Fatalf("failed to create pgx pool: %v", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		if termErr := pgContainer.Terminate(ctx); termErr != nil {
			log.Printf("failed to terminate container after ping error: %v", termErr)
		}
		log.Fatalf("failed to ping postgres in testcontainer: %v", err)
	}

	tcPool = pool

	if err := createTables(ctx, tcPool); err != nil {
		pool.Close()
		if termErr := pgContainer.Terminate(ctx); termErr != nil {
			log.Printf("failed to terminate container after createTables error: %v", termErr)
		}
		log.Fatalf("failed to create test tables: %v", err)
	}

	code := m.Run()

	pool.Close()
	if err := pgContainer.Terminate(ctx); err != nil {
		log.Printf("failed to terminate postgres container: %v", err)
	}

	os.Exit(code)
}

func createTables(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS drivers (
			id                      TEXT PRIMARY KEY,
			phone                   TEXT NOT NULL UNIQUE,
			license_number          TEXT NOT NULL,
			vehicle_type            TEXT NOT NULL,
			vehicle_make            TEXT NOT NULL DEFAULT '',
			vehicle_model           TEXT NOT NULL DEFAULT '',
			vehicle_year            INT  NOT NULL DEFAULT 0,
			license_plate           TEXT NOT NULL DEFAULT '',
			insurance_number        TEXT NOT NULL DEFAULT '',
			emergency_contact_name  TEXT NOT NULL DEFAULT '',
			emergency_contact_phone TEXT NOT NULL DEFAULT '',
			status                  TEXT NOT NULL,
			is_available            BOOLEAN NOT NULL DEFAULT false,
			latitude                DOUBLE PRECISION,
			longitude               DOUBLE PRECISION,
			location_updated_at     TIMESTAMP WITHOUT TIME ZONE,
			created_at              TIMESTAMP WITHOUT TIME ZONE DEFAULT now() NOT NULL,
			updated_at              TIMESTAMP WITHOUT TIME ZONE DEFAULT now() NOT NULL
		);
	`)
	if err != nil {
		return fmt.Errorf("create drivers table: %w", err)
	}

	_, err = pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS earnings (
			id           BIGSERIAL PRIMARY KEY,
			courier_id   TEXT NOT NULL,
			order_id     TEXT NOT NULL,
			fee          DOUBLE PRECISION NOT NULL,
			delivered_at TIMESTAMP WITHOUT TIME ZONE NOT NULL,
			UNIQUE (courier_id, order_id)
		);
	`)
	if err != nil {
		return fmt.Errorf("create earnings table: %w", err)
	}

	return nil
}
