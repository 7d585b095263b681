package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

const ticketCounter = "ticket_number"

var schema = []string{
	`CREATE TABLE IF NOT EXISTS collections (
		name    TEXT PRIMARY KEY,
		records JSONB NOT NULL DEFAULT '[]'::jsonb
	)`,
	`CREATE TABLE IF NOT EXISTS counters (
		name  TEXT PRIMARY KEY,
		value BIGINT NOT NULL DEFAULT 0
	)`,
}

// PostgresGateway stores each collection as a single JSONB array row, which
// keeps the whole-collection read/write contract of the file backend. The
// ticket counter is a row bumped in one statement, so it is safe across
// processes.
type PostgresGateway struct {
	Pool   *pgxpool.Pool
	logger zerolog.Logger
}

func NewPostgresGateway(ctx context.Context, databaseURL string, logger zerolog.Logger) (*PostgresGateway, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, err
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return &PostgresGateway{Pool: pool, logger: logger}, nil
}

func (g *PostgresGateway) Close() {
	g.Pool.Close()
}

func (g *PostgresGateway) Ping(ctx context.Context) error {
	return g.Pool.Ping(ctx)
}

func (g *PostgresGateway) WithTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := g.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()
	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (g *PostgresGateway) Init(ctx context.Context) error {
	return g.WithTx(ctx, func(tx pgx.Tx) error {
		for _, ddl := range schema {
			if _, err := tx.Exec(ctx, ddl); err != nil {
				return fmt.Errorf("storage: migrate: %w", err)
			}
		}
		for _, name := range Names() {
			tag, err := tx.Exec(ctx, `INSERT INTO collections (name, records) VALUES ($1, '[]'::jsonb) ON CONFLICT (name) DO NOTHING`, string(name))
			if err != nil {
				return fmt.Errorf("storage: init %s: %w", name, err)
			}
			if tag.RowsAffected() > 0 {
				g.logger.Info().Str("collection", string(name)).Msg("created empty collection")
			}
		}
		if _, err := tx.Exec(ctx, `INSERT INTO counters (name, value) VALUES ($1, 0) ON CONFLICT (name) DO NOTHING`, ticketCounter); err != nil {
			return fmt.Errorf("storage: init counter: %w", err)
		}
		return nil
	})
}

func (g *PostgresGateway) Load(ctx context.Context, name Name) ([]json.RawMessage, error) {
	if err := name.validate(); err != nil {
		return nil, err
	}
	var raw []byte
	err := g.Pool.QueryRow(ctx, `SELECT records FROM collections WHERE name = $1`, string(name)).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return []json.RawMessage{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: load %s: %w", name, err)
	}
	var records []json.RawMessage
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("storage: decode %s: %w", name, err)
	}
	if records == nil {
		records = []json.RawMessage{}
	}
	return records, nil
}

func (g *PostgresGateway) Save(ctx context.Context, name Name, records []json.RawMessage) error {
	if err := name.validate(); err != nil {
		return err
	}
	if records == nil {
		records = []json.RawMessage{}
	}
	raw, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("storage: encode %s: %w", name, err)
	}
	_, err = g.Pool.Exec(ctx, `
		INSERT INTO collections (name, records) VALUES ($1, $2::jsonb)
		ON CONFLICT (name) DO UPDATE SET records = EXCLUDED.records
	`, string(name), string(raw))
	if err != nil {
		return fmt.Errorf("storage: save %s: %w", name, err)
	}
	return nil
}

func (g *PostgresGateway) NextTicketNumber(ctx context.Context) (int, error) {
	var next int64
	err := g.WithTx(ctx, func(tx pgx.Tx) error {
		return tx.QueryRow(ctx, `
			INSERT INTO counters (name, value) VALUES ($1, 1)
			ON CONFLICT (name) DO UPDATE SET value = counters.value + 1
			RETURNING value
		`, ticketCounter).Scan(&next)
	})
	if err != nil {
		return 0, fmt.Errorf("storage: next ticket number: %w", err)
	}
	return int(next), nil
}
