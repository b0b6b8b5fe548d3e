package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"pumpScope/internal/model"
)

// Store provides append-only Postgres persistence for token events.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("pg dsn is required")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return &Store{pool: pool}, nil
}

// Append inserts one record into token_events. Rows are never updated or
// deleted.
func (s *Store) Append(ctx context.Context, rec model.TokenRecord) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO token_events (
			signature, mint, trader_public_key, tx_type, initial_buy, sol_amount,
			bonding_curve_key, v_tokens_in_curve, v_sol_in_curve, market_cap_sol,
			token_name, symbol, metadata_uri, pool, ingested_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,now())
	`,
		rec.Signature,
		rec.Mint,
		rec.TraderPublicKey,
		rec.TxType,
		rec.InitialBuy,
		rec.SolAmount,
		rec.BondingCurveKey,
		rec.VTokensInCurve,
		rec.VSolInCurve,
		rec.MarketCapSol,
		rec.Name,
		rec.Symbol,
		rec.MetadataURI,
		rec.Pool,
	)
	if err != nil {
		return fmt.Errorf("insert token event: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	if s.pool != nil {
		s.pool.Close()
	}
	return nil
}
