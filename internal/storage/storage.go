package storage

import (
	"context"

	"pumpScope/internal/model"
)

// Storage defines an append-only sink for normalized records.
type Storage interface {
	Append(ctx context.Context, rec model.TokenRecord) error
	Close() error
}

// Multi fans every record out to several sinks. The first append error wins.
type Multi []Storage

func (m Multi) Append(ctx context.Context, rec model.TokenRecord) error {
	for _, sink := range m {
		if err := sink.Append(ctx, rec); err != nil {
			return err
		}
	}
	return nil
}

func (m Multi) Close() error {
	var firstErr error
	for _, sink := range m {
		if err := sink.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
