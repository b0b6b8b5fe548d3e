package storage

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"pumpScope/internal/model"
)

// CSVStorage appends records to a CSV file, writing the header row once on
// first creation. Appends are serialized; existing rows are never rewritten.
type CSVStorage struct {
	path string
	mu   sync.Mutex
}

func NewCSVStorage(path string) *CSVStorage {
	return &CSVStorage{path: path}
}

// Append writes one data row, creating the file with a header first if it
// does not exist yet.
func (s *CSVStorage) Append(_ context.Context, rec model.TokenRecord) error {
	dir := filepath.Dir(s.path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	needHeader, err := s.needHeader()
	if err != nil {
		return err
	}

	file, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open output file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if needHeader {
		if err := writer.Write(model.Header()); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
	}
	if err := writer.Write(rec.Row()); err != nil {
		return fmt.Errorf("write record: %w", err)
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush output: %w", err)
	}

	return nil
}

func (s *CSVStorage) Close() error {
	return nil
}

func (s *CSVStorage) needHeader() (bool, error) {
	stat, err := os.Stat(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return true, nil
		}
		return false, fmt.Errorf("stat output file: %w", err)
	}
	return stat.Size() == 0, nil
}
