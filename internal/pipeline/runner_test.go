package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"pumpScope/internal/enrich"
	"pumpScope/internal/filter"
	"pumpScope/internal/model"
)

type fakeSource struct {
	frames     [][]byte
	index      int
	subscribed bool
	closed     bool
	mu         sync.Mutex
}

var errSourceDrained = errors.New("source drained")

func (f *fakeSource) Subscribe(_ context.Context) error {
	f.subscribed = true
	return nil
}

func (f *fakeSource) Next(_ context.Context) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed || f.index >= len(f.frames) {
		return nil, errSourceDrained
	}
	frame := f.frames[f.index]
	f.index++
	return frame, nil
}

func (f *fakeSource) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

type memoryStorage struct {
	mu      sync.Mutex
	records []model.TokenRecord
	err     error
}

func (m *memoryStorage) Append(_ context.Context, rec model.TokenRecord) error {
	if m.err != nil {
		return m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, rec)
	return nil
}

func (m *memoryStorage) Close() error { return nil }

type recordingEnricher struct {
	mu       sync.Mutex
	enriched []string
}

func (e *recordingEnricher) Enrich(_ context.Context, rec model.TokenRecord) enrich.Result {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.enriched = append(e.enriched, rec.Signature)
	return enrich.Result{ReachStatus: enrich.ReachNotApplicable}
}

func testConfig() RunConfig {
	return RunConfig{
		Thresholds: filter.Thresholds{
			MinInitialBuy: filter.DefaultMinInitialBuy,
			MinSolAmount:  filter.DefaultMinSolAmount,
			MinMarketCap:  filter.DefaultMinMarketCap,
		},
		MinReach:          30000,
		MaxRiskScore:      500,
		EnrichConcurrency: 2,
		ShutdownGrace:     time.Second,
	}
}

func TestRunnerPipeline(t *testing.T) {
	source := &fakeSource{frames: [][]byte{
		[]byte(`{"signature":"sig1","initialBuy":2000,"solAmount":0.5,"marketCapSol":50,"mint":"mintA","uri":"https://meta/x"}`),
		[]byte(`{"signature":"sig2","initialBuy":1}`),
		[]byte(`not json`),
		[]byte(`{"message":"Successfully subscribed"}`),
		[]byte(`{"signature":"sig3","initialBuy":5000,"solAmount":1,"marketCapSol":100}`),
	}}
	store := &memoryStorage{}
	enricher := &recordingEnricher{}

	runner := NewRunner(testConfig(), source, store, enricher, nil)

	err := runner.Run(context.Background())
	if !errors.Is(err, errSourceDrained) {
		t.Fatalf("expected drained source error, got %v", err)
	}
	if !source.subscribed {
		t.Fatalf("runner must subscribe before receiving")
	}
	if !source.closed {
		t.Fatalf("transport must be released on exit")
	}

	if len(store.records) != 3 {
		t.Fatalf("expected 3 appended records, got %d", len(store.records))
	}
	for i, want := range []string{"sig1", "sig2", "sig3"} {
		if store.records[i].Signature != want {
			t.Fatalf("append order mismatch at %d: %q != %q", i, store.records[i].Signature, want)
		}
	}

	enricher.mu.Lock()
	enriched := append([]string(nil), enricher.enriched...)
	enricher.mu.Unlock()
	if len(enriched) != 2 {
		t.Fatalf("expected 2 enrichments, got %v", enriched)
	}
	for _, sig := range enriched {
		if sig == "sig2" {
			t.Fatalf("routine record must not be enriched")
		}
	}
}

func TestRunnerAppendErrorIsFatal(t *testing.T) {
	source := &fakeSource{frames: [][]byte{
		[]byte(`{"signature":"sig1"}`),
	}}
	store := &memoryStorage{err: fmt.Errorf("disk full")}

	runner := NewRunner(testConfig(), source, store, &recordingEnricher{}, nil)

	err := runner.Run(context.Background())
	if err == nil || !errors.Is(err, store.err) {
		t.Fatalf("append failure must propagate, got %v", err)
	}
	if !source.closed {
		t.Fatalf("transport must be released after a fatal append")
	}
}

func TestRunnerCancellation(t *testing.T) {
	// A single frame, then Next blocks until Close.
	blockingSource := &blockingFakeSource{
		fakeSource: fakeSource{frames: [][]byte{
			[]byte(`{"signature":"sig1"}`),
		}},
		unblock: make(chan struct{}),
	}
	store := &memoryStorage{}

	runner := NewRunner(testConfig(), blockingSource, store, &recordingEnricher{}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		errCh <- runner.Run(ctx)
	}()

	for {
		store.mu.Lock()
		n := len(store.records)
		store.mu.Unlock()
		if n == 1 {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}

	cancel()

	select {
	case err := <-errCh:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("runner did not stop after cancellation")
	}

	if !blockingSource.closed {
		t.Fatalf("transport must be released after cancellation")
	}
}

type blockingFakeSource struct {
	fakeSource
	unblock chan struct{}
	once    sync.Once
}

func (b *blockingFakeSource) Next(ctx context.Context) ([]byte, error) {
	b.mu.Lock()
	if !b.closed && b.index < len(b.frames) {
		frame := b.frames[b.index]
		b.index++
		b.mu.Unlock()
		return frame, nil
	}
	b.mu.Unlock()

	<-b.unblock
	return nil, errSourceDrained
}

func (b *blockingFakeSource) Close() error {
	b.once.Do(func() { close(b.unblock) })
	return b.fakeSource.Close()
}
