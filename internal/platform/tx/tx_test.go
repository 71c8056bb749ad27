package tx_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"mdpomo/internal/platform/tx"
)

func TestKeyedManagerSerializesSameKey(t *testing.T) {
	t.Parallel()
	manager := tx.NewKeyedManager()
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		active  int
		maxSeen int
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = manager.Within(context.Background(), "log.md", func(context.Context) error {
				mu.Lock()
				active++
				if active > maxSeen {
					maxSeen = active
				}
				mu.Unlock()
				time.Sleep(2 * time.Millisecond)
				mu.Lock()
				active--
				mu.Unlock()
				return nil
			})
		}()
	}
	wg.Wait()
	if maxSeen != 1 {
		t.Fatalf("expected at most one holder, saw %d", maxSeen)
	}
}

func TestKeyedManagerHonorsCancellation(t *testing.T) {
	t.Parallel()
	manager := tx.NewKeyedManager()
	release := make(chan struct{})
	held := make(chan struct{})
	go func() {
		_ = manager.Within(context.Background(), "k", func(context.Context) error {
			close(held)
			<-release
			return nil
		})
	}()
	<-held

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := manager.Within(ctx, "k", func(context.Context) error { return nil })
	close(release)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestKeyedManagerReturnsCallbackError(t *testing.T) {
	t.Parallel()
	want := errors.New("boom")
	if err := tx.NewKeyedManager().Within(context.Background(), "a", func(context.Context) error { return want }); !errors.Is(err, want) {
		t.Fatalf("expected callback error, got %v", err)
	}
}
