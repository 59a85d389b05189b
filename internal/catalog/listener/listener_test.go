package listener

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/fekuna/omnipos-menu-service/internal/catalog"
	"github.com/fekuna/omnipos-menu-service/internal/events"
	"github.com/fekuna/omnipos-menu-service/internal/logger"
	"github.com/segmentio/kafka-go"
)

type scriptedReader struct {
	msgs []kafka.Message
	errs []error
}

func (r *scriptedReader) ReadMessage(ctx context.Context) (kafka.Message, error) {
	if len(r.errs) > 0 {
		err := r.errs[0]
		r.errs = r.errs[1:]
		return kafka.Message{}, err
	}
	if len(r.msgs) > 0 {
		m := r.msgs[0]
		r.msgs = r.msgs[1:]
		return m, nil
	}
	<-ctx.Done()
	return kafka.Message{}, ctx.Err()
}

func (r *scriptedReader) Close() error { return nil }

type countingCache struct {
	invalidations chan struct{}
}

func (c *countingCache) Get(context.Context) (*catalog.Snapshot, int64, error) { return nil, 0, nil }
func (c *countingCache) Set(context.Context, *catalog.Snapshot, int64) error   { return nil }
func (c *countingCache) Invalidate(context.Context) error {
	c.invalidations <- struct{}{}
	return nil
}

func message(t *testing.T, e any) kafka.Message {
	t.Helper()
	b, err := json.Marshal(e)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return kafka.Message{Value: b}
}

func TestCatalogListener_InvalidatesOnCatalogEvents(t *testing.T) {
	reader := &scriptedReader{
		errs: []error{errors.New("broker hiccup")},
		msgs: []kafka.Message{
			{Value: []byte("not json")},
			message(t, map[string]string{"event_type": "OrderCreated"}),
			message(t, events.New(events.ItemCreated, "item-1", nil)),
		},
	}
	cache := &countingCache{invalidations: make(chan struct{}, 4)}

	l := NewCatalogListener(reader, cache, logger.NewNop())
	l.backoff = time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		l.Start(ctx)
		close(done)
	}()

	select {
	case <-cache.invalidations:
	case <-time.After(2 * time.Second):
		t.Fatal("cache was not invalidated")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("listener did not stop after cancel")
	}

	if n := len(cache.invalidations); n != 0 {
		t.Errorf("extra invalidations = %d, want 0", n)
	}
}
