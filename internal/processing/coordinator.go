package processing

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/Code24x7-R/Photobook/internal/models"
	"github.com/Code24x7-R/Photobook/internal/providers"
	"github.com/Code24x7-R/Photobook/internal/storage"
)

const defaultResetDelay = 1500 * time.Millisecond

// Enricher generates metadata for a single photo
type Enricher interface {
	Describe(ctx context.Context, image providers.Image) (models.Enrichment, error)
}

// Coordinator registers uploaded photos, fans out one enrichment attempt per
// photo, and tracks a shared {completed,total} progress counter across
// batches. A short while after completed catches up with total the counter
// resets to zero.
type Coordinator struct {
	store      *storage.PhotoStore
	enricher   Enricher
	resetDelay time.Duration

	mu         sync.Mutex
	completed  int
	total      int
	resetTimer *time.Timer

	wg sync.WaitGroup

	// afterFunc stands in for time.AfterFunc so tests can trigger the reset
	afterFunc func(d time.Duration, f func()) *time.Timer
}

func New(store *storage.PhotoStore, enricher Enricher, resetDelay time.Duration) *Coordinator {
	if resetDelay <= 0 {
		resetDelay = defaultResetDelay
	}
	return &Coordinator{
		store:      store,
		enricher:   enricher,
		resetDelay: resetDelay,
		afterFunc:  time.AfterFunc,
	}
}

// Process registers a batch of photos and starts enrichment for each one.
// The progress total grows by the batch size before any attempt begins, so
// observers see the full amount of outstanding work immediately. Batches
// share one counter; there is no per-batch isolation.
func (c *Coordinator) Process(ctx context.Context, records ...models.PhotoRecord) []models.PhotoRecord {
	added := c.store.Add(records...)
	if len(added) == 0 {
		return added
	}

	c.mu.Lock()
	c.total += len(added)
	c.mu.Unlock()

	for _, record := range added {
		c.wg.Add(1)
		go c.enrich(ctx, record)
	}
	return added
}

// Reenrich runs another enrichment pass for one photo already in the
// registry, from its retained asset
func (c *Coordinator) Reenrich(ctx context.Context, id string) error {
	if !c.store.MarkEnriching(id) {
		return fmt.Errorf("photo %s not found", id)
	}
	record, ok := c.store.Get(id)
	if !ok {
		return fmt.Errorf("photo %s not found", id)
	}

	c.mu.Lock()
	c.total++
	c.mu.Unlock()

	c.wg.Add(1)
	go c.enrich(ctx, record)
	return nil
}

// Progress returns a snapshot of the shared counter
func (c *Coordinator) Progress() models.Progress {
	c.mu.Lock()
	defer c.mu.Unlock()
	return models.Progress{Completed: c.completed, Total: c.total}
}

// Wait blocks until every outstanding enrichment attempt has settled
func (c *Coordinator) Wait() {
	c.wg.Wait()
}

// enrich settles exactly once per attempt. A failure is recorded on the
// record and never aborts sibling attempts; a record deleted mid-flight
// absorbs the late result as a no-op.
func (c *Coordinator) enrich(ctx context.Context, record models.PhotoRecord) {
	defer c.wg.Done()

	enrichment, err := c.describe(ctx, record)
	if err != nil {
		slog.Error("Enrichment failed", "id", record.ID, "file", record.FileName, "error", err)
	}
	c.store.ApplyEnrichment(record.ID, enrichment, err)
	c.settle()
}

func (c *Coordinator) describe(ctx context.Context, record models.PhotoRecord) (models.Enrichment, error) {
	data, err := os.ReadFile(record.AssetPath)
	if err != nil {
		return models.Enrichment{}, fmt.Errorf("reading photo asset: %w", err)
	}
	return c.enricher.Describe(ctx, providers.Image{Data: data, MIMEType: record.MIMEType})
}

// settle increments completed and, when it catches up with total, (re)arms
// the reset timer. The timer fires unconditionally: a batch started late in
// the window can see the counter reset under it, which the UI tolerates.
func (c *Coordinator) settle() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.completed++
	if c.total > 0 && c.completed >= c.total {
		if c.resetTimer != nil {
			c.resetTimer.Stop()
		}
		c.resetTimer = c.afterFunc(c.resetDelay, c.resetProgress)
	}
}

func (c *Coordinator) resetProgress() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.completed = 0
	c.total = 0
	c.resetTimer = nil
}
