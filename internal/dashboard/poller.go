package dashboard

import (
	"context"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/aroy/employee-dashboard/internal/config"
	"github.com/aroy/employee-dashboard/internal/feed"
)

// Poller refreshes the summary on a fixed interval. A tick fetches all
// four feeds concurrently but only rebuilds the join when some feed's
// generation counter has advanced since the last build; an unchanged
// snapshot set makes the tick a no-op. Poke forces an immediate refresh
// and is driven by feed.reloaded broker events when a broker is
// configured.
type Poller struct {
	client   *Client
	interval time.Duration
	poke     chan struct{}

	summary atomic.Pointer[Summary]
	gens    map[string]uint64 // last built generations; Run goroutine only
}

func NewPoller(client *Client, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	return &Poller{
		client:   client,
		interval: interval,
		poke:     make(chan struct{}, 1),
		gens:     make(map[string]uint64),
	}
}

// Summary returns the most recently built summary, or nil before the
// first successful refresh.
func (p *Poller) Summary() *Summary { return p.summary.Load() }

// Poke requests an immediate refresh. It never blocks; a refresh is
// already pending when the buffer is full.
func (p *Poller) Poke() {
	select {
	case p.poke <- struct{}{}:
	default:
	}
}

// Run polls until ctx is cancelled. The first refresh happens
// immediately so the HTTP surface comes up populated when the feed
// service is reachable.
func (p *Poller) Run(ctx context.Context) {
	p.refresh(ctx)
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.refresh(ctx)
		case <-p.poke:
			p.refresh(ctx)
		}
	}
}

// refresh fetches every feed and rebuilds the summary if anything moved.
// Any fetch error leaves the previous summary in place.
func (p *Poller) refresh(ctx context.Context) {
	feeds, gens, err := p.fetchAll(ctx, config.FeedNames)
	if err != nil {
		log.Printf("dashboard: refresh skipped: %v", err)
		return
	}

	if p.summary.Load() != nil && !p.advanced(gens) {
		return
	}

	s := BuildSummary(
		feeds["Employee_Data1"],
		feeds["timesheet"],
		feeds["CompanyDetails"],
		feeds["Modules_Tasks"],
		gens,
	)
	p.summary.Store(&s)
	p.gens = gens
}

func (p *Poller) advanced(gens map[string]uint64) bool {
	for name, g := range gens {
		if p.gens[name] != g {
			return true
		}
	}
	return false
}

func (p *Poller) fetchAll(ctx context.Context, names []string) (map[string][]feed.Row, map[string]uint64, error) {
	var (
		mu       sync.Mutex
		wg       sync.WaitGroup
		firstErr error
	)
	feeds := make(map[string][]feed.Row, len(names))
	gens := make(map[string]uint64, len(names))
	for _, name := range names {
		wg.Add(1)
		go func(name string) {
			defer wg.Done()
			rows, gen, err := p.client.Fetch(ctx, name)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if firstErr == nil {
					firstErr = err
				}
				return
			}
			feeds[name] = rows
			gens[name] = gen
		}(name)
	}
	wg.Wait()
	if firstErr != nil {
		return nil, nil, firstErr
	}
	return feeds, gens, nil
}
