package dashboard

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/aroy/employee-dashboard/internal/config"
	"github.com/aroy/employee-dashboard/internal/feed"
)

// fakeFeedServer serves canned feed snapshots with generation headers.
type fakeFeedServer struct {
	mu   sync.Mutex
	rows map[string][]feed.Row
	gens map[string]uint64
}

func newFakeFeedServer() *fakeFeedServer {
	f := &fakeFeedServer{
		rows: make(map[string][]feed.Row),
		gens: make(map[string]uint64),
	}
	for _, name := range config.FeedNames {
		f.rows[name] = []feed.Row{}
		f.gens[name] = 1
	}
	return f
}

func (f *fakeFeedServer) set(name string, rows []feed.Row) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows[name] = rows
	f.gens[name]++
}

func (f *fakeFeedServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	name := r.URL.Path[1:]
	rows, ok := f.rows[name]
	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("X-Feed-Generation", strconv.FormatUint(f.gens[name], 10))
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(rows)
}

func TestPoller_BuildsSummary(t *testing.T) {
	t.Parallel()

	srv := newFakeFeedServer()
	srv.set("Employee_Data1", []feed.Row{{"Emp_ID": "E1", "User_Fname": "Ada", "User_Lname": "L"}})
	srv.set("timesheet", []feed.Row{{"User_Id": "E1", "hours": "01:00:00", "Status": "Approved"}})
	ts := httptest.NewServer(srv)
	defer ts.Close()

	p := NewPoller(NewClient(ts.URL), time.Second)
	p.refresh(context.Background())

	s := p.Summary()
	require.NotNil(t, s)
	require.Equal(t, 1, s.TotalEmployees)
	require.Equal(t, HoursMins{Hours: 1, Mins: 0}, s.TotalHours)
	require.Equal(t, uint64(2), s.Generations["timesheet"])
}

// Unchanged generations make a refresh a no-op: the summary pointer is
// reused instead of being rebuilt.
func TestPoller_SkipsWhenGenerationsUnchanged(t *testing.T) {
	t.Parallel()

	srv := newFakeFeedServer()
	ts := httptest.NewServer(srv)
	defer ts.Close()

	p := NewPoller(NewClient(ts.URL), time.Second)
	p.refresh(context.Background())
	first := p.Summary()
	require.NotNil(t, first)

	p.refresh(context.Background())
	require.Same(t, first, p.Summary())

	srv.set("timesheet", []feed.Row{{"User_Id": "E1", "hours": "00:30:00", "Status": "Pending"}})
	p.refresh(context.Background())
	require.NotSame(t, first, p.Summary())
	require.Equal(t, HoursMins{Hours: 0, Mins: 30}, p.Summary().TotalHours)
}

// A failing feed fetch leaves the previous summary in place.
func TestPoller_KeepsSummaryOnFetchError(t *testing.T) {
	t.Parallel()

	srv := newFakeFeedServer()
	ts := httptest.NewServer(srv)

	p := NewPoller(NewClient(ts.URL), time.Second)
	p.refresh(context.Background())
	first := p.Summary()
	require.NotNil(t, first)

	ts.Close()
	p.refresh(context.Background())
	require.Same(t, first, p.Summary())
}

func TestPoller_PokeDoesNotBlock(t *testing.T) {
	t.Parallel()

	p := NewPoller(NewClient("http://127.0.0.1:0"), time.Second)
	for i := 0; i < 10; i++ {
		p.Poke()
	}
}
