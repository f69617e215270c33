package feed

import (
	"context"
	"log"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ReloadFunc is invoked after a watched file has been re-parsed and its
// snapshot swapped. gen is the feed's new generation number.
type ReloadFunc func(name string, gen uint64, rows int)

// Watcher reloads CSV files into a Store when they change on disk.
//
// The parent directories are watched rather than the files themselves:
// editors and spreadsheet exports commonly replace files via
// rename-over, which silently drops a watch attached to the old inode.
// Events are debounced per file so one save (often a WRITE burst plus a
// CHMOD) results in a single parse, and a per-feed lock serializes
// reloads so a slow parse can never swap its result over a newer one.
type Watcher struct {
	store    *Store
	paths    map[string]string // absolute file path -> feed name
	debounce time.Duration
	onReload ReloadFunc

	mu        sync.Mutex
	timers    map[string]*time.Timer
	reloading map[string]*sync.Mutex // feed name -> reload lock
}

// NewWatcher prepares a watcher for the given feed-name -> file-path
// mapping. onReload may be nil.
func NewWatcher(store *Store, files map[string]string, debounce time.Duration, onReload ReloadFunc) (*Watcher, error) {
	paths := make(map[string]string, len(files))
	reloading := make(map[string]*sync.Mutex, len(files))
	for name, p := range files {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, err
		}
		paths[abs] = name
		reloading[name] = &sync.Mutex{}
	}
	if debounce <= 0 {
		debounce = 200 * time.Millisecond
	}
	return &Watcher{
		store:     store,
		paths:     paths,
		debounce:  debounce,
		onReload:  onReload,
		timers:    make(map[string]*time.Timer),
		reloading: reloading,
	}, nil
}

// Run watches until ctx is cancelled. It returns an error only if the
// underlying notifier cannot be started; reload failures are logged and
// the last-good snapshot stays in place.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fw.Close()

	dirs := make(map[string]bool)
	for p := range w.paths {
		dirs[filepath.Dir(p)] = true
	}
	for d := range dirs {
		if err := fw.Add(d); err != nil {
			return err
		}
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !ev.Op.Has(fsnotify.Write) && !ev.Op.Has(fsnotify.Create) && !ev.Op.Has(fsnotify.Rename) {
				continue
			}
			abs, err := filepath.Abs(ev.Name)
			if err != nil {
				continue
			}
			name, watched := w.paths[abs]
			if !watched {
				continue
			}
			w.schedule(name, abs)
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			log.Printf("feed-watcher: %v", err)
		}
	}
}

// schedule arms (or re-arms) the debounce timer for one feed.
func (w *Watcher) schedule(name, path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if t, ok := w.timers[name]; ok {
		t.Reset(w.debounce)
		return
	}
	w.timers[name] = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		delete(w.timers, name)
		w.mu.Unlock()
		w.reload(name, path)
	})
}

// reload parses the file and swaps the feed's snapshot. The per-feed
// lock keeps reloads of one feed sequential: the timer map forgets a
// timer before its reload runs, so a burst of events can otherwise
// start a second reload while an earlier parse is still in flight.
func (w *Watcher) reload(name, path string) {
	lock := w.reloading[name]
	lock.Lock()
	defer lock.Unlock()

	rows, err := LoadFile(path)
	if err != nil {
		// Keep serving the previous snapshot; a half-written file will
		// trigger another event once the writer finishes.
		log.Printf("feed-watcher: reload %s failed: %v", name, err)
		return
	}
	gen, ok := w.store.Replace(name, rows)
	if !ok {
		log.Printf("feed-watcher: unknown feed %q", name)
		return
	}
	log.Printf("feed-watcher: reloaded %s (generation %d, %d rows)", name, gen, len(rows))
	if w.onReload != nil {
		w.onReload(name, gen, len(rows))
	}
}

// LoadAll parses every configured file into the store. Individual
// failures are logged, matching the original behavior of serving only
// the feeds that parsed; the HTTP layer 404s unloaded names.
func LoadAll(store *Store, files map[string]string) {
	for name, path := range files {
		rows, err := LoadFile(path)
		if err != nil {
			log.Printf("feed: initial load of %s failed: %v", name, err)
			continue
		}
		if _, ok := store.Replace(name, rows); ok {
			log.Printf("feed: loaded %s (%d rows)", name, len(rows))
		}
	}
}
