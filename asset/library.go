// File: asset/library.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Library of loaded assets with background loading.

package asset

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/eapache/queue"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/momentics/virst/api"
)

var tracer = otel.Tracer("github.com/momentics/virst/asset")

// Entry is one loaded asset.
type Entry struct {
	ID       uuid.UUID
	FileName string
	Path     string
	Asset    api.Asset
}

// Result is the outcome of a background load, delivered by Poll.
type Result struct {
	Path  string
	Entry Entry
	Err   error
}

// Library holds loaded entries in load order.
type Library struct {
	loader Loader
	log    *slog.Logger

	mu      sync.Mutex
	entries []Entry
	inbox   *queue.Queue // of Result

	pending atomic.Int64
	flight  singleflight.Group
}

// NewLibrary returns an empty library backed by loader. A nil logger means
// slog.Default().
func NewLibrary(loader Loader, logger *slog.Logger) *Library {
	if logger == nil {
		logger = slog.Default()
	}
	return &Library{
		loader: loader,
		log:    logger,
		inbox:  queue.New(),
	}
}

// Load loads path synchronously and adds it to the library.
func (l *Library) Load(ctx context.Context, path string) (Entry, error) {
	l.pending.Add(1)
	defer l.pending.Add(-1)
	e, err := l.load(ctx, path)
	if err != nil {
		return Entry{}, err
	}
	l.add(e)
	return e, nil
}

// LoadAsync starts a background load. The result is queued for Poll.
func (l *Library) LoadAsync(ctx context.Context, path string) {
	l.pending.Add(1)
	go func() {
		defer l.pending.Add(-1)
		e, err := l.load(ctx, path)
		l.mu.Lock()
		l.inbox.Add(Result{Path: path, Entry: e, Err: err})
		l.mu.Unlock()
	}()
}

// Poll drains finished background loads, adds the successful ones and
// returns every result in completion order. Call it from the UI goroutine.
func (l *Library) Poll() []Result {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.inbox.Length() == 0 {
		return nil
	}
	out := make([]Result, 0, l.inbox.Length())
	for l.inbox.Length() > 0 {
		r := l.inbox.Remove().(Result)
		if r.Err == nil {
			l.addLocked(r.Entry)
		} else {
			l.log.Warn("asset: background load failed", "path", r.Path, "err", r.Err)
		}
		out = append(out, r)
	}
	return out
}

// LoadAll loads paths with at most limit loads in flight. Successful entries
// are added and returned in input order; failures are joined into the error.
func (l *Library) LoadAll(ctx context.Context, paths []string, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 1
	}
	l.pending.Add(1)
	defer l.pending.Add(-1)

	entries := make([]Entry, len(paths))
	errs := make([]error, len(paths))
	var g errgroup.Group
	g.SetLimit(limit)
	for i, p := range paths {
		i, p := i, p
		g.Go(func() error {
			entries[i], errs[i] = l.load(ctx, p)
			return nil
		})
	}
	_ = g.Wait()

	out := make([]Entry, 0, len(paths))
	for i, e := range entries {
		if errs[i] == nil {
			l.add(e)
			out = append(out, e)
		}
	}
	return out, errors.Join(errs...)
}

// Entries returns a copy of the library contents.
func (l *Library) Entries() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Len returns the number of entries.
func (l *Library) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// Get finds an entry by ID.
func (l *Library) Get(id uuid.UUID) (Entry, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, e := range l.entries {
		if e.ID == id {
			return e, true
		}
	}
	return Entry{}, false
}

// Remove drops an entry. An asset already on display stays alive until the
// slot and in-flight frames release it.
func (l *Library) Remove(id uuid.UUID) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i, e := range l.entries {
		if e.ID == id {
			l.entries = append(l.entries[:i], l.entries[i+1:]...)
			return true
		}
	}
	return false
}

// Busy reports whether any load is in progress.
func (l *Library) Busy() bool {
	return l.pending.Load() > 0
}

// load runs the loader. Concurrent loads of the same path share one call
// and therefore one entry ID.
func (l *Library) load(ctx context.Context, path string) (Entry, error) {
	v, err, shared := l.flight.Do(path, func() (any, error) {
		ctx, span := tracer.Start(ctx, "asset.Load",
			trace.WithAttributes(attribute.String("asset.path", path)))
		defer span.End()

		a, err := l.loader.Load(ctx, path)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "load failed")
			return Entry{}, err
		}
		e := Entry{
			ID:       uuid.New(),
			FileName: filepath.Base(path),
			Path:     path,
			Asset:    a,
		}
		l.log.Info("asset: loaded", "path", path, "name", a.Name(), "params", len(a.Parameters()))
		return e, nil
	})
	if shared {
		l.log.Debug("asset: coalesced load", "path", path)
	}
	if err != nil {
		return Entry{}, err
	}
	return v.(Entry), nil
}

func (l *Library) add(e Entry) {
	l.mu.Lock()
	l.addLocked(e)
	l.mu.Unlock()
}

func (l *Library) addLocked(e Entry) {
	for _, have := range l.entries {
		if have.ID == e.ID {
			return
		}
	}
	l.entries = append(l.entries, e)
}
