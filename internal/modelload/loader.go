package modelload

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/dustin/go-humanize"

	"figure-viewer/internal/scene"
)

// Loader fetches and converts glTF models. The zero value reads paths relative to the working directory.
type Loader struct {
	// Base is the location references are resolved against: an http(s) URL or a directory.
	Base string
	// Client is used for remote references. nil means http.DefaultClient.
	Client *http.Client
	// Log receives one info line per successful load. nil disables it.
	Log *slog.Logger
}

// Result is the outcome of a load: exactly one of Root and Err is set.
type Result struct {
	Root   *scene.Node
	Source string
	Err    error
}

// Load fetches ref, sniffs it, decodes it and converts its root scene. It blocks until done or ctx ends.
func (l *Loader) Load(ctx context.Context, ref string) (*scene.Node, error) {
	loc, err := Resolve(l.Base, ref)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	data, err := fetch(ctx, l.Client, loc)
	if err != nil {
		return nil, err
	}
	doc, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", loc, err)
	}
	root, err := FromDocument(doc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", loc, err)
	}
	if l.Log != nil {
		l.Log.Info("model loaded",
			"source", loc,
			"size", humanize.Bytes(uint64(len(data))),
			"nodes", root.Count(),
			"meshes", len(root.Meshes()),
			"took", time.Since(start).Round(time.Millisecond))
	}
	return root, nil
}

// LoadAsync starts Load on its own goroutine and returns the future for its result.
func (l *Loader) LoadAsync(ctx context.Context, ref string) *Pending {
	ctx, cancel := context.WithCancel(ctx)
	p := &Pending{done: make(chan struct{}), cancel: cancel, source: ref}
	go func() {
		defer cancel()
		root, err := l.Load(ctx, ref)
		p.resolve(Result{Root: root, Source: ref, Err: err})
	}()
	return p
}

// Pending is a single-shot future for an asynchronous load.
type Pending struct {
	done   chan struct{}
	cancel context.CancelFunc
	source string

	once   sync.Once
	result Result
}

// ErrCanceled is the result error of a load canceled through Pending.Cancel before it finished.
var ErrCanceled = errors.New("modelload: load canceled")

func (p *Pending) resolve(r Result) {
	p.once.Do(func() {
		p.result = r
		close(p.done)
	})
}

// Done is closed once the result is available.
func (p *Pending) Done() <-chan struct{} { return p.done }

// Poll returns the result without blocking. ok is false while the load is in flight.
func (p *Pending) Poll() (Result, bool) {
	select {
	case <-p.done:
		return p.result, true
	default:
		return Result{}, false
	}
}

// Wait blocks until the result is available or ctx ends.
func (p *Pending) Wait(ctx context.Context) (Result, error) {
	select {
	case <-p.done:
		return p.result, nil
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}
}

// Cancel aborts the load. If it had not finished, the result becomes ErrCanceled.
func (p *Pending) Cancel() {
	p.cancel()
	p.resolve(Result{Source: p.source, Err: ErrCanceled})
}
