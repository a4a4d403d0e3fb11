package hostpolicy

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Provider serves the current deny-list snapshot and keeps it fresh.
// Requests read the snapshot through Current; reloads swap it atomically
// so a request never observes a half-parsed rule set.
type Provider struct {
	path    string
	logger  *slog.Logger
	current atomic.Pointer[Policy]

	// OnReload, when set before Watch starts, is called after every
	// reload attempt with the outcome and the policy now in force.
	OnReload func(ok bool, policy *Policy)

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// NewProvider loads the initial deny list from path. An empty path yields
// a provider that allows everything and never watches.
func NewProvider(path string, logger *slog.Logger) (*Provider, error) {
	if logger == nil {
		logger = slog.Default()
	}

	p := &Provider{
		path:   path,
		logger: logger,
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
	}

	if path == "" {
		return p, nil
	}

	policy, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	p.current.Store(policy)
	logger.Info("host deny list loaded", "path", path, "rules", policy.RuleCount())

	return p, nil
}

// Current returns the active policy snapshot. May be nil (allow all).
func (p *Provider) Current() *Policy {
	return p.current.Load()
}

// Watch blocks, reloading the deny list whenever the file changes, until
// the context is cancelled or Stop is called. The parent directory is
// watched rather than the file itself so atomic replace-by-rename (the
// way editors and config management tools write files) is still observed.
func (p *Provider) Watch(ctx context.Context, debounce time.Duration) error {
	if p.path == "" {
		return nil
	}

	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return fmt.Errorf("hostpolicy: watcher already running")
	}
	p.running = true
	p.mu.Unlock()

	defer func() {
		p.mu.Lock()
		p.running = false
		p.mu.Unlock()
		close(p.doneCh)
	}()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("hostpolicy: create watcher: %w", err)
	}
	defer watcher.Close()

	dir := filepath.Dir(p.path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("hostpolicy: watch %q: %w", dir, err)
	}

	if debounce <= 0 {
		debounce = 100 * time.Millisecond
	}
	debouncer := newDebouncer(debounce)
	defer debouncer.stop()

	p.logger.Info("host deny list watcher started",
		"path", p.path,
		"debounce_ms", debounce.Milliseconds(),
	)

	target := filepath.Clean(p.path)
	for {
		select {
		case <-ctx.Done():
			p.logger.Info("host deny list watcher stopped")
			return nil

		case <-p.stopCh:
			p.logger.Info("host deny list watcher stopped")
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return fmt.Errorf("hostpolicy: watcher events channel closed")
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&fsnotify.Chmod == fsnotify.Chmod {
				continue
			}

			debouncer.trigger(func() {
				p.reload()
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return fmt.Errorf("hostpolicy: watcher errors channel closed")
			}
			p.logger.Error("host deny list watcher error", "error", err)
			// Keep watching despite transient errors.
		}
	}
}

// Stop terminates a running Watch and waits for it to return.
func (p *Provider) Stop() {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return
	}
	p.mu.Unlock()

	close(p.stopCh)
	<-p.doneCh
}

// reload parses the file and swaps the snapshot. A parse failure keeps
// the previous rules in force.
func (p *Provider) reload() {
	policy, err := LoadFile(p.path)
	if err != nil {
		p.logger.Error("host deny list reload failed, keeping previous rules",
			"path", p.path,
			"error", err,
		)
		if p.OnReload != nil {
			p.OnReload(false, p.Current())
		}
		return
	}

	p.current.Store(policy)
	p.logger.Info("host deny list reloaded", "path", p.path, "rules", policy.RuleCount())
	if p.OnReload != nil {
		p.OnReload(true, policy)
	}
}

// debouncer collapses bursts of file events into a single reload after a
// quiet period.
type debouncer struct {
	interval time.Duration
	mu       sync.Mutex
	timer    *time.Timer
	callback func()
	stopCh   chan struct{}
}

func newDebouncer(interval time.Duration) *debouncer {
	return &debouncer{
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

func (d *debouncer) trigger(callback func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.callback = callback
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.interval, func() {
		select {
		case <-d.stopCh:
			return
		default:
		}
		d.mu.Lock()
		cb := d.callback
		d.mu.Unlock()
		if cb != nil {
			cb()
		}
	})
}

func (d *debouncer) stop() {
	close(d.stopCh)

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.callback = nil
}
