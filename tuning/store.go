package tuning

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/afero"

	"github.com/lixenwraith/skidpad/log"
	"github.com/lixenwraith/skidpad/parameter"
	"github.com/lixenwraith/skidpad/status"
)

// ReloadEvent describes the outcome of one reload attempt
// Params is the snapshot in effect afterwards; Err is nil on success
type ReloadEvent struct {
	Version uint64
	Params  *ParameterSet
	Err     error
}

// Store owns the live parameter snapshot and replaces it when the backing file changes
// Current is lock-free; reloads are serialized internally
type Store struct {
	fs     afero.Fs
	path   string
	format Format
	log    *log.Logger

	pollInterval time.Duration

	current atomic.Pointer[ParameterSet]
	version atomic.Uint64
	lastErr atomic.Pointer[ConfigParseError]

	mu              sync.Mutex
	hooks           []func(ReloadEvent)
	statSeen        bool
	modTime         time.Time
	size            int64
	attemptDigest   uint64
	publishedDigest uint64
	missing         bool

	statVersion  *atomic.Int64
	statReloads  *atomic.Int64
	statFailures *atomic.Int64
	statLastErr  *status.AtomicString
}

type Option func(*Store)

func WithLogger(l *log.Logger) Option {
	return func(s *Store) { s.log = l.Named("tuning") }
}

// WithRegistry publishes reload counters to the status registry
func WithRegistry(reg *status.Registry) Option {
	return func(s *Store) {
		s.statVersion = reg.Ints.Get(status.ConfigVersion)
		s.statReloads = reg.Ints.Get(status.ConfigReloads)
		s.statFailures = reg.Ints.Get(status.ConfigReloadFailures)
		s.statLastErr = reg.Strings.Get(status.ConfigLastError)
	}
}

// WithPollInterval overrides the fallback polling period used by Watch
func WithPollInterval(d time.Duration) Option {
	return func(s *Store) { s.pollInterval = d }
}

// Open creates a store for path and performs the initial load
// An unreadable or invalid initial file leaves Default in place and is reported through LastError
func Open(fsys afero.Fs, path string, opts ...Option) (*Store, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	s := &Store{
		fs:           fsys,
		path:         filepath.Clean(path),
		format:       format,
		log:          log.Nop(),
		pollInterval: parameter.ConfigPollInterval,
		statVersion:  new(atomic.Int64),
		statReloads:  new(atomic.Int64),
		statFailures: new(atomic.Int64),
		statLastErr:  new(status.AtomicString),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.current.Store(Default())

	if _, err := s.PollAndReload(); err != nil {
		s.log.Warn("initial parameter load failed, using built-in defaults", log.String("path", s.path))
	}
	return s, nil
}

// Load reads and validates a parameter file once, without a store
func Load(fsys afero.Fs, path string) (*ParameterSet, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, &ConfigParseError{Path: path, Err: err}
	}
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		return nil, &ConfigParseError{Path: path, Err: err}
	}
	p, err := Parse(data, format)
	if err != nil {
		return nil, &ConfigParseError{Path: path, Err: err}
	}
	return p, nil
}

func (s *Store) Path() string { return s.path }

// Current returns the live snapshot; callers must treat it as read-only
func (s *Store) Current() *ParameterSet { return s.current.Load() }

// Version counts successful loads, 0 means the built-in defaults are in effect
func (s *Store) Version() uint64 { return s.version.Load() }

// LastError returns the diagnostic of the most recent failed attempt, or nil once a later attempt succeeds
func (s *Store) LastError() error {
	if e := s.lastErr.Load(); e != nil {
		return e
	}
	return nil
}

// OnReload registers fn to run after every reload attempt that changed the outcome
// fn runs on the reloading goroutine and must not block
func (s *Store) OnReload(fn func(ReloadEvent)) {
	s.mu.Lock()
	s.hooks = append(s.hooks, fn)
	s.mu.Unlock()
}

// PollAndReload checks the file for modification and republishes a valid snapshot
// Returns true when a new snapshot was published; a *ConfigParseError when the file was rejected
func (s *Store) PollAndReload() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	info, err := s.fs.Stat(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			if s.missing {
				return false, s.LastError()
			}
			s.missing = true
			s.statSeen = false
		}
		return false, s.fail(err)
	}
	s.missing = false

	if s.statSeen && info.ModTime().Equal(s.modTime) && info.Size() == s.size {
		return false, nil
	}

	data, err := afero.ReadFile(s.fs, s.path)
	if err != nil {
		return false, s.fail(fmt.Errorf("read: %w", err))
	}
	s.statSeen = true
	s.modTime = info.ModTime()
	s.size = info.Size()

	digest := xxhash.Sum64(data)
	if s.version.Load() > 0 && digest == s.publishedDigest {
		// touched or reverted to the live content
		s.attemptDigest = digest
		s.clearError()
		return false, nil
	}
	if s.attemptDigest == digest && s.lastErr.Load() != nil {
		return false, s.LastError()
	}
	s.attemptDigest = digest

	p, err := Parse(data, s.format)
	if err != nil {
		return false, s.fail(err)
	}

	s.current.Store(p)
	s.publishedDigest = digest
	v := s.version.Add(1)
	s.statVersion.Store(int64(v))
	s.statReloads.Add(1)
	s.clearError()

	s.log.Info("parameters loaded", log.String("path", s.path), log.Uint64("version", v))
	s.notify(ReloadEvent{Version: v, Params: p})
	return true, nil
}

// fail records a rejected attempt; caller holds mu
func (s *Store) fail(cause error) error {
	perr := &ConfigParseError{Path: s.path, Err: cause}
	s.lastErr.Store(perr)
	s.statFailures.Add(1)
	s.statLastErr.StoreError(perr)

	s.log.Warn("parameter reload rejected, keeping previous snapshot",
		log.String("path", s.path),
		log.Int("problems", len(perr.Problems())),
		log.ErrorField(cause))
	s.notify(ReloadEvent{Version: s.version.Load(), Params: s.current.Load(), Err: perr})
	return perr
}

func (s *Store) clearError() {
	if s.lastErr.Swap(nil) != nil {
		s.statLastErr.StoreError(nil)
	}
}

func (s *Store) notify(ev ReloadEvent) {
	for _, fn := range s.hooks {
		fn(ev)
	}
}

// Watch reloads on file system notifications and on a fallback ticker until ctx is done
// Notification setup failures degrade to polling only
func (s *Store) Watch(ctx context.Context) error {
	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	var (
		events <-chan fsnotify.Event
		errs   <-chan error
	)
	if _, native := s.fs.(*afero.OsFs); native {
		w, err := fsnotify.NewWatcher()
		if err != nil {
			s.log.Warn("file notifications unavailable, polling only", log.ErrorField(err))
		} else {
			defer w.Close()
			// editors replace files through rename, so watch the directory
			if err := w.Add(filepath.Dir(s.path)); err != nil {
				s.log.Warn("cannot watch parameter directory, polling only", log.ErrorField(err))
			} else {
				events, errs = w.Events, w.Errors
			}
		}
	}

	var settle <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			if filepath.Clean(ev.Name) != s.path || ev.Has(fsnotify.Chmod) && !ev.Has(fsnotify.Write) {
				continue
			}
			// writers often truncate then write; coalesce the burst
			settle = time.After(parameter.ConfigSettleDelay)

		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			s.log.Warn("file watcher error", log.ErrorField(err))

		case <-settle:
			settle = nil
			s.PollAndReload()

		case <-ticker.C:
			s.PollAndReload()
		}
	}
}
