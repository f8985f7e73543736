// Package bridge presents the unified health-data surface over one native
// platform transport: normalized reads and writes, permission-status
// reconciliation, and change subscriptions. It holds no persistent state;
// the only memory carried across calls is the in-process subscription
// registry, rebuilt from fresh tokens after a restart.
package bridge

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/meltforce/healthbridge/internal/models"
	"github.com/meltforce/healthbridge/internal/native"
)

// Options tune the service. Zero values fall back to the defaults below.
type Options struct {
	// DefaultLimit caps per-sample reads when the query sets no limit.
	DefaultLimit int

	// SessionGap is the sleep-session split threshold.
	SessionGap time.Duration

	// PollInterval is the change-token poll cadence on platforms without
	// push callbacks.
	PollInterval time.Duration

	// RecentWindow and RecentLimit bound the re-read that materializes a
	// subscription update payload.
	RecentWindow time.Duration
	RecentLimit  int
}

const (
	defaultLimit        = 1000
	defaultSessionGap   = 60 * time.Minute
	defaultPollInterval = 30 * time.Second
	defaultRecentWindow = time.Hour
	defaultRecentLimit  = 100
)

// Service is the unified normalization layer over one platform transport.
type Service struct {
	platform  models.Platform
	transport native.Transport
	log       *slog.Logger
	opts      Options

	// unavailable latches once the platform reports the health service
	// absent; every later operation short-circuits.
	unavailable atomic.Bool

	mu       sync.Mutex
	keyLocks map[models.DataType]*sync.Mutex
	subs     map[models.DataType]*subscription
}

// New creates a Service for one platform.
func New(platform models.Platform, transport native.Transport, opts Options, log *slog.Logger) *Service {
	if opts.DefaultLimit <= 0 {
		opts.DefaultLimit = defaultLimit
	}
	if opts.SessionGap <= 0 {
		opts.SessionGap = defaultSessionGap
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = defaultPollInterval
	}
	if opts.RecentWindow <= 0 {
		opts.RecentWindow = defaultRecentWindow
	}
	if opts.RecentLimit <= 0 {
		opts.RecentLimit = defaultRecentLimit
	}
	return &Service{
		platform:  platform,
		transport: transport,
		log:       log,
		opts:      opts,
		keyLocks:  make(map[models.DataType]*sync.Mutex),
		subs:      make(map[models.DataType]*subscription),
	}
}

// Platform returns the platform this service normalizes.
func (s *Service) Platform() models.Platform { return s.platform }

// Available reports whether the underlying health service can be used.
func (s *Service) Available(ctx context.Context) bool {
	return s.ensureAvailable(ctx) == nil
}

// ensureAvailable checks the live platform state, latching a definitive
// "service absent" answer for the rest of the session.
func (s *Service) ensureAvailable(ctx context.Context) error {
	if s.unavailable.Load() {
		return models.ErrNotAvailable
	}
	ok, err := s.transport.Available(ctx)
	if err != nil {
		if errors.Is(err, models.ErrHealthServiceNotInstalled) {
			return err
		}
		return fmt.Errorf("%w: %v", models.ErrUnknown, err)
	}
	if !ok {
		s.unavailable.Store(true)
		return models.ErrNotAvailable
	}
	return nil
}

// OpenPlatformSettings opens the platform's health settings surface, a no-op
// where the platform has none.
func (s *Service) OpenPlatformSettings(ctx context.Context) error {
	if opener, ok := s.transport.(native.SettingsOpener); ok {
		return opener.OpenSettings(ctx)
	}
	return nil
}
