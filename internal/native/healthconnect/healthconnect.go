// Package healthconnect simulates the Android wellness store transport:
// change-token polling instead of push callbacks, a definite queryable grant
// set, no native sort support, and tokens that lapse after a bounded number
// of polls (exercising the silent-renewal path).
package healthconnect

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/meltforce/healthbridge/internal/models"
	"github.com/meltforce/healthbridge/internal/native"
	"github.com/meltforce/healthbridge/internal/native/store"
)

// DefaultTokenTTL is how many Changes calls a token survives before it
// expires and must be renewed.
const DefaultTokenTTL = 256

// Adapter implements native.Transport and native.ChangeFeed over a simulated
// on-device store.
type Adapter struct {
	store *store.Store
	log   *slog.Logger

	// Installed mirrors whether the provider app is installed on the device.
	Installed bool

	// DenyRead / DenyWrite simulate the user refusing access per native type.
	DenyRead  map[string]bool
	DenyWrite map[string]bool

	// TokenTTL is the number of polls a token survives.
	TokenTTL int

	mu        sync.Mutex
	tokenUses map[string]int
}

// New creates an adapter over the given store.
func New(st *store.Store, log *slog.Logger) *Adapter {
	return &Adapter{
		store:     st,
		log:       log,
		Installed: true,
		DenyRead:  make(map[string]bool),
		DenyWrite: make(map[string]bool),
		TokenTTL:  DefaultTokenTTL,
		tokenUses: make(map[string]int),
	}
}

// Available reports whether the provider service is installed.
func (a *Adapter) Available(ctx context.Context) (bool, error) {
	if !a.Installed {
		return false, fmt.Errorf("%w: provider app missing", models.ErrHealthServiceNotInstalled)
	}
	return true, nil
}

// RequestAuthorization records the user's per-type decisions for both
// directions. Unlike the concealing platform, every decision is queryable
// afterwards.
func (a *Adapter) RequestAuthorization(ctx context.Context, readTypes, writeTypes []string) (bool, error) {
	for _, t := range readTypes {
		if err := a.store.SetGrant(ctx, t, models.AccessRead, !a.DenyRead[t]); err != nil {
			return false, err
		}
	}
	for _, t := range writeTypes {
		if err := a.store.SetGrant(ctx, t, models.AccessWrite, !a.DenyWrite[t]); err != nil {
			return false, err
		}
	}
	return true, nil
}

// GrantedTypes returns the definite grant set for either direction.
func (a *Adapter) GrantedTypes(ctx context.Context, access models.AccessType) (map[string]bool, error) {
	return a.store.Grants(ctx, access)
}

// QuerySamples returns samples in ascending store order; the platform has no
// native sort, so callers re-sort.
func (a *Adapter) QuerySamples(ctx context.Context, nativeType string, start, end time.Time, limit int, descending bool) ([]native.Sample, error) {
	return a.store.QueryRange(ctx, nativeType, start, end, limit, false)
}

// SupportsDescendingSort reports the lack of native sort support.
func (a *Adapter) SupportsDescendingSort() bool { return false }

// QueryAggregates returns interval-bucketed sums.
func (a *Adapter) QueryAggregates(ctx context.Context, nativeType string, start, end time.Time, interval native.Interval) ([]native.AggregateBucket, error) {
	return a.store.Aggregate(ctx, nativeType, start, end, interval)
}

// InsertSample writes one sample; pollers pick it up via change tokens.
func (a *Adapter) InsertSample(ctx context.Context, s native.Sample) error {
	return a.store.Insert(ctx, s)
}

// ChangeToken issues a token anchored at the current change sequence.
func (a *Adapter) ChangeToken(ctx context.Context, nativeType string) (string, error) {
	seq, err := a.store.CurrentSeq(ctx, nativeType)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("hc:%s:%d", nativeType, seq), nil
}

// Changes exchanges a token for the upserts since it was issued. Tokens
// expire after TokenTTL uses and must be reissued via ChangeToken.
func (a *Adapter) Changes(ctx context.Context, token string) (native.Changes, error) {
	nativeType, seq, err := parseToken(token)
	if err != nil {
		return native.Changes{}, err
	}

	a.mu.Lock()
	a.tokenUses[token]++
	expired := a.tokenUses[token] > a.TokenTTL
	if expired {
		delete(a.tokenUses, token)
	}
	a.mu.Unlock()
	if expired {
		return native.Changes{}, native.ErrTokenExpired
	}

	ids, maxSeq, err := a.store.ChangesSince(ctx, nativeType, seq)
	if err != nil {
		return native.Changes{}, err
	}
	return native.Changes{
		NextToken: fmt.Sprintf("hc:%s:%d", nativeType, maxSeq),
		Upserts:   ids,
	}, nil
}

func parseToken(token string) (nativeType string, seq int64, err error) {
	parts := strings.Split(token, ":")
	if len(parts) != 3 || parts[0] != "hc" {
		return "", 0, native.ErrTokenExpired
	}
	seq, err = strconv.ParseInt(parts[2], 10, 64)
	if err != nil {
		return "", 0, native.ErrTokenExpired
	}
	return parts[1], seq, nil
}

// OpenSettings is the provider's settings deep link; the simulation only
// logs it.
func (a *Adapter) OpenSettings(ctx context.Context) error {
	a.log.Info("opening health settings surface")
	return nil
}

var (
	_ native.Transport      = (*Adapter)(nil)
	_ native.ChangeFeed     = (*Adapter)(nil)
	_ native.SettingsOpener = (*Adapter)(nil)
)
