// Package healthkit simulates the iOS health store transport: push-style
// observer callbacks, native descending sort, and read grants concealed from
// queries (the platform never reveals read denial).
package healthkit

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/meltforce/healthbridge/internal/models"
	"github.com/meltforce/healthbridge/internal/native"
	"github.com/meltforce/healthbridge/internal/native/store"
)

// Adapter implements native.Transport and native.Observer over a simulated
// on-device store.
type Adapter struct {
	store *store.Store
	log   *slog.Logger

	// Installed reflects whether the health app is present; false surfaces
	// as ErrHealthServiceNotInstalled from availability checks.
	Installed bool

	// DenyWrite simulates the user refusing write access per native type.
	DenyWrite map[string]bool

	mu        sync.Mutex
	observers map[string][]func()
}

// New creates an adapter over the given store.
func New(st *store.Store, log *slog.Logger) *Adapter {
	return &Adapter{
		store:     st,
		log:       log,
		Installed: true,
		DenyWrite: make(map[string]bool),
		observers: make(map[string][]func()),
	}
}

// Available reports whether the health store exists on this device.
func (a *Adapter) Available(ctx context.Context) (bool, error) {
	if !a.Installed {
		return false, fmt.Errorf("%w: health app removed", models.ErrHealthServiceNotInstalled)
	}
	return true, nil
}

// RequestAuthorization records the user's decision for each requested type.
// The simulated user grants everything not listed in DenyWrite.
func (a *Adapter) RequestAuthorization(ctx context.Context, readTypes, writeTypes []string) (bool, error) {
	for _, t := range readTypes {
		if err := a.store.SetGrant(ctx, t, models.AccessRead, true); err != nil {
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

// GrantedTypes returns write decisions only. Read grants are concealed: this
// platform reports nothing about read access, by design, so callers see
// every read as undetermined.
func (a *Adapter) GrantedTypes(ctx context.Context, access models.AccessType) (map[string]bool, error) {
	if access == models.AccessRead {
		return map[string]bool{}, nil
	}
	return a.store.Grants(ctx, access)
}

// QuerySamples returns samples with native descending-sort support.
func (a *Adapter) QuerySamples(ctx context.Context, nativeType string, start, end time.Time, limit int, descending bool) ([]native.Sample, error) {
	return a.store.QueryRange(ctx, nativeType, start, end, limit, descending)
}

// SupportsDescendingSort reports native sort support.
func (a *Adapter) SupportsDescendingSort() bool { return true }

// QueryAggregates returns interval-bucketed sums.
func (a *Adapter) QueryAggregates(ctx context.Context, nativeType string, start, end time.Time, interval native.Interval) ([]native.AggregateBucket, error) {
	return a.store.Aggregate(ctx, nativeType, start, end, interval)
}

// InsertSample writes one sample and fires any observers for its type after
// the store confirms the insert.
func (a *Adapter) InsertSample(ctx context.Context, s native.Sample) error {
	if err := a.store.Insert(ctx, s); err != nil {
		return err
	}
	a.notify(s.Type)
	return nil
}

// RegisterObserver installs a push callback for one native type.
func (a *Adapter) RegisterObserver(nativeType string, fn func()) (func(), error) {
	a.mu.Lock()
	a.observers[nativeType] = append(a.observers[nativeType], fn)
	idx := len(a.observers[nativeType]) - 1
	a.mu.Unlock()

	cancel := func() {
		a.mu.Lock()
		defer a.mu.Unlock()
		obs := a.observers[nativeType]
		if idx < len(obs) {
			obs[idx] = nil
		}
	}
	return cancel, nil
}

func (a *Adapter) notify(nativeType string) {
	a.mu.Lock()
	obs := make([]func(), 0, len(a.observers[nativeType]))
	for _, fn := range a.observers[nativeType] {
		if fn != nil {
			obs = append(obs, fn)
		}
	}
	a.mu.Unlock()

	for _, fn := range obs {
		go fn()
	}
}

var (
	_ native.Transport = (*Adapter)(nil)
	_ native.Observer  = (*Adapter)(nil)
)
