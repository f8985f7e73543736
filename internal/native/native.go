// Package native defines the contract the bridge expects from a platform's
// health transport. The bridge treats implementations as opaque,
// possibly-failing calls; the sqlite-backed adapters under this package
// simulate the two real platforms for the daemon and tests.
package native

import (
	"context"
	"errors"
	"time"

	"github.com/meltforce/healthbridge/internal/models"
)

// ErrTokenExpired signals that a change token is no longer valid and must be
// renewed. The bridge renews silently; it never surfaces to callers.
var ErrTokenExpired = errors.New("change token expired")

// Sample is one native observation. Value and SecondaryValue carry the up to
// two scalar channels a native sample exposes (quantity alone, systolic +
// diastolic, workout energy + distance); Category carries the enum channel
// (sleep stage code, workout activity code).
type Sample struct {
	ID             string
	Type           string // native type identifier
	Value          float64
	SecondaryValue float64
	Unit           string
	Category       int64
	Start          time.Time
	End            time.Time
	SourceName     string
	SourceID       string
}

// AggregateBucket is one pre-summed interval from a native bucketed query.
type AggregateBucket struct {
	Start time.Time
	End   time.Time
	Value float64
	Unit  string
}

// Interval selects the native bucket width for aggregate queries.
type Interval string

const (
	IntervalHour  Interval = "hour"
	IntervalDay   Interval = "day"
	IntervalWeek  Interval = "week"
	IntervalMonth Interval = "month"
)

// Valid reports whether iv is a supported bucket width.
func (iv Interval) Valid() bool {
	switch iv {
	case IntervalHour, IntervalDay, IntervalWeek, IntervalMonth:
		return true
	}
	return false
}

// Changes is the delta returned for a change token: ids of samples upserted
// since the token was issued, plus the successor token.
type Changes struct {
	NextToken string
	Upserts   []string
	Deletes   []string
}

// Transport is the per-platform native health store boundary.
type Transport interface {
	// Available reports whether the health service exists on this device.
	Available(ctx context.Context) (bool, error)

	// RequestAuthorization presents the platform's permission flow for the
	// given native type identifiers and reports overall success.
	RequestAuthorization(ctx context.Context, readTypes, writeTypes []string) (bool, error)

	// GrantedTypes returns the platform's authoritative grant state for one
	// access direction: present means the user decided, the value is the
	// decision. Platforms that conceal a direction return an empty map.
	GrantedTypes(ctx context.Context, access models.AccessType) (map[string]bool, error)

	// QuerySamples returns samples of one native type inside [start, end),
	// capped at limit, in descending start order when descending is set and
	// the platform supports native sorting.
	QuerySamples(ctx context.Context, nativeType string, start, end time.Time, limit int, descending bool) ([]Sample, error)

	// SupportsDescendingSort reports whether QuerySamples honors the
	// descending flag natively. When false the caller must sort locally.
	SupportsDescendingSort() bool

	// QueryAggregates returns the platform's interval-bucketed sums.
	QueryAggregates(ctx context.Context, nativeType string, start, end time.Time, interval Interval) ([]AggregateBucket, error)

	// InsertSample writes one sample and confirms the store accepted it.
	InsertSample(ctx context.Context, s Sample) error
}

// Observer is implemented by transports that push "new data" callbacks.
// At most one observer is registered per native type.
type Observer interface {
	// RegisterObserver installs fn to fire when samples of nativeType change.
	// The returned cancel func deregisters it.
	RegisterObserver(nativeType string, fn func()) (cancel func(), err error)
}

// ChangeFeed is implemented by transports that only offer polled diffs.
type ChangeFeed interface {
	// ChangeToken issues a fresh token representing "now" for one type.
	ChangeToken(ctx context.Context, nativeType string) (string, error)

	// Changes exchanges a token for the delta since it was issued. Returns
	// ErrTokenExpired when the token has lapsed and must be reissued.
	Changes(ctx context.Context, token string) (Changes, error)
}

// SettingsOpener is implemented by transports whose platform exposes a
// health-settings surface.
type SettingsOpener interface {
	OpenSettings(ctx context.Context) error
}
