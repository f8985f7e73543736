package healthconnect

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/meltforce/healthbridge/internal/models"
	"github.com/meltforce/healthbridge/internal/native"
	"github.com/meltforce/healthbridge/internal/native/store"
)

func newAdapter(t *testing.T) *Adapter {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "store.db"))
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return New(st, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func steps(start time.Time, count float64) native.Sample {
	return native.Sample{
		Type:  "StepsRecord",
		Value: count, Unit: "count",
		Start: start, End: start.Add(time.Minute),
	}
}

// TestChangeTokenRoundTrip verifies a token sees only inserts made after it
// was issued, and that the returned token advances past them.
func TestChangeTokenRoundTrip(t *testing.T) {
	a := newAdapter(t)
	ctx := context.Background()
	base := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)

	if err := a.InsertSample(ctx, steps(base, 100)); err != nil {
		t.Fatalf("InsertSample: %v", err)
	}

	token, err := a.ChangeToken(ctx, "StepsRecord")
	if err != nil {
		t.Fatalf("ChangeToken: %v", err)
	}

	changes, err := a.Changes(ctx, token)
	if err != nil {
		t.Fatalf("Changes: %v", err)
	}
	if len(changes.Upserts) != 0 {
		t.Errorf("fresh token saw %d upserts, want 0", len(changes.Upserts))
	}

	if err := a.InsertSample(ctx, steps(base.Add(time.Hour), 200)); err != nil {
		t.Fatalf("InsertSample: %v", err)
	}
	changes, err = a.Changes(ctx, changes.NextToken)
	if err != nil {
		t.Fatalf("Changes: %v", err)
	}
	if len(changes.Upserts) != 1 {
		t.Fatalf("got %d upserts, want 1", len(changes.Upserts))
	}

	// The advanced token is clean again
	changes, err = a.Changes(ctx, changes.NextToken)
	if err != nil {
		t.Fatalf("Changes: %v", err)
	}
	if len(changes.Upserts) != 0 {
		t.Errorf("advanced token saw %d upserts, want 0", len(changes.Upserts))
	}
}

// TestTokenExpiry verifies a token lapses after TokenTTL uses and that a
// reissued token works again.
func TestTokenExpiry(t *testing.T) {
	a := newAdapter(t)
	a.TokenTTL = 2
	ctx := context.Background()

	token, err := a.ChangeToken(ctx, "StepsRecord")
	if err != nil {
		t.Fatalf("ChangeToken: %v", err)
	}

	for i := 0; i < a.TokenTTL; i++ {
		if _, err := a.Changes(ctx, token); err != nil {
			t.Fatalf("Changes use %d: %v", i+1, err)
		}
	}
	if _, err := a.Changes(ctx, token); !errors.Is(err, native.ErrTokenExpired) {
		t.Fatalf("err = %v, want ErrTokenExpired", err)
	}

	fresh, err := a.ChangeToken(ctx, "StepsRecord")
	if err != nil {
		t.Fatalf("ChangeToken: %v", err)
	}
	if _, err := a.Changes(ctx, fresh); err != nil {
		t.Errorf("reissued token failed: %v", err)
	}
}

// TestMalformedToken verifies garbage tokens surface as expired rather than
// crashing the poll loop.
func TestMalformedToken(t *testing.T) {
	a := newAdapter(t)
	for _, token := range []string{"", "garbage", "hc:StepsRecord", "hc:StepsRecord:notanumber"} {
		if _, err := a.Changes(context.Background(), token); !errors.Is(err, native.ErrTokenExpired) {
			t.Errorf("token %q: err = %v, want ErrTokenExpired", token, err)
		}
	}
}

// TestGrantsBothDirections verifies read and write decisions are both
// queryable, including denials.
func TestGrantsBothDirections(t *testing.T) {
	a := newAdapter(t)
	a.DenyRead["HeartRateRecord"] = true
	ctx := context.Background()

	_, err := a.RequestAuthorization(ctx,
		[]string{"StepsRecord", "HeartRateRecord"},
		[]string{"WeightRecord"},
	)
	if err != nil {
		t.Fatalf("RequestAuthorization: %v", err)
	}

	reads, err := a.GrantedTypes(ctx, models.AccessRead)
	if err != nil {
		t.Fatalf("GrantedTypes: %v", err)
	}
	if !reads["StepsRecord"] {
		t.Error("steps read grant missing")
	}
	if v, ok := reads["HeartRateRecord"]; !ok || v {
		t.Errorf("heart rate denial = %v, %v; want recorded false", v, ok)
	}

	writes, err := a.GrantedTypes(ctx, models.AccessWrite)
	if err != nil {
		t.Fatalf("GrantedTypes: %v", err)
	}
	if !writes["WeightRecord"] {
		t.Error("weight write grant missing")
	}
}

// TestNoNativeSort verifies the adapter ignores the descending hint.
func TestNoNativeSort(t *testing.T) {
	a := newAdapter(t)
	ctx := context.Background()
	base := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)

	a.InsertSample(ctx, steps(base, 1))
	a.InsertSample(ctx, steps(base.Add(time.Hour), 2))

	got, err := a.QuerySamples(ctx, "StepsRecord", base.Add(-time.Hour), base.Add(2*time.Hour), 0, true)
	if err != nil {
		t.Fatalf("QuerySamples: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d samples, want 2", len(got))
	}
	if !got[0].Start.Before(got[1].Start) {
		t.Error("samples not in ascending store order")
	}
	if a.SupportsDescendingSort() {
		t.Error("SupportsDescendingSort() = true")
	}
}
