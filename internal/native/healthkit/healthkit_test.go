package healthkit

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"sync/atomic"
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

// TestReadGrantsConcealed verifies that read decisions never surface through
// GrantedTypes, even after an explicit authorization round-trip.
func TestReadGrantsConcealed(t *testing.T) {
	a := newAdapter(t)
	ctx := context.Background()

	if _, err := a.RequestAuthorization(ctx, []string{"HKQuantityTypeIdentifierStepCount"}, nil); err != nil {
		t.Fatalf("RequestAuthorization: %v", err)
	}

	grants, err := a.GrantedTypes(ctx, models.AccessRead)
	if err != nil {
		t.Fatalf("GrantedTypes: %v", err)
	}
	if len(grants) != 0 {
		t.Errorf("read grants visible: %v", grants)
	}
}

// TestWriteGrantsVisible verifies write decisions are queryable, including
// denials.
func TestWriteGrantsVisible(t *testing.T) {
	a := newAdapter(t)
	a.DenyWrite["HKQuantityTypeIdentifierBodyMass"] = true
	ctx := context.Background()

	_, err := a.RequestAuthorization(ctx, nil, []string{
		"HKQuantityTypeIdentifierStepCount",
		"HKQuantityTypeIdentifierBodyMass",
	})
	if err != nil {
		t.Fatalf("RequestAuthorization: %v", err)
	}

	grants, err := a.GrantedTypes(ctx, models.AccessWrite)
	if err != nil {
		t.Fatalf("GrantedTypes: %v", err)
	}
	if !grants["HKQuantityTypeIdentifierStepCount"] {
		t.Error("step count write grant missing")
	}
	if v, ok := grants["HKQuantityTypeIdentifierBodyMass"]; !ok || v {
		t.Errorf("body mass denial = %v, %v; want recorded false", v, ok)
	}
}

// TestObserverFiresOnInsert verifies inserts push to registered observers
// and that a cancelled observer goes quiet.
func TestObserverFiresOnInsert(t *testing.T) {
	a := newAdapter(t)
	ctx := context.Background()

	var fired atomic.Int32
	done := make(chan struct{}, 4)
	cancel, err := a.RegisterObserver("HKQuantityTypeIdentifierStepCount", func() {
		fired.Add(1)
		done <- struct{}{}
	})
	if err != nil {
		t.Fatalf("RegisterObserver: %v", err)
	}

	smp := native.Sample{
		Type:  "HKQuantityTypeIdentifierStepCount",
		Value: 100, Unit: "count",
		Start: time.Now().UTC(), End: time.Now().UTC().Add(time.Minute),
	}
	if err := a.InsertSample(ctx, smp); err != nil {
		t.Fatalf("InsertSample: %v", err)
	}
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("observer did not fire")
	}

	cancel()
	smp.ID = ""
	smp.Start = smp.Start.Add(time.Hour)
	if err := a.InsertSample(ctx, smp); err != nil {
		t.Fatalf("InsertSample: %v", err)
	}
	time.Sleep(50 * time.Millisecond)
	if fired.Load() != 1 {
		t.Errorf("fired %d times, want 1 after cancel", fired.Load())
	}
}

// TestNotInstalled verifies the availability error identifies the missing
// health app.
func TestNotInstalled(t *testing.T) {
	a := newAdapter(t)
	a.Installed = false

	ok, err := a.Available(context.Background())
	if ok {
		t.Error("reported available while not installed")
	}
	if !errors.Is(err, models.ErrHealthServiceNotInstalled) {
		t.Errorf("err = %v, want ErrHealthServiceNotInstalled", err)
	}
}
