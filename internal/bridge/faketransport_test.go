package bridge

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/meltforce/healthbridge/internal/models"
	"github.com/meltforce/healthbridge/internal/native"
)

// fakeTransport is an in-memory native store for tests.
type fakeTransport struct {
	mu        sync.Mutex
	available bool
	availErr  error
	descSort  bool
	samples   map[string][]native.Sample
	grants    map[models.AccessType]map[string]bool
	inserted  []native.Sample
	queryErr  error
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{
		available: true,
		descSort:  true,
		samples:   make(map[string][]native.Sample),
		grants: map[models.AccessType]map[string]bool{
			models.AccessRead:  {},
			models.AccessWrite: {},
		},
	}
}

func (f *fakeTransport) add(s native.Sample) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s.ID == "" {
		s.ID = fmt.Sprintf("fake-%d", len(f.samples[s.Type])+1)
	}
	f.samples[s.Type] = append(f.samples[s.Type], s)
}

func (f *fakeTransport) Available(ctx context.Context) (bool, error) {
	return f.available, f.availErr
}

func (f *fakeTransport) RequestAuthorization(ctx context.Context, readTypes, writeTypes []string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range readTypes {
		if _, decided := f.grants[models.AccessRead][t]; !decided {
			f.grants[models.AccessRead][t] = true
		}
	}
	for _, t := range writeTypes {
		if _, decided := f.grants[models.AccessWrite][t]; !decided {
			f.grants[models.AccessWrite][t] = true
		}
	}
	return true, nil
}

func (f *fakeTransport) GrantedTypes(ctx context.Context, access models.AccessType) (map[string]bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string]bool, len(f.grants[access]))
	for k, v := range f.grants[access] {
		out[k] = v
	}
	return out, nil
}

func (f *fakeTransport) QuerySamples(ctx context.Context, nativeType string, start, end time.Time, limit int, descending bool) ([]native.Sample, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.queryErr != nil {
		return nil, f.queryErr
	}

	var out []native.Sample
	for _, s := range f.samples[nativeType] {
		if !s.Start.Before(start) && s.Start.Before(end) {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
	if descending && f.descSort {
		for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
			out[i], out[j] = out[j], out[i]
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeTransport) SupportsDescendingSort() bool { return f.descSort }

func (f *fakeTransport) QueryAggregates(ctx context.Context, nativeType string, start, end time.Time, interval native.Interval) ([]native.AggregateBucket, error) {
	samples, err := f.QuerySamples(ctx, nativeType, start, end, 0, false)
	if err != nil {
		return nil, err
	}

	var buckets []native.AggregateBucket
	for bStart := start; bStart.Before(end); {
		var bEnd time.Time
		switch interval {
		case native.IntervalHour:
			bEnd = bStart.Add(time.Hour)
		case native.IntervalDay:
			bEnd = bStart.AddDate(0, 0, 1)
		case native.IntervalWeek:
			bEnd = bStart.AddDate(0, 0, 7)
		default:
			bEnd = bStart.AddDate(0, 1, 0)
		}
		if bEnd.After(end) {
			bEnd = end
		}

		var sum float64
		var unit string
		count := 0
		for _, s := range samples {
			if !s.Start.Before(bStart) && s.Start.Before(bEnd) {
				sum += s.Value
				unit = s.Unit
				count++
			}
		}
		if count > 0 {
			buckets = append(buckets, native.AggregateBucket{Start: bStart, End: bEnd, Value: sum, Unit: unit})
		}
		bStart = bEnd
	}
	return buckets, nil
}

func (f *fakeTransport) InsertSample(ctx context.Context, s native.Sample) error {
	f.mu.Lock()
	f.inserted = append(f.inserted, s)
	f.mu.Unlock()
	f.add(s)
	return nil
}

func (f *fakeTransport) lastInserted() native.Sample {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.inserted[len(f.inserted)-1]
}

func (f *fakeTransport) insertedCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.inserted)
}

var _ native.Transport = (*fakeTransport)(nil)

// fakeObserverTransport adds push callbacks.
type fakeObserverTransport struct {
	*fakeTransport
	obsMu     sync.Mutex
	observers map[string][]func()
}

func newFakeObserverTransport() *fakeObserverTransport {
	return &fakeObserverTransport{
		fakeTransport: newFakeTransport(),
		observers:     make(map[string][]func()),
	}
}

func (f *fakeObserverTransport) RegisterObserver(nativeType string, fn func()) (func(), error) {
	f.obsMu.Lock()
	f.observers[nativeType] = append(f.observers[nativeType], fn)
	f.obsMu.Unlock()
	return func() {}, nil
}

func (f *fakeObserverTransport) InsertSample(ctx context.Context, s native.Sample) error {
	if err := f.fakeTransport.InsertSample(ctx, s); err != nil {
		return err
	}
	f.obsMu.Lock()
	obs := append([]func(){}, f.observers[s.Type]...)
	f.obsMu.Unlock()
	for _, fn := range obs {
		fn()
	}
	return nil
}

var _ native.Observer = (*fakeObserverTransport)(nil)

// fakeFeedTransport adds change-token polling, with an optional one-shot
// expiry to exercise silent renewal.
type fakeFeedTransport struct {
	*fakeTransport
	feedMu     sync.Mutex
	seq        map[string]int // consumed count per type
	expireOnce bool
}

func newFakeFeedTransport() *fakeFeedTransport {
	return &fakeFeedTransport{
		fakeTransport: newFakeTransport(),
		seq:           make(map[string]int),
	}
}

func (f *fakeFeedTransport) ChangeToken(ctx context.Context, nativeType string) (string, error) {
	f.fakeTransport.mu.Lock()
	n := len(f.fakeTransport.samples[nativeType])
	f.fakeTransport.mu.Unlock()
	return fmt.Sprintf("%s:%d", nativeType, n), nil
}

func (f *fakeFeedTransport) Changes(ctx context.Context, token string) (native.Changes, error) {
	f.feedMu.Lock()
	if f.expireOnce {
		f.expireOnce = false
		f.feedMu.Unlock()
		return native.Changes{}, native.ErrTokenExpired
	}
	f.feedMu.Unlock()

	sep := lastColon(token)
	if sep < 0 {
		return native.Changes{}, native.ErrTokenExpired
	}
	nativeType := token[:sep]
	var anchor int
	fmt.Sscanf(token[sep+1:], "%d", &anchor)

	f.fakeTransport.mu.Lock()
	all := f.fakeTransport.samples[nativeType]
	var upserts []string
	for _, s := range all[min(anchor, len(all)):] {
		upserts = append(upserts, s.ID)
	}
	n := len(all)
	f.fakeTransport.mu.Unlock()

	return native.Changes{
		NextToken: fmt.Sprintf("%s:%d", nativeType, n),
		Upserts:   upserts,
	}, nil
}

func lastColon(s string) int {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == ':' {
			return i
		}
	}
	return -1
}

var _ native.ChangeFeed = (*fakeFeedTransport)(nil)
