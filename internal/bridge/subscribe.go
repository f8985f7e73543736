package bridge

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/meltforce/healthbridge/internal/mapping"
	"github.com/meltforce/healthbridge/internal/models"
	"github.com/meltforce/healthbridge/internal/native"
)

// Update is the single event shape both delivery mechanisms emit: the data
// type that changed plus a freshly-fetched, normalized recent window.
type Update struct {
	Type    models.DataType `json:"type"`
	Records []models.Record `json:"records"`
}

// Subscription is the caller's handle on an active subscription.
type Subscription struct {
	ID     string
	Type   models.DataType
	remove func()
}

// Remove stops future emissions. A fetch already in flight from an earlier
// native signal may still deliver one final update; that single stale
// emission is accepted behavior, not cancelled retroactively.
func (h *Subscription) Remove() {
	h.remove()
}

// subscription is the internal per-type registration. Both producers
// (observer callbacks and the poll loop) feed events; a single consumer
// goroutine drains it into the caller's function, keeping the delivery
// mechanism invisible to callers.
type subscription struct {
	id        string
	events    chan Update
	stop      chan struct{}
	cancelObs func()
}

// keyLock returns the mutex serializing subscribe/unsubscribe for one type.
// Different types never contend with each other.
func (s *Service) keyLock(t models.DataType) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.keyLocks[t]
	if !ok {
		l = &sync.Mutex{}
		s.keyLocks[t] = l
	}
	return l
}

// SubscribeToUpdates registers fn to receive updates whenever new samples of
// type t land in the native store. One native observer (or poll loop) exists
// per type; a second subscription for an already-subscribed type is an error.
func (s *Service) SubscribeToUpdates(ctx context.Context, t models.DataType, fn func(Update)) (*Subscription, error) {
	lock := s.keyLock(t)
	lock.Lock()
	defer lock.Unlock()

	s.mu.Lock()
	_, exists := s.subs[t]
	s.mu.Unlock()
	if exists {
		return nil, fmt.Errorf("%w: already subscribed to %s", models.ErrInvalidParameters, t)
	}

	if err := s.ensureAvailable(ctx); err != nil {
		return nil, err
	}
	nativeType, err := mapping.DataTypeToPlatform(t, s.platform)
	if err != nil {
		return nil, err
	}

	sub := &subscription{
		id:     uuid.NewString(),
		events: make(chan Update, 8),
		stop:   make(chan struct{}),
	}
	go dispatch(sub, fn)

	switch transport := s.transport.(type) {
	case native.Observer:
		cancel, err := transport.RegisterObserver(nativeType, func() {
			s.produce(sub, t)
		})
		if err != nil {
			close(sub.stop)
			return nil, fmt.Errorf("%w: %v", models.ErrUnknown, err)
		}
		sub.cancelObs = cancel
	case native.ChangeFeed:
		token, err := transport.ChangeToken(ctx, nativeType)
		if err != nil {
			close(sub.stop)
			return nil, fmt.Errorf("%w: %v", models.ErrUnknown, err)
		}
		go s.pollLoop(sub, transport, t, nativeType, token)
	default:
		close(sub.stop)
		return nil, fmt.Errorf("%w: transport offers no change delivery", models.ErrUnknown)
	}

	s.mu.Lock()
	s.subs[t] = sub
	s.mu.Unlock()

	return &Subscription{
		ID:   sub.id,
		Type: t,
		remove: func() {
			s.unsubscribe(t, sub.id)
		},
	}, nil
}

// unsubscribe tears down the registration for one type. It runs under the
// per-type lock so the poll loop observably stops before a subsequent
// subscribe reuses the type.
func (s *Service) unsubscribe(t models.DataType, id string) {
	lock := s.keyLock(t)
	lock.Lock()
	defer lock.Unlock()

	s.mu.Lock()
	sub, ok := s.subs[t]
	if ok && sub.id == id {
		delete(s.subs, t)
	} else {
		sub = nil
	}
	s.mu.Unlock()

	if sub == nil {
		return
	}
	if sub.cancelObs != nil {
		sub.cancelObs()
	}
	close(sub.stop)
}

func dispatch(sub *subscription, fn func(Update)) {
	for {
		select {
		case u := <-sub.events:
			fn(u)
		case <-sub.stop:
			return
		}
	}
}

// produce materializes one update by re-reading a short recent window
// through the normal read path, then feeds the event channel. Errors are
// logged and dropped; delivery is best effort.
func (s *Service) produce(sub *subscription, t models.DataType) {
	now := time.Now().UTC()
	records, err := s.ReadData(context.Background(), Query{
		Type:  t,
		Start: now.Add(-s.opts.RecentWindow),
		End:   now.Add(time.Second),
		Limit: s.opts.RecentLimit,
	})
	if err != nil {
		s.log.Warn("subscription fetch failed", "type", t, "error", err)
		return
	}
	select {
	case sub.events <- Update{Type: t, Records: records}:
	case <-sub.stop:
	}
}

// pollLoop drives change-token delivery: wake on a fixed interval, exchange
// the token for a delta, and emit when anything was upserted. Poll errors
// never terminate the loop or reach the caller; the next cycle retries. An
// expired token is renewed silently.
func (s *Service) pollLoop(sub *subscription, feed native.ChangeFeed, t models.DataType, nativeType, token string) {
	ticker := time.NewTicker(s.opts.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-sub.stop:
			return
		case <-ticker.C:
			changes, err := feed.Changes(context.Background(), token)
			if errors.Is(err, native.ErrTokenExpired) {
				fresh, rerr := feed.ChangeToken(context.Background(), nativeType)
				if rerr != nil {
					s.log.Debug("token renewal failed", "type", t, "error", rerr)
					continue
				}
				token = fresh
				continue
			}
			if err != nil {
				s.log.Debug("change poll failed", "type", t, "error", err)
				continue
			}
			token = changes.NextToken
			if len(changes.Upserts) == 0 {
				continue
			}
			s.produce(sub, t)
		}
	}
}
