// Package sleep groups raw, possibly-fragmented sleep stage samples into
// coherent sessions with nested stage breakdowns.
package sleep

import (
	"sort"
	"time"

	"github.com/meltforce/healthbridge/internal/models"
)

// DefaultSessionGap is the idle span between stage samples that closes a
// session. A gap of exactly the threshold still merges; sessions split only
// when the gap strictly exceeds it.
const DefaultSessionGap = 60 * time.Minute

// StageSample is one raw stage segment as read from a native store.
type StageSample struct {
	ID         string
	Stage      models.SleepStage
	Start      time.Time
	End        time.Time
	SourceName string
	SourceID   string
}

// GroupSessions partitions stage samples into sleep sessions: samples are
// sorted by start time, then accumulated in a single linear pass; whenever
// the gap between the latest end seen so far and the next sample's start
// exceeds gap, the current session closes and a new one begins.
//
// A session's bounds are min(starts)/max(ends), so a single out-of-order
// sample needs no special handling. Empty input yields an empty slice.
func GroupSessions(samples []StageSample, gap time.Duration) []models.Record {
	if len(samples) == 0 {
		return nil
	}
	if gap <= 0 {
		gap = DefaultSessionGap
	}

	sorted := make([]StageSample, len(samples))
	copy(sorted, samples)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Start.Before(sorted[j].Start)
	})

	var sessions []models.Record
	current := []StageSample{sorted[0]}
	latestEnd := sorted[0].End

	for _, s := range sorted[1:] {
		if s.Start.Sub(latestEnd) > gap {
			sessions = append(sessions, buildSession(current))
			current = current[:0:0]
			current = append(current, s)
			latestEnd = s.End
			continue
		}
		current = append(current, s)
		if s.End.After(latestEnd) {
			latestEnd = s.End
		}
	}
	sessions = append(sessions, buildSession(current))
	return sessions
}

func buildSession(samples []StageSample) models.Record {
	start := samples[0].Start
	end := samples[0].End
	stages := make([]models.StageInterval, 0, len(samples))

	for _, s := range samples {
		if s.Start.Before(start) {
			start = s.Start
		}
		if s.End.After(end) {
			end = s.End
		}
		stages = append(stages, models.StageInterval{
			Stage:       s.Stage,
			StartDate:   s.Start,
			EndDate:     s.End,
			DurationMin: models.Minutes(s.Start, s.End),
		})
	}

	return models.Record{
		ID:          samples[0].ID,
		Type:        models.TypeSleep,
		StartDate:   start,
		EndDate:     end,
		SourceName:  samples[0].SourceName,
		SourceID:    samples[0].SourceID,
		DurationMin: models.Minutes(start, end),
		Stages:      stages,
	}
}
