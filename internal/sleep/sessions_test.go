package sleep

import (
	"testing"
	"time"

	"github.com/meltforce/healthbridge/internal/models"
)

func at(hour, min int) time.Time {
	return time.Date(2024, 2, 6, hour, min, 0, 0, time.UTC)
}

func sample(stage models.SleepStage, start, end time.Time) StageSample {
	return StageSample{
		ID: "s-" + start.Format("150405"), Stage: stage,
		Start: start, End: end,
		SourceName: "Pixel Watch", SourceID: "com.test.watch",
	}
}

// TestGroupSessions_TwoHourGapSplits covers the reference scenario: three
// stage segments with a two-hour gap after the second yield two sessions.
func TestGroupSessions_TwoHourGapSplits(t *testing.T) {
	samples := []StageSample{
		sample(models.StageLight, at(0, 0), at(0, 30)),
		sample(models.StageDeep, at(0, 30), at(1, 0)),
		sample(models.StageREM, at(3, 0), at(3, 30)),
	}

	sessions := GroupSessions(samples, DefaultSessionGap)
	if len(sessions) != 2 {
		t.Fatalf("sessions = %d, want 2", len(sessions))
	}

	a := sessions[0]
	if !a.StartDate.Equal(at(0, 0)) || !a.EndDate.Equal(at(1, 0)) {
		t.Errorf("session A bounds = %v..%v", a.StartDate, a.EndDate)
	}
	if a.DurationMin != 60 {
		t.Errorf("session A duration = %v, want 60", a.DurationMin)
	}
	if len(a.Stages) != 2 || a.Stages[0].Stage != models.StageLight || a.Stages[1].Stage != models.StageDeep {
		t.Errorf("session A stages = %+v", a.Stages)
	}

	b := sessions[1]
	if !b.StartDate.Equal(at(3, 0)) || !b.EndDate.Equal(at(3, 30)) {
		t.Errorf("session B bounds = %v..%v", b.StartDate, b.EndDate)
	}
	if b.DurationMin != 30 {
		t.Errorf("session B duration = %v, want 30", b.DurationMin)
	}
	if len(b.Stages) != 1 || b.Stages[0].Stage != models.StageREM {
		t.Errorf("session B stages = %+v", b.Stages)
	}
}

// TestGroupSessions_GapBoundary pins the threshold semantics: 59 and exactly
// 60 minute gaps merge, 61 splits.
func TestGroupSessions_GapBoundary(t *testing.T) {
	cases := []struct {
		name     string
		gapMin   int
		sessions int
	}{
		{"59 minute gap merges", 59, 1},
		{"exactly 60 minute gap merges", 60, 1},
		{"61 minute gap splits", 61, 2},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			first := sample(models.StageLight, at(0, 0), at(0, 30))
			secondStart := first.End.Add(time.Duration(tc.gapMin) * time.Minute)
			second := sample(models.StageDeep, secondStart, secondStart.Add(30*time.Minute))

			got := GroupSessions([]StageSample{first, second}, DefaultSessionGap)
			if len(got) != tc.sessions {
				t.Errorf("sessions = %d, want %d", len(got), tc.sessions)
			}
		})
	}
}

func TestGroupSessions_EmptyInput(t *testing.T) {
	if got := GroupSessions(nil, DefaultSessionGap); len(got) != 0 {
		t.Errorf("sessions = %d, want 0", len(got))
	}
}

// TestGroupSessions_OutOfOrderSampleAbsorbed verifies a sample starting
// before the previous end stays in the current session via min/max bounds.
func TestGroupSessions_OutOfOrderSampleAbsorbed(t *testing.T) {
	samples := []StageSample{
		sample(models.StageLight, at(0, 0), at(1, 0)),
		sample(models.StageAwake, at(0, 45), at(0, 50)), // overlaps the first
		sample(models.StageDeep, at(1, 0), at(2, 0)),
	}
	got := GroupSessions(samples, DefaultSessionGap)
	if len(got) != 1 {
		t.Fatalf("sessions = %d, want 1", len(got))
	}
	if !got[0].StartDate.Equal(at(0, 0)) || !got[0].EndDate.Equal(at(2, 0)) {
		t.Errorf("bounds = %v..%v", got[0].StartDate, got[0].EndDate)
	}
	if len(got[0].Stages) != 3 {
		t.Errorf("stages = %d, want 3", len(got[0].Stages))
	}
}

// TestGroupSessions_Idempotent verifies that regrouping the session bounds
// themselves (each session as one sample spanning its bounds) reproduces the
// same sessions.
func TestGroupSessions_Idempotent(t *testing.T) {
	samples := []StageSample{
		sample(models.StageLight, at(0, 0), at(0, 30)),
		sample(models.StageDeep, at(0, 30), at(1, 0)),
		sample(models.StageREM, at(3, 0), at(3, 30)),
		sample(models.StageLight, at(22, 0), at(23, 0)),
	}
	first := GroupSessions(samples, DefaultSessionGap)

	rebounds := make([]StageSample, 0, len(first))
	for _, sess := range first {
		rebounds = append(rebounds, sample(models.StageAsleep, sess.StartDate, sess.EndDate))
	}
	second := GroupSessions(rebounds, DefaultSessionGap)

	if len(second) != len(first) {
		t.Fatalf("regrouped sessions = %d, want %d", len(second), len(first))
	}
	for i := range second {
		if !second[i].StartDate.Equal(first[i].StartDate) || !second[i].EndDate.Equal(first[i].EndDate) {
			t.Errorf("session %d bounds changed: %v..%v vs %v..%v",
				i, second[i].StartDate, second[i].EndDate, first[i].StartDate, first[i].EndDate)
		}
	}
}
