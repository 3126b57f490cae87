package review

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NicoJuicy/apireview.net/internal/tracker"
)

var testLabels = Labels{
	Ready:     "api-ready-for-review",
	Blocking:  "blocking",
	Approved:  "api-approved",
	NeedsWork: "api-needs-work",
}

var base = time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC)

func at(offset time.Duration) time.Time {
	return base.Add(offset)
}

func labeled(label, actor string, t time.Time) tracker.Event {
	return tracker.Event{Kind: tracker.EventLabeled, Label: label, Actor: actor, CreatedAt: t}
}

func unlabeled(label, actor string, t time.Time) tracker.Event {
	return tracker.Event{Kind: tracker.EventUnlabeled, Label: label, Actor: actor, CreatedAt: t}
}

func closed(actor string, t time.Time) tracker.Event {
	return tracker.Event{Kind: tracker.EventClosed, Actor: actor, CreatedAt: t}
}

func reopened(actor string, t time.Time) tracker.Event {
	return tracker.Event{Kind: tracker.EventReopened, Actor: actor, CreatedAt: t}
}

func TestClassifyOutcome(t *testing.T) {
	tests := []struct {
		name       string
		events     []tracker.Event
		start, end time.Time
		want       Outcome
		wantOK     bool
	}{
		{
			name: "ready then approved",
			events: []tracker.Event{
				labeled(testLabels.Ready, "alice", at(0)),
				labeled(testLabels.Approved, "bob", at(time.Hour)),
			},
			start:  at(-time.Minute),
			end:    at(time.Hour + time.Minute),
			want:   Outcome{Decision: DecisionApproved, Actor: "bob", At: at(time.Hour)},
			wantOK: true,
		},
		{
			name: "ready then needs work",
			events: []tracker.Event{
				labeled(testLabels.Ready, "alice", at(0)),
				labeled(testLabels.NeedsWork, "bob", at(time.Hour)),
			},
			start:  at(0),
			end:    at(2 * time.Hour),
			want:   Outcome{Decision: DecisionNeedsWork, Actor: "bob", At: at(time.Hour)},
			wantOK: true,
		},
		{
			name: "closed after ready is an implicit rejection",
			events: []tracker.Event{
				labeled(testLabels.Ready, "alice", at(0)),
				closed("carol", at(time.Hour)),
			},
			start:  at(0),
			end:    at(2 * time.Hour),
			want:   Outcome{Decision: DecisionRejected, Actor: "carol", At: at(time.Hour)},
			wantOK: true,
		},
		{
			name: "reopen cancels a pending rejection",
			events: []tracker.Event{
				labeled(testLabels.Ready, "alice", at(0)),
				closed("carol", at(time.Hour)),
				reopened("carol", at(2 * time.Hour)),
			},
			start:  at(0),
			end:    at(3 * time.Hour),
			wantOK: false,
		},
		{
			name: "closing again after a reopen rejects at the later close",
			events: []tracker.Event{
				labeled(testLabels.Ready, "alice", at(0)),
				closed("carol", at(time.Hour)),
				reopened("carol", at(2 * time.Hour)),
				closed("dave", at(3 * time.Hour)),
			},
			start:  at(0),
			end:    at(4 * time.Hour),
			want:   Outcome{Decision: DecisionRejected, Actor: "dave", At: at(3 * time.Hour)},
			wantOK: true,
		},
		{
			name: "rejection overrides an earlier candidate",
			events: []tracker.Event{
				labeled(testLabels.Ready, "alice", at(0)),
				labeled(testLabels.NeedsWork, "bob", at(time.Hour)),
				labeled(testLabels.Ready, "alice", at(2 * time.Hour)),
				closed("carol", at(3 * time.Hour)),
			},
			start:  at(0),
			end:    at(4 * time.Hour),
			want:   Outcome{Decision: DecisionRejected, Actor: "carol", At: at(3 * time.Hour)},
			wantOK: true,
		},
		{
			name: "closing without a ready marker is not a decision",
			events: []tracker.Event{
				closed("carol", at(time.Hour)),
			},
			start:  at(0),
			end:    at(2 * time.Hour),
			wantOK: false,
		},
		{
			name: "ready label starts a fresh cycle and clears the candidate",
			events: []tracker.Event{
				labeled(testLabels.Approved, "bob", at(0)),
				labeled(testLabels.Ready, "alice", at(time.Hour)),
			},
			start:  at(0),
			end:    at(2 * time.Hour),
			wantOK: false,
		},
		{
			name: "decision outside the window is discarded",
			events: []tracker.Event{
				labeled(testLabels.Ready, "alice", at(0)),
				labeled(testLabels.Approved, "bob", at(time.Hour)),
			},
			start:  at(2 * time.Hour),
			end:    at(3 * time.Hour),
			wantOK: false,
		},
		{
			name: "events after the cutoff are ignored",
			events: []tracker.Event{
				labeled(testLabels.Ready, "alice", at(0)),
				labeled(testLabels.NeedsWork, "bob", at(time.Hour)),
				labeled(testLabels.Approved, "bob", at(5 * time.Hour)),
			},
			start:  at(0),
			end:    at(2 * time.Hour),
			want:   Outcome{Decision: DecisionNeedsWork, Actor: "bob", At: at(time.Hour)},
			wantOK: true,
		},
		{
			name: "label matching is case-insensitive",
			events: []tracker.Event{
				labeled("API-Ready-For-Review", "alice", at(0)),
				labeled("API-Approved", "bob", at(time.Hour)),
			},
			start:  at(0),
			end:    at(2 * time.Hour),
			want:   Outcome{Decision: DecisionApproved, Actor: "bob", At: at(time.Hour)},
			wantOK: true,
		},
		{
			name:   "no events",
			events: nil,
			start:  at(0),
			end:    at(time.Hour),
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ClassifyOutcome(tt.events, testLabels, tt.start, tt.end)
			require.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestFirstReadyReturnsEarliestEvent(t *testing.T) {
	events := []tracker.Event{
		labeled(testLabels.Ready, "alice", at(0)),
		labeled(testLabels.NeedsWork, "bob", at(time.Hour)),
		labeled(testLabels.Ready, "carol", at(2 * time.Hour)),
	}

	marker, ok := FirstReady(events, testLabels.Ready, at(3*time.Hour))
	require.True(t, ok)
	assert.Equal(t, "alice", marker.Actor)
	assert.Equal(t, at(0), marker.At)
}

func TestFirstReadyRespectsCutoff(t *testing.T) {
	events := []tracker.Event{
		labeled(testLabels.Ready, "alice", at(2 * time.Hour)),
	}

	_, ok := FirstReady(events, testLabels.Ready, at(time.Hour))
	assert.False(t, ok)
}

func TestLatestBlocking(t *testing.T) {
	t.Run("most recent labeling wins", func(t *testing.T) {
		events := []tracker.Event{
			labeled(testLabels.Blocking, "alice", at(0)),
			unlabeled(testLabels.Blocking, "alice", at(time.Hour)),
			labeled(testLabels.Blocking, "bob", at(2 * time.Hour)),
		}

		marker, ok := LatestBlocking(events, testLabels.Blocking, at(3*time.Hour))
		require.True(t, ok)
		assert.Equal(t, "bob", marker.Actor)
		assert.Equal(t, at(2*time.Hour), marker.At)
	})

	t.Run("removal more recent than labeling means not blocking", func(t *testing.T) {
		events := []tracker.Event{
			labeled(testLabels.Blocking, "alice", at(0)),
			unlabeled(testLabels.Blocking, "bob", at(time.Hour)),
		}

		_, ok := LatestBlocking(events, testLabels.Blocking, at(2*time.Hour))
		assert.False(t, ok)
	})

	t.Run("events after the cutoff are ignored", func(t *testing.T) {
		events := []tracker.Event{
			labeled(testLabels.Blocking, "alice", at(0)),
			unlabeled(testLabels.Blocking, "bob", at(2 * time.Hour)),
		}

		marker, ok := LatestBlocking(events, testLabels.Blocking, at(time.Hour))
		require.True(t, ok)
		assert.Equal(t, "alice", marker.Actor)
	})
}
