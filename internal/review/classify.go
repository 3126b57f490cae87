package review

import (
	"strings"
	"time"

	"github.com/NicoJuicy/apireview.net/internal/tracker"
)

// FirstReady returns the earliest "marked ready for review" event at or
// before end. An issue that cycled through needs-work and back keeps its
// original ready time so it doesn't lose its place in the queue.
func FirstReady(events []tracker.Event, readyLabel string, end time.Time) (Marker, bool) {
	for _, ev := range events {
		if ev.CreatedAt.After(end) {
			continue
		}
		if ev.Kind == tracker.EventLabeled && strings.EqualFold(ev.Label, readyLabel) {
			return Marker{Actor: ev.Actor, At: ev.CreatedAt}, true
		}
	}
	return Marker{}, false
}

// LatestBlocking returns the most recent "marked blocking" event at or
// before end. Blocking reflects current state only: if the label was removed
// more recently than it was applied, there is no blocking marker.
func LatestBlocking(events []tracker.Event, blockingLabel string, end time.Time) (Marker, bool) {
	for i := len(events) - 1; i >= 0; i-- {
		ev := events[i]
		if ev.CreatedAt.After(end) {
			continue
		}
		if !strings.EqualFold(ev.Label, blockingLabel) {
			continue
		}
		switch ev.Kind {
		case tracker.EventLabeled:
			return Marker{Actor: ev.Actor, At: ev.CreatedAt}, true
		case tracker.EventUnlabeled:
			return Marker{}, false
		}
	}
	return Marker{}, false
}

// ClassifyOutcome derives the review decision for one issue from its event
// history. Events are expected in chronological order.
//
// A ready-for-review label starts a fresh cycle and discards any earlier
// candidate decision. Approved and needs-work labels set the candidate and
// consume the pending ready marker. Closing the issue while a ready marker
// is still pending records an implicit rejection, which a later reopen
// cancels; an uncancelled rejection wins over the candidate. The result is
// reported only when its decision time falls within [start, end].
func ClassifyOutcome(events []tracker.Event, labels Labels, start, end time.Time) (Outcome, bool) {
	var candidate Outcome
	var rejection Outcome
	hasCandidate := false
	hasRejection := false
	readyPending := false

	for _, ev := range events {
		if ev.CreatedAt.After(end) {
			continue
		}

		switch ev.Kind {
		case tracker.EventLabeled:
			switch {
			case strings.EqualFold(ev.Label, labels.Ready):
				hasCandidate = false
				readyPending = true
			case strings.EqualFold(ev.Label, labels.Approved):
				candidate = Outcome{Decision: DecisionApproved, Actor: ev.Actor, At: ev.CreatedAt}
				hasCandidate = true
				readyPending = false
			case strings.EqualFold(ev.Label, labels.NeedsWork):
				candidate = Outcome{Decision: DecisionNeedsWork, Actor: ev.Actor, At: ev.CreatedAt}
				hasCandidate = true
				readyPending = false
			}
		case tracker.EventReopened:
			hasRejection = false
		case tracker.EventClosed:
			if readyPending {
				rejection = Outcome{Decision: DecisionRejected, Actor: ev.Actor, At: ev.CreatedAt}
				hasRejection = true
			}
		}
	}

	// Closing without a decision is itself a decision.
	if hasRejection {
		candidate = rejection
		hasCandidate = true
	}

	if !hasCandidate {
		return Outcome{}, false
	}
	if candidate.At.Before(start) || candidate.At.After(end) {
		return Outcome{}, false
	}

	return candidate, true
}
