package review

import (
	"regexp"
	"strings"
	"time"

	"github.com/NicoJuicy/apireview.net/internal/tracker"
)

// videoLinkPattern matches a "[Video](...)" markdown link at the start of a
// comment body, as written by a previous publish run.
var videoLinkPattern = regexp.MustCompile(`^\[Video\]\([^)]*\)\s*`)

// CorrelateComment finds the comment that most plausibly carries the
// decision's written feedback: authored by the decision-maker, created
// within [start, end], and closest in time to the decision itself. Ties go
// to the earlier comment in list order.
func CorrelateComment(outcome Outcome, comments []tracker.Comment, start, end time.Time) (tracker.Comment, bool) {
	var best tracker.Comment
	var bestDistance time.Duration
	found := false

	for _, comment := range comments {
		if comment.CreatedAt.Before(start) || comment.CreatedAt.After(end) {
			continue
		}
		if !strings.EqualFold(comment.Author, outcome.Actor) {
			continue
		}

		distance := comment.CreatedAt.Sub(outcome.At)
		if distance < 0 {
			distance = -distance
		}

		if !found || distance < bestDistance {
			best = comment
			bestDistance = distance
			found = true
		}
	}

	return best, found
}

// StripVideoLink removes a leading "[Video](...)" link so that re-publishing
// doesn't stack links on top of each other. The remainder of the body is the
// feedback text.
func StripVideoLink(body string) string {
	if loc := videoLinkPattern.FindStringIndex(body); loc != nil {
		return body[loc[1]:]
	}
	return body
}
