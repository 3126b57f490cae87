package notes

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/NicoJuicy/apireview.net/internal/review"
	"github.com/NicoJuicy/apireview.net/internal/tracker"
	"github.com/NicoJuicy/apireview.net/internal/video"
)

var renderBase = time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC)

func videoSummary() *review.Summary {
	return &review.Summary{
		Group: "widgets",
		Video: &video.Video{
			ID:    "vid123",
			Start: renderBase.Add(-5 * time.Minute),
			End:   renderBase.Add(15 * time.Minute),
		},
		Items: []review.FeedbackItem{
			{
				Decision: review.DecisionApproved,
				Issue: review.IssueDetails{
					Issue: tracker.Issue{Repo: "widgets", Number: 42, Title: "Add span overloads"},
				},
				CommentID: 101,
				Decider:   "bob",
				DecidedAt: renderBase,
				URL:       "https://example.com/octo/widgets/42#comment-101",
				Body:      "Use spans throughout.",
				Timecode:  0,
			},
			{
				Decision: review.DecisionNeedsWork,
				Issue: review.IssueDetails{
					Issue: tracker.Issue{Repo: "widgets", Number: 43, Title: "Rework builder API"},
				},
				Decider:   "carol",
				DecidedAt: renderBase.Add(5 * time.Minute),
				URL:       "https://example.com/octo/widgets/43",
				Timecode:  10*time.Minute + 30*time.Second,
			},
		},
	}
}

func TestRenderMarkdownVideoSummary(t *testing.T) {
	md := RenderMarkdown(videoSummary())

	assert.Contains(t, md, "# API Review Notes for 2025-03-14")
	assert.Contains(t, md, "## Add span overloads")
	assert.Contains(t, md, "**Approved** | [#widgets/42](https://example.com/octo/widgets/42#comment-101) [Video](https://www.youtube.com/watch?v=vid123&t=0s)")
	assert.Contains(t, md, "Use spans throughout.")
	assert.Contains(t, md, "## Rework builder API")
	assert.Contains(t, md, "**Needs Work** | [#widgets/43](https://example.com/octo/widgets/43) [Video](https://www.youtube.com/watch?v=vid123&t=630s)")
}

func TestRenderMarkdownWindowSummaryHasNoVideoLinks(t *testing.T) {
	s := videoSummary()
	s.Video = nil

	md := RenderMarkdown(s)
	assert.NotContains(t, md, "[Video]")
	assert.Contains(t, md, "**Approved** | [#widgets/42](https://example.com/octo/widgets/42#comment-101)")
}

func TestSummaryDate(t *testing.T) {
	s := videoSummary()

	// Video-anchored summaries use the video start.
	assert.Equal(t, renderBase.Add(-5*time.Minute), SummaryDate(s))

	// Time-window summaries use the first decision.
	s.Video = nil
	assert.Equal(t, renderBase, SummaryDate(s))
}

func TestVideoURL(t *testing.T) {
	assert.Equal(t, "https://www.youtube.com/watch?v=vid123&t=630s", VideoURL("vid123", 10*time.Minute+30*time.Second))
}
