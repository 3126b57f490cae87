package review

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/NicoJuicy/apireview.net/internal/directory"
	"github.com/NicoJuicy/apireview.net/internal/tracker"
	"github.com/NicoJuicy/apireview.net/internal/video"
)

const (
	// endGracePeriod extends a video's review window so comments posted
	// shortly after the stream ended are still picked up.
	endGracePeriod = 15 * time.Minute

	// timecodeLeadIn nudges a timecode past the moment the feedback comment
	// was posted.
	timecodeLeadIn = 10 * time.Second
)

// TrackerClient is the read side of the issue tracker used while collecting
// feedback.
type TrackerClient interface {
	ListIssues(ctx context.Context, owner, repo string, since time.Time) ([]tracker.Issue, error)
	ListEvents(ctx context.Context, owner, repo string, number int) ([]tracker.Event, error)
	ListComments(ctx context.Context, owner, repo string, number int) ([]tracker.Comment, error)
}

// VideoClient resolves a video id to its recorded time range.
type VideoClient interface {
	GetVideo(ctx context.Context, id string) (*video.Video, error)
}

// Collector assembles review summaries from tracker and video data.
type Collector struct {
	tracker TrackerClient
	videos  VideoClient
	dir     directory.Directory
	labels  Labels
}

func NewCollector(trackerClient TrackerClient, videoClient VideoClient, dir directory.Directory, labels Labels) *Collector {
	return &Collector{
		tracker: trackerClient,
		videos:  videoClient,
		dir:     dir,
		labels:  labels,
	}
}

// CollectWindow builds a summary of all review decisions in the group's
// repositories within [start, end]. There is no video context, so all
// timecodes stay zero.
func (c *Collector) CollectWindow(ctx context.Context, group Group, start, end time.Time) (*Summary, error) {
	items, err := c.collect(ctx, group, start, end)
	if err != nil {
		return nil, err
	}

	return &Summary{Group: group.Name, Items: items}, nil
}

// CollectVideo builds a summary for the review session recorded in the given
// video. Returns (nil, nil) when the video id doesn't resolve.
func (c *Collector) CollectVideo(ctx context.Context, group Group, videoID string) (*Summary, error) {
	v, err := c.videos.GetVideo(ctx, videoID)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, nil
	}

	start := v.Start
	end := v.End.Add(endGracePeriod)

	items, err := c.collect(ctx, group, start, end)
	if err != nil {
		return nil, err
	}

	// Upstream sources can return slightly out-of-range rows; re-check the
	// window before anchoring timecodes.
	clipped := items[:0]
	for _, item := range items {
		if item.DecidedAt.Before(start) || item.DecidedAt.After(end) {
			continue
		}
		clipped = append(clipped, item)
	}

	assignTimecodes(clipped, v)

	return &Summary{Group: group.Name, Video: v, Items: clipped}, nil
}

// collect walks every repository in the group sequentially: issues, then
// each issue's events and comments. Quadratic in issue count, which is fine
// at review-committee scale.
func (c *Collector) collect(ctx context.Context, group Group, start, end time.Time) ([]FeedbackItem, error) {
	var items []FeedbackItem

	for _, repo := range group.Repos {
		issues, err := c.tracker.ListIssues(ctx, repo.Owner, repo.Name, start)
		if err != nil {
			return nil, err
		}

		for _, issue := range issues {
			events, err := c.tracker.ListEvents(ctx, issue.Owner, issue.Repo, issue.Number)
			if err != nil {
				return nil, err
			}
			sort.SliceStable(events, func(i, j int) bool {
				return events[i].CreatedAt.Before(events[j].CreatedAt)
			})

			outcome, ok := ClassifyOutcome(events, c.labels, start, end)
			if !ok {
				continue
			}

			details := IssueDetails{Issue: issue}
			if marker, ok := FirstReady(events, c.labels.Ready, end); ok {
				details.Ready = &marker
			}
			if marker, ok := LatestBlocking(events, c.labels.Blocking, end); ok {
				details.Blocking = &marker
			}
			details.AreaOwners = areaOwnersFor(issue.Labels, group.AreaOwners)
			details.Reviewers = ResolveReviewers(details, c.dir)

			item := FeedbackItem{
				Decision:  outcome.Decision,
				Issue:     details,
				Decider:   outcome.Actor,
				DecidedAt: outcome.At,
				URL:       issue.URL,
			}

			comments, err := c.tracker.ListComments(ctx, issue.Owner, issue.Repo, issue.Number)
			if err != nil {
				return nil, err
			}
			if comment, ok := CorrelateComment(outcome, comments, start, end); ok {
				item.CommentID = comment.ID
				item.URL = comment.URL
				item.Body = StripVideoLink(comment.Body)
			}

			items = append(items, item)
		}
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].DecidedAt.Before(items[j].DecidedAt)
	})

	return items, nil
}

// areaOwnersFor collects the owners of every area label on the issue, in
// label order.
func areaOwnersFor(labels []string, areaOwners map[string][]string) []string {
	var owners []string
	for _, label := range labels {
		for area, areaOwnerList := range areaOwners {
			if strings.EqualFold(label, area) {
				owners = append(owners, areaOwnerList...)
			}
		}
	}
	return owners
}

// assignTimecodes anchors each item against the video's time range. The
// first item always points at the start of the video. Later items point at
// their decision time plus a short lead-in; a value that would run past the
// end of the video falls back to the previous item's timecode, which keeps
// the sequence non-decreasing.
func assignTimecodes(items []FeedbackItem, v *video.Video) {
	if len(items) == 0 {
		return
	}

	items[0].Timecode = 0
	duration := v.Duration()

	for i := 1; i < len(items); i++ {
		timecode := items[i].DecidedAt.Sub(v.Start) + timecodeLeadIn
		if timecode >= duration {
			timecode = items[i-1].Timecode
		}
		items[i].Timecode = timecode
	}
}
