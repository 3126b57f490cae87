package review

import (
	"time"

	"github.com/NicoJuicy/apireview.net/internal/directory"
	"github.com/NicoJuicy/apireview.net/internal/tracker"
	"github.com/NicoJuicy/apireview.net/internal/video"
)

// Decision is the outcome of a review cycle.
type Decision int

const (
	DecisionNone Decision = iota
	DecisionApproved
	DecisionNeedsWork
	DecisionRejected
)

func (d Decision) String() string {
	switch d {
	case DecisionApproved:
		return "Approved"
	case DecisionNeedsWork:
		return "Needs Work"
	case DecisionRejected:
		return "Rejected"
	default:
		return "None"
	}
}

// Marker records who performed a labeling action and when.
type Marker struct {
	Actor string    `json:"actor"`
	At    time.Time `json:"at"`
}

// Outcome is a review decision together with its decision-maker and time.
type Outcome struct {
	Decision Decision  `json:"decision"`
	Actor    string    `json:"actor"`
	At       time.Time `json:"at"`
}

// Labels maps review lifecycle states to tracker label names.
type Labels struct {
	Ready     string
	Blocking  string
	Approved  string
	NeedsWork string
}

// Repo identifies one tracked repository.
type Repo struct {
	Owner string
	Name  string
}

// Group is a set of repositories whose review feedback is summarized
// together, plus where the resulting notes go.
type Group struct {
	Name        string
	Suffix      string
	MailingList string
	Repos       []Repo
	AreaOwners  map[string][]string
}

// IssueDetails is an issue snapshot extended with the review state derived
// from its event history.
type IssueDetails struct {
	tracker.Issue

	Ready      *Marker            `json:"ready,omitempty"`
	Blocking   *Marker            `json:"blocking,omitempty"`
	AreaOwners []string           `json:"area_owners,omitempty"`
	Reviewers  []directory.Person `json:"reviewers,omitempty"`
}

// FeedbackItem is one reviewed issue within a summary.
type FeedbackItem struct {
	Decision  Decision      `json:"decision"`
	Issue     IssueDetails  `json:"issue"`
	CommentID int64         `json:"comment_id,omitempty"` // 0 when no comment was correlated
	Decider   string        `json:"decider"`
	DecidedAt time.Time     `json:"decided_at"`
	URL       string        `json:"url"`
	Body      string        `json:"body"`
	Timecode  time.Duration `json:"timecode"`
}

// Summary is an ordered collection of feedback items for one group,
// optionally anchored to a video.
type Summary struct {
	Group string         `json:"group"`
	Video *video.Video   `json:"video,omitempty"`
	Items []FeedbackItem `json:"items"`
}
