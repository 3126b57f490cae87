package tracker

import "time"

// Event kinds reported by the issue tracker.
const (
	EventLabeled   = "labeled"
	EventUnlabeled = "unlabeled"
	EventClosed    = "closed"
	EventReopened  = "reopened"
)

// Issue is an immutable snapshot of a tracker issue.
type Issue struct {
	Owner     string    `json:"owner"`
	Repo      string    `json:"repo"`
	Number    int       `json:"number"`
	Title     string    `json:"title"`
	Author    string    `json:"author"`
	Assignees []string  `json:"assignees"`
	CreatedAt time.Time `json:"created_at"`
	Labels    []string  `json:"labels"`
	Milestone string    `json:"milestone"`
	URL       string    `json:"url"`
}

// Event is a single lifecycle action on an issue.
type Event struct {
	Kind      string    `json:"kind"`
	Actor     string    `json:"actor"`
	Label     string    `json:"label"`
	CreatedAt time.Time `json:"created_at"`
}

// Comment is a human-authored comment on an issue.
type Comment struct {
	ID        int64     `json:"id"`
	Author    string    `json:"author"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
	URL       string    `json:"url"`
}
