package notes

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"slices"
	"strings"

	"github.com/yuin/goldmark"

	"github.com/NicoJuicy/apireview.net/internal/review"
)

var (
	// ErrEmptySummary is returned when a summary with no feedback items is
	// published.
	ErrEmptySummary = errors.New("summary has no feedback items")

	// ErrUnknownGroup is returned when a summary names a repository group
	// that isn't configured.
	ErrUnknownGroup = errors.New("unknown repository group")
)

// TrackerClient is the write side of the issue tracker used when publishing:
// comment rewrites plus the git data primitives for committing the notes
// file.
type TrackerClient interface {
	UpdateComment(ctx context.Context, owner, repo string, commentID int64, body string) error
	DefaultBranch(ctx context.Context, owner, repo string) (string, error)
	GetRef(ctx context.Context, owner, repo, branch string) (string, error)
	GetCommit(ctx context.Context, owner, repo, sha string) (string, error)
	GetTreeRecursive(ctx context.Context, owner, repo, treeSHA string) ([]string, error)
	CreateTree(ctx context.Context, owner, repo, baseTreeSHA, path, content string) (string, error)
	CreateCommit(ctx context.Context, owner, repo, message, treeSHA, parentSHA string) (string, error)
	UpdateRef(ctx context.Context, owner, repo, branch, sha string) error
}

// MailClient delivers the notification email.
type MailClient interface {
	Send(ctx context.Context, from, to, replyTo, subject, htmlBody string) error
}

// PublisherConfig holds the notes repository and sender identity.
type PublisherConfig struct {
	NotesOwner  string
	NotesRepo   string
	FromAddress string
	ReplyTo     string
}

// Publisher dispatches a summary to its three destinations: the notes
// repository, the reviewed issues' comments, and the group mailing list.
type Publisher struct {
	tracker TrackerClient
	mail    MailClient
	groups  map[string]review.Group
	cfg     PublisherConfig
}

// NewPublisher creates a Publisher. mailClient may be nil to disable email.
func NewPublisher(trackerClient TrackerClient, mailClient MailClient, groups map[string]review.Group, cfg PublisherConfig) *Publisher {
	return &Publisher{
		tracker: trackerClient,
		mail:    mailClient,
		groups:  groups,
		cfg:     cfg,
	}
}

// PublishResult reports where the notes file ended up.
type PublishResult struct {
	URL string
}

// Publish renders the summary and dispatches it. An empty summary or an
// unknown group refuses up front. Tracker failures propagate; email failures
// are logged and swallowed.
func (p *Publisher) Publish(ctx context.Context, s *review.Summary) (PublishResult, error) {
	if s == nil || len(s.Items) == 0 {
		return PublishResult{}, ErrEmptySummary
	}

	group, ok := p.groups[s.Group]
	if !ok {
		return PublishResult{}, fmt.Errorf("%w: %q", ErrUnknownGroup, s.Group)
	}

	if s.Video != nil {
		if err := p.updateComments(ctx, s); err != nil {
			return PublishResult{}, err
		}
	}

	url, err := p.commitNotes(ctx, group, s)
	if err != nil {
		return PublishResult{}, err
	}

	p.sendNotification(ctx, group, s)

	return PublishResult{URL: url}, nil
}

// updateComments prepends a video link to each correlated feedback comment
// so readers of the issue can jump straight to the discussion.
func (p *Publisher) updateComments(ctx context.Context, s *review.Summary) error {
	for _, item := range s.Items {
		if item.CommentID == 0 {
			continue
		}

		url := VideoURL(s.Video.ID, item.Timecode)
		body := fmt.Sprintf("[Video](%s)\n\n%s", url, item.Body)
		if err := p.tracker.UpdateComment(ctx, item.Issue.Owner, item.Issue.Repo, item.CommentID, body); err != nil {
			return err
		}
	}
	return nil
}

// commitNotes writes the rendered summary as a new file on the notes
// repository's default branch. The path is partitioned per day and group; a
// file already at that path means a previous publish got there first, and
// the commit step becomes a no-op.
func (p *Publisher) commitNotes(ctx context.Context, group review.Group, s *review.Summary) (string, error) {
	date := SummaryDate(s)
	path := fmt.Sprintf("%d/%02d-%02d-%s/README.md", date.Year(), int(date.Month()), date.Day(), group.Suffix)

	branch, err := p.tracker.DefaultBranch(ctx, p.cfg.NotesOwner, p.cfg.NotesRepo)
	if err != nil {
		return "", err
	}

	headSHA, err := p.tracker.GetRef(ctx, p.cfg.NotesOwner, p.cfg.NotesRepo, branch)
	if err != nil {
		return "", err
	}

	treeSHA, err := p.tracker.GetCommit(ctx, p.cfg.NotesOwner, p.cfg.NotesRepo, headSHA)
	if err != nil {
		return "", err
	}

	paths, err := p.tracker.GetTreeRecursive(ctx, p.cfg.NotesOwner, p.cfg.NotesRepo, treeSHA)
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("https://github.com/%s/%s/blob/%s/%s", p.cfg.NotesOwner, p.cfg.NotesRepo, branch, path)

	if slices.Contains(paths, path) {
		log.Printf("Notes file %s already exists, skipping commit", path)
		return url, nil
	}

	newTreeSHA, err := p.tracker.CreateTree(ctx, p.cfg.NotesOwner, p.cfg.NotesRepo, treeSHA, path, RenderMarkdown(s))
	if err != nil {
		return "", err
	}

	message := fmt.Sprintf("Add review notes for %s", date.Format("2006-01-02"))
	commitSHA, err := p.tracker.CreateCommit(ctx, p.cfg.NotesOwner, p.cfg.NotesRepo, message, newTreeSHA, headSHA)
	if err != nil {
		return "", err
	}

	if err := p.tracker.UpdateRef(ctx, p.cfg.NotesOwner, p.cfg.NotesRepo, branch, commitSHA); err != nil {
		return "", err
	}

	return url, nil
}

// sendNotification emails the rendered notes to the group's mailing list.
// Delivery is best effort: a publish whose notes are already committed
// shouldn't fail because the mail hop is down.
func (p *Publisher) sendNotification(ctx context.Context, group review.Group, s *review.Summary) {
	if group.MailingList == "" || p.mail == nil {
		return
	}

	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(RenderMarkdown(s)), &buf); err != nil {
		log.Printf("Failed to render notification email for group %s: %v", s.Group, err)
		return
	}
	buf.WriteString(reviewerFooter(s))

	subject := fmt.Sprintf("API Review Notes for %s", SummaryDate(s).Format("2006-01-02"))
	if err := p.mail.Send(ctx, p.cfg.FromAddress, group.MailingList, p.cfg.ReplyTo, subject, buf.String()); err != nil {
		log.Printf("Failed to send notification email to %s: %v", group.MailingList, err)
	}
}

// reviewerFooter lists everyone resolved as a reviewer across the summary.
func reviewerFooter(s *review.Summary) string {
	var names []string
	seen := make(map[string]bool)

	for _, item := range s.Items {
		for _, person := range item.Issue.Reviewers {
			key := strings.ToLower(person.Login)
			if seen[key] {
				continue
			}
			seen[key] = true
			names = append(names, person.Name)
		}
	}

	if len(names) == 0 {
		return ""
	}
	return fmt.Sprintf("<p>Reviewers: %s</p>\n", strings.Join(names, ", "))
}
