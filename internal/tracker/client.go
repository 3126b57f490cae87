package tracker

import (
	"context"
	"fmt"
	"time"

	"github.com/google/go-github/v39/github"
	"golang.org/x/oauth2"
)

// Client wraps the GitHub API for the operations the review pipeline needs:
// reading issues, events and comments, rewriting comments, and committing
// note files through the git data API.
type Client struct {
	client *github.Client
}

func NewClient(token string) *Client {
	ctx := context.Background()
	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	)
	tc := oauth2.NewClient(ctx, ts)

	return &Client{
		client: github.NewClient(tc),
	}
}

// ListIssues fetches all issues (open and closed, excluding pull requests)
// updated since the given time.
func (c *Client) ListIssues(ctx context.Context, owner, repo string, since time.Time) ([]Issue, error) {
	var allIssues []Issue
	opts := &github.IssueListByRepoOptions{
		State:       "all",
		Since:       since,
		Sort:        "created",
		Direction:   "asc",
		ListOptions: github.ListOptions{PerPage: 100},
	}

	for {
		issues, resp, err := c.client.Issues.ListByRepo(ctx, owner, repo, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch issues for %s/%s: %w", owner, repo, err)
		}

		for _, issue := range issues {
			if issue.IsPullRequest() {
				continue
			}
			allIssues = append(allIssues, issueFromAPI(owner, repo, issue))
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return allIssues, nil
}

// ListEvents fetches the lifecycle events of one issue in chronological order.
func (c *Client) ListEvents(ctx context.Context, owner, repo string, number int) ([]Event, error) {
	var allEvents []Event
	opts := &github.ListOptions{PerPage: 100}

	for {
		events, resp, err := c.client.Issues.ListIssueEvents(ctx, owner, repo, number, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch events for %s/%s#%d: %w", owner, repo, number, err)
		}

		for _, ev := range events {
			allEvents = append(allEvents, Event{
				Kind:      ev.GetEvent(),
				Actor:     ev.GetActor().GetLogin(),
				Label:     ev.GetLabel().GetName(),
				CreatedAt: ev.GetCreatedAt(),
			})
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return allEvents, nil
}

// ListComments fetches the comments of one issue, oldest first.
func (c *Client) ListComments(ctx context.Context, owner, repo string, number int) ([]Comment, error) {
	sort := "created"
	direction := "asc"
	var allComments []Comment
	opts := &github.IssueListCommentsOptions{
		Sort:        &sort,
		Direction:   &direction,
		ListOptions: github.ListOptions{PerPage: 100},
	}

	for {
		comments, resp, err := c.client.Issues.ListComments(ctx, owner, repo, number, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch comments for %s/%s#%d: %w", owner, repo, number, err)
		}

		for _, comment := range comments {
			allComments = append(allComments, Comment{
				ID:        comment.GetID(),
				Author:    comment.GetUser().GetLogin(),
				Body:      comment.GetBody(),
				CreatedAt: comment.GetCreatedAt(),
				URL:       comment.GetHTMLURL(),
			})
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return allComments, nil
}

// UpdateComment replaces the body of an existing issue comment.
func (c *Client) UpdateComment(ctx context.Context, owner, repo string, commentID int64, body string) error {
	_, _, err := c.client.Issues.EditComment(ctx, owner, repo, commentID, &github.IssueComment{Body: &body})
	if err != nil {
		return fmt.Errorf("failed to update comment %d on %s/%s: %w", commentID, owner, repo, err)
	}
	return nil
}

// DefaultBranch returns the repository's default branch name.
func (c *Client) DefaultBranch(ctx context.Context, owner, repo string) (string, error) {
	repository, _, err := c.client.Repositories.Get(ctx, owner, repo)
	if err != nil {
		return "", fmt.Errorf("failed to fetch repository %s/%s: %w", owner, repo, err)
	}
	return repository.GetDefaultBranch(), nil
}

// GetRef returns the commit SHA a branch currently points at.
func (c *Client) GetRef(ctx context.Context, owner, repo, branch string) (string, error) {
	ref, _, err := c.client.Git.GetRef(ctx, owner, repo, "heads/"+branch)
	if err != nil {
		return "", fmt.Errorf("failed to fetch ref heads/%s for %s/%s: %w", branch, owner, repo, err)
	}
	return ref.GetObject().GetSHA(), nil
}

// GetCommit returns the tree SHA of a commit.
func (c *Client) GetCommit(ctx context.Context, owner, repo, sha string) (string, error) {
	commit, _, err := c.client.Git.GetCommit(ctx, owner, repo, sha)
	if err != nil {
		return "", fmt.Errorf("failed to fetch commit %s from %s/%s: %w", sha, owner, repo, err)
	}
	return commit.GetTree().GetSHA(), nil
}

// GetTreeRecursive returns all blob paths reachable from a tree.
func (c *Client) GetTreeRecursive(ctx context.Context, owner, repo, treeSHA string) ([]string, error) {
	tree, _, err := c.client.Git.GetTree(ctx, owner, repo, treeSHA, true)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch tree %s from %s/%s: %w", treeSHA, owner, repo, err)
	}

	var paths []string
	for _, entry := range tree.Entries {
		if entry.GetType() == "blob" {
			paths = append(paths, entry.GetPath())
		}
	}
	return paths, nil
}

// CreateTree creates a new tree on top of a base tree with one added file,
// returning the new tree's SHA.
func (c *Client) CreateTree(ctx context.Context, owner, repo, baseTreeSHA, path, content string) (string, error) {
	mode := "100644"
	entryType := "blob"
	entries := []*github.TreeEntry{
		{
			Path:    &path,
			Mode:    &mode,
			Type:    &entryType,
			Content: &content,
		},
	}

	tree, _, err := c.client.Git.CreateTree(ctx, owner, repo, baseTreeSHA, entries)
	if err != nil {
		return "", fmt.Errorf("failed to create tree in %s/%s: %w", owner, repo, err)
	}
	return tree.GetSHA(), nil
}

// CreateCommit creates a commit for a tree on top of a parent commit,
// returning the new commit's SHA.
func (c *Client) CreateCommit(ctx context.Context, owner, repo, message, treeSHA, parentSHA string) (string, error) {
	commit := &github.Commit{
		Message: &message,
		Tree:    &github.Tree{SHA: &treeSHA},
		Parents: []*github.Commit{{SHA: &parentSHA}},
	}

	created, _, err := c.client.Git.CreateCommit(ctx, owner, repo, commit)
	if err != nil {
		return "", fmt.Errorf("failed to create commit in %s/%s: %w", owner, repo, err)
	}
	return created.GetSHA(), nil
}

// UpdateRef points a branch at a commit.
func (c *Client) UpdateRef(ctx context.Context, owner, repo, branch, sha string) error {
	refName := "refs/heads/" + branch
	ref := &github.Reference{
		Ref:    &refName,
		Object: &github.GitObject{SHA: &sha},
	}

	_, _, err := c.client.Git.UpdateRef(ctx, owner, repo, ref, false)
	if err != nil {
		return fmt.Errorf("failed to update ref %s in %s/%s: %w", refName, owner, repo, err)
	}
	return nil
}

func issueFromAPI(owner, repo string, issue *github.Issue) Issue {
	var assignees []string
	for _, user := range issue.Assignees {
		assignees = append(assignees, user.GetLogin())
	}

	var labels []string
	for _, label := range issue.Labels {
		labels = append(labels, label.GetName())
	}

	return Issue{
		Owner:     owner,
		Repo:      repo,
		Number:    issue.GetNumber(),
		Title:     issue.GetTitle(),
		Author:    issue.GetUser().GetLogin(),
		Assignees: assignees,
		CreatedAt: issue.GetCreatedAt(),
		Labels:    labels,
		Milestone: issue.GetMilestone().GetTitle(),
		URL:       issue.GetHTMLURL(),
	}
}
