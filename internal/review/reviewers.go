package review

import (
	"log"
	"strings"

	"github.com/NicoJuicy/apireview.net/internal/directory"
)

// CandidateReviewers returns the ordered, deduplicated list of logins that
// could present this issue: whoever marked it blocking, whoever marked it
// ready, the author, assignees, then area owners. Duplicates are dropped
// case-insensitively, first occurrence wins.
func CandidateReviewers(issue IssueDetails) []string {
	var candidates []string
	seen := make(map[string]bool)

	add := func(login string) {
		if login == "" {
			return
		}
		key := strings.ToLower(login)
		if seen[key] {
			return
		}
		seen[key] = true
		candidates = append(candidates, login)
	}

	if issue.Blocking != nil {
		add(issue.Blocking.Actor)
	}
	if issue.Ready != nil {
		add(issue.Ready.Actor)
	}
	add(issue.Author)
	for _, assignee := range issue.Assignees {
		add(assignee)
	}
	for _, owner := range issue.AreaOwners {
		add(owner)
	}

	return candidates
}

// ResolveReviewers maps candidate logins to verified identities. Candidates
// without a directory entry are skipped with a warning rather than failing
// the whole issue.
func ResolveReviewers(issue IssueDetails, dir directory.Directory) []directory.Person {
	var reviewers []directory.Person

	for _, login := range CandidateReviewers(issue) {
		person, ok := dir.Lookup(login)
		if !ok {
			log.Printf("Skipping unverified reviewer %q for %s/%s#%d", login, issue.Owner, issue.Repo, issue.Number)
			continue
		}
		reviewers = append(reviewers, person)
	}

	return reviewers
}
