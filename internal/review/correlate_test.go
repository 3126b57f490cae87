package review

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NicoJuicy/apireview.net/internal/tracker"
)

func comment(id int64, author string, t time.Time) tracker.Comment {
	return tracker.Comment{ID: id, Author: author, CreatedAt: t, Body: "feedback"}
}

func TestCorrelateCommentPrefersSameAuthorOverCloserTime(t *testing.T) {
	decision := Outcome{Decision: DecisionApproved, Actor: "bob", At: at(0)}
	comments := []tracker.Comment{
		comment(1, "bob", at(-30*time.Second)),
		comment(2, "mallory", at(1*time.Second)),
		comment(3, "bob", at(5*time.Second)),
	}

	got, ok := CorrelateComment(decision, comments, at(-time.Hour), at(time.Hour))
	require.True(t, ok)
	assert.Equal(t, int64(3), got.ID)
}

func TestCorrelateCommentTieGoesToListOrder(t *testing.T) {
	decision := Outcome{Decision: DecisionApproved, Actor: "bob", At: at(0)}
	comments := []tracker.Comment{
		comment(1, "bob", at(-10*time.Second)),
		comment(2, "bob", at(10*time.Second)),
	}

	got, ok := CorrelateComment(decision, comments, at(-time.Hour), at(time.Hour))
	require.True(t, ok)
	assert.Equal(t, int64(1), got.ID)
}

func TestCorrelateCommentIgnoresCommentsOutsideWindow(t *testing.T) {
	decision := Outcome{Decision: DecisionApproved, Actor: "bob", At: at(0)}
	comments := []tracker.Comment{
		comment(1, "bob", at(-2*time.Hour)),
		comment(2, "bob", at(2*time.Hour)),
	}

	_, ok := CorrelateComment(decision, comments, at(-time.Hour), at(time.Hour))
	assert.False(t, ok)
}

func TestCorrelateCommentAuthorMatchIsCaseInsensitive(t *testing.T) {
	decision := Outcome{Decision: DecisionApproved, Actor: "Bob", At: at(0)}
	comments := []tracker.Comment{
		comment(1, "bob", at(time.Minute)),
	}

	got, ok := CorrelateComment(decision, comments, at(-time.Hour), at(time.Hour))
	require.True(t, ok)
	assert.Equal(t, int64(1), got.ID)
}

func TestCorrelateCommentNoMatch(t *testing.T) {
	decision := Outcome{Decision: DecisionApproved, Actor: "bob", At: at(0)}
	comments := []tracker.Comment{
		comment(1, "mallory", at(time.Minute)),
	}

	_, ok := CorrelateComment(decision, comments, at(-time.Hour), at(time.Hour))
	assert.False(t, ok)
}

func TestStripVideoLink(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{
			name: "leading video link is stripped",
			body: "[Video](https://www.youtube.com/watch?v=abc&t=90s)\n\nLooks good to me.",
			want: "Looks good to me.",
		},
		{
			name: "body without link is unchanged",
			body: "Looks good to me.",
			want: "Looks good to me.",
		},
		{
			name: "link not at the start is kept",
			body: "See [Video](https://example.com) for context.",
			want: "See [Video](https://example.com) for context.",
		},
		{
			name: "empty body",
			body: "",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripVideoLink(tt.body))
		})
	}
}
