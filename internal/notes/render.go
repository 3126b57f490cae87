package notes

import (
	"fmt"
	"strings"
	"time"

	"github.com/NicoJuicy/apireview.net/internal/review"
)

// SummaryDate is the calendar day a summary belongs to: the video's start
// for video-anchored summaries, otherwise the first decision time.
func SummaryDate(s *review.Summary) time.Time {
	if s.Video != nil {
		return s.Video.Start.UTC()
	}
	if len(s.Items) > 0 {
		return s.Items[0].DecidedAt.UTC()
	}
	return time.Time{}
}

// VideoURL builds a link into the video at the given offset.
func VideoURL(videoID string, timecode time.Duration) string {
	return fmt.Sprintf("https://www.youtube.com/watch?v=%s&t=%ds", videoID, int(timecode.Seconds()))
}

// RenderMarkdown renders a summary as the notes file committed to the notes
// repository. Each item gets a heading with the issue title, a line with the
// bold decision word, a link back to the feedback, an optional video link,
// and the feedback body verbatim.
func RenderMarkdown(s *review.Summary) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# API Review Notes for %s\n", SummaryDate(s).Format("2006-01-02"))

	for _, item := range s.Items {
		fmt.Fprintf(&sb, "\n## %s\n\n", item.Issue.Title)

		fmt.Fprintf(&sb, "**%s** | [#%s/%d](%s)", item.Decision, item.Issue.Repo, item.Issue.Number, item.URL)
		if s.Video != nil {
			fmt.Fprintf(&sb, " [Video](%s)", VideoURL(s.Video.ID, item.Timecode))
		}
		sb.WriteString("\n")

		if item.Body != "" {
			fmt.Fprintf(&sb, "\n%s\n", item.Body)
		}
	}

	return sb.String()
}
