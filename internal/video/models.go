package video

import "time"

// Video is the time range of a recorded livestream.
type Video struct {
	ID    string    `json:"id"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Duration is the video's runtime.
func (v Video) Duration() time.Duration {
	return v.End.Sub(v.Start)
}
