package video

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/api/option"
	youtube "google.golang.org/api/youtube/v3"
)

// Client fetches livestream metadata from the YouTube Data API.
type Client struct {
	service *youtube.Service
}

// NewClient creates a new YouTube client with an API key.
func NewClient(ctx context.Context, apiKey string) (*Client, error) {
	service, err := youtube.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create youtube service: %w", err)
	}

	return &Client{service: service}, nil
}

// GetVideo returns the actual start and end time of a livestream recording.
// An unknown video id returns (nil, nil) rather than an error.
func (c *Client) GetVideo(ctx context.Context, id string) (*Video, error) {
	resp, err := c.service.Videos.List([]string{"liveStreamingDetails"}).Id(id).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch video %s: %w", id, err)
	}

	if len(resp.Items) == 0 {
		return nil, nil
	}

	details := resp.Items[0].LiveStreamingDetails
	if details == nil || details.ActualStartTime == "" {
		return nil, nil
	}

	start, err := time.Parse(time.RFC3339, details.ActualStartTime)
	if err != nil {
		return nil, fmt.Errorf("failed to parse start time of video %s: %w", id, err)
	}

	// A stream that is still live has no end time yet; treat "now" as the end
	// so a summary can be previewed mid-stream.
	end := time.Now().UTC()
	if details.ActualEndTime != "" {
		end, err = time.Parse(time.RFC3339, details.ActualEndTime)
		if err != nil {
			return nil, fmt.Errorf("failed to parse end time of video %s: %w", id, err)
		}
	}

	return &Video{ID: id, Start: start, End: end}, nil
}
