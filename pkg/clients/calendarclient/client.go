package calendarclient

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/JKKN-Institutions/yi-connect-sub000/pkg/db"
)

// Client wraps the Google Calendar API client
type Client struct {
	service    *calendar.Service
	ctx        context.Context
	calendarID string
}

// NewClient creates a new Calendar client from an authorized HTTP client.
// The caller is responsible for the OAuth flow; the client holds no
// credentials of its own.
func NewClient(ctx context.Context, httpClient *http.Client, calendarID string) (*Client, error) {
	service, err := calendar.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar service: %w", err)
	}

	return &Client{
		service:    service,
		ctx:        ctx,
		calendarID: calendarID,
	}, nil
}

// PublishEvent inserts the event into the chapter calendar and returns the
// calendar event ID
func (c *Client) PublishEvent(ctx context.Context, event *db.Event) (string, error) {
	calEvent := &calendar.Event{
		Summary:     event.Title,
		Description: event.Description,
		Location:    event.Venue,
		Start: &calendar.EventDateTime{
			DateTime: event.StartTime.Format(time.RFC3339),
		},
		End: &calendar.EventDateTime{
			DateTime: event.EndTime.Format(time.RFC3339),
		},
	}

	created, err := c.service.Events.Insert(c.calendarID, calEvent).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to insert calendar event: %w", err)
	}

	return created.Id, nil
}

// RemoveEvent deletes a previously published event from the chapter calendar
func (c *Client) RemoveEvent(ctx context.Context, calendarEventID string) error {
	if err := c.service.Events.Delete(c.calendarID, calendarEventID).Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to delete calendar event: %w", err)
	}

	return nil
}
