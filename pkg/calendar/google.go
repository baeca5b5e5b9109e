package calendar

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/oauth2"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

type TokenSourcer interface {
	TokenSource(ctx context.Context) (oauth2.TokenSource, error)
}

// Google talks to Google Calendar v3 with the active OAuth token.
type Google struct {
	tokens     TokenSourcer
	calendarID string
	opts       []option.ClientOption
}

func NewGoogle(tokens TokenSourcer, calendarID string, opts ...option.ClientOption) *Google {
	if calendarID == "" {
		calendarID = "primary"
	}
	return &Google{tokens: tokens, calendarID: calendarID, opts: opts}
}

func (g *Google) service(ctx context.Context) (*gcal.Service, error) {
	ts, err := g.tokens.TokenSource(ctx)
	if err != nil {
		return nil, err
	}
	opts := append([]option.ClientOption{option.WithTokenSource(ts)}, g.opts...)
	return gcal.NewService(ctx, opts...)
}

func (g *Google) Busy(ctx context.Context, from, to time.Time) ([]Window, error) {
	svc, err := g.service(ctx)
	if err != nil {
		return nil, err
	}
	resp, err := svc.Freebusy.Query(&gcal.FreeBusyRequest{
		TimeMin: from.Format(time.RFC3339),
		TimeMax: to.Format(time.RFC3339),
		Items:   []*gcal.FreeBusyRequestItem{{Id: g.calendarID}},
	}).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("freebusy: %w", err)
	}
	cal, ok := resp.Calendars[g.calendarID]
	if !ok {
		return nil, nil
	}
	out := make([]Window, 0, len(cal.Busy))
	for _, b := range cal.Busy {
		start, err1 := time.Parse(time.RFC3339, b.Start)
		end, err2 := time.Parse(time.RFC3339, b.End)
		if err1 != nil || err2 != nil {
			continue
		}
		out = append(out, Window{Start: start, End: end})
	}
	return out, nil
}

func (g *Google) Insert(ctx context.Context, e Entry) (string, error) {
	svc, err := g.service(ctx)
	if err != nil {
		return "", err
	}
	ev, err := svc.Events.Insert(g.calendarID, &gcal.Event{
		Summary:     e.Title,
		Description: e.Description,
		Location:    e.Location,
		Start:       &gcal.EventDateTime{DateTime: e.Start.Format(time.RFC3339)},
		End:         &gcal.EventDateTime{DateTime: e.End.Format(time.RFC3339)},
	}).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("insert event: %w", err)
	}
	return ev.Id, nil
}
