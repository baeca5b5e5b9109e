package calendar

import (
	"context"
	"errors"
	"fmt"
	"time"

	"catering/entities"
	"catering/pkg/apierr"
	"catering/pkg/calendar/repository"
	"catering/pkg/googleauth"
	"catering/pkg/logger"
)

// DailyCapacity is the most guests the kitchen serves on one day.
const DailyCapacity = 200

type ProposalStore interface {
	FindByID(ctx context.Context, id string) (*entities.Proposal, error)
	Update(ctx context.Context, id string, fields map[string]any) error
}

type Scheduler struct {
	events    repository.EventRepository
	proposals ProposalStore
	provider  Provider
	log       *logger.Logger
	loc       *time.Location
}

// NewScheduler builds a scheduler. provider may be nil, in which case events
// are only kept locally.
func NewScheduler(events repository.EventRepository, proposals ProposalStore, provider Provider, loc *time.Location, log *logger.Logger) *Scheduler {
	if loc == nil {
		loc = time.Local
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Scheduler{events: events, proposals: proposals, provider: provider, log: log, loc: loc}
}

type Availability struct {
	Date         string                   `json:"date"`
	Events       []entities.CalendarEvent `json:"events"`
	Busy         []Window                 `json:"busy"`
	Connected    bool                     `json:"connected"`
	GuestsBooked int                      `json:"guestsBooked"`
	Capacity     int                      `json:"capacity"`
	Remaining    int                      `json:"remaining"`
	Available    bool                     `json:"available"`
}

func (s *Scheduler) day(t time.Time) time.Time {
	t = t.In(s.loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, s.loc)
}

func (s *Scheduler) CheckAvailability(ctx context.Context, date time.Time) (*Availability, error) {
	from := s.day(date)
	to := from.AddDate(0, 0, 1)
	evs, err := s.events.Between(ctx, from, to)
	if err != nil {
		return nil, err
	}
	a := &Availability{Date: from.Format("2006-01-02"), Events: evs, Busy: []Window{}, Capacity: DailyCapacity}
	for _, e := range evs {
		if e.Type == entities.EventDay {
			a.GuestsBooked += e.Guests
		}
	}
	if s.provider != nil {
		busy, err := s.provider.Busy(ctx, from, to)
		switch {
		case errors.Is(err, googleauth.ErrNotConnected):
		case err != nil:
			return nil, apierr.Upstream("calendar", err)
		default:
			a.Connected = true
			if busy != nil {
				a.Busy = busy
			}
		}
	}
	a.Remaining = max(DailyCapacity-a.GuestsBooked, 0)
	a.Available = a.Remaining > 0
	return a, nil
}

// ScheduleEvent books the event day plus shopping two days before and prep
// the day before. date overrides the request's event date when non-nil.
func (s *Scheduler) ScheduleEvent(ctx context.Context, proposalID string, date *time.Time) ([]entities.CalendarEvent, error) {
	p, err := s.proposals.FindByID(ctx, proposalID)
	if err != nil {
		return nil, err
	}
	if p.Request == nil {
		return nil, apierr.NotFound("request")
	}
	r := p.Request
	if date == nil {
		date = r.EventDate
	}
	if date == nil {
		return nil, apierr.Validation("event date is required", nil)
	}
	exists, err := s.events.ExistsForRequest(ctx, p.RequestID, entities.EventDay)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apierr.Conflict("event already scheduled for this request")
	}

	d := s.day(*date)
	at := func(base time.Time, hour int) time.Time { return base.Add(time.Duration(hour) * time.Hour) }
	shop, prep := d.AddDate(0, 0, -2), d.AddDate(0, 0, -1)
	evs := []entities.CalendarEvent{
		{Type: entities.EventShopping, Title: "Shopping: " + r.Name, StartTime: at(shop, 9), EndTime: at(shop, 11)},
		{Type: entities.EventPrep, Title: "Prep: " + r.Name, StartTime: at(prep, 8), EndTime: at(prep, 16)},
		{Type: entities.EventDay, Title: fmt.Sprintf("Event: %s (%d guests)", r.Name, r.GuestCount),
			Location: r.EventLocation, Guests: r.GuestCount, StartTime: at(d, 11), EndTime: at(d, 17)},
	}
	for i := range evs {
		evs[i].ProposalID = p.ID
		if evs[i].ProviderEventID, err = s.push(ctx, evs[i], r); err != nil {
			return nil, err
		}
	}
	if err := s.events.Create(ctx, evs); err != nil {
		return nil, err
	}
	s.log.Info("event scheduled", "proposal_id", p.ID, "date", d.Format("2006-01-02"))
	return evs, nil
}

// ScheduleTasting books a one hour tasting and flags the proposal.
func (s *Scheduler) ScheduleTasting(ctx context.Context, proposalID string, start time.Time) (*entities.CalendarEvent, error) {
	p, err := s.proposals.FindByID(ctx, proposalID)
	if err != nil {
		return nil, err
	}
	if p.Request == nil {
		return nil, apierr.NotFound("request")
	}
	ev := entities.CalendarEvent{
		ProposalID: p.ID,
		Type:       entities.EventTasting,
		Title:      "Tasting: " + p.Request.Name,
		Guests:     p.Request.GuestCount,
		StartTime:  start.In(s.loc),
		EndTime:    start.In(s.loc).Add(time.Hour),
	}
	if ev.ProviderEventID, err = s.push(ctx, ev, p.Request); err != nil {
		return nil, err
	}
	if err := s.events.Create(ctx, []entities.CalendarEvent{ev}); err != nil {
		return nil, err
	}
	if err := s.proposals.Update(ctx, p.ID, map[string]any{"tasting_scheduled": true}); err != nil {
		return nil, err
	}
	return &ev, nil
}

func (s *Scheduler) push(ctx context.Context, ev entities.CalendarEvent, r *entities.CateringRequest) (string, error) {
	if s.provider == nil {
		return "", nil
	}
	id, err := s.provider.Insert(ctx, Entry{
		Title:       ev.Title,
		Description: fmt.Sprintf("%s <%s> %s", r.Name, r.Email, r.Phone),
		Location:    ev.Location,
		Start:       ev.StartTime,
		End:         ev.EndTime,
	})
	if errors.Is(err, googleauth.ErrNotConnected) {
		s.log.Warn("calendar not connected, keeping event locally", "type", ev.Type)
		return "", nil
	}
	if err != nil {
		return "", apierr.Upstream("calendar", err)
	}
	return id, nil
}
