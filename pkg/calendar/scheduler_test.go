package calendar

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"catering/database"
	"catering/entities"
	"catering/pkg/apierr"
	"catering/pkg/calendar/repositoryImp"
	"catering/pkg/googleauth"
	proposalRepoImp "catering/pkg/proposal/repositoryImp"
)

type fakeProvider struct {
	err     error
	busy    []Window
	entries []Entry
}

func (f *fakeProvider) Busy(context.Context, time.Time, time.Time) ([]Window, error) {
	return f.busy, f.err
}

func (f *fakeProvider) Insert(_ context.Context, e Entry) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.entries = append(f.entries, e)
	return "g-" + e.Title, nil
}

var eventDate = time.Date(2026, 6, 12, 0, 0, 0, 0, time.UTC)

func setup(t *testing.T, p Provider) (*Scheduler, *gorm.DB) {
	t.Helper()
	db, err := database.OpenMemory(t.Name())
	require.NoError(t, err)
	require.NoError(t, db.Create(&entities.CateringRequest{ID: "r1", Name: "Jane", Email: "jane@x.com",
		GuestCount: 120, EventDate: &eventDate, EventLocation: "Hall A"}).Error)
	require.NoError(t, db.Create(&entities.Proposal{ID: "p1", RequestID: "r1", Version: 1, Status: entities.ProposalApproved}).Error)
	return NewScheduler(repositoryImp.New(db), proposalRepoImp.New(db), p, time.UTC, nil), db
}

func TestScheduleEventCreatesThreeEntries(t *testing.T) {
	fp := &fakeProvider{}
	s, _ := setup(t, fp)

	evs, err := s.ScheduleEvent(context.Background(), "p1", nil)
	require.NoError(t, err)
	require.Len(t, evs, 3)

	assert.Equal(t, entities.EventShopping, evs[0].Type)
	assert.Equal(t, time.Date(2026, 6, 10, 9, 0, 0, 0, time.UTC), evs[0].StartTime)
	assert.Equal(t, entities.EventPrep, evs[1].Type)
	assert.Equal(t, 11, evs[1].StartTime.Day())
	assert.Equal(t, entities.EventDay, evs[2].Type)
	assert.Equal(t, 120, evs[2].Guests)
	assert.Equal(t, "Hall A", evs[2].Location)
	assert.Len(t, fp.entries, 3)
	assert.NotEmpty(t, evs[2].ProviderEventID)

	_, err = s.ScheduleEvent(context.Background(), "p1", nil)
	assert.Equal(t, http.StatusConflict, apierr.StatusOf(err))
}

func TestScheduleEventWithoutConnection(t *testing.T) {
	s, db := setup(t, &fakeProvider{err: googleauth.ErrNotConnected})
	evs, err := s.ScheduleEvent(context.Background(), "p1", nil)
	require.NoError(t, err)
	assert.Empty(t, evs[0].ProviderEventID)

	var n int64
	require.NoError(t, db.Model(&entities.CalendarEvent{}).Count(&n).Error)
	assert.Equal(t, int64(3), n)
}

func TestScheduleEventOncePerRequest(t *testing.T) {
	s, db := setup(t, nil)
	require.NoError(t, db.Create(&entities.Proposal{ID: "p2", RequestID: "r1", Version: 2, PreviousID: "p1",
		Status: entities.ProposalModifiedPendingSend}).Error)

	_, err := s.ScheduleEvent(context.Background(), "p1", nil)
	require.NoError(t, err)
	_, err = s.ScheduleEvent(context.Background(), "p2", nil)
	assert.Equal(t, http.StatusConflict, apierr.StatusOf(err))

	var n int64
	require.NoError(t, db.Model(&entities.CalendarEvent{}).Where("type = ?", entities.EventDay).Count(&n).Error)
	assert.Equal(t, int64(1), n)
}

func TestScheduleEventProviderFailure(t *testing.T) {
	s, db := setup(t, &fakeProvider{err: errors.New("quota")})
	_, err := s.ScheduleEvent(context.Background(), "p1", nil)
	assert.Equal(t, http.StatusBadGateway, apierr.StatusOf(err))

	var n int64
	require.NoError(t, db.Model(&entities.CalendarEvent{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestScheduleEventNeedsDate(t *testing.T) {
	s, db := setup(t, nil)
	require.NoError(t, db.Model(&entities.CateringRequest{}).Where("id = ?", "r1").Update("event_date", nil).Error)
	_, err := s.ScheduleEvent(context.Background(), "p1", nil)
	assert.Equal(t, http.StatusBadRequest, apierr.StatusOf(err))

	_, err = s.ScheduleEvent(context.Background(), "missing", nil)
	assert.Equal(t, http.StatusNotFound, apierr.StatusOf(err))
}

func TestScheduleTastingFlagsProposal(t *testing.T) {
	s, db := setup(t, nil)
	start := time.Date(2026, 5, 20, 15, 0, 0, 0, time.UTC)
	ev, err := s.ScheduleTasting(context.Background(), "p1", start)
	require.NoError(t, err)
	assert.Equal(t, time.Hour, ev.EndTime.Sub(ev.StartTime))
	assert.Equal(t, entities.EventTasting, ev.Type)

	var p entities.Proposal
	require.NoError(t, db.First(&p, "id = ?", "p1").Error)
	assert.True(t, p.TastingScheduled)
}

func TestCheckAvailability(t *testing.T) {
	busy := []Window{{Start: eventDate.Add(8 * time.Hour), End: eventDate.Add(9 * time.Hour)}}
	s, _ := setup(t, &fakeProvider{busy: busy})
	_, err := s.ScheduleEvent(context.Background(), "p1", nil)
	require.NoError(t, err)

	a, err := s.CheckAvailability(context.Background(), eventDate.Add(5*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, "2026-06-12", a.Date)
	assert.Len(t, a.Events, 1)
	assert.Equal(t, 120, a.GuestsBooked)
	assert.Equal(t, 80, a.Remaining)
	assert.True(t, a.Available)
	assert.True(t, a.Connected)
	assert.Len(t, a.Busy, 1)

	a, err = s.CheckAvailability(context.Background(), eventDate.AddDate(0, 0, -1))
	require.NoError(t, err)
	assert.Len(t, a.Events, 1)
	assert.Equal(t, entities.EventPrep, a.Events[0].Type)
	assert.Zero(t, a.GuestsBooked)
}
