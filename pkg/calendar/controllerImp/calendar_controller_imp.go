package controllerImp

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"catering/pkg/apierr"
	"catering/pkg/calendar"
	"catering/pkg/httpx"
)

type CalendarCtrl struct {
	s   *calendar.Scheduler
	loc *time.Location
}

func New(s *calendar.Scheduler, loc *time.Location) *CalendarCtrl {
	if loc == nil {
		loc = time.Local
	}
	return &CalendarCtrl{s: s, loc: loc}
}

// parseWhen accepts YYYY-MM-DD or RFC3339.
func (h *CalendarCtrl) parseWhen(v string) (time.Time, error) {
	v = strings.TrimSpace(v)
	if t, err := time.ParseInLocation("2006-01-02", v, h.loc); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, v)
}

func (h *CalendarCtrl) CheckAvailability(c echo.Context) error {
	date := c.QueryParam("date")
	if c.Request().Method == http.MethodPost {
		var body struct {
			Date string `json:"date" validate:"required"`
		}
		if err := httpx.Bind(c, &body); err != nil {
			return err
		}
		date = body.Date
	}
	if date == "" {
		return apierr.Validation("date is required", nil)
	}
	d, err := h.parseWhen(date)
	if err != nil {
		return apierr.Validation("invalid date", nil)
	}
	a, err := h.s.CheckAvailability(c.Request().Context(), d)
	if err != nil {
		return err
	}
	return httpx.OK(c, http.StatusOK, map[string]any{"availability": a})
}

func (h *CalendarCtrl) ScheduleEvent(c echo.Context) error {
	var body struct {
		ProposalID string `json:"proposalId" validate:"required"`
		EventDate  string `json:"eventDate"`
	}
	if err := httpx.Bind(c, &body); err != nil {
		return err
	}
	var date *time.Time
	if body.EventDate != "" {
		d, err := h.parseWhen(body.EventDate)
		if err != nil {
			return apierr.Validation("invalid eventDate", nil)
		}
		date = &d
	}
	evs, err := h.s.ScheduleEvent(c.Request().Context(), body.ProposalID, date)
	if err != nil {
		return err
	}
	return httpx.OK(c, http.StatusCreated, map[string]any{"events": evs})
}

func (h *CalendarCtrl) ScheduleTasting(c echo.Context) error {
	var body struct {
		ProposalID string `json:"proposalId" validate:"required"`
		Start      string `json:"start" validate:"required"`
	}
	if err := httpx.Bind(c, &body); err != nil {
		return err
	}
	start, err := time.Parse(time.RFC3339, strings.TrimSpace(body.Start))
	if err != nil {
		return apierr.Validation("start must be RFC3339", nil)
	}
	ev, err := h.s.ScheduleTasting(c.Request().Context(), body.ProposalID, start)
	if err != nil {
		return err
	}
	return httpx.OK(c, http.StatusCreated, map[string]any{"event": ev})
}
