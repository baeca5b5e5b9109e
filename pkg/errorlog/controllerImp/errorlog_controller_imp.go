package controllerImp

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"catering/pkg/apierr"
	repo "catering/pkg/errorlog/repository"
	"catering/pkg/httpx"
)

type ErrorLogCtrl struct{ repo repo.ErrorLogRepository }

func New(repo repo.ErrorLogRepository) *ErrorLogCtrl { return &ErrorLogCtrl{repo} }

func (h *ErrorLogCtrl) List(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	out, err := h.repo.List(c.Request().Context(), limit)
	if err != nil {
		return err
	}
	return httpx.OK(c, http.StatusOK, map[string]any{"logs": out, "count": len(out)})
}

// Purge deletes entries older than olderThanDays (default 30). Zero purges everything.
func (h *ErrorLogCtrl) Purge(c echo.Context) error {
	days := 30
	if v := c.QueryParam("olderThanDays"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return apierr.Validation("olderThanDays must be a non-negative integer", nil)
		}
		days = n
	}
	cutoff := time.Now().AddDate(0, 0, -days)
	if days == 0 {
		cutoff = time.Now().Add(time.Second)
	}
	n, err := h.repo.PurgeBefore(c.Request().Context(), cutoff)
	if err != nil {
		return err
	}
	return httpx.OK(c, http.StatusOK, map[string]any{"deleted": n})
}
