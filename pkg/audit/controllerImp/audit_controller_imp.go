package controllerImp

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	repo "catering/pkg/audit/repository"
	"catering/pkg/httpx"
)

type AuditCtrl struct{ repo repo.AuditRepository }

func New(repo repo.AuditRepository) *AuditCtrl { return &AuditCtrl{repo} }

// List serves GET /admin/logs?entityId=&limit=.
func (h *AuditCtrl) List(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	out, err := h.repo.ListAdmin(c.Request().Context(), c.QueryParam("entityId"), limit)
	if err != nil {
		return err
	}
	return httpx.OK(c, http.StatusOK, map[string]any{"logs": out})
}
