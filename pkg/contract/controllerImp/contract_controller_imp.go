package controllerImp

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"catering/pkg/apierr"
	"catering/pkg/contract"
	repo "catering/pkg/contract/repository"
	"catering/pkg/httpx"
)

type ContractCtrl struct{ repo repo.ContractRepository }

func New(repo repo.ContractRepository) *ContractCtrl { return &ContractCtrl{repo} }

func (h *ContractCtrl) List(c echo.Context) error {
	out, err := h.repo.List(c.Request().Context(), strings.ToUpper(c.QueryParam("status")))
	if err != nil {
		return err
	}
	return httpx.OK(c, http.StatusOK, map[string]any{"contracts": out})
}

func (h *ContractCtrl) Get(c echo.Context) error {
	ct, err := h.repo.FindByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return httpx.OK(c, http.StatusOK, map[string]any{"contract": ct})
}

func (h *ContractCtrl) Patch(c echo.Context) error {
	ctx := c.Request().Context()
	var body struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&body); err != nil {
		return apierr.Validation("bad json", nil)
	}
	ct, err := h.repo.FindByID(ctx, c.Param("id"))
	if err != nil {
		return err
	}
	next := strings.ToUpper(strings.TrimSpace(body.Status))
	if !contract.CanTransition(ct.Status, next) {
		return apierr.Conflict("contract cannot move from " + ct.Status + " to " + next)
	}
	if err := h.repo.UpdateStatus(ctx, ct.ID, next, time.Now()); err != nil {
		return err
	}
	ct.Status = next
	return httpx.OK(c, http.StatusOK, map[string]any{"contract": ct})
}
