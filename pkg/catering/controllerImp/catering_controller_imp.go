package controllerImp

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"catering/pkg/apierr"
	"catering/pkg/catering/controller"
	"catering/pkg/catering/service"
	"catering/pkg/httpx"
)

type cateringCtrl struct{ svc service.CateringService }

func New(svc service.CateringService) controller.CateringController { return &cateringCtrl{svc} }

func (h *cateringCtrl) Submit(c echo.Context) error {
	var in service.SubmitInput
	if err := c.Bind(&in); err != nil {
		return apierr.Validation("bad json", nil)
	}
	res, err := h.svc.Submit(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return httpx.OK(c, http.StatusCreated, map[string]any{
		"requestId":     res.RequestID,
		"proposalId":    res.ProposalID,
		"proposalRef":   res.ProposalRef,
		"estimatedCost": res.EstimatedCost,
		"generator":     res.Generator,
	})
}

func (h *cateringCtrl) CreateRequest(c echo.Context) error {
	var in service.SubmitInput
	if err := c.Bind(&in); err != nil {
		return apierr.Validation("bad json", nil)
	}
	r, err := h.svc.CreateRequest(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return httpx.OK(c, http.StatusCreated, map[string]any{"request": r})
}

func (h *cateringCtrl) ListRequests(c echo.Context) error {
	out, err := h.svc.ListRequests(c.Request().Context(), c.QueryParam("status"))
	if err != nil {
		return err
	}
	return httpx.OK(c, http.StatusOK, map[string]any{"requests": out, "count": len(out)})
}

func (h *cateringCtrl) GetRequest(c echo.Context) error {
	r, err := h.svc.GetRequest(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return httpx.OK(c, http.StatusOK, map[string]any{"request": r})
}

func (h *cateringCtrl) GenerateMenu(c echo.Context) error {
	var body struct {
		RequestID string `json:"requestId"`
	}
	if err := c.Bind(&body); err != nil {
		return apierr.Validation("bad json", nil)
	}
	if strings.TrimSpace(body.RequestID) == "" {
		return apierr.Validation("requestId is required", nil)
	}
	m, err := h.svc.GenerateMenu(c.Request().Context(), body.RequestID)
	if err != nil {
		return err
	}
	return httpx.OK(c, http.StatusOK, map[string]any{"menu": m})
}
