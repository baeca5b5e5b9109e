package controllerImp

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"catering/pkg/apierr"
	"catering/pkg/httpx"
	"catering/pkg/middleware"
	"catering/pkg/proposal/controller"
	"catering/pkg/proposal/service"
)

type proposalCtrl struct{ svc service.ProposalService }

func New(svc service.ProposalService) controller.ProposalController { return &proposalCtrl{svc} }

func (h *proposalCtrl) Get(c echo.Context) error {
	p, err := h.svc.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return httpx.OK(c, http.StatusOK, map[string]any{"proposal": p})
}

func (h *proposalCtrl) CreateVersion(c echo.Context) error {
	var in service.VersionInput
	if err := c.Bind(&in); err != nil {
		return apierr.Validation("bad json", nil)
	}
	in.ChangedBy = middleware.AdminID(c)
	p, err := h.svc.CreateVersion(c.Request().Context(), c.Param("id"), in)
	if err != nil {
		return err
	}
	return httpx.OK(c, http.StatusCreated, map[string]any{"proposal": p})
}

func (h *proposalCtrl) Resend(c echo.Context) error {
	p, err := h.svc.Resend(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return httpx.OK(c, http.StatusOK, map[string]any{"proposal": p, "emailSent": true})
}

func (h *proposalCtrl) List(c echo.Context) error {
	out, err := h.svc.List(c.Request().Context(), c.QueryParam("status"))
	if err != nil {
		return err
	}
	return httpx.OK(c, http.StatusOK, map[string]any{"proposals": out, "count": len(out)})
}

func (h *proposalCtrl) Create(c echo.Context) error {
	var body struct {
		RequestID string `json:"requestId"`
	}
	if err := c.Bind(&body); err != nil {
		return apierr.Validation("bad json", nil)
	}
	if strings.TrimSpace(body.RequestID) == "" {
		return apierr.Validation("requestId is required", nil)
	}
	p, err := h.svc.Create(c.Request().Context(), body.RequestID, middleware.AdminID(c))
	if err != nil {
		return err
	}
	return httpx.OK(c, http.StatusCreated, map[string]any{"proposal": p})
}

func (h *proposalCtrl) Versions(c echo.Context) error {
	p, err := h.svc.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	out, err := h.svc.ListVersions(c.Request().Context(), p.RequestID)
	if err != nil {
		return err
	}
	return httpx.OK(c, http.StatusOK, map[string]any{"versions": out})
}

func (h *proposalCtrl) History(c echo.Context) error {
	out, err := h.svc.History(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return httpx.OK(c, http.StatusOK, map[string]any{"changes": out})
}

func (h *proposalCtrl) Approve(c echo.Context) error {
	res, err := h.svc.Approve(c.Request().Context(), c.Param("id"), middleware.AdminID(c))
	if err != nil {
		return err
	}
	return httpx.OK(c, http.StatusOK, map[string]any{
		"proposal":  res.Proposal,
		"contract":  res.Contract,
		"tasks":     res.Tasks,
		"emailSent": res.EmailSent,
	})
}

func (h *proposalCtrl) Deny(c echo.Context) error {
	var body struct {
		Reason string `json:"reason"`
	}
	_ = c.Bind(&body)
	p, err := h.svc.Deny(c.Request().Context(), c.Param("id"), middleware.AdminID(c), body.Reason)
	if err != nil {
		return err
	}
	return httpx.OK(c, http.StatusOK, map[string]any{"proposal": p})
}

func (h *proposalCtrl) Modify(c echo.Context) error {
	var in service.ModifyInput
	if err := c.Bind(&in); err != nil {
		return apierr.Validation("bad json", nil)
	}
	in.AdminID = middleware.AdminID(c)
	p, err := h.svc.Modify(c.Request().Context(), c.Param("id"), in)
	if err != nil {
		return err
	}
	return httpx.OK(c, http.StatusOK, map[string]any{"proposal": p})
}

func (h *proposalCtrl) SetPrice(c echo.Context) error {
	var body struct {
		ProposalID string  `json:"proposalId" validate:"required"`
		Rate       float64 `json:"rate" validate:"gt=0"`
	}
	if err := httpx.Bind(c, &body); err != nil {
		return err
	}
	p, err := h.svc.SetPrice(c.Request().Context(), body.ProposalID, middleware.AdminID(c), body.Rate)
	if err != nil {
		return err
	}
	return httpx.OK(c, http.StatusOK, map[string]any{"proposal": p})
}

func (h *proposalCtrl) Export(c echo.Context) error {
	var buf bytes.Buffer
	if err := h.svc.Export(c.Request().Context(), &buf); err != nil {
		return err
	}
	name := fmt.Sprintf("proposals-%s.xlsx", time.Now().Format("20060102"))
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", name))
	return c.Blob(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}
