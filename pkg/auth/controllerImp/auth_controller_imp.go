package controllerImp

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"catering/pkg/auth/controller"
	"catering/pkg/auth/service"
	"catering/pkg/httpx"
	"catering/pkg/middleware"
)

type authCtrl struct {
	svc    service.AuthService
	secure bool
}

func NewAuthController(svc service.AuthService, secure bool) controller.AuthController {
	return &authCtrl{svc: svc, secure: secure}
}

func (h *authCtrl) Login(c echo.Context) error {
	var body struct {
		Email    string `json:"email" validate:"required"`
		Password string `json:"password" validate:"required"`
	}
	if err := httpx.Bind(c, &body); err != nil {
		return err
	}
	token, u, err := h.svc.Login(c.Request().Context(), body.Email, body.Password)
	if err != nil {
		return err
	}
	c.SetCookie(&http.Cookie{
		Name:     service.CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(h.svc.TTL()),
	})
	return httpx.OK(c, http.StatusOK, map[string]any{"token": token, "user": u})
}

func (h *authCtrl) Logout(c echo.Context) error {
	c.SetCookie(&http.Cookie{Name: service.CookieName, Value: "", Path: "/", MaxAge: -1, HttpOnly: true})
	return httpx.OK(c, http.StatusOK, nil)
}

func (h *authCtrl) Me(c echo.Context) error {
	return httpx.OK(c, http.StatusOK, map[string]any{
		"id":    middleware.AdminID(c),
		"email": middleware.AdminEmail(c),
	})
}
