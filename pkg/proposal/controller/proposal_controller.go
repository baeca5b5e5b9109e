package controller

import "github.com/labstack/echo/v4"

type ProposalController interface {
	Get(c echo.Context) error
	CreateVersion(c echo.Context) error
	Resend(c echo.Context) error
	List(c echo.Context) error
	Create(c echo.Context) error
	Versions(c echo.Context) error
	History(c echo.Context) error
	Approve(c echo.Context) error
	Deny(c echo.Context) error
	Modify(c echo.Context) error
	SetPrice(c echo.Context) error
	Export(c echo.Context) error
}
