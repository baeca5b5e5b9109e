package controller

import "github.com/labstack/echo/v4"

type CateringController interface {
	Submit(c echo.Context) error
	CreateRequest(c echo.Context) error
	ListRequests(c echo.Context) error
	GetRequest(c echo.Context) error
	GenerateMenu(c echo.Context) error
}
