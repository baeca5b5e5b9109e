package router

import (
	"net/http"

	"github.com/labstack/echo/v4"

	authController "catering/pkg/auth/controller"
	cateringController "catering/pkg/catering/controller"
	proposalController "catering/pkg/proposal/controller"
)

type Handlers struct {
	Auth     authController.AuthController
	Catering cateringController.CateringController
	Proposal proposalController.ProposalController
	Contract interface {
		List(echo.Context) error
		Get(echo.Context) error
		Patch(echo.Context) error
	}
	Task interface {
		List(echo.Context) error
		Patch(echo.Context) error
	}
	ErrorLog interface {
		List(echo.Context) error
		Purge(echo.Context) error
	}
	Audit    interface{ List(echo.Context) error }
	Health   interface{ Health(echo.Context) error }
	Calendar interface {
		CheckAvailability(echo.Context) error
		ScheduleEvent(echo.Context) error
		ScheduleTasting(echo.Context) error
	}
	Google interface {
		Start(echo.Context) error
		Callback(echo.Context) error
		Save(echo.Context) error
	}
	Voice interface {
		Schedule(echo.Context) error
		Webhook(echo.Context) error
		Ping(echo.Context) error
	}
	Analyze    echo.HandlerFunc
	Initialize echo.HandlerFunc
	Metrics    http.Handler
}

// New registers every route. admin guards the back-office surface; identify
// only records an admin session on public routes that behave differently for staff.
func New(e *echo.Echo, h Handlers, admin, identify echo.MiddlewareFunc) *echo.Echo {
	e.GET("/health", h.Health.Health)
	if h.Metrics != nil {
		e.GET("/metrics", echo.WrapHandler(h.Metrics))
	}

	e.POST("/auth/login", h.Auth.Login)
	e.POST("/auth/logout", h.Auth.Logout)
	e.GET("/auth/me", h.Auth.Me, admin)

	// customer-facing
	e.POST("/catering/submit", h.Catering.Submit)
	e.POST("/catering/requests", h.Catering.CreateRequest)
	e.GET("/catering/proposals/:id", h.Proposal.Get)
	e.POST("/catering/proposals/:id", h.Proposal.Resend)
	e.GET("/catering/requests", h.Catering.ListRequests, admin)
	e.PUT("/catering/proposals/:id", h.Proposal.CreateVersion, admin)

	e.POST("/schedule-callback", h.Voice.Schedule, identify)
	e.POST("/webhook/vapi", h.Voice.Webhook)
	e.GET("/webhook/vapi", h.Voice.Ping)

	g := e.Group("/auth/google", admin)
	g.GET("", h.Google.Start)
	g.GET("/callback", h.Google.Callback)
	g.POST("", h.Google.Save)

	a := e.Group("/admin", admin)
	a.GET("/requests", h.Catering.ListRequests)
	a.GET("/requests/:id", h.Catering.GetRequest)
	a.POST("/generate-menu", h.Catering.GenerateMenu)

	a.GET("/proposals", h.Proposal.List)
	a.POST("/proposals", h.Proposal.Create)
	a.GET("/proposals/export", h.Proposal.Export)
	a.GET("/proposals/:id/versions", h.Proposal.Versions)
	a.GET("/proposals/:id/history", h.Proposal.History)
	a.POST("/proposals/:id/approve", h.Proposal.Approve)
	a.POST("/proposals/:id/deny", h.Proposal.Deny)
	a.PUT("/proposals/:id/modify", h.Proposal.Modify)
	a.POST("/set-price", h.Proposal.SetPrice)

	a.GET("/contracts", h.Contract.List)
	a.GET("/contracts/:id", h.Contract.Get)
	a.PATCH("/contracts/:id", h.Contract.Patch)
	a.GET("/tasks", h.Task.List)
	a.PATCH("/tasks/:task_id", h.Task.Patch)
	a.GET("/error-logs", h.ErrorLog.List)
	a.DELETE("/error-logs", h.ErrorLog.Purge)
	a.GET("/logs", h.Audit.List)

	ag := e.Group("/agent2", admin)
	ag.POST("/analyze", h.Analyze)
	ag.GET("/initialize", h.Initialize)

	cal := e.Group("/calendar", admin)
	cal.GET("/check-availability", h.Calendar.CheckAvailability)
	cal.POST("/check-availability", h.Calendar.CheckAvailability)
	cal.POST("/schedule-event", h.Calendar.ScheduleEvent)
	cal.POST("/schedule-tasting", h.Calendar.ScheduleTasting)
	return e
}
