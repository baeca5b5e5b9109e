package httpx

import (
	"context"
	"errors"
	"net/http"
	"runtime/debug"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"catering/entities"
	"catering/pkg/apierr"
	"catering/pkg/logger"
)

// OK writes {"success": true, ...payload}.
func OK(c echo.Context, status int, payload map[string]any) error {
	body := map[string]any{"success": true}
	for k, v := range payload {
		body[k] = v
	}
	return c.JSON(status, body)
}

type Validator struct {
	v *validator.Validate
}

func NewValidator() *Validator { return &Validator{v: validator.New()} }

func (cv *Validator) Validate(i interface{}) error {
	if err := cv.v.Struct(i); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, strings.ToLower(fe.Field()[:1])+fe.Field()[1:])
			}
			return apierr.Validation("Invalid request body", map[string]any{"fields": fields})
		}
		return apierr.Validation("Invalid request body", nil)
	}
	return nil
}

// Bind decodes and validates the request body.
func Bind(c echo.Context, dst any) error {
	if err := c.Bind(dst); err != nil {
		return apierr.Validation("bad json", nil)
	}
	if c.Echo().Validator != nil {
		if err := c.Validate(dst); err != nil {
			return err
		}
	}
	return nil
}

// ErrorSink stores server-side failures.
type ErrorSink interface {
	Record(ctx context.Context, e *entities.ErrorLog) error
}

// ErrorHandler renders {"error", "details"} and persists 5xx failures.
func ErrorHandler(log *logger.Logger, sink ErrorSink, dev bool) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		status := apierr.StatusOf(err)
		msg := err.Error()
		var he *echo.HTTPError
		if errors.As(err, &he) {
			status = he.Code
			if m, ok := he.Message.(string); ok {
				msg = m
			} else {
				msg = http.StatusText(status)
			}
		}
		req := c.Request()
		body := map[string]any{"error": msg}
		if d := apierr.DetailsOf(err); d != nil {
			body["details"] = d
		}

		if status >= http.StatusInternalServerError {
			// fall back to the handler's own frames, labelled as such
			stack, stackKey := apierr.StackOf(err), "stack"
			if stack == "" {
				stack, stackKey = "error handler stack:\n"+string(debug.Stack()), "handlerStack"
			}
			log.Error("request failed", "method", req.Method, "path", req.URL.Path, "status", status, "error", err)
			if sink != nil {
				rec := &entities.ErrorLog{
					Message: msg,
					Stack:   stack,
					Source:  "http",
					Method:  req.Method,
					Path:    req.URL.Path,
				}
				if serr := sink.Record(req.Context(), rec); serr != nil {
					log.Warn("persist error log", "error", serr)
				}
			}
			if dev {
				body[stackKey] = stack
			}
		} else {
			log.Info("request rejected", "method", req.Method, "path", req.URL.Path, "status", status, "error", msg)
		}

		if req.Method == http.MethodHead {
			_ = c.NoContent(status)
			return
		}
		_ = c.JSON(status, body)
	}
}
