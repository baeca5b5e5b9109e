package controllerImp

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"catering/entities"
	"catering/pkg/apierr"
	"catering/pkg/httpx"
	repo "catering/pkg/task/repository"
)

type TaskCtrl struct{ repo repo.TaskRepository }

func New(repo repo.TaskRepository) *TaskCtrl { return &TaskCtrl{repo} }

func (h *TaskCtrl) List(c echo.Context) error {
	ctx := c.Request().Context()
	var (
		out []entities.Task
		err error
	)
	if pid := c.QueryParam("proposalId"); pid != "" {
		out, err = h.repo.ListByProposal(ctx, pid)
	} else {
		out, err = h.repo.List(ctx, strings.ToUpper(c.QueryParam("status")), c.QueryParam("from"), c.QueryParam("to"))
	}
	if err != nil {
		return err
	}
	return httpx.OK(c, http.StatusOK, map[string]any{"tasks": out})
}

func (h *TaskCtrl) Patch(c echo.Context) error {
	tid, err := strconv.Atoi(c.Param("task_id"))
	if err != nil {
		return apierr.Validation("invalid task id", nil)
	}
	var body struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&body); err != nil {
		return apierr.Validation("bad json", nil)
	}
	status := strings.ToUpper(strings.TrimSpace(body.Status))
	if status == "" {
		status = entities.TaskDone
	}
	if status != entities.TaskDone && status != entities.TaskPending {
		return apierr.Validation("status must be PENDING or DONE", nil)
	}
	if err := h.repo.PatchStatus(c.Request().Context(), uint(tid), status); err != nil {
		return err
	}
	return httpx.OK(c, http.StatusOK, map[string]any{"status": status})
}
