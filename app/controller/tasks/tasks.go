// Package tasks exposes the task, version, variable and execution operations
// over HTTP. Handlers carry no business rules; they bind, validate and call
// into the core.
package tasks

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"

	"github.com/labstack/echo/v4"

	"promptdeck/app/services/editsession"
	"promptdeck/app/services/executor"
	"promptdeck/domain/endpoint"
	"promptdeck/domain/task"
	"promptdeck/internal/render"
)

// historyLimit caps how many results a history listing returns.
const historyLimit = 50

// previewLength is how much of a response the history listing shows inline.
const previewLength = 50

// Runner issues one completion call and records the result. The handler keeps
// at most one execution in flight per version, standing in for the UI
// disabling its run control during a call.
type Runner interface {
	Execute(ctx context.Context, t *task.Task, v *task.Version, ep *endpoint.Endpoint) (*task.Result, error)
}

type (
	Handler struct {
		repo      task.Repository
		endpoints endpoint.Repository
		runner    Runner
		sessions  *editsession.Manager

		mu       sync.Mutex
		inflight map[string]struct{}
	}
	CreateTaskRequest struct {
		Name string `json:"name" validate:"required"`
	}
	RenameTaskRequest struct {
		Name string `json:"name" validate:"required"`
	}
	CreateVersionRequest struct {
		Description string `json:"description"`
	}
	VariableRequest struct {
		Name  string `json:"name" validate:"required"`
		Value string `json:"value"`
	}
	DraftRequest struct {
		Description  string `json:"description"`
		SystemPrompt string `json:"system_prompt"`
		UserPrompt   string `json:"user_prompt"`
	}
	VersionResponse struct {
		task.Version
		Variables []string          `json:"variables"`
		Values    map[string]string `json:"values"`
	}
	HistoryEntry struct {
		task.Result
		Preview string `json:"preview"`
	}
)

func NewHandler(repo task.Repository, endpoints endpoint.Repository, runner Runner, sessions *editsession.Manager) *Handler {
	return &Handler{
		repo:      repo,
		endpoints: endpoints,
		runner:    runner,
		sessions:  sessions,
		inflight:  map[string]struct{}{},
	}
}

func (h *Handler) Create(c echo.Context) error {
	var req CreateTaskRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	created, err := h.repo.Create(c.Request().Context(), req.Name)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "Failed to save task: " + err.Error(),
		})
	}
	return c.JSON(http.StatusCreated, created)
}

func (h *Handler) Index(c echo.Context) error {
	all, err := h.repo.FindAll(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "Failed to fetch tasks: " + err.Error(),
		})
	}
	return c.JSON(http.StatusOK, all)
}

func (h *Handler) Get(c echo.Context) error {
	found, err := h.repo.FindByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, task.ErrNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Task not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "Failed to fetch task: " + err.Error(),
		})
	}
	return c.JSON(http.StatusOK, found)
}

func (h *Handler) Rename(c echo.Context) error {
	var req RenameTaskRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	renamed, err := h.repo.Rename(c.Request().Context(), c.Param("id"), req.Name)
	if err != nil {
		if errors.Is(err, task.ErrNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Task not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "Failed to rename task: " + err.Error(),
		})
	}
	return c.JSON(http.StatusOK, renamed)
}

func (h *Handler) Delete(c echo.Context) error {
	taskID := c.Param("id")
	if err := h.repo.Delete(c.Request().Context(), taskID); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "Failed to delete task: " + err.Error(),
		})
	}
	h.sessions.DropTask(taskID)
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) CreateVersion(c echo.Context) error {
	var req CreateVersionRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}

	created, err := h.repo.CreateVersion(c.Request().Context(), c.Param("id"), req.Description)
	if err != nil {
		if errors.Is(err, task.ErrNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Task not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "Failed to create version: " + err.Error(),
		})
	}
	return c.JSON(http.StatusCreated, created)
}

// GetVersion loads a version for editing: its current fields, the unique
// variable names its prompts reference, and the task's current values.
func (h *Handler) GetVersion(c echo.Context) error {
	found, v, err := h.loadVersion(c)
	if err != nil {
		return versionError(c, err)
	}

	names := render.ExtractVariables(v.SystemPrompt + " " + v.UserPrompt)
	return c.JSON(http.StatusOK, VersionResponse{
		Version:   *v,
		Variables: names,
		Values:    found.Variables,
	})
}

// Draft stages edited fields for the version; the edit session debounces the
// actual persist.
func (h *Handler) Draft(c echo.Context) error {
	var req DraftRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}

	if _, _, err := h.loadVersion(c); err != nil {
		return versionError(c, err)
	}

	session := h.sessions.Stage(c.Param("id"), c.Param("vid"), task.VersionFields{
		Description:  req.Description,
		SystemPrompt: req.SystemPrompt,
		UserPrompt:   req.UserPrompt,
	})
	return c.JSON(http.StatusAccepted, map[string]string{"session_id": session.ID})
}

// Save flushes every open edit session and re-persists the collection.
func (h *Handler) Save(c echo.Context) error {
	if err := h.sessions.FlushAll(); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "Failed to save: " + err.Error(),
		})
	}
	if err := h.repo.SaveAll(c.Request().Context()); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "Failed to save: " + err.Error(),
		})
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) SetVariable(c echo.Context) error {
	var req VariableRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	err := h.repo.SetVariable(c.Request().Context(), c.Param("id"), req.Name, req.Value)
	if err != nil {
		if errors.Is(err, task.ErrNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Task not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "Failed to set variable: " + err.Error(),
		})
	}
	return c.NoContent(http.StatusNoContent)
}

// Execute runs the version's prompts against the active endpoint. While one
// execution is outstanding for a version, further requests get a 409.
func (h *Handler) Execute(c echo.Context) error {
	taskID, versionID := c.Param("id"), c.Param("vid")

	key := taskID + "/" + versionID
	if !h.markInflight(key) {
		return c.JSON(http.StatusConflict, map[string]string{
			"error": "An execution is already in progress for this version",
		})
	}
	defer h.clearInflight(key)

	found, v, err := h.loadVersion(c)
	if err != nil {
		return versionError(c, err)
	}

	ctx := c.Request().Context()
	active, err := h.endpoints.FindActive(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "Failed to load endpoints: " + err.Error(),
		})
	}
	if active == nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "No active endpoint configured",
		})
	}

	result, err := h.runner.Execute(ctx, found, v, active)
	if err != nil {
		return executionError(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

func (h *Handler) History(c echo.Context) error {
	results, err := h.repo.ResultsByVersion(c.Request().Context(), c.Param("id"), c.Param("vid"), historyLimit)
	if err != nil {
		if errors.Is(err, task.ErrNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Task not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "Failed to fetch history: " + err.Error(),
		})
	}

	entries := make([]HistoryEntry, 0, len(results))
	for _, r := range results {
		entries = append(entries, HistoryEntry{Result: r, Preview: preview(r.Response)})
	}
	return c.JSON(http.StatusOK, entries)
}

func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.POST("", h.Create)
	g.GET("", h.Index)
	g.GET("/:id", h.Get)
	g.PUT("/:id", h.Rename)
	g.DELETE("/:id", h.Delete)
	g.POST("/:id/versions", h.CreateVersion)
	g.GET("/:id/versions/:vid", h.GetVersion)
	g.PUT("/:id/versions/:vid/draft", h.Draft)
	g.POST("/:id/versions/:vid/execute", h.Execute)
	g.GET("/:id/versions/:vid/results", h.History)
	g.PUT("/:id/variables", h.SetVariable)
	g.POST("/:id/save", h.Save)
}

func (h *Handler) loadVersion(c echo.Context) (*task.Task, *task.Version, error) {
	found, err := h.repo.FindByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return nil, nil, err
	}
	v := found.Version(c.Param("vid"))
	if v == nil {
		return nil, nil, task.ErrVersionNotFound
	}
	return found, v, nil
}

func versionError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, task.ErrNotFound):
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Task not found"})
	case errors.Is(err, task.ErrVersionNotFound):
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Version not found"})
	default:
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "Failed to fetch task: " + err.Error(),
		})
	}
}

func (h *Handler) markInflight(key string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, running := h.inflight[key]; running {
		return false
	}
	h.inflight[key] = struct{}{}
	return true
}

func (h *Handler) clearInflight(key string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.inflight, key)
}

func executionError(c echo.Context, err error) error {
	var remoteErr *executor.RemoteError
	var netErr *executor.NetworkError
	var shapeErr *executor.ResponseShapeError
	switch {
	case errors.As(err, &remoteErr), errors.As(err, &netErr), errors.As(err, &shapeErr):
		return c.JSON(http.StatusBadGateway, map[string]string{"error": err.Error()})
	default:
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
}

func preview(response string) string {
	flat := strings.ReplaceAll(response, "\n", " ")
	if len(flat) > previewLength {
		return flat[:previewLength]
	}
	return flat
}
