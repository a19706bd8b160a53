// Package endpoints manages the completion-service configuration over HTTP.
package endpoints

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"promptdeck/domain/endpoint"
)

type (
	Handler struct {
		repo endpoint.Repository
	}
	AddEndpointRequest struct {
		Name    string `json:"name" validate:"required"`
		BaseURL string `json:"base_url" validate:"required,url"`
		APIKey  string `json:"api_key"`
		Model   string `json:"model" validate:"required"`
		Active  bool   `json:"active"`
	}
	// EndpointResponse never echoes the stored key back out.
	EndpointResponse struct {
		Name    string `json:"name"`
		BaseURL string `json:"base_url"`
		Model   string `json:"model"`
		Active  bool   `json:"active"`
	}
)

func NewHandler(repo endpoint.Repository) *Handler {
	return &Handler{repo: repo}
}

func (h *Handler) Add(c echo.Context) error {
	var req AddEndpointRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	added := &endpoint.Endpoint{
		Name:    req.Name,
		BaseURL: req.BaseURL,
		APIKey:  req.APIKey,
		Model:   req.Model,
		Active:  req.Active,
	}
	if err := h.repo.Add(c.Request().Context(), added); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "Failed to save endpoint: " + err.Error(),
		})
	}
	return c.JSON(http.StatusCreated, toResponse(added))
}

func (h *Handler) Index(c echo.Context) error {
	all, err := h.repo.FindAll(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "Failed to fetch endpoints: " + err.Error(),
		})
	}

	responses := make([]EndpointResponse, 0, len(all))
	for i := range all {
		responses = append(responses, *toResponse(&all[i]))
	}
	return c.JSON(http.StatusOK, responses)
}

func (h *Handler) Active(c echo.Context) error {
	active, err := h.repo.FindActive(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "Failed to fetch endpoints: " + err.Error(),
		})
	}
	if active == nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "No active endpoint configured"})
	}
	return c.JSON(http.StatusOK, toResponse(active))
}

func (h *Handler) Activate(c echo.Context) error {
	activated, err := h.repo.Activate(c.Request().Context(), c.Param("name"))
	if err != nil {
		if errors.Is(err, endpoint.ErrNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Endpoint not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "Failed to activate endpoint: " + err.Error(),
		})
	}
	return c.JSON(http.StatusOK, toResponse(activated))
}

func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.POST("", h.Add)
	g.GET("", h.Index)
	g.GET("/active", h.Active)
	g.PUT("/:name/activate", h.Activate)
}

func toResponse(e *endpoint.Endpoint) *EndpointResponse {
	return &EndpointResponse{
		Name:    e.Name,
		BaseURL: e.BaseURL,
		Model:   e.Model,
		Active:  e.Active,
	}
}
