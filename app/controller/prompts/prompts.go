// Package prompts offers stateless template operations: substitute variables
// into a template and report which placeholders it references.
package prompts

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"promptdeck/internal/render"
)

type (
	Handler struct{}
	RenderRequest struct {
		Template  string            `json:"template" validate:"required"`
		Variables map[string]string `json:"variables"`
	}
	RenderResponse struct {
		Rendered  string   `json:"rendered"`
		Variables []string `json:"variables"`
	}
)

func NewHandler() *Handler {
	return &Handler{}
}

func (h *Handler) Render(c echo.Context) error {
	var req RenderRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, RenderResponse{
		Rendered:  render.Render(req.Template, req.Variables),
		Variables: render.ExtractVariables(req.Template),
	})
}

func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.POST("/render", h.Render)
}
