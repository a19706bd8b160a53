package prompts

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"promptdeck/internal/validator"
)

func TestHandler_Render(t *testing.T) {
	t.Run("should substitute known variables and leave the rest", func(t *testing.T) {
		handler := NewHandler()

		e := echo.New()
		e.Validator = validator.New()

		body, _ := json.Marshal(RenderRequest{
			Template:  "Hello {{name}}, welcome to {{place}}",
			Variables: map[string]string{"name": "Bo"},
		})
		req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		err := handler.Render(c)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)

		var response RenderResponse
		json.Unmarshal(rec.Body.Bytes(), &response)
		assert.Equal(t, "Hello Bo, welcome to {{place}}", response.Rendered)
		assert.Equal(t, []string{"name", "place"}, response.Variables)
	})

	t.Run("should return 400 when template is missing", func(t *testing.T) {
		handler := NewHandler()

		e := echo.New()
		e.Validator = validator.New()

		body, _ := json.Marshal(RenderRequest{Variables: map[string]string{"a": "b"}})
		req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		err := handler.Render(c)
		require.Error(t, err)

		he, ok := err.(*echo.HTTPError)
		require.True(t, ok)
		assert.Equal(t, http.StatusBadRequest, he.Code)
	})
}
