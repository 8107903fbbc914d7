package loggingmw

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/noteet/pkg/logging"
)

func TestRequestLogger(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		handler   echo.HandlerFunc
		wantLevel string
		wantCode  int
	}{
		{
			name:      "ok",
			handler:   func(c echo.Context) error { return c.NoContent(http.StatusOK) },
			wantLevel: "INFO",
			wantCode:  http.StatusOK,
		},
		{
			name:      "client error",
			handler:   func(c echo.Context) error { return echo.NewHTTPError(http.StatusBadRequest, "bad") },
			wantLevel: "WARN",
			wantCode:  http.StatusBadRequest,
		},
		{
			name:      "written 404",
			handler:   func(c echo.Context) error { return c.NoContent(http.StatusNotFound) },
			wantLevel: "WARN",
			wantCode:  http.StatusNotFound,
		},
		{
			name:      "server error",
			handler:   func(c echo.Context) error { return echo.NewHTTPError(http.StatusInternalServerError) },
			wantLevel: "ERROR",
			wantCode:  http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			base := logging.NewWithWriter(&buf, "debug")

			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/notes", nil)
			req.Header.Set(echo.HeaderXRequestID, "rid-1")
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			var fromCtx bool
			err := RequestLogger(base)(func(c echo.Context) error {
				fromCtx = logging.FromContext(c.Request().Context()) != nil
				return tt.handler(c)
			})(c)
			require.NoError(t, err)
			assert.True(t, fromCtx)
			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, "rid-1", rec.Header().Get(echo.HeaderXRequestID))

			var line map[string]any
			require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line))
			assert.Equal(t, tt.wantLevel, line["level"])
			assert.Equal(t, "request completed", line["msg"])
			assert.Equal(t, "rid-1", line["request_id"])
			assert.EqualValues(t, tt.wantCode, line["status"])
		})
	}
}
