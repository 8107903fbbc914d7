package httpserver

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
)

const msgEmptyRequest = "Empty request!"

// bindBody rejects a missing or {} body with "Empty request!", then binds
// and validates dst.
func bindBody(c echo.Context, dst any) error {
	req := c.Request()
	raw, err := io.ReadAll(io.LimitReader(req.Body, 1<<20))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body").SetInternal(err)
	}

	var fields map[string]json.RawMessage
	if len(bytes.TrimSpace(raw)) == 0 || (json.Unmarshal(raw, &fields) == nil && len(fields) == 0) {
		return echo.NewHTTPError(http.StatusBadRequest, msgEmptyRequest)
	}

	req.Body = io.NopCloser(bytes.NewReader(raw))
	req.ContentLength = int64(len(raw))
	if err := (&echo.DefaultBinder{}).BindBody(c, dst); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body").SetInternal(err)
	}
	return c.Validate(dst)
}
