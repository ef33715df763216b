package echoapi

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/volatiletech/null/v8"
)

// contextScope reads the class scope off the `class_id` query param. Absence
// means the owner's global view.
func contextScope(ctx echo.Context) (null.Int, error) {
	raw := ctx.QueryParam("class_id")
	if raw == "" {
		return null.Int{}, nil
	}
	id, err := strconv.Atoi(raw)
	if err != nil {
		return null.Int{}, echo.NewHTTPError(http.StatusBadRequest, "class_id must be an integer")
	}
	return null.IntFrom(id), nil
}
