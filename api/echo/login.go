package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/duka/core"
	"github.com/trezcool/duka/core/directory"
)

type loginApi struct {
	dir      *directory.Directory
	validate *validator.Validate
}

func registerLoginAPI(g *echo.Group, dir *directory.Directory, validate *validator.Validate) {
	api := loginApi{dir: dir, validate: validate}
	g.POST("/login", api.login)
}

func (api *loginApi) login(ctx echo.Context) error {
	var data LoginRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to LoginRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	prof, err := api.dir.Resolve(ctx.Request().Context(), data.Code, data.Kind, data.ClassID)
	if err != nil {
		return errors.Wrap(err, "resolving login")
	}
	return ctx.JSON(http.StatusOK, prof)
}

type LoginRequest struct {
	Code    string   `json:"code" validate:"required"`
	Kind    string   `json:"kind" validate:"required,oneof=admin student"`
	ClassID null.Int `json:"class_id"`
}

func (lr *LoginRequest) Validate(validate *validator.Validate) error {
	lr.Code = core.CleanString(lr.Code)
	lr.Kind = core.CleanString(lr.Kind, true /* lower */)
	return validate.Struct(lr)
}
