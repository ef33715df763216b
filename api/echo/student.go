package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/duka/core/student"
)

type studentApi struct {
	svc      student.ServiceInterface
	validate *validator.Validate
}

func registerStudentAPI(g *echo.Group, svc student.ServiceInterface, validate *validator.Validate) {
	api := studentApi{svc: svc, validate: validate}

	sg := g.Group("/students")
	sg.GET("", api.query)
	sg.POST("", api.create)

	dg := sg.Group("/:code")
	dg.GET("", api.retrieve)
	dg.DELETE("", api.destroy)
	dg.POST("/adjust", api.adjustBalance)
	dg.POST("/balance", api.setBalance)
}

func (api *studentApi) create(ctx echo.Context) error {
	var data student.NewStudent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewStudent")
	}
	if err := data.Validate(ctx.Request().Context(), api.validate, api.svc); err != nil {
		return err
	}

	stu, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating student")
	}
	return ctx.JSON(http.StatusCreated, stu)
}

func (api *studentApi) query(ctx echo.Context) error {
	scope, err := contextScope(ctx)
	if err != nil {
		return err
	}

	students, err := api.svc.QueryAll(ctx.Request().Context(), scope)
	if err != nil {
		return errors.Wrap(err, "querying students")
	}
	if students == nil {
		students = []student.Student{}
	}
	return ctx.JSON(http.StatusOK, students)
}

func (api *studentApi) retrieve(ctx echo.Context) error {
	scope, err := contextScope(ctx)
	if err != nil {
		return err
	}

	stu, err := api.svc.GetByCode(ctx.Request().Context(), ctx.Param("code"), scope)
	if err != nil {
		return errors.Wrap(err, "finding student by code")
	}
	return ctx.JSON(http.StatusOK, stu)
}

func (api *studentApi) adjustBalance(ctx echo.Context) error {
	var data student.BalanceAdjustment
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to BalanceAdjustment")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	stu, err := api.svc.Adjust(ctx.Request().Context(), ctx.Param("code"), *data.Delta, data.ClassID)
	if err != nil {
		return errors.Wrap(err, "adjusting balance")
	}
	return ctx.JSON(http.StatusOK, stu)
}

func (api *studentApi) setBalance(ctx echo.Context) error {
	var data student.BalanceOverride
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to BalanceOverride")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	stu, err := api.svc.SetBalance(ctx.Request().Context(), ctx.Param("code"), *data.Balance, data.ClassID)
	if err != nil {
		return errors.Wrap(err, "setting balance")
	}
	return ctx.JSON(http.StatusOK, stu)
}

func (api *studentApi) destroy(ctx echo.Context) error {
	scope, err := contextScope(ctx)
	if err != nil {
		return err
	}

	if _, err = api.svc.Delete(ctx.Request().Context(), ctx.Param("code"), scope); err != nil {
		return errors.Wrap(err, "deleting student")
	}
	return ctx.NoContent(http.StatusNoContent)
}
