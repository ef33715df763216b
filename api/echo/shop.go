package echoapi

import (
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/duka/core/shop"
)

type shopApi struct {
	svc      shop.ServiceInterface
	validate *validator.Validate
}

func registerShopAPI(g *echo.Group, svc shop.ServiceInterface, validate *validator.Validate) {
	api := shopApi{svc: svc, validate: validate}

	pg := g.Group("/products")
	pg.GET("", api.queryProducts)
	pg.POST("", api.createProduct)
	pg.DELETE("/:id", api.destroyProduct)
	pg.POST("/:id/stock", api.setStock)

	bg := g.Group("/purchases")
	bg.GET("", api.queryPurchases)
	bg.POST("", api.requestPurchase)
	bg.DELETE("", api.purgeHistory)
	bg.GET("/student/:code", api.queryStudentPurchases)
	bg.POST("/:id/review", api.review)
}

// Products

func (api *shopApi) createProduct(ctx echo.Context) error {
	var data shop.NewProduct
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewProduct")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	prod, err := api.svc.CreateProduct(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating product")
	}
	return ctx.JSON(http.StatusCreated, prod)
}

func (api *shopApi) queryProducts(ctx echo.Context) error {
	scope, err := contextScope(ctx)
	if err != nil {
		return err
	}

	products, err := api.svc.QueryAllProducts(ctx.Request().Context(), scope)
	if err != nil {
		return errors.Wrap(err, "querying products")
	}
	if products == nil {
		products = []shop.Product{}
	}
	return ctx.JSON(http.StatusOK, products)
}

func (api *shopApi) setStock(ctx echo.Context) error {
	var data shop.StockOverride
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to StockOverride")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	prod, err := api.svc.SetStock(ctx.Request().Context(), ctx.Param("id"), *data.Stock, data.ClassID)
	if err != nil {
		return errors.Wrap(err, "setting stock")
	}
	return ctx.JSON(http.StatusOK, prod)
}

func (api *shopApi) destroyProduct(ctx echo.Context) error {
	scope, err := contextScope(ctx)
	if err != nil {
		return err
	}

	if err = api.svc.DeleteProduct(ctx.Request().Context(), ctx.Param("id"), scope); err != nil {
		return errors.Wrap(err, "deleting product")
	}
	return ctx.NoContent(http.StatusNoContent)
}

// Purchases

func (api *shopApi) requestPurchase(ctx echo.Context) error {
	var data shop.NewPurchase
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewPurchase")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	p, err := api.svc.RequestPurchase(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "requesting purchase")
	}
	return ctx.JSON(http.StatusCreated, p)
}

func (api *shopApi) queryPurchases(ctx echo.Context) error {
	scope, err := contextScope(ctx)
	if err != nil {
		return err
	}

	purchases, err := api.svc.QueryAllPurchases(ctx.Request().Context(), scope)
	if err != nil {
		return errors.Wrap(err, "querying purchases")
	}
	if purchases == nil {
		purchases = []shop.Purchase{}
	}
	return ctx.JSON(http.StatusOK, purchases)
}

func (api *shopApi) queryStudentPurchases(ctx echo.Context) error {
	scope, err := contextScope(ctx)
	if err != nil {
		return err
	}

	purchases, err := api.svc.QueryPurchasesByStudent(ctx.Request().Context(), ctx.Param("code"), scope)
	if err != nil {
		return errors.Wrap(err, "querying student purchases")
	}
	if purchases == nil {
		purchases = []shop.Purchase{}
	}
	return ctx.JSON(http.StatusOK, purchases)
}

func (api *shopApi) review(ctx echo.Context) error {
	var data shop.PurchaseReview
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to PurchaseReview")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	p, err := api.svc.Review(ctx.Request().Context(), ctx.Param("id"), *data.Approve, data.ClassID)
	if err != nil {
		return errors.Wrap(err, "reviewing purchase")
	}
	return ctx.JSON(http.StatusOK, p)
}

func (api *shopApi) purgeHistory(ctx echo.Context) error {
	scope, err := contextScope(ctx)
	if err != nil {
		return err
	}

	n, err := api.svc.PurgeHistory(ctx.Request().Context(), scope)
	if err != nil {
		return errors.Wrap(err, "purging purchase history")
	}
	return ctx.JSON(http.StatusOK, DetailResponse{Detail: fmt.Sprintf("%d purchase records deleted", n)})
}
