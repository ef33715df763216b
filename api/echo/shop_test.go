package echoapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/duka/core/shop"
	"github.com/trezcool/duka/core/student"
)

func Test_shopApi_products(t *testing.T) {
	env := setup(t)

	rec := env.request(http.MethodPost, "/v1/products", marchallObj(t, shop.NewProduct{
		Name: "Pencil", Description: "HB", Price: 4, Stock: 2, ClassID: null.IntFrom(1),
	}))
	require.Equal(t, http.StatusCreated, rec.Code)

	var prod shop.Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &prod))
	assert.NotEmpty(t, prod.ID)
	assert.Equal(t, "Pencil", prod.Name)
	assert.Equal(t, 4, prod.Price)

	t.Run("validation", func(t *testing.T) {
		tests := []httpTest{
			{
				name: "Name is required", method: http.MethodPost, path: "/v1/products",
				body: []byte("{}"), wantCode: http.StatusBadRequest,
				wantData: marchallObj(t, map[string]string{"name": "this field is required"}),
			},
			{
				name: "Price may not be negative", method: http.MethodPost, path: "/v1/products",
				body: []byte(`{"name": "Pencil", "price": -1}`), wantCode: http.StatusBadRequest,
			},
			{
				name: "Stock may not be negative", method: http.MethodPost, path: "/v1/products",
				body: []byte(`{"name": "Pencil", "stock": -1}`), wantCode: http.StatusBadRequest,
			},
		}
		runTable(t, env, tests)
	})

	t.Run("query", func(t *testing.T) {
		tests := []httpTest{
			{name: "Global view", path: "/v1/products", wantCode: http.StatusOK, wantData: marchallList(t, prod)},
			{name: "In scope", path: "/v1/products?class_id=1", wantCode: http.StatusOK, wantData: marchallList(t, prod)},
			{name: "Out of scope", path: "/v1/products?class_id=2", wantCode: http.StatusOK, wantData: []byte("[]")},
		}
		runTable(t, env, tests)
	})

	t.Run("set stock", func(t *testing.T) {
		rec := env.request(http.MethodPost, "/v1/products/"+prod.ID+"/stock", marchallObj(t, map[string]int{"stock": 9}))
		require.Equal(t, http.StatusOK, rec.Code)
		var got shop.Product
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, 9, got.Stock)

		rec = env.request(http.MethodPost, "/v1/products/"+prod.ID+"/stock", []byte("{}"))
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"stock": "this field is required"}),
		}, rec)
	})

	t.Run("delete", func(t *testing.T) {
		rec := env.request(http.MethodDelete, "/v1/products/"+prod.ID)
		require.Equal(t, http.StatusNoContent, rec.Code)

		rec = env.request(http.MethodDelete, "/v1/products/"+prod.ID)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusNotFound,
			wantData: marchallObj(t, httpErr{Error: "product not found"}),
		}, rec)
	})
}

func Test_shopApi_purchases(t *testing.T) {
	ctx := context.Background()
	env := setup(t)

	_, err := env.studentSvc.Create(ctx, student.NewStudent{Code: "kim", Name: "Kim", Balance: 10})
	require.NoError(t, err)
	prod, err := env.shopSvc.CreateProduct(ctx, shop.NewProduct{Name: "Pencil", Price: 4, Stock: 1})
	require.NoError(t, err)
	pricey, err := env.shopSvc.CreateProduct(ctx, shop.NewProduct{Name: "Globe", Price: 50, Stock: 1})
	require.NoError(t, err)

	request := func(t *testing.T, productID string) shop.Purchase {
		rec := env.request(http.MethodPost, "/v1/purchases", marchallObj(t, shop.NewPurchase{
			StudentCode: "kim", ProductID: productID,
		}))
		require.Equal(t, http.StatusCreated, rec.Code)
		var p shop.Purchase
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))
		return p
	}

	p := request(t, prod.ID)
	assert.Equal(t, shop.StatusPending, p.Status)
	assert.Equal(t, 4, p.Price)

	t.Run("preconditions", func(t *testing.T) {
		tests := []httpTest{
			{
				name: "Unknown product", method: http.MethodPost, path: "/v1/purchases",
				body: marchallObj(t, shop.NewPurchase{StudentCode: "kim", ProductID: "nope"}),
				wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "product not found"}),
			},
			{
				name: "Unknown student", method: http.MethodPost, path: "/v1/purchases",
				body: marchallObj(t, shop.NewPurchase{StudentCode: "nope", ProductID: prod.ID}),
				wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "student not found"}),
			},
			{
				name: "Too expensive", method: http.MethodPost, path: "/v1/purchases",
				body: marchallObj(t, shop.NewPurchase{StudentCode: "kim", ProductID: pricey.ID}),
				wantCode: http.StatusConflict, wantData: marchallObj(t, httpErr{Error: "not enough points for this purchase"}),
			},
		}
		runTable(t, env, tests)
	})

	t.Run("query", func(t *testing.T) {
		rec := env.request(http.MethodGet, "/v1/purchases")
		require.Equal(t, http.StatusOK, rec.Code)
		var got []shop.Purchase
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Len(t, got, 1)

		rec = env.request(http.MethodGet, "/v1/purchases/student/kim")
		require.Equal(t, http.StatusOK, rec.Code)
		got = nil
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Len(t, got, 1)

		rec = env.request(http.MethodGet, "/v1/purchases/student/nope")
		checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: []byte("[]")}, rec)
	})

	t.Run("approve", func(t *testing.T) {
		rec := env.request(http.MethodPost, "/v1/purchases/"+p.ID+"/review", marchallObj(t, map[string]bool{"approve": true}))
		require.Equal(t, http.StatusOK, rec.Code)
		var got shop.Purchase
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, shop.StatusApproved, got.Status)
		assert.True(t, got.ApprovedAt.Valid)

		stu, err := env.studentSvc.GetByCode(ctx, "kim", null.Int{})
		require.NoError(t, err)
		assert.Equal(t, 6, stu.Balance)

		// settled purchases cannot be reviewed again
		rec = env.request(http.MethodPost, "/v1/purchases/"+p.ID+"/review", marchallObj(t, map[string]bool{"approve": false}))
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusConflict,
			wantData: marchallObj(t, httpErr{Error: "purchase has already been processed"}),
		}, rec)
	})

	t.Run("approve out of stock", func(t *testing.T) {
		// the only unit was sold above; a fresh request cannot even be made
		rec := env.request(http.MethodPost, "/v1/purchases", marchallObj(t, shop.NewPurchase{
			StudentCode: "kim", ProductID: prod.ID,
		}))
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusConflict,
			wantData: marchallObj(t, httpErr{Error: "product is out of stock"}),
		}, rec)
	})

	t.Run("reject", func(t *testing.T) {
		_, err := env.shopSvc.SetStock(ctx, prod.ID, 5, null.Int{})
		require.NoError(t, err)
		p := request(t, prod.ID)

		rec := env.request(http.MethodPost, "/v1/purchases/"+p.ID+"/review", marchallObj(t, map[string]bool{"approve": false}))
		require.Equal(t, http.StatusOK, rec.Code)
		var got shop.Purchase
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, shop.StatusRejected, got.Status)

		// no debit happened
		stu, err := env.studentSvc.GetByCode(ctx, "kim", null.Int{})
		require.NoError(t, err)
		assert.Equal(t, 6, stu.Balance)
	})

	t.Run("approve is required", func(t *testing.T) {
		rec := env.request(http.MethodPost, "/v1/purchases/"+p.ID+"/review", []byte("{}"))
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"approve": "this field is required"}),
		}, rec)
	})

	t.Run("unknown purchase", func(t *testing.T) {
		rec := env.request(http.MethodPost, "/v1/purchases/nope/review", marchallObj(t, map[string]bool{"approve": true}))
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusNotFound,
			wantData: marchallObj(t, httpErr{Error: "purchase not found"}),
		}, rec)
	})

	t.Run("purge history", func(t *testing.T) {
		rec := env.request(http.MethodDelete, "/v1/purchases")
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusOK,
			wantData: marchallObj(t, DetailResponse{Detail: fmt.Sprintf("%d purchase records deleted", 2)}),
		}, rec)

		rec = env.request(http.MethodGet, "/v1/purchases")
		checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: []byte("[]")}, rec)
	})
}
