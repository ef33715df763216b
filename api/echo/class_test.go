package echoapi

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/duka/core/class"
	"github.com/trezcool/duka/core/student"
)

func Test_classApi_classCreate(t *testing.T) {
	env := setup(t)

	rec := env.request(http.MethodPost, "/v1/classes", marchallObj(t, class.NewClass{Name: "5B"}))
	require.Equal(t, http.StatusCreated, rec.Code)

	var cls class.Class
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cls))
	assert.Equal(t, "5B", cls.Name)
	assert.NotZero(t, cls.ID)

	tests := []httpTest{
		{
			name: "Name is required", method: http.MethodPost, path: "/v1/classes",
			body: []byte("{}"), wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"name": "this field is required"}),
		},
		{
			name: "Name must be unique", method: http.MethodPost, path: "/v1/classes",
			body: marchallObj(t, class.NewClass{Name: "5B"}), wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"name": "a class with this name already exists"}),
		},
	}
	runTable(t, env, tests)
}

func Test_classApi_classQuery(t *testing.T) {
	ctx := context.Background()
	env := setup(t)

	empty := env.request(http.MethodGet, "/v1/classes")
	checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: []byte("[]")}, empty)

	cls1, err := env.classSvc.Create(ctx, class.NewClass{Name: "5B"})
	require.NoError(t, err)
	cls2, err := env.classSvc.Create(ctx, class.NewClass{Name: "6A"})
	require.NoError(t, err)

	rec := env.request(http.MethodGet, "/v1/classes")
	checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: marchallList(t, cls1, cls2)}, rec)
}

func Test_classApi_classDelete(t *testing.T) {
	ctx := context.Background()
	env := setup(t)

	cls, err := env.classSvc.Create(ctx, class.NewClass{Name: "5B"})
	require.NoError(t, err)
	_, err = env.studentSvc.Create(ctx, student.NewStudent{Code: "kim", Name: "Kim", ClassID: null.IntFrom(cls.ID)})
	require.NoError(t, err)

	rec := env.request(http.MethodDelete, "/v1/classes/1")
	require.Equal(t, http.StatusNoContent, rec.Code)

	// the class roster went with it
	_, err = env.studentSvc.GetByCode(ctx, "kim", null.Int{})
	assert.Equal(t, student.ErrNotFound, err)

	tests := []httpTest{
		{
			name: "Deleting again reports not found", method: http.MethodDelete, path: "/v1/classes/1",
			wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "class not found"}),
		},
		{
			name: "Garbage id reports not found", method: http.MethodDelete, path: "/v1/classes/lol",
			wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "not found"}),
		},
	}
	runTable(t, env, tests)
}
