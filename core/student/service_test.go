package student_test

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/duka/core"
	"github.com/trezcool/duka/core/shop"
	"github.com/trezcool/duka/core/student"
	"github.com/trezcool/duka/storage/database/dummy"
)

type studentFixture struct {
	svc          *student.Service
	purchaseRepo shop.PurchaseRepository
}

func setup(t *testing.T) studentFixture {
	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("setup() failed: %v", err)
	}
	purchaseRepo := dummydb.NewPurchaseRepository(db)
	return studentFixture{
		svc:          student.NewService(dummydb.NewStudentRepository(db), purchaseRepo),
		purchaseRepo: purchaseRepo,
	}
}

func Test_Service_CheckCodeUniqueness(t *testing.T) {
	ctx := context.Background()
	fix := setup(t)

	_, err := fix.svc.Create(ctx, student.NewStudent{Code: "kim", Name: "Kim", ClassID: null.IntFrom(1)})
	require.NoError(t, err)

	// same code in another class is fine; the code is only unique per class
	assert.NoError(t, fix.svc.CheckCodeUniqueness(ctx, "kim", null.IntFrom(2)))
	assert.NoError(t, fix.svc.CheckCodeUniqueness(ctx, "kim", null.Int{}))

	err = fix.svc.CheckCodeUniqueness(ctx, "kim", null.IntFrom(1))
	var vErr *core.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, student.ErrCodeExists, errors.Cause(vErr.Err))
}

func Test_Service_Adjust(t *testing.T) {
	ctx := context.Background()
	fix := setup(t)

	stu, err := fix.svc.Create(ctx, student.NewStudent{Code: "kim", Name: "Kim", Balance: 5})
	require.NoError(t, err)

	got, err := fix.svc.Adjust(ctx, stu.Code, 3, null.Int{})
	require.NoError(t, err)
	assert.Equal(t, 8, got.Balance)

	// penalties may push the balance below zero; no floor is enforced
	got, err = fix.svc.Adjust(ctx, stu.Code, -10, null.Int{})
	require.NoError(t, err)
	assert.Equal(t, -2, got.Balance)

	_, err = fix.svc.Adjust(ctx, "nope", 3, null.Int{})
	assert.Equal(t, student.ErrNotFound, errors.Cause(err))
}

func Test_Service_SetBalance(t *testing.T) {
	ctx := context.Background()
	fix := setup(t)

	stu, err := fix.svc.Create(ctx, student.NewStudent{Code: "kim", Name: "Kim", Balance: 5})
	require.NoError(t, err)

	got, err := fix.svc.SetBalance(ctx, stu.Code, 42, null.Int{})
	require.NoError(t, err)
	assert.Equal(t, 42, got.Balance)

	got, err = fix.svc.SetBalance(ctx, stu.Code, -1, null.Int{})
	require.NoError(t, err)
	assert.Equal(t, -1, got.Balance)
}

func Test_Service_Delete(t *testing.T) {
	ctx := context.Background()
	fix := setup(t)

	stu, err := fix.svc.Create(ctx, student.NewStudent{Code: "kim", Name: "Kim", Balance: 5})
	require.NoError(t, err)

	// seed some history for the student
	for i := 0; i < 2; i++ {
		_, err = fix.purchaseRepo.CreatePurchase(ctx, shop.Purchase{
			ID:          string(rune('a' + i)),
			StudentCode: stu.Code,
			StudentName: stu.Name,
			ProductID:   "p1",
			ProductName: "Pencil",
			Price:       1,
			Status:      shop.StatusPending,
			CreatedAt:   time.Now().UTC(),
		})
		require.NoError(t, err)
	}

	deleted, err := fix.svc.Delete(ctx, stu.Code, null.Int{})
	require.NoError(t, err)
	assert.Equal(t, stu.Code, deleted.Code)

	_, err = fix.svc.GetByCode(ctx, stu.Code, null.Int{})
	assert.Equal(t, student.ErrNotFound, errors.Cause(err))

	// the purchase history went with them
	history, err := fix.purchaseRepo.QueryPurchasesByStudent(ctx, stu.Code, null.Int{})
	require.NoError(t, err)
	assert.Empty(t, history)

	_, err = fix.svc.Delete(ctx, stu.Code, null.Int{})
	assert.Equal(t, student.ErrNotFound, errors.Cause(err))
}

func Test_Service_QueryAll_scope(t *testing.T) {
	ctx := context.Background()
	fix := setup(t)

	_, err := fix.svc.Create(ctx, student.NewStudent{Code: "kim", Name: "Kim", ClassID: null.IntFrom(1)})
	require.NoError(t, err)
	_, err = fix.svc.Create(ctx, student.NewStudent{Code: "ben", Name: "Ben", ClassID: null.IntFrom(2)})
	require.NoError(t, err)
	_, err = fix.svc.Create(ctx, student.NewStudent{Code: "zoe", Name: "Zoe"})
	require.NoError(t, err)

	// the global view sees everyone
	all, err := fix.svc.QueryAll(ctx, null.Int{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	// a class scope only sees its own
	scoped, err := fix.svc.QueryAll(ctx, null.IntFrom(1))
	require.NoError(t, err)
	require.Len(t, scoped, 1)
	assert.Equal(t, "kim", scoped[0].Code)
}
