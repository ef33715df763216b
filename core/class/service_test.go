package class_test

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/duka/core"
	"github.com/trezcool/duka/core/class"
	"github.com/trezcool/duka/core/shop"
	"github.com/trezcool/duka/core/student"
	"github.com/trezcool/duka/core/teacher"
	"github.com/trezcool/duka/storage/database/dummy"
)

type classFixture struct {
	svc          *class.Service
	studentRepo  student.Repository
	teacherRepo  teacher.Repository
	productRepo  shop.ProductRepository
	purchaseRepo shop.PurchaseRepository
}

func setup(t *testing.T) classFixture {
	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("setup() failed: %v", err)
	}
	studentRepo := dummydb.NewStudentRepository(db)
	teacherRepo := dummydb.NewTeacherRepository(db)
	productRepo := dummydb.NewProductRepository(db)
	purchaseRepo := dummydb.NewPurchaseRepository(db)
	return classFixture{
		svc:          class.NewService(dummydb.NewClassRepository(db), studentRepo, teacherRepo, productRepo, purchaseRepo),
		studentRepo:  studentRepo,
		teacherRepo:  teacherRepo,
		productRepo:  productRepo,
		purchaseRepo: purchaseRepo,
	}
}

func Test_Service_CheckNameUniqueness(t *testing.T) {
	ctx := context.Background()
	fix := setup(t)

	_, err := fix.svc.Create(ctx, class.NewClass{Name: "5B"})
	require.NoError(t, err)

	assert.NoError(t, fix.svc.CheckNameUniqueness(ctx, "6A"))

	err = fix.svc.CheckNameUniqueness(ctx, "5B")
	var vErr *core.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, class.ErrNameExists, errors.Cause(vErr.Err))
}

func Test_Service_Delete(t *testing.T) {
	ctx := context.Background()
	fix := setup(t)

	cls, err := fix.svc.Create(ctx, class.NewClass{Name: "5B"})
	require.NoError(t, err)
	keep, err := fix.svc.Create(ctx, class.NewClass{Name: "6A"})
	require.NoError(t, err)

	now := time.Now().UTC()
	scope := null.IntFrom(cls.ID)
	keepScope := null.IntFrom(keep.ID)

	_, err = fix.studentRepo.CreateStudent(ctx, student.Student{Code: "kim", Name: "Kim", ClassID: scope, CreatedAt: now, UpdatedAt: now})
	require.NoError(t, err)
	_, err = fix.studentRepo.CreateStudent(ctx, student.Student{Code: "ben", Name: "Ben", ClassID: keepScope, CreatedAt: now, UpdatedAt: now})
	require.NoError(t, err)
	_, err = fix.teacherRepo.CreateTeacher(ctx, teacher.Teacher{Name: "Ms Jo", Code: "jo", ClassID: scope, CreatedAt: now})
	require.NoError(t, err)
	_, err = fix.productRepo.CreateProduct(ctx, shop.Product{ID: "p1", Name: "Pencil", Price: 1, Stock: 1, ClassID: scope, CreatedAt: now})
	require.NoError(t, err)
	_, err = fix.purchaseRepo.CreatePurchase(ctx, shop.Purchase{ID: "b1", StudentCode: "kim", ProductID: "p1", Price: 1, Status: shop.StatusPending, ClassID: scope, CreatedAt: now})
	require.NoError(t, err)

	require.NoError(t, fix.svc.Delete(ctx, cls.ID))

	// the class and everything scoped to it is gone
	_, err = fix.svc.GetByID(ctx, cls.ID)
	assert.Equal(t, class.ErrNotFound, errors.Cause(err))
	_, err = fix.studentRepo.GetStudentByCode(ctx, "kim", null.Int{})
	assert.Equal(t, student.ErrNotFound, errors.Cause(err))
	_, err = fix.teacherRepo.GetTeacherByCode(ctx, "jo")
	assert.Equal(t, teacher.ErrNotFound, errors.Cause(err))
	products, err := fix.productRepo.QueryAllProducts(ctx, null.Int{})
	require.NoError(t, err)
	assert.Empty(t, products)
	purchases, err := fix.purchaseRepo.QueryAllPurchases(ctx, null.Int{})
	require.NoError(t, err)
	assert.Empty(t, purchases)

	// other classes are untouched
	_, err = fix.studentRepo.GetStudentByCode(ctx, "ben", keepScope)
	assert.NoError(t, err)

	// deleting again reports not found
	err = fix.svc.Delete(ctx, cls.ID)
	assert.Equal(t, class.ErrNotFound, errors.Cause(err))
}
