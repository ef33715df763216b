package shop

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/duka/core/student"
)

var (
	// errors
	ErrProductNotFound     = errors.New("product not found")
	ErrPurchaseNotFound    = errors.New("purchase not found")
	ErrOutOfStock          = errors.New("product is out of stock")
	ErrInsufficientBalance = errors.New("not enough points for this purchase")
	ErrAlreadyProcessed    = errors.New("purchase has already been processed")
)

type (
	ProductRepository interface {
		CreateProduct(ctx context.Context, prod Product) (Product, error)
		// QueryAllProducts returns products in scope, newest first.
		QueryAllProducts(ctx context.Context, classID null.Int) ([]Product, error)
		GetProductByID(ctx context.Context, id string, classID null.Int) (Product, error)
		SetProductStock(ctx context.Context, id string, stock int, classID null.Int) (Product, error)
		DeleteProductByID(ctx context.Context, id string, classID null.Int) error
		PurgeClass(ctx context.Context, classID int) error
	}

	PurchaseRepository interface {
		CreatePurchase(ctx context.Context, p Purchase) (Purchase, error)
		// QueryAllPurchases returns purchases in scope, newest first.
		QueryAllPurchases(ctx context.Context, classID null.Int) ([]Purchase, error)
		QueryPurchasesByStudent(ctx context.Context, code string, classID null.Int) ([]Purchase, error)
		GetPurchaseByID(ctx context.Context, id string, classID null.Int) (Purchase, error)
		// MarkPurchaseRejected transitions pending -> rejected; it fails with
		// ErrAlreadyProcessed when the purchase is not pending anymore.
		MarkPurchaseRejected(ctx context.Context, id string) (Purchase, error)
		// ApprovePurchase atomically debits the student by the snapshotted price,
		// decrements the product stock by one and transitions the purchase to
		// approved. Each mutation is conditional: it fails with
		// ErrInsufficientBalance, ErrOutOfStock or ErrAlreadyProcessed when the
		// respective condition no longer holds, leaving no partial effect behind.
		ApprovePurchase(ctx context.Context, p Purchase, approvedAt time.Time) (Purchase, error)
		// PurgeAllPurchases deletes the purchase history in scope and reports how
		// many records were removed.
		PurgeAllPurchases(ctx context.Context, classID null.Int) (int, error)
		PurgeStudentHistory(ctx context.Context, code string, classID null.Int) error
		PurgeClass(ctx context.Context, classID int) error
	}

	ServiceInterface interface {
		CreateProduct(ctx context.Context, np NewProduct) (Product, error)
		QueryAllProducts(ctx context.Context, classID null.Int) ([]Product, error)
		SetStock(ctx context.Context, id string, stock int, classID null.Int) (Product, error)
		DeleteProduct(ctx context.Context, id string, classID null.Int) error
		RequestPurchase(ctx context.Context, np NewPurchase) (Purchase, error)
		QueryAllPurchases(ctx context.Context, classID null.Int) ([]Purchase, error)
		QueryPurchasesByStudent(ctx context.Context, code string, classID null.Int) ([]Purchase, error)
		Review(ctx context.Context, id string, approve bool, classID null.Int) (Purchase, error)
		PurgeHistory(ctx context.Context, classID null.Int) (int, error)
	}

	Service struct {
		productRepo  ProductRepository
		purchaseRepo PurchaseRepository
		studentRepo  student.Repository
	}
)

var _ ServiceInterface = (*Service)(nil)

func NewService(productRepo ProductRepository, purchaseRepo PurchaseRepository, studentRepo student.Repository) *Service {
	return &Service{
		productRepo:  productRepo,
		purchaseRepo: purchaseRepo,
		studentRepo:  studentRepo,
	}
}

// Products

func (svc *Service) CreateProduct(ctx context.Context, np NewProduct) (Product, error) {
	prod := Product{
		ID:          uuid.NewString(),
		Name:        np.Name,
		Description: np.Description,
		Price:       np.Price,
		Stock:       np.Stock,
		ClassID:     np.ClassID,
		CreatedAt:   time.Now().UTC(),
	}
	return svc.productRepo.CreateProduct(ctx, prod)
}

func (svc *Service) QueryAllProducts(ctx context.Context, classID null.Int) ([]Product, error) {
	return svc.productRepo.QueryAllProducts(ctx, classID)
}

func (svc *Service) SetStock(ctx context.Context, id string, stock int, classID null.Int) (Product, error) {
	return svc.productRepo.SetProductStock(ctx, id, stock, classID)
}

func (svc *Service) DeleteProduct(ctx context.Context, id string, classID null.Int) error {
	return svc.productRepo.DeleteProductByID(ctx, id, classID)
}

// Purchases

// RequestPurchase creates a pending purchase after a soft validation pass:
// the student and product must exist in scope, the product must have stock and
// the student must afford the current price. Nothing is reserved at this point;
// the authoritative check happens at approval time.
func (svc *Service) RequestPurchase(ctx context.Context, np NewPurchase) (Purchase, error) {
	stu, err := svc.studentRepo.GetStudentByCode(ctx, np.StudentCode, np.ClassID)
	if err != nil {
		return Purchase{}, err
	}
	prod, err := svc.productRepo.GetProductByID(ctx, np.ProductID, np.ClassID)
	if err != nil {
		return Purchase{}, err
	}
	if prod.Stock <= 0 {
		return Purchase{}, ErrOutOfStock
	}
	if stu.Balance < prod.Price {
		return Purchase{}, ErrInsufficientBalance
	}

	p := Purchase{
		ID:          uuid.NewString(),
		StudentCode: stu.Code,
		StudentName: stu.Name,
		ProductID:   prod.ID,
		ProductName: prod.Name,
		Price:       prod.Price,
		Status:      StatusPending,
		ClassID:     np.ClassID,
		CreatedAt:   time.Now().UTC(),
	}
	return svc.purchaseRepo.CreatePurchase(ctx, p)
}

func (svc *Service) QueryAllPurchases(ctx context.Context, classID null.Int) ([]Purchase, error) {
	return svc.purchaseRepo.QueryAllPurchases(ctx, classID)
}

func (svc *Service) QueryPurchasesByStudent(ctx context.Context, code string, classID null.Int) ([]Purchase, error) {
	return svc.purchaseRepo.QueryPurchasesByStudent(ctx, code, classID)
}

// Review settles a pending purchase. Rejection only flips the status. Approval
// re-validates against live state (the student or product may have changed, or
// vanished, since the request was made) and then lets the repository apply the
// debit, the stock decrement and the status transition as one atomic unit. A
// purchase that fails approval stays pending.
func (svc *Service) Review(ctx context.Context, id string, approve bool, classID null.Int) (Purchase, error) {
	p, err := svc.purchaseRepo.GetPurchaseByID(ctx, id, classID)
	if err != nil {
		return Purchase{}, err
	}
	if p.Status != StatusPending {
		return Purchase{}, ErrAlreadyProcessed
	}

	if !approve {
		return svc.purchaseRepo.MarkPurchaseRejected(ctx, p.ID)
	}

	stu, err := svc.studentRepo.GetStudentByCode(ctx, p.StudentCode, p.ClassID)
	if err != nil {
		return Purchase{}, err
	}
	prod, err := svc.productRepo.GetProductByID(ctx, p.ProductID, p.ClassID)
	if err != nil {
		return Purchase{}, err
	}
	if prod.Stock <= 0 {
		return Purchase{}, ErrOutOfStock
	}
	if stu.Balance < p.Price {
		return Purchase{}, ErrInsufficientBalance
	}

	return svc.purchaseRepo.ApprovePurchase(ctx, p, time.Now().UTC())
}

func (svc *Service) PurgeHistory(ctx context.Context, classID null.Int) (int, error) {
	return svc.purchaseRepo.PurgeAllPurchases(ctx, classID)
}
