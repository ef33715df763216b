package shop

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/duka/core"
)

// Purchase statuses. A purchase starts pending and moves exactly once to
// approved or rejected; terminal states are never left.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

type Product struct {
	ID          string    `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	Price       int       `json:"price" db:"price"`
	Stock       int       `json:"stock" db:"stock"`
	ClassID     null.Int  `json:"class_id,omitempty" db:"class_id"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"` // UTC
}

// Purchase snapshots the student and product at request time. Name and price
// are denormalized on purpose: the approval re-validates against live state but
// charges the snapshotted price.
type Purchase struct {
	ID          string    `json:"id" db:"id"`
	StudentCode string    `json:"student_code" db:"student_code"`
	StudentName string    `json:"student_name" db:"student_name"`
	ProductID   string    `json:"product_id" db:"product_id"`
	ProductName string    `json:"product_name" db:"product_name"`
	Price       int       `json:"price" db:"price"`
	Status      string    `json:"status" db:"status"`
	ClassID     null.Int  `json:"class_id,omitempty" db:"class_id"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"` // UTC
	ApprovedAt  null.Time `json:"approved_at,omitempty" db:"approved_at"`
}

// NewProduct contains information needed to create a new Product.
type NewProduct struct {
	Name        string   `json:"name" validate:"required"`
	Description string   `json:"description"`
	Price       int      `json:"price" validate:"gte=0"`
	Stock       int      `json:"stock" validate:"gte=0"`
	ClassID     null.Int `json:"class_id"`
}

func (np *NewProduct) Validate(validate *validator.Validate) error {
	np.Name = core.CleanString(np.Name)
	np.Description = core.CleanString(np.Description)
	return validate.Struct(np)
}

// StockOverride replaces a product's stock with an exact count.
type StockOverride struct {
	Stock   *int     `json:"stock" validate:"required,gte=0"`
	ClassID null.Int `json:"class_id"`
}

func (so StockOverride) Validate(validate *validator.Validate) error {
	return validate.Struct(so)
}

// NewPurchase is a student's request to buy one unit of a product.
type NewPurchase struct {
	StudentCode string   `json:"student_code" validate:"required"`
	ProductID   string   `json:"product_id" validate:"required"`
	ClassID     null.Int `json:"class_id"`
}

func (np *NewPurchase) Validate(validate *validator.Validate) error {
	np.StudentCode = core.CleanString(np.StudentCode)
	np.ProductID = core.CleanString(np.ProductID)
	return validate.Struct(np)
}

// PurchaseReview is a teacher's decision on a pending purchase.
type PurchaseReview struct {
	Approve *bool    `json:"approve" validate:"required"`
	ClassID null.Int `json:"class_id"`
}

func (pr PurchaseReview) Validate(validate *validator.Validate) error {
	return validate.Struct(pr)
}
