package student

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/duka/core"
)

type Student struct {
	ID        int       `json:"id" db:"id"`
	Code      string    `json:"code" db:"code"`
	Name      string    `json:"name" db:"name"`
	Balance   int       `json:"balance" db:"balance"`
	ClassID   null.Int  `json:"class_id,omitempty" db:"class_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"` // UTC
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"` // UTC
}

// NewStudent contains information needed to create a new Student.
// Balance is the starting balance; the original system accepts any integer here,
// so no floor is enforced.
type NewStudent struct {
	Code    string   `json:"code" validate:"required,accesscode"`
	Name    string   `json:"name" validate:"required"`
	Balance int      `json:"balance"`
	ClassID null.Int `json:"class_id"`
}

func (ns *NewStudent) Validate(ctx context.Context, validate *validator.Validate, svc ServiceInterface) error {
	ns.Code = core.CleanString(ns.Code)
	ns.Name = core.CleanString(ns.Name)

	if err := validate.Struct(ns); err != nil {
		return err
	}
	return svc.CheckCodeUniqueness(ctx, ns.Code, ns.ClassID)
}

// BalanceAdjustment adds a signed delta to the current balance. Teachers use
// negative deltas as penalties; the balance has no floor here on purpose.
type BalanceAdjustment struct {
	Delta   *int     `json:"delta" validate:"required"`
	ClassID null.Int `json:"class_id"`
}

func (ba BalanceAdjustment) Validate(validate *validator.Validate) error {
	return validate.Struct(ba)
}

// BalanceOverride replaces the balance with an exact amount.
type BalanceOverride struct {
	Balance *int     `json:"balance" validate:"required"`
	ClassID null.Int `json:"class_id"`
}

func (bo BalanceOverride) Validate(validate *validator.Validate) error {
	return validate.Struct(bo)
}
