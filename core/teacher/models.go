package teacher

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/duka/core"
)

type Teacher struct {
	ID        int       `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Code      string    `json:"-" db:"code"` // access code doubles as the login credential
	ClassID   null.Int  `json:"class_id,omitempty" db:"class_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"` // UTC
}

// NewTeacher contains information needed to create a new Teacher account.
type NewTeacher struct {
	Name    string   `json:"name"`
	Code    string   `json:"code" validate:"required,accesscode"`
	ClassID null.Int `json:"class_id"`
}

func (nt *NewTeacher) Validate(ctx context.Context, validate *validator.Validate, svc ServiceInterface) error {
	nt.Name = core.CleanString(nt.Name)
	nt.Code = core.CleanString(nt.Code)

	if err := validate.Struct(nt); err != nil {
		return err
	}
	return svc.CheckCodeUniqueness(ctx, nt.Code)
}
