package teacher

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/duka/core"
)

var (
	// errors
	ErrNotFound     = errors.New("teacher not found")
	ErrCodeExists   = errors.New("a teacher with this access code already exists")
	ErrCodeReserved = errors.New("this access code is reserved")
)

type (
	Repository interface {
		CheckTeacherCodeUniqueness(ctx context.Context, code string) error
		CreateTeacher(ctx context.Context, tchr Teacher) (Teacher, error)
		QueryAllTeachers(ctx context.Context) ([]Teacher, error)
		GetTeacherByCode(ctx context.Context, code string) (Teacher, error)
		DeleteTeacherByID(ctx context.Context, id int) error
		PurgeClass(ctx context.Context, classID int) error
	}

	ServiceInterface interface {
		CheckCodeUniqueness(ctx context.Context, code string) error
		Create(ctx context.Context, nt NewTeacher) (Teacher, error)
		QueryAll(ctx context.Context) ([]Teacher, error)
		GetByCode(ctx context.Context, code string) (Teacher, error)
		Delete(ctx context.Context, id int) error
	}

	Service struct {
		repo  Repository
		owner core.OwnerConfig
	}
)

var _ ServiceInterface = (*Service)(nil)

func NewService(repo Repository, owner core.OwnerConfig) *Service {
	return &Service{repo: repo, owner: owner}
}

// CheckCodeUniqueness rejects codes already taken by another teacher and the
// owner's own code: the super-admin account must stay unambiguous.
func (svc *Service) CheckCodeUniqueness(ctx context.Context, code string) error {
	if code == svc.owner.Code {
		return core.NewValidationError(ErrCodeReserved, core.FieldError{Field: "code", Error: ErrCodeReserved.Error()})
	}
	if err := svc.repo.CheckTeacherCodeUniqueness(ctx, code); err != nil {
		if errors.Cause(err) == ErrCodeExists {
			return core.NewValidationError(err, core.FieldError{Field: "code", Error: err.Error()})
		}
		return err
	}
	return nil
}

func (svc *Service) Create(ctx context.Context, nt NewTeacher) (Teacher, error) {
	tchr := Teacher{
		Name:      nt.Name,
		Code:      nt.Code,
		ClassID:   nt.ClassID,
		CreatedAt: time.Now().UTC(),
	}
	return svc.repo.CreateTeacher(ctx, tchr)
}

func (svc *Service) QueryAll(ctx context.Context) ([]Teacher, error) {
	return svc.repo.QueryAllTeachers(ctx)
}

func (svc *Service) GetByCode(ctx context.Context, code string) (Teacher, error) {
	return svc.repo.GetTeacherByCode(ctx, core.CleanString(code))
}

func (svc *Service) Delete(ctx context.Context, id int) error {
	return svc.repo.DeleteTeacherByID(ctx, id)
}
