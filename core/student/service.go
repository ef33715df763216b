package student

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/duka/core"
)

var (
	// errors
	ErrNotFound   = errors.New("student not found")
	ErrCodeExists = errors.New("a student with this code already exists")
)

type (
	Repository interface {
		CheckStudentCodeUniqueness(ctx context.Context, code string, classID null.Int) error
		CreateStudent(ctx context.Context, stu Student) (Student, error)
		// QueryAllStudents returns students in scope ordered by name.
		QueryAllStudents(ctx context.Context, classID null.Int) ([]Student, error)
		GetStudentByCode(ctx context.Context, code string, classID null.Int) (Student, error)
		// AdjustStudentBalance applies the delta as a single atomic update.
		AdjustStudentBalance(ctx context.Context, code string, delta int, classID null.Int) (Student, error)
		SetStudentBalance(ctx context.Context, code string, balance int, classID null.Int) (Student, error)
		DeleteStudentByCode(ctx context.Context, code string, classID null.Int) error
		PurgeClass(ctx context.Context, classID int) error
	}

	// HistoryPurger removes a student's purchase history; implemented by the
	// purchase repository so that deleting a student cascades.
	HistoryPurger interface {
		PurgeStudentHistory(ctx context.Context, code string, classID null.Int) error
	}

	ServiceInterface interface {
		CheckCodeUniqueness(ctx context.Context, code string, classID null.Int) error
		Create(ctx context.Context, ns NewStudent) (Student, error)
		QueryAll(ctx context.Context, classID null.Int) ([]Student, error)
		GetByCode(ctx context.Context, code string, classID null.Int) (Student, error)
		Adjust(ctx context.Context, code string, delta int, classID null.Int) (Student, error)
		SetBalance(ctx context.Context, code string, balance int, classID null.Int) (Student, error)
		Delete(ctx context.Context, code string, classID null.Int) (Student, error)
	}

	Service struct {
		repo    Repository
		history HistoryPurger
	}
)

var _ ServiceInterface = (*Service)(nil)

func NewService(repo Repository, history HistoryPurger) *Service {
	return &Service{repo: repo, history: history}
}

func (svc *Service) CheckCodeUniqueness(ctx context.Context, code string, classID null.Int) error {
	if err := svc.repo.CheckStudentCodeUniqueness(ctx, code, classID); err != nil {
		if errors.Cause(err) == ErrCodeExists {
			return core.NewValidationError(err, core.FieldError{Field: "code", Error: err.Error()})
		}
		return err
	}
	return nil
}

func (svc *Service) Create(ctx context.Context, ns NewStudent) (Student, error) {
	now := time.Now().UTC()
	stu := Student{
		Code:      ns.Code,
		Name:      ns.Name,
		Balance:   ns.Balance,
		ClassID:   ns.ClassID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return svc.repo.CreateStudent(ctx, stu)
}

func (svc *Service) QueryAll(ctx context.Context, classID null.Int) ([]Student, error) {
	return svc.repo.QueryAllStudents(ctx, classID)
}

func (svc *Service) GetByCode(ctx context.Context, code string, classID null.Int) (Student, error) {
	return svc.repo.GetStudentByCode(ctx, core.CleanString(code), classID)
}

func (svc *Service) Adjust(ctx context.Context, code string, delta int, classID null.Int) (Student, error) {
	return svc.repo.AdjustStudentBalance(ctx, core.CleanString(code), delta, classID)
}

func (svc *Service) SetBalance(ctx context.Context, code string, balance int, classID null.Int) (Student, error) {
	return svc.repo.SetStudentBalance(ctx, core.CleanString(code), balance, classID)
}

// Delete removes the student and their whole purchase history.
func (svc *Service) Delete(ctx context.Context, code string, classID null.Int) (Student, error) {
	code = core.CleanString(code)
	stu, err := svc.repo.GetStudentByCode(ctx, code, classID)
	if err != nil {
		return Student{}, err
	}
	if err = svc.repo.DeleteStudentByCode(ctx, code, classID); err != nil {
		return Student{}, err
	}
	if err = svc.history.PurgeStudentHistory(ctx, code, classID); err != nil {
		return Student{}, errors.Wrap(err, "purging student history")
	}
	return stu, nil
}
