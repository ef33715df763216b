package class

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/duka/core"
)

var (
	// errors
	ErrNotFound   = errors.New("class not found")
	ErrNameExists = errors.New("a class with this name already exists")
)

type (
	Repository interface {
		CheckClassNameUniqueness(ctx context.Context, name string) error
		CreateClass(ctx context.Context, cls Class) (Class, error)
		QueryAllClasses(ctx context.Context) ([]Class, error)
		GetClassByID(ctx context.Context, id int) (Class, error)
		DeleteClassByID(ctx context.Context, id int) error
	}

	// Purger removes all records of one domain that belong to a class. The
	// student, product and purchase repositories each implement it so that
	// deleting a class cascades everywhere.
	Purger interface {
		PurgeClass(ctx context.Context, classID int) error
	}

	ServiceInterface interface {
		CheckNameUniqueness(ctx context.Context, name string) error
		Create(ctx context.Context, nc NewClass) (Class, error)
		QueryAll(ctx context.Context) ([]Class, error)
		GetByID(ctx context.Context, id int) (Class, error)
		Delete(ctx context.Context, id int) error
	}

	Service struct {
		repo    Repository
		purgers []Purger
	}
)

var _ ServiceInterface = (*Service)(nil)

func NewService(repo Repository, purgers ...Purger) *Service {
	return &Service{repo: repo, purgers: purgers}
}

func (svc *Service) CheckNameUniqueness(ctx context.Context, name string) error {
	if err := svc.repo.CheckClassNameUniqueness(ctx, name); err != nil {
		if errors.Cause(err) == ErrNameExists {
			return core.NewValidationError(err, core.FieldError{Field: "name", Error: err.Error()})
		}
		return err
	}
	return nil
}

func (svc *Service) Create(ctx context.Context, nc NewClass) (Class, error) {
	cls := Class{
		Name:      nc.Name,
		CreatedAt: time.Now().UTC(),
	}
	return svc.repo.CreateClass(ctx, cls)
}

func (svc *Service) QueryAll(ctx context.Context) ([]Class, error) {
	return svc.repo.QueryAllClasses(ctx)
}

func (svc *Service) GetByID(ctx context.Context, id int) (Class, error) {
	return svc.repo.GetClassByID(ctx, id)
}

// Delete removes the class and cascades to every record scoped to it.
func (svc *Service) Delete(ctx context.Context, id int) error {
	if _, err := svc.repo.GetClassByID(ctx, id); err != nil {
		return err
	}
	for _, p := range svc.purgers {
		if err := p.PurgeClass(ctx, id); err != nil {
			return errors.Wrap(err, "purging class records")
		}
	}
	return svc.repo.DeleteClassByID(ctx, id)
}
