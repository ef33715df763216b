package directory

import (
	"context"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/duka/core"
	"github.com/trezcool/duka/core/student"
	"github.com/trezcool/duka/core/teacher"
)

// OwnerResolver matches the configured super-admin code. It comes first in the
// chain so the owner account can never be shadowed by a database record.
type OwnerResolver struct {
	owner core.OwnerConfig
}

var _ Resolver = (*OwnerResolver)(nil)

func NewOwnerResolver(owner core.OwnerConfig) *OwnerResolver {
	return &OwnerResolver{owner: owner}
}

func (r *OwnerResolver) Serves(kind string) bool { return kind == KindAdmin }

func (r *OwnerResolver) Resolve(_ context.Context, code string, _ null.Int) (Profile, error) {
	if code != r.owner.Code {
		return Profile{}, ErrNoMatch
	}
	return Profile{Role: RoleOwner, Name: r.owner.Name}, nil
}

// TeacherResolver matches teacher access codes.
type TeacherResolver struct {
	svc teacher.ServiceInterface
}

var _ Resolver = (*TeacherResolver)(nil)

func NewTeacherResolver(svc teacher.ServiceInterface) *TeacherResolver {
	return &TeacherResolver{svc: svc}
}

func (r *TeacherResolver) Serves(kind string) bool { return kind == KindAdmin }

func (r *TeacherResolver) Resolve(ctx context.Context, code string, _ null.Int) (Profile, error) {
	tchr, err := r.svc.GetByCode(ctx, code)
	if err != nil {
		if errors.Cause(err) == teacher.ErrNotFound {
			return Profile{}, ErrNoMatch
		}
		return Profile{}, errors.Wrap(err, "finding teacher by code")
	}
	return Profile{Role: RoleTeacher, Name: tchr.Name, ClassID: tchr.ClassID}, nil
}

// StudentResolver matches student codes within the login scope.
type StudentResolver struct {
	svc student.ServiceInterface
}

var _ Resolver = (*StudentResolver)(nil)

func NewStudentResolver(svc student.ServiceInterface) *StudentResolver {
	return &StudentResolver{svc: svc}
}

func (r *StudentResolver) Serves(kind string) bool { return kind == KindStudent }

func (r *StudentResolver) Resolve(ctx context.Context, code string, classID null.Int) (Profile, error) {
	stu, err := r.svc.GetByCode(ctx, code, classID)
	if err != nil {
		if errors.Cause(err) == student.ErrNotFound {
			return Profile{}, ErrNoMatch
		}
		return Profile{}, errors.Wrap(err, "finding student by code")
	}
	return Profile{Role: RoleStudent, Name: stu.Name, Balance: stu.Balance, ClassID: stu.ClassID}, nil
}
