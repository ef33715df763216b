package teacher_test

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/duka/core"
	"github.com/trezcool/duka/core/teacher"
	"github.com/trezcool/duka/storage/database/dummy"
)

var owner = core.OwnerConfig{Name: "Owner", Code: "1234"}

func setup(t *testing.T) *teacher.Service {
	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("setup() failed: %v", err)
	}
	return teacher.NewService(dummydb.NewTeacherRepository(db), owner)
}

func Test_Service_CheckCodeUniqueness(t *testing.T) {
	ctx := context.Background()
	svc := setup(t)

	_, err := svc.Create(ctx, teacher.NewTeacher{Name: "Ms Jo", Code: "jo", ClassID: null.IntFrom(1)})
	require.NoError(t, err)

	assert.NoError(t, svc.CheckCodeUniqueness(ctx, "mark"))

	// teacher codes are globally unique, class scope notwithstanding
	err = svc.CheckCodeUniqueness(ctx, "jo")
	var vErr *core.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, teacher.ErrCodeExists, errors.Cause(vErr.Err))

	// the owner's code can never be claimed
	err = svc.CheckCodeUniqueness(ctx, owner.Code)
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, teacher.ErrCodeReserved, errors.Cause(vErr.Err))
}

func Test_Service_Delete(t *testing.T) {
	ctx := context.Background()
	svc := setup(t)

	tchr, err := svc.Create(ctx, teacher.NewTeacher{Name: "Ms Jo", Code: "jo"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, tchr.ID))
	_, err = svc.GetByCode(ctx, "jo")
	assert.Equal(t, teacher.ErrNotFound, errors.Cause(err))

	assert.Equal(t, teacher.ErrNotFound, errors.Cause(svc.Delete(ctx, tchr.ID)))
}
