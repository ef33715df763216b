package sqlxrepos

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/duka/core/teacher"
)

type teacherRepository struct {
	db *sqlx.DB
}

var _ teacher.Repository = (*teacherRepository)(nil) // interface compliance check

func NewTeacherRepository(db *sqlx.DB) teacher.Repository {
	return &teacherRepository{db: db}
}

func (repo *teacherRepository) CheckTeacherCodeUniqueness(ctx context.Context, code string) error {
	var exists bool
	err := repo.db.GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM teacher WHERE code = $1)`, code)
	if err != nil {
		return errors.Wrap(err, "checking teacher code")
	}
	if exists {
		return teacher.ErrCodeExists
	}
	return nil
}

func (repo *teacherRepository) CreateTeacher(ctx context.Context, tchr teacher.Teacher) (teacher.Teacher, error) {
	err := repo.db.GetContext(
		ctx, &tchr.ID,
		`INSERT INTO teacher (name, code, class_id, created_at) VALUES ($1, $2, $3, $4) RETURNING id`,
		tchr.Name, tchr.Code, tchr.ClassID, tchr.CreatedAt,
	)
	if err != nil {
		return teacher.Teacher{}, errors.Wrap(err, "inserting teacher")
	}
	return tchr, nil
}

func (repo *teacherRepository) QueryAllTeachers(ctx context.Context) ([]teacher.Teacher, error) {
	var teachers []teacher.Teacher
	err := repo.db.SelectContext(ctx, &teachers, `SELECT * FROM teacher ORDER BY id ASC`)
	if err != nil {
		return nil, errors.Wrap(err, "querying teachers")
	}
	return teachers, nil
}

func (repo *teacherRepository) GetTeacherByCode(ctx context.Context, code string) (teacher.Teacher, error) {
	var tchr teacher.Teacher
	err := repo.db.GetContext(ctx, &tchr, `SELECT * FROM teacher WHERE code = $1`, code)
	if err != nil {
		if err == sql.ErrNoRows {
			return teacher.Teacher{}, teacher.ErrNotFound
		}
		return teacher.Teacher{}, errors.Wrap(err, "getting teacher")
	}
	return tchr, nil
}

func (repo *teacherRepository) DeleteTeacherByID(ctx context.Context, id int) error {
	res, err := repo.db.ExecContext(ctx, `DELETE FROM teacher WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "deleting teacher")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return teacher.ErrNotFound
	}
	return nil
}

func (repo *teacherRepository) PurgeClass(ctx context.Context, classID int) error {
	_, err := repo.db.ExecContext(ctx, `DELETE FROM teacher WHERE class_id = $1`, classID)
	return errors.Wrap(err, "purging class teachers")
}
