package sqlxrepos

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/duka/core/student"
)

// Scope filtering: a NULL scope is the owner's global view and matches every
// row; a set scope pins the query to that class.

type studentRepository struct {
	db *sqlx.DB
}

var _ student.Repository = (*studentRepository)(nil) // interface compliance check

func NewStudentRepository(db *sqlx.DB) student.Repository {
	return &studentRepository{db: db}
}

func (repo *studentRepository) CheckStudentCodeUniqueness(ctx context.Context, code string, classID null.Int) error {
	var exists bool
	err := repo.db.GetContext(
		ctx, &exists,
		`SELECT EXISTS (SELECT 1 FROM student WHERE code = $1 AND class_id IS NOT DISTINCT FROM $2)`,
		code, classID,
	)
	if err != nil {
		return errors.Wrap(err, "checking student code")
	}
	if exists {
		return student.ErrCodeExists
	}
	return nil
}

func (repo *studentRepository) CreateStudent(ctx context.Context, stu student.Student) (student.Student, error) {
	err := repo.db.GetContext(
		ctx, &stu.ID,
		`INSERT INTO student (code, name, balance, class_id, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
		stu.Code, stu.Name, stu.Balance, stu.ClassID, stu.CreatedAt, stu.UpdatedAt,
	)
	if err != nil {
		return student.Student{}, errors.Wrap(err, "inserting student")
	}
	return stu, nil
}

func (repo *studentRepository) QueryAllStudents(ctx context.Context, classID null.Int) ([]student.Student, error) {
	var students []student.Student
	err := repo.db.SelectContext(
		ctx, &students,
		`SELECT * FROM student WHERE ($1::bigint IS NULL OR class_id = $1) ORDER BY name ASC`,
		classID,
	)
	if err != nil {
		return nil, errors.Wrap(err, "querying students")
	}
	return students, nil
}

func (repo *studentRepository) GetStudentByCode(ctx context.Context, code string, classID null.Int) (student.Student, error) {
	var stu student.Student
	err := repo.db.GetContext(
		ctx, &stu,
		`SELECT * FROM student WHERE code = $1 AND ($2::bigint IS NULL OR class_id = $2)`,
		code, classID,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return student.Student{}, student.ErrNotFound
		}
		return student.Student{}, errors.Wrap(err, "getting student")
	}
	return stu, nil
}

func (repo *studentRepository) AdjustStudentBalance(ctx context.Context, code string, delta int, classID null.Int) (student.Student, error) {
	var stu student.Student
	err := repo.db.GetContext(
		ctx, &stu,
		`UPDATE student SET balance = balance + $2, updated_at = now()
		 WHERE code = $1 AND ($3::bigint IS NULL OR class_id = $3)
		 RETURNING *`,
		code, delta, classID,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return student.Student{}, student.ErrNotFound
		}
		return student.Student{}, errors.Wrap(err, "adjusting balance")
	}
	return stu, nil
}

func (repo *studentRepository) SetStudentBalance(ctx context.Context, code string, balance int, classID null.Int) (student.Student, error) {
	var stu student.Student
	err := repo.db.GetContext(
		ctx, &stu,
		`UPDATE student SET balance = $2, updated_at = now()
		 WHERE code = $1 AND ($3::bigint IS NULL OR class_id = $3)
		 RETURNING *`,
		code, balance, classID,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return student.Student{}, student.ErrNotFound
		}
		return student.Student{}, errors.Wrap(err, "setting balance")
	}
	return stu, nil
}

func (repo *studentRepository) DeleteStudentByCode(ctx context.Context, code string, classID null.Int) error {
	res, err := repo.db.ExecContext(
		ctx,
		`DELETE FROM student WHERE code = $1 AND ($2::bigint IS NULL OR class_id = $2)`,
		code, classID,
	)
	if err != nil {
		return errors.Wrap(err, "deleting student")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return student.ErrNotFound
	}
	return nil
}

func (repo *studentRepository) PurgeClass(ctx context.Context, classID int) error {
	_, err := repo.db.ExecContext(ctx, `DELETE FROM student WHERE class_id = $1`, classID)
	return errors.Wrap(err, "purging class students")
}
