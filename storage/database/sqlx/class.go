package sqlxrepos

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/duka/core/class"
)

type classRepository struct {
	db *sqlx.DB
}

var _ class.Repository = (*classRepository)(nil) // interface compliance check

func NewClassRepository(db *sqlx.DB) class.Repository {
	return &classRepository{db: db}
}

func (repo *classRepository) CheckClassNameUniqueness(ctx context.Context, name string) error {
	var exists bool
	err := repo.db.GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM class WHERE name = $1)`, name)
	if err != nil {
		return errors.Wrap(err, "checking class name")
	}
	if exists {
		return class.ErrNameExists
	}
	return nil
}

func (repo *classRepository) CreateClass(ctx context.Context, cls class.Class) (class.Class, error) {
	err := repo.db.GetContext(
		ctx, &cls.ID,
		`INSERT INTO class (name, created_at) VALUES ($1, $2) RETURNING id`,
		cls.Name, cls.CreatedAt,
	)
	if err != nil {
		return class.Class{}, errors.Wrap(err, "inserting class")
	}
	return cls, nil
}

func (repo *classRepository) QueryAllClasses(ctx context.Context) ([]class.Class, error) {
	var classes []class.Class
	err := repo.db.SelectContext(ctx, &classes, `SELECT * FROM class ORDER BY name ASC`)
	if err != nil {
		return nil, errors.Wrap(err, "querying classes")
	}
	return classes, nil
}

func (repo *classRepository) GetClassByID(ctx context.Context, id int) (class.Class, error) {
	var cls class.Class
	err := repo.db.GetContext(ctx, &cls, `SELECT * FROM class WHERE id = $1`, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return class.Class{}, class.ErrNotFound
		}
		return class.Class{}, errors.Wrap(err, "getting class")
	}
	return cls, nil
}

func (repo *classRepository) DeleteClassByID(ctx context.Context, id int) error {
	res, err := repo.db.ExecContext(ctx, `DELETE FROM class WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "deleting class")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return class.ErrNotFound
	}
	return nil
}
