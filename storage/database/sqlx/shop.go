package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/duka/core/shop"
	"github.com/trezcool/duka/core/student"
)

// Products

type productRepository struct {
	db *sqlx.DB
}

var _ shop.ProductRepository = (*productRepository)(nil) // interface compliance check

func NewProductRepository(db *sqlx.DB) shop.ProductRepository {
	return &productRepository{db: db}
}

func (repo *productRepository) CreateProduct(ctx context.Context, prod shop.Product) (shop.Product, error) {
	_, err := repo.db.ExecContext(
		ctx,
		`INSERT INTO product (id, name, description, price, stock, class_id, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		prod.ID, prod.Name, prod.Description, prod.Price, prod.Stock, prod.ClassID, prod.CreatedAt,
	)
	if err != nil {
		return shop.Product{}, errors.Wrap(err, "inserting product")
	}
	return prod, nil
}

func (repo *productRepository) QueryAllProducts(ctx context.Context, classID null.Int) ([]shop.Product, error) {
	var products []shop.Product
	err := repo.db.SelectContext(
		ctx, &products,
		`SELECT * FROM product WHERE ($1::bigint IS NULL OR class_id = $1) ORDER BY created_at DESC`,
		classID,
	)
	if err != nil {
		return nil, errors.Wrap(err, "querying products")
	}
	return products, nil
}

func (repo *productRepository) GetProductByID(ctx context.Context, id string, classID null.Int) (shop.Product, error) {
	var prod shop.Product
	err := repo.db.GetContext(
		ctx, &prod,
		`SELECT * FROM product WHERE id = $1 AND ($2::bigint IS NULL OR class_id = $2)`,
		id, classID,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return shop.Product{}, shop.ErrProductNotFound
		}
		return shop.Product{}, errors.Wrap(err, "getting product")
	}
	return prod, nil
}

func (repo *productRepository) SetProductStock(ctx context.Context, id string, stock int, classID null.Int) (shop.Product, error) {
	var prod shop.Product
	err := repo.db.GetContext(
		ctx, &prod,
		`UPDATE product SET stock = $2 WHERE id = $1 AND ($3::bigint IS NULL OR class_id = $3) RETURNING *`,
		id, stock, classID,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return shop.Product{}, shop.ErrProductNotFound
		}
		return shop.Product{}, errors.Wrap(err, "setting stock")
	}
	return prod, nil
}

func (repo *productRepository) DeleteProductByID(ctx context.Context, id string, classID null.Int) error {
	res, err := repo.db.ExecContext(
		ctx,
		`DELETE FROM product WHERE id = $1 AND ($2::bigint IS NULL OR class_id = $2)`,
		id, classID,
	)
	if err != nil {
		return errors.Wrap(err, "deleting product")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return shop.ErrProductNotFound
	}
	return nil
}

func (repo *productRepository) PurgeClass(ctx context.Context, classID int) error {
	_, err := repo.db.ExecContext(ctx, `DELETE FROM product WHERE class_id = $1`, classID)
	return errors.Wrap(err, "purging class products")
}

// Purchases

type purchaseRepository struct {
	db *sqlx.DB
}

var _ shop.PurchaseRepository = (*purchaseRepository)(nil) // interface compliance check

func NewPurchaseRepository(db *sqlx.DB) shop.PurchaseRepository {
	return &purchaseRepository{db: db}
}

func (repo *purchaseRepository) CreatePurchase(ctx context.Context, p shop.Purchase) (shop.Purchase, error) {
	_, err := repo.db.ExecContext(
		ctx,
		`INSERT INTO purchase (id, student_code, student_name, product_id, product_name, price, status, class_id, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		p.ID, p.StudentCode, p.StudentName, p.ProductID, p.ProductName, p.Price, p.Status, p.ClassID, p.CreatedAt,
	)
	if err != nil {
		return shop.Purchase{}, errors.Wrap(err, "inserting purchase")
	}
	return p, nil
}

func (repo *purchaseRepository) QueryAllPurchases(ctx context.Context, classID null.Int) ([]shop.Purchase, error) {
	var purchases []shop.Purchase
	err := repo.db.SelectContext(
		ctx, &purchases,
		`SELECT * FROM purchase WHERE ($1::bigint IS NULL OR class_id = $1) ORDER BY created_at DESC`,
		classID,
	)
	if err != nil {
		return nil, errors.Wrap(err, "querying purchases")
	}
	return purchases, nil
}

func (repo *purchaseRepository) QueryPurchasesByStudent(ctx context.Context, code string, classID null.Int) ([]shop.Purchase, error) {
	var purchases []shop.Purchase
	err := repo.db.SelectContext(
		ctx, &purchases,
		`SELECT * FROM purchase WHERE student_code = $1 AND ($2::bigint IS NULL OR class_id = $2)
		 ORDER BY created_at DESC`,
		code, classID,
	)
	if err != nil {
		return nil, errors.Wrap(err, "querying student purchases")
	}
	return purchases, nil
}

func (repo *purchaseRepository) GetPurchaseByID(ctx context.Context, id string, classID null.Int) (shop.Purchase, error) {
	var p shop.Purchase
	err := repo.db.GetContext(
		ctx, &p,
		`SELECT * FROM purchase WHERE id = $1 AND ($2::bigint IS NULL OR class_id = $2)`,
		id, classID,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return shop.Purchase{}, shop.ErrPurchaseNotFound
		}
		return shop.Purchase{}, errors.Wrap(err, "getting purchase")
	}
	return p, nil
}

func (repo *purchaseRepository) MarkPurchaseRejected(ctx context.Context, id string) (shop.Purchase, error) {
	var p shop.Purchase
	err := repo.db.GetContext(
		ctx, &p,
		`UPDATE purchase SET status = $2 WHERE id = $1 AND status = $3 RETURNING *`,
		id, shop.StatusRejected, shop.StatusPending,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			// either gone or already settled; disambiguate for the caller
			var exists bool
			if exErr := repo.db.GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM purchase WHERE id = $1)`, id); exErr == nil && !exists {
				return shop.Purchase{}, shop.ErrPurchaseNotFound
			}
			return shop.Purchase{}, shop.ErrAlreadyProcessed
		}
		return shop.Purchase{}, errors.Wrap(err, "rejecting purchase")
	}
	return p, nil
}

// ApprovePurchase settles the purchase in one transaction. The student and
// product rows are locked first, then every mutation re-asserts its
// precondition, so two concurrent approvals against the same unit of stock can
// never both land: the loser fails with ErrOutOfStock (or
// ErrInsufficientBalance) and the purchase stays pending.
func (repo *purchaseRepository) ApprovePurchase(ctx context.Context, p shop.Purchase, approvedAt time.Time) (shop.Purchase, error) {
	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return shop.Purchase{}, errors.Wrap(err, "beginning approval transaction")
	}
	defer func() { _ = tx.Rollback() }()

	// claim the purchase; concurrent reviews of the same purchase serialize here
	var approved shop.Purchase
	err = tx.GetContext(
		ctx, &approved,
		`UPDATE purchase SET status = $2, approved_at = $3 WHERE id = $1 AND status = $4 RETURNING *`,
		p.ID, shop.StatusApproved, approvedAt, shop.StatusPending,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return shop.Purchase{}, shop.ErrAlreadyProcessed
		}
		return shop.Purchase{}, errors.Wrap(err, "claiming purchase")
	}

	// lock the student row, then debit only if affordable
	var balance int
	err = tx.GetContext(
		ctx, &balance,
		`SELECT balance FROM student WHERE code = $1 AND ($2::bigint IS NULL OR class_id = $2) FOR UPDATE`,
		p.StudentCode, p.ClassID,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return shop.Purchase{}, student.ErrNotFound
		}
		return shop.Purchase{}, errors.Wrap(err, "locking student")
	}
	if balance < p.Price {
		return shop.Purchase{}, shop.ErrInsufficientBalance
	}
	_, err = tx.ExecContext(
		ctx,
		`UPDATE student SET balance = balance - $3, updated_at = $4
		 WHERE code = $1 AND ($2::bigint IS NULL OR class_id = $2) AND balance >= $3`,
		p.StudentCode, p.ClassID, p.Price, approvedAt,
	)
	if err != nil {
		return shop.Purchase{}, errors.Wrap(err, "debiting student")
	}

	// lock the product row, then take one unit only if some are left
	var stock int
	err = tx.GetContext(ctx, &stock, `SELECT stock FROM product WHERE id = $1 FOR UPDATE`, p.ProductID)
	if err != nil {
		if err == sql.ErrNoRows {
			return shop.Purchase{}, shop.ErrProductNotFound
		}
		return shop.Purchase{}, errors.Wrap(err, "locking product")
	}
	if stock <= 0 {
		return shop.Purchase{}, shop.ErrOutOfStock
	}
	_, err = tx.ExecContext(ctx, `UPDATE product SET stock = stock - 1 WHERE id = $1 AND stock > 0`, p.ProductID)
	if err != nil {
		return shop.Purchase{}, errors.Wrap(err, "decrementing stock")
	}

	if err = tx.Commit(); err != nil {
		return shop.Purchase{}, errors.Wrap(err, "committing approval")
	}
	return approved, nil
}

func (repo *purchaseRepository) PurgeAllPurchases(ctx context.Context, classID null.Int) (int, error) {
	res, err := repo.db.ExecContext(
		ctx, `DELETE FROM purchase WHERE ($1::bigint IS NULL OR class_id = $1)`, classID,
	)
	if err != nil {
		return 0, errors.Wrap(err, "purging purchases")
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}

func (repo *purchaseRepository) PurgeStudentHistory(ctx context.Context, code string, classID null.Int) error {
	_, err := repo.db.ExecContext(
		ctx,
		`DELETE FROM purchase WHERE student_code = $1 AND ($2::bigint IS NULL OR class_id = $2)`,
		code, classID,
	)
	return errors.Wrap(err, "purging student history")
}

func (repo *purchaseRepository) PurgeClass(ctx context.Context, classID int) error {
	_, err := repo.db.ExecContext(ctx, `DELETE FROM purchase WHERE class_id = $1`, classID)
	return errors.Wrap(err, "purging class purchases")
}
