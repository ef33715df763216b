package dummydb

import (
	"context"
	"sort"
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/trezcool/duka/core/shop"
	"github.com/trezcool/duka/core/student"
)

// Products

type productRepository struct {
	db *productTable
}

var _ shop.ProductRepository = (*productRepository)(nil) // interface compliance check

func NewProductRepository(db *DB) shop.ProductRepository {
	return &productRepository{db: db.product}
}

func (repo *productRepository) query(scope null.Int) []shop.Product {
	products := make([]shop.Product, 0, len(repo.db.table))
	for _, p := range repo.db.table {
		if inScope(p.ClassID, scope) {
			products = append(products, *p)
		}
	}
	// newest first
	sort.Slice(products, func(i, j int) bool { return products[i].CreatedAt.After(products[j].CreatedAt) })
	return products
}

func (repo *productRepository) CreateProduct(_ context.Context, prod shop.Product) (shop.Product, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.table[prod.ID] = &prod
	return prod, nil
}

func (repo *productRepository) QueryAllProducts(_ context.Context, classID null.Int) ([]shop.Product, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return repo.query(classID), nil
}

func (repo *productRepository) GetProductByID(_ context.Context, id string, classID null.Int) (shop.Product, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if prod, ok := repo.db.table[id]; ok && inScope(prod.ClassID, classID) {
		return *prod, nil
	}
	return shop.Product{}, shop.ErrProductNotFound
}

func (repo *productRepository) SetProductStock(_ context.Context, id string, stock int, classID null.Int) (shop.Product, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	prod, ok := repo.db.table[id]
	if !ok || !inScope(prod.ClassID, classID) {
		return shop.Product{}, shop.ErrProductNotFound
	}
	prod.Stock = stock
	return *prod, nil
}

func (repo *productRepository) DeleteProductByID(_ context.Context, id string, classID null.Int) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	prod, ok := repo.db.table[id]
	if !ok || !inScope(prod.ClassID, classID) {
		return shop.ErrProductNotFound
	}
	delete(repo.db.table, id)
	return nil
}

func (repo *productRepository) PurgeClass(_ context.Context, classID int) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	for id, p := range repo.db.table {
		if p.ClassID.Valid && p.ClassID.Int == classID {
			delete(repo.db.table, id)
		}
	}
	return nil
}

// Purchases

// purchaseRepository holds the student and product tables too: approval spans
// all three and is applied under their locks as one unit.
type purchaseRepository struct {
	db       *purchaseTable
	students *studentTable
	products *productTable
}

var _ shop.PurchaseRepository = (*purchaseRepository)(nil) // interface compliance check

func NewPurchaseRepository(db *DB) shop.PurchaseRepository {
	return &purchaseRepository{db: db.purchase, students: db.student, products: db.product}
}

func (repo *purchaseRepository) query(scope null.Int) []shop.Purchase {
	purchases := make([]shop.Purchase, 0, len(repo.db.table))
	for _, p := range repo.db.table {
		if inScope(p.ClassID, scope) {
			purchases = append(purchases, *p)
		}
	}
	// newest first
	sort.Slice(purchases, func(i, j int) bool { return purchases[i].CreatedAt.After(purchases[j].CreatedAt) })
	return purchases
}

func (repo *purchaseRepository) CreatePurchase(_ context.Context, p shop.Purchase) (shop.Purchase, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.table[p.ID] = &p
	return p, nil
}

func (repo *purchaseRepository) QueryAllPurchases(_ context.Context, classID null.Int) ([]shop.Purchase, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return repo.query(classID), nil
}

func (repo *purchaseRepository) QueryPurchasesByStudent(_ context.Context, code string, classID null.Int) ([]shop.Purchase, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var purchases []shop.Purchase
	for _, p := range repo.query(classID) {
		if p.StudentCode == code {
			purchases = append(purchases, p)
		}
	}
	return purchases, nil
}

func (repo *purchaseRepository) GetPurchaseByID(_ context.Context, id string, classID null.Int) (shop.Purchase, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if p, ok := repo.db.table[id]; ok && inScope(p.ClassID, classID) {
		return *p, nil
	}
	return shop.Purchase{}, shop.ErrPurchaseNotFound
}

func (repo *purchaseRepository) MarkPurchaseRejected(_ context.Context, id string) (shop.Purchase, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	p, ok := repo.db.table[id]
	if !ok {
		return shop.Purchase{}, shop.ErrPurchaseNotFound
	}
	if p.Status != shop.StatusPending {
		return shop.Purchase{}, shop.ErrAlreadyProcessed
	}
	p.Status = shop.StatusRejected
	return *p, nil
}

func (repo *purchaseRepository) ApprovePurchase(_ context.Context, p shop.Purchase, approvedAt time.Time) (shop.Purchase, error) {
	// lock order: students, products, purchases
	repo.students.Lock()
	defer repo.students.Unlock()
	repo.products.Lock()
	defer repo.products.Unlock()
	repo.db.Lock()
	defer repo.db.Unlock()

	stored, ok := repo.db.table[p.ID]
	if !ok {
		return shop.Purchase{}, shop.ErrPurchaseNotFound
	}
	if stored.Status != shop.StatusPending {
		return shop.Purchase{}, shop.ErrAlreadyProcessed
	}

	var stu *student.Student
	for _, s := range repo.students.table {
		if s.Code == stored.StudentCode && inScope(s.ClassID, stored.ClassID) {
			stu = s
			break
		}
	}
	if stu == nil {
		return shop.Purchase{}, student.ErrNotFound
	}
	prod, ok := repo.products.table[stored.ProductID]
	if !ok {
		return shop.Purchase{}, shop.ErrProductNotFound
	}

	// conditional mutations; nothing is applied unless every check holds
	if prod.Stock <= 0 {
		return shop.Purchase{}, shop.ErrOutOfStock
	}
	if stu.Balance < stored.Price {
		return shop.Purchase{}, shop.ErrInsufficientBalance
	}

	stu.Balance -= stored.Price
	stu.UpdatedAt = approvedAt
	prod.Stock--
	stored.Status = shop.StatusApproved
	stored.ApprovedAt = null.TimeFrom(approvedAt)
	return *stored, nil
}

func (repo *purchaseRepository) PurgeAllPurchases(_ context.Context, classID null.Int) (int, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	var n int
	for id, p := range repo.db.table {
		if inScope(p.ClassID, classID) {
			delete(repo.db.table, id)
			n++
		}
	}
	return n, nil
}

func (repo *purchaseRepository) PurgeStudentHistory(_ context.Context, code string, classID null.Int) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	for id, p := range repo.db.table {
		if p.StudentCode == code && inScope(p.ClassID, classID) {
			delete(repo.db.table, id)
		}
	}
	return nil
}

func (repo *purchaseRepository) PurgeClass(_ context.Context, classID int) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	for id, p := range repo.db.table {
		if p.ClassID.Valid && p.ClassID.Int == classID {
			delete(repo.db.table, id)
		}
	}
	return nil
}
