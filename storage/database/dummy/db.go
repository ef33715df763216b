// Package dummydb is an in-memory implementation of the repositories. It backs
// the test suites and local tinkering; the real deployment uses the sqlx
// repositories.
package dummydb

import (
	"sync"

	"github.com/volatiletech/null/v8"

	"github.com/trezcool/duka/core/class"
	"github.com/trezcool/duka/core/shop"
	"github.com/trezcool/duka/core/student"
	"github.com/trezcool/duka/core/teacher"
)

type (
	DB struct {
		class    *classTable
		student  *studentTable
		teacher  *teacherTable
		product  *productTable
		purchase *purchaseTable
	}

	classTable struct {
		sync.RWMutex
		table map[int]*class.Class
		pk    int
	}

	studentTable struct {
		sync.RWMutex
		table map[int]*student.Student
		pk    int
	}

	teacherTable struct {
		sync.RWMutex
		table map[int]*teacher.Teacher
		pk    int
	}

	productTable struct {
		sync.RWMutex
		table map[string]*shop.Product
	}

	purchaseTable struct {
		sync.RWMutex
		table map[string]*shop.Purchase
	}
)

func Open() (*DB, error) {
	db := &DB{
		class:    &classTable{table: make(map[int]*class.Class)},
		student:  &studentTable{table: make(map[int]*student.Student)},
		teacher:  &teacherTable{table: make(map[int]*teacher.Teacher)},
		product:  &productTable{table: make(map[string]*shop.Product)},
		purchase: &purchaseTable{table: make(map[string]*shop.Purchase)},
	}
	return db, nil
}

// inScope reports whether a record tagged with classID is visible from the
// given scope. An invalid scope is the owner's global view and sees everything.
func inScope(classID, scope null.Int) bool {
	if !scope.Valid {
		return true
	}
	return classID.Valid && classID.Int == scope.Int
}

// sameClass is the strict equality used for uniqueness checks: both unset, or
// both set to the same class.
func sameClass(a, b null.Int) bool {
	if a.Valid != b.Valid {
		return false
	}
	return !a.Valid || a.Int == b.Int
}
