package dummydb

import (
	"context"
	"sort"
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/trezcool/duka/core/student"
)

type studentRepository struct {
	db *studentTable
}

var _ student.Repository = (*studentRepository)(nil) // interface compliance check

func NewStudentRepository(db *DB) student.Repository {
	return &studentRepository{db: db.student}
}

func (repo *studentRepository) query(scope null.Int) []student.Student {
	students := make([]student.Student, 0, len(repo.db.table))
	for _, s := range repo.db.table {
		if inScope(s.ClassID, scope) {
			students = append(students, *s)
		}
	}
	sort.Slice(students, func(i, j int) bool { return students[i].Name < students[j].Name })
	return students
}

func (repo *studentRepository) get(code string, scope null.Int) *student.Student {
	for _, s := range repo.db.table {
		if s.Code == code && inScope(s.ClassID, scope) {
			return s
		}
	}
	return nil
}

func (repo *studentRepository) CheckStudentCodeUniqueness(_ context.Context, code string, classID null.Int) error {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, s := range repo.db.table {
		if s.Code == code && sameClass(s.ClassID, classID) {
			return student.ErrCodeExists
		}
	}
	return nil
}

func (repo *studentRepository) CreateStudent(_ context.Context, stu student.Student) (student.Student, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.pk++
	stu.ID = repo.db.pk
	repo.db.table[stu.ID] = &stu
	return stu, nil
}

func (repo *studentRepository) QueryAllStudents(_ context.Context, classID null.Int) ([]student.Student, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return repo.query(classID), nil
}

func (repo *studentRepository) GetStudentByCode(_ context.Context, code string, classID null.Int) (student.Student, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if stu := repo.get(code, classID); stu != nil {
		return *stu, nil
	}
	return student.Student{}, student.ErrNotFound
}

func (repo *studentRepository) AdjustStudentBalance(_ context.Context, code string, delta int, classID null.Int) (student.Student, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	stu := repo.get(code, classID)
	if stu == nil {
		return student.Student{}, student.ErrNotFound
	}
	stu.Balance += delta
	stu.UpdatedAt = time.Now().UTC()
	return *stu, nil
}

func (repo *studentRepository) SetStudentBalance(_ context.Context, code string, balance int, classID null.Int) (student.Student, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	stu := repo.get(code, classID)
	if stu == nil {
		return student.Student{}, student.ErrNotFound
	}
	stu.Balance = balance
	stu.UpdatedAt = time.Now().UTC()
	return *stu, nil
}

func (repo *studentRepository) DeleteStudentByCode(_ context.Context, code string, classID null.Int) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	stu := repo.get(code, classID)
	if stu == nil {
		return student.ErrNotFound
	}
	delete(repo.db.table, stu.ID)
	return nil
}

func (repo *studentRepository) PurgeClass(_ context.Context, classID int) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	for id, s := range repo.db.table {
		if s.ClassID.Valid && s.ClassID.Int == classID {
			delete(repo.db.table, id)
		}
	}
	return nil
}
