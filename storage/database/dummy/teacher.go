package dummydb

import (
	"context"
	"sort"

	"github.com/trezcool/duka/core/teacher"
)

type teacherRepository struct {
	db *teacherTable
}

var _ teacher.Repository = (*teacherRepository)(nil) // interface compliance check

func NewTeacherRepository(db *DB) teacher.Repository {
	return &teacherRepository{db: db.teacher}
}

func (repo *teacherRepository) CheckTeacherCodeUniqueness(_ context.Context, code string) error {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, t := range repo.db.table {
		if t.Code == code {
			return teacher.ErrCodeExists
		}
	}
	return nil
}

func (repo *teacherRepository) CreateTeacher(_ context.Context, tchr teacher.Teacher) (teacher.Teacher, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.pk++
	tchr.ID = repo.db.pk
	repo.db.table[tchr.ID] = &tchr
	return tchr, nil
}

func (repo *teacherRepository) QueryAllTeachers(_ context.Context) ([]teacher.Teacher, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	teachers := make([]teacher.Teacher, 0, len(repo.db.table))
	for _, t := range repo.db.table {
		teachers = append(teachers, *t)
	}
	sort.Slice(teachers, func(i, j int) bool { return teachers[i].ID < teachers[j].ID })
	return teachers, nil
}

func (repo *teacherRepository) GetTeacherByCode(_ context.Context, code string) (teacher.Teacher, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, t := range repo.db.table {
		if t.Code == code {
			return *t, nil
		}
	}
	return teacher.Teacher{}, teacher.ErrNotFound
}

func (repo *teacherRepository) DeleteTeacherByID(_ context.Context, id int) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[id]; !ok {
		return teacher.ErrNotFound
	}
	delete(repo.db.table, id)
	return nil
}

func (repo *teacherRepository) PurgeClass(_ context.Context, classID int) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	for id, t := range repo.db.table {
		if t.ClassID.Valid && t.ClassID.Int == classID {
			delete(repo.db.table, id)
		}
	}
	return nil
}
