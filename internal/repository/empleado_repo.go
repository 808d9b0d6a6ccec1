package repository

import (
	"context"

	"barberia/internal/model"

	"gorm.io/gorm"
)

type EmpleadoRepository interface {
	Create(ctx context.Context, e *model.Empleado) error
	FindByID(ctx context.Context, id uint) (*model.Empleado, error)
	List(ctx context.Context, incluirInactivos bool) ([]model.Empleado, error)
	Update(ctx context.Context, e *model.Empleado) error
	SetActivo(ctx context.Context, id uint, activo bool) error
	ExisteDocumento(ctx context.Context, documento string, excluirID uint) (bool, error)
	ExisteEmail(ctx context.Context, email string, excluirID uint) (bool, error)
}

type empleadoRepo struct{ db *gorm.DB }

func NewEmpleadoRepository(db *gorm.DB) EmpleadoRepository { return &empleadoRepo{db: db} }

func (r *empleadoRepo) Create(ctx context.Context, e *model.Empleado) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *empleadoRepo) FindByID(ctx context.Context, id uint) (*model.Empleado, error) {
	var e model.Empleado
	err := r.db.WithContext(ctx).First(&e, id).Error
	return &e, err
}

func (r *empleadoRepo) List(ctx context.Context, incluirInactivos bool) ([]model.Empleado, error) {
	var empleados []model.Empleado
	q := r.db.WithContext(ctx).Order("id asc")
	if !incluirInactivos {
		q = q.Where("activo = ?", true)
	}
	err := q.Find(&empleados).Error
	return empleados, err
}

func (r *empleadoRepo) Update(ctx context.Context, e *model.Empleado) error {
	return r.db.WithContext(ctx).Save(e).Error
}

func (r *empleadoRepo) SetActivo(ctx context.Context, id uint, activo bool) error {
	return r.db.WithContext(ctx).Model(&model.Empleado{}).Where("id = ?", id).Update("activo", activo).Error
}

func (r *empleadoRepo) ExisteDocumento(ctx context.Context, documento string, excluirID uint) (bool, error) {
	return existe(ctx, r.db, &model.Empleado{}, "documento", documento, excluirID)
}

func (r *empleadoRepo) ExisteEmail(ctx context.Context, email string, excluirID uint) (bool, error) {
	return existe(ctx, r.db, &model.Empleado{}, "email", email, excluirID)
}
