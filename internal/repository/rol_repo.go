package repository

import (
	"context"

	"barberia/internal/model"

	"gorm.io/gorm"
)

type RolRepository interface {
	Create(ctx context.Context, r *model.Rol) error
	FindByID(ctx context.Context, id uint) (*model.Rol, error)
	FindByNombre(ctx context.Context, nombre string) (*model.Rol, error)
	List(ctx context.Context) ([]model.Rol, error)
	Update(ctx context.Context, r *model.Rol) error
	Delete(ctx context.Context, id uint) error
	ExisteNombre(ctx context.Context, nombre string, excluirID uint) (bool, error)
	ContarUsuarios(ctx context.Context, rolID uint) (int64, error)
}

type rolRepo struct{ db *gorm.DB }

func NewRolRepository(db *gorm.DB) RolRepository { return &rolRepo{db: db} }

func (r *rolRepo) Create(ctx context.Context, rol *model.Rol) error {
	return r.db.WithContext(ctx).Create(rol).Error
}

func (r *rolRepo) FindByID(ctx context.Context, id uint) (*model.Rol, error) {
	var rol model.Rol
	err := r.db.WithContext(ctx).First(&rol, id).Error
	return &rol, err
}

func (r *rolRepo) FindByNombre(ctx context.Context, nombre string) (*model.Rol, error) {
	var rol model.Rol
	err := r.db.WithContext(ctx).Where("LOWER(nombre) = LOWER(?)", nombre).First(&rol).Error
	return &rol, err
}

func (r *rolRepo) List(ctx context.Context) ([]model.Rol, error) {
	var roles []model.Rol
	err := r.db.WithContext(ctx).Order("id asc").Find(&roles).Error
	return roles, err
}

func (r *rolRepo) Update(ctx context.Context, rol *model.Rol) error {
	return r.db.WithContext(ctx).Save(rol).Error
}

func (r *rolRepo) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&model.Rol{}, id).Error
}

func (r *rolRepo) ExisteNombre(ctx context.Context, nombre string, excluirID uint) (bool, error) {
	return existe(ctx, r.db, &model.Rol{}, "nombre", nombre, excluirID)
}

func (r *rolRepo) ContarUsuarios(ctx context.Context, rolID uint) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Usuario{}).Where("rol_id = ?", rolID).Count(&n).Error
	return n, err
}
