package repository

import (
	"context"

	"barberia/internal/model"

	"gorm.io/gorm"
)

type ServicioRepository interface {
	Create(ctx context.Context, s *model.Servicio) error
	FindByID(ctx context.Context, id uint) (*model.Servicio, error)
	List(ctx context.Context, soloActivos bool) ([]model.Servicio, error)
	Update(ctx context.Context, s *model.Servicio) error
	Delete(ctx context.Context, id uint) error
	ExisteNombre(ctx context.Context, nombre string, excluirID uint) (bool, error)
}

type servicioRepo struct{ db *gorm.DB }

func NewServicioRepository(db *gorm.DB) ServicioRepository { return &servicioRepo{db: db} }

func (r *servicioRepo) Create(ctx context.Context, s *model.Servicio) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *servicioRepo) FindByID(ctx context.Context, id uint) (*model.Servicio, error) {
	var s model.Servicio
	err := r.db.WithContext(ctx).First(&s, id).Error
	return &s, err
}

func (r *servicioRepo) List(ctx context.Context, soloActivos bool) ([]model.Servicio, error) {
	var servicios []model.Servicio
	q := r.db.WithContext(ctx).Order("id asc")
	if soloActivos {
		q = q.Where("estado = ?", model.ServicioActivo)
	}
	err := q.Find(&servicios).Error
	return servicios, err
}

func (r *servicioRepo) Update(ctx context.Context, s *model.Servicio) error {
	return r.db.WithContext(ctx).Save(s).Error
}

func (r *servicioRepo) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&model.Servicio{}, id).Error
}

func (r *servicioRepo) ExisteNombre(ctx context.Context, nombre string, excluirID uint) (bool, error) {
	return existe(ctx, r.db, &model.Servicio{}, "nombre", nombre, excluirID)
}
