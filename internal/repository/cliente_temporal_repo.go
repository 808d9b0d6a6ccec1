package repository

import (
	"context"

	"barberia/internal/model"

	"gorm.io/gorm"
)

type ClienteTemporalRepository interface {
	Create(ctx context.Context, t *model.ClienteTemporal) error
	FindByID(ctx context.Context, id uint) (*model.ClienteTemporal, error)
	FindPendienteByEmail(ctx context.Context, email string) (*model.ClienteTemporal, error)
	List(ctx context.Context) ([]model.ClienteTemporal, error)
	Update(ctx context.Context, t *model.ClienteTemporal) error
	Delete(ctx context.Context, id uint) error
}

type clienteTemporalRepo struct{ db *gorm.DB }

func NewClienteTemporalRepository(db *gorm.DB) ClienteTemporalRepository {
	return &clienteTemporalRepo{db: db}
}

func (r *clienteTemporalRepo) Create(ctx context.Context, t *model.ClienteTemporal) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *clienteTemporalRepo) FindByID(ctx context.Context, id uint) (*model.ClienteTemporal, error) {
	var t model.ClienteTemporal
	err := r.db.WithContext(ctx).First(&t, id).Error
	return &t, err
}

func (r *clienteTemporalRepo) FindPendienteByEmail(ctx context.Context, email string) (*model.ClienteTemporal, error) {
	var t model.ClienteTemporal
	err := r.db.WithContext(ctx).
		Where("LOWER(email) = LOWER(?) AND estado = ?", email, model.TemporalPendiente).
		Order("id asc").
		First(&t).Error
	return &t, err
}

func (r *clienteTemporalRepo) List(ctx context.Context) ([]model.ClienteTemporal, error) {
	var ts []model.ClienteTemporal
	err := r.db.WithContext(ctx).Order("id asc").Find(&ts).Error
	return ts, err
}

func (r *clienteTemporalRepo) Update(ctx context.Context, t *model.ClienteTemporal) error {
	return r.db.WithContext(ctx).Save(t).Error
}

func (r *clienteTemporalRepo) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&model.ClienteTemporal{}, id).Error
}
