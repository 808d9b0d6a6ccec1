package repository

import (
	"context"

	"barberia/internal/model"

	"gorm.io/gorm"
)

type ClienteRepository interface {
	Create(ctx context.Context, c *model.Cliente) error
	FindByID(ctx context.Context, id uint) (*model.Cliente, error)
	FindByEmail(ctx context.Context, email string) (*model.Cliente, error)
	List(ctx context.Context) ([]model.Cliente, error)
	Update(ctx context.Context, c *model.Cliente) error
	Delete(ctx context.Context, id uint) error
	ExisteDocumento(ctx context.Context, documento string, excluirID uint) (bool, error)
	ExisteEmail(ctx context.Context, email string, excluirID uint) (bool, error)
	ContarCitas(ctx context.Context, id uint) (int64, error)
}

type clienteRepo struct{ db *gorm.DB }

func NewClienteRepository(db *gorm.DB) ClienteRepository { return &clienteRepo{db: db} }

func (r *clienteRepo) Create(ctx context.Context, c *model.Cliente) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *clienteRepo) FindByID(ctx context.Context, id uint) (*model.Cliente, error) {
	var c model.Cliente
	err := r.db.WithContext(ctx).First(&c, id).Error
	return &c, err
}

func (r *clienteRepo) FindByEmail(ctx context.Context, email string) (*model.Cliente, error) {
	var c model.Cliente
	err := r.db.WithContext(ctx).Where("LOWER(email) = LOWER(?)", email).First(&c).Error
	return &c, err
}

func (r *clienteRepo) List(ctx context.Context) ([]model.Cliente, error) {
	var clientes []model.Cliente
	err := r.db.WithContext(ctx).Order("id asc").Find(&clientes).Error
	return clientes, err
}

func (r *clienteRepo) Update(ctx context.Context, c *model.Cliente) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *clienteRepo) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&model.Cliente{}, id).Error
}

func (r *clienteRepo) ExisteDocumento(ctx context.Context, documento string, excluirID uint) (bool, error) {
	return existe(ctx, r.db, &model.Cliente{}, "documento", documento, excluirID)
}

func (r *clienteRepo) ExisteEmail(ctx context.Context, email string, excluirID uint) (bool, error) {
	return existe(ctx, r.db, &model.Cliente{}, "email", email, excluirID)
}

func (r *clienteRepo) ContarCitas(ctx context.Context, id uint) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Cita{}).Where("cliente_id = ?", id).Count(&n).Error
	return n, err
}
