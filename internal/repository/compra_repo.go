package repository

import (
	"context"

	"barberia/internal/model"

	"gorm.io/gorm"
)

type CompraRepository interface {
	Create(ctx context.Context, c *model.Compra) error
	FindByID(ctx context.Context, id uint) (*model.Compra, error)
	List(ctx context.Context) ([]model.Compra, error)
	UpdateEstado(ctx context.Context, id uint, estado model.EstadoCompra) error
}

type compraRepo struct{ db *gorm.DB }

func NewCompraRepository(db *gorm.DB) CompraRepository { return &compraRepo{db: db} }

// Create inserts the purchase together with its items.
func (r *compraRepo) Create(ctx context.Context, c *model.Compra) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *compraRepo) FindByID(ctx context.Context, id uint) (*model.Compra, error) {
	var c model.Compra
	err := r.db.WithContext(ctx).Preload("Proveedor").Preload("Items.Producto").First(&c, id).Error
	return &c, err
}

func (r *compraRepo) List(ctx context.Context) ([]model.Compra, error) {
	var compras []model.Compra
	err := r.db.WithContext(ctx).Preload("Proveedor").Preload("Items.Producto").Order("id asc").Find(&compras).Error
	return compras, err
}

func (r *compraRepo) UpdateEstado(ctx context.Context, id uint, estado model.EstadoCompra) error {
	return r.db.WithContext(ctx).Model(&model.Compra{}).Where("id = ?", id).Update("estado", estado).Error
}
