package repository

import (
	"context"

	"barberia/internal/model"

	"gorm.io/gorm"
)

type VentaRepository interface {
	Create(ctx context.Context, v *model.Venta) error
	FindByID(ctx context.Context, id uint) (*model.Venta, error)
	FindItem(ctx context.Context, ventaID, itemID uint) (*model.VentaItem, error)
	List(ctx context.Context) ([]model.Venta, error)
	UpdateEstado(ctx context.Context, id uint, estado model.EstadoVenta) error
}

type ventaRepo struct{ db *gorm.DB }

func NewVentaRepository(db *gorm.DB) VentaRepository { return &ventaRepo{db: db} }

// Create inserts the sale together with its items.
func (r *ventaRepo) Create(ctx context.Context, v *model.Venta) error {
	return r.db.WithContext(ctx).Create(v).Error
}

func (r *ventaRepo) FindByID(ctx context.Context, id uint) (*model.Venta, error) {
	var v model.Venta
	err := r.db.WithContext(ctx).Preload("Items").Preload("Cliente").Preload("Empleado").First(&v, id).Error
	return &v, err
}

func (r *ventaRepo) FindItem(ctx context.Context, ventaID, itemID uint) (*model.VentaItem, error) {
	var it model.VentaItem
	err := r.db.WithContext(ctx).Where("venta_id = ? AND id = ?", ventaID, itemID).First(&it).Error
	return &it, err
}

func (r *ventaRepo) List(ctx context.Context) ([]model.Venta, error) {
	var ventas []model.Venta
	err := r.db.WithContext(ctx).Preload("Items").Preload("Cliente").Preload("Empleado").Order("id asc").Find(&ventas).Error
	return ventas, err
}

func (r *ventaRepo) UpdateEstado(ctx context.Context, id uint, estado model.EstadoVenta) error {
	return r.db.WithContext(ctx).Model(&model.Venta{}).Where("id = ?", id).Update("estado", estado).Error
}
