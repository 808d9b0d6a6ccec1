package repository

import (
	"context"

	"barberia/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DevolucionRepository interface {
	Create(ctx context.Context, d *model.Devolucion) error
	List(ctx context.Context) ([]model.Devolucion, error)
	// CantidadDevuelta sums the units already returned for a sale line.
	CantidadDevuelta(ctx context.Context, ventaItemID uint) (int, error)
}

type devolucionRepo struct{ db *gorm.DB }

func NewDevolucionRepository(db *gorm.DB) DevolucionRepository { return &devolucionRepo{db: db} }

func (r *devolucionRepo) Create(ctx context.Context, d *model.Devolucion) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(d).Error
}

func (r *devolucionRepo) List(ctx context.Context) ([]model.Devolucion, error) {
	var ds []model.Devolucion
	err := r.db.WithContext(ctx).Preload("Producto").Order("id asc").Find(&ds).Error
	return ds, err
}

func (r *devolucionRepo) CantidadDevuelta(ctx context.Context, ventaItemID uint) (int, error) {
	var n int
	err := r.db.WithContext(ctx).Model(&model.Devolucion{}).
		Where("venta_item_id = ?", ventaItemID).
		Select("COALESCE(SUM(cantidad), 0)").
		Scan(&n).Error
	return n, err
}
