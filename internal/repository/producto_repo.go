package repository

import (
	"context"

	"barberia/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProductoRepository defines the data access contract for retail products.
type ProductoRepository interface {
	Create(ctx context.Context, p *model.Producto) error
	FindByID(ctx context.Context, id uint) (*model.Producto, error)
	List(ctx context.Context, incluirInactivos bool) ([]model.Producto, error)
	Update(ctx context.Context, p *model.Producto) error
	SoftDelete(ctx context.Context, id uint) error
	Reactivar(ctx context.Context, id uint) error
	ExisteNombre(ctx context.Context, nombre string, excluirID uint) (bool, error)

	// AjustarStock adds delta to the product stock unless the result would be
	// negative. Returns false when the guard rejected the change.
	AjustarStock(ctx context.Context, id uint, delta int) (bool, error)
}

type productoRepo struct{ db *gorm.DB }

func NewProductoRepository(db *gorm.DB) ProductoRepository { return &productoRepo{db: db} }

func (r *productoRepo) Create(ctx context.Context, p *model.Producto) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(p).Error
}

func (r *productoRepo) FindByID(ctx context.Context, id uint) (*model.Producto, error) {
	var p model.Producto
	err := r.db.WithContext(ctx).First(&p, id).Error
	return &p, err
}

func (r *productoRepo) List(ctx context.Context, incluirInactivos bool) ([]model.Producto, error) {
	var productos []model.Producto
	q := r.db.WithContext(ctx).Order("id asc")
	if !incluirInactivos {
		q = q.Where("activo = ?", true)
	}
	err := q.Find(&productos).Error
	return productos, err
}

func (r *productoRepo) Update(ctx context.Context, p *model.Producto) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(p).Error
}

func (r *productoRepo) SoftDelete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Model(&model.Producto{}).Where("id = ?", id).Update("activo", false).Error
}

func (r *productoRepo) Reactivar(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Model(&model.Producto{}).Where("id = ?", id).Update("activo", true).Error
}

func (r *productoRepo) ExisteNombre(ctx context.Context, nombre string, excluirID uint) (bool, error) {
	return existe(ctx, r.db, &model.Producto{}, "nombre", nombre, excluirID)
}

func (r *productoRepo) AjustarStock(ctx context.Context, id uint, delta int) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.Producto{}).
		Where("id = ? AND stock + ? >= 0", id, delta).
		Update("stock", gorm.Expr("stock + ?", delta))
	return res.RowsAffected == 1, res.Error
}
