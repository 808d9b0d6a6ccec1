package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"
)

// Store aggregates every repository over one *gorm.DB. Services receive a
// Store instead of reaching for a global connection; EnTransaccion hands the
// callback a Store bound to a single transaction.
type Store struct {
	db *gorm.DB

	Roles        RolRepository
	Usuarios     UsuarioRepository
	Clientes     ClienteRepository
	Temporales   ClienteTemporalRepository
	Empleados    EmpleadoRepository
	Servicios    ServicioRepository
	Citas        CitaRepository
	Proveedores  ProveedorRepository
	Productos    ProductoRepository
	Compras      CompraRepository
	Ventas       VentaRepository
	Devoluciones DevolucionRepository
}

func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:           db,
		Roles:        NewRolRepository(db),
		Usuarios:     NewUsuarioRepository(db),
		Clientes:     NewClienteRepository(db),
		Temporales:   NewClienteTemporalRepository(db),
		Empleados:    NewEmpleadoRepository(db),
		Servicios:    NewServicioRepository(db),
		Citas:        NewCitaRepository(db),
		Proveedores:  NewProveedorRepository(db),
		Productos:    NewProductoRepository(db),
		Compras:      NewCompraRepository(db),
		Ventas:       NewVentaRepository(db),
		Devoluciones: NewDevolucionRepository(db),
	}
}

// DB exposes the underlying *gorm.DB (health checks, migrations).
func (s *Store) DB() *gorm.DB { return s.db }

// EnTransaccion runs fn inside one database transaction. Inside fn only the
// tx Store may be used.
func (s *Store) EnTransaccion(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}

// existe reports whether a row of m has columna equal to valor ignoring case,
// skipping the row whose id is excluirID (0 skips nothing).
func existe(ctx context.Context, db *gorm.DB, m any, columna, valor string, excluirID uint) (bool, error) {
	var n int64
	q := db.WithContext(ctx).Model(m).Where("LOWER("+columna+") = LOWER(?)", strings.TrimSpace(valor))
	if excluirID != 0 {
		q = q.Where("id <> ?", excluirID)
	}
	err := q.Count(&n).Error
	return n > 0, err
}
