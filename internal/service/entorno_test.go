package service_test

import (
	"context"
	"testing"

	"barberia/internal/acceso"
	"barberia/internal/infra"
	"barberia/internal/model"
	"barberia/internal/notificacion"
	"barberia/internal/repository"
	"barberia/internal/service"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// entorno is an in-memory SQLite database with the built-in roles seeded and
// the registry loaded from them.
type entorno struct {
	ctx   context.Context
	store *repository.Store
	reg   *acceso.Registro
	sink  *notificacion.Memoria
}

func nuevoEntorno(t *testing.T) *entorno {
	t.Helper()
	db, err := infra.NewDatabase("sqlite", ":memory:")
	require.NoError(t, err)
	require.NoError(t, infra.RunMigrations(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	ctx := context.Background()
	store := repository.NewStore(db)
	require.NoError(t, service.SembrarRoles(ctx, store))
	reg := acceso.NuevoRegistro(nil)
	require.NoError(t, service.CargarRegistro(ctx, store, reg))
	return &entorno{ctx: ctx, store: store, reg: reg, sink: &notificacion.Memoria{}}
}

var (
	admin         = acceso.Actor{UsuarioID: 1, Email: "admin@barberia.test", Rol: acceso.RolAdministrador}
	barbero       = acceso.Actor{UsuarioID: 2, Email: "barbero@barberia.test", Rol: acceso.RolBarbero}
	recepcionista = acceso.Actor{UsuarioID: 3, Email: "recepcion@barberia.test", Rol: acceso.RolRecepcionista}
)

func clienteActor(id uint, email string) acceso.Actor {
	return acceso.Actor{UsuarioID: 100 + id, Email: email, Rol: acceso.RolCliente, ClienteID: &id}
}

func (e *entorno) servicio(t *testing.T, nombre string) *model.Servicio {
	t.Helper()
	s := &model.Servicio{
		Nombre:          nombre,
		Precio:          decimal.RequireFromString("25.00"),
		DuracionMinutos: 30,
		Estado:          model.ServicioActivo,
	}
	require.NoError(t, e.store.Servicios.Create(e.ctx, s))
	return s
}

func (e *entorno) empleado(t *testing.T, nombre, documento string) *model.Empleado {
	t.Helper()
	emp := &model.Empleado{Nombre: nombre, Apellido: "Barbero", Documento: documento, Activo: true}
	require.NoError(t, e.store.Empleados.Create(e.ctx, emp))
	return emp
}

func (e *entorno) cliente(t *testing.T, nombre, email string) *model.Cliente {
	t.Helper()
	c := &model.Cliente{Nombre: nombre, Apellido: "Cliente", Email: &email, Activo: true}
	require.NoError(t, e.store.Clientes.Create(e.ctx, c))
	return c
}

func (e *entorno) producto(t *testing.T, nombre string, stock int) *model.Producto {
	t.Helper()
	p := &model.Producto{
		Nombre:      nombre,
		PrecioCosto: decimal.RequireFromString("4.00"),
		PrecioVenta: decimal.RequireFromString("10.00"),
		StockMinimo: 2,
		Activo:      true,
	}
	require.NoError(t, e.store.Productos.Create(e.ctx, p))
	if stock > 0 {
		ok, err := e.store.Productos.AjustarStock(e.ctx, p.ID, stock)
		require.NoError(t, err)
		require.True(t, ok)
		p.Stock = stock
	}
	return p
}

func uintPtr(v uint) *uint    { return &v }
func strPtr(s string) *string { return &s }
