package service_test

import (
	"testing"

	"barberia/internal/acceso"
	"barberia/internal/dto"
	"barberia/internal/model"
	"barberia/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rolPorNombre(t *testing.T, e *entorno, nombre string) *model.Rol {
	t.Helper()
	r, err := e.store.Roles.FindByNombre(e.ctx, nombre)
	require.NoError(t, err)
	return r
}

func TestRol_AdministradorInmutable(t *testing.T) {
	e := nuevoEntorno(t)
	svc := service.NewRolService(e.store, e.reg, e.sink)
	adminRol := rolPorNombre(t, e, acceso.RolAdministrador)

	_, err := svc.Actualizar(e.ctx, admin, adminRol.ID, dto.ActualizarRolRequest{Nombre: strPtr("Superusuario")})
	assert.ErrorIs(t, err, service.ErrRolProtegido)

	_, err = svc.Actualizar(e.ctx, admin, adminRol.ID, dto.ActualizarRolRequest{
		Permisos: acceso.Permisos{acceso.ModuloCitas: {acceso.OpLeer}},
	})
	assert.ErrorIs(t, err, service.ErrRolProtegido)

	_, err = svc.CambiarEstado(e.ctx, admin, adminRol.ID, false)
	assert.ErrorIs(t, err, service.ErrRolProtegido)
	assert.ErrorIs(t, err, service.ErrConflicto)

	assert.ErrorIs(t, svc.Eliminar(e.ctx, admin, adminRol.ID), service.ErrRolProtegido)

	// the description is the only editable field
	resp, err := svc.Actualizar(e.ctx, admin, adminRol.ID, dto.ActualizarRolRequest{Descripcion: strPtr("Acceso total")})
	require.NoError(t, err)
	assert.True(t, resp.Protegido)
	assert.Equal(t, "Acceso total", *resp.Descripcion)

	got := rolPorNombre(t, e, acceso.RolAdministrador)
	assert.True(t, got.Activo)
	assert.Equal(t, acceso.RolAdministrador, got.Nombre)
}

func TestRol_NombreAdministradorReservado(t *testing.T) {
	e := nuevoEntorno(t)
	svc := service.NewRolService(e.store, e.reg, e.sink)

	_, err := svc.Crear(e.ctx, admin, dto.CrearRolRequest{Nombre: "administrador"})
	var verr *service.ValidacionError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Campos, "nombre")

	barberoRol := rolPorNombre(t, e, acceso.RolBarbero)
	_, err = svc.Actualizar(e.ctx, admin, barberoRol.ID, dto.ActualizarRolRequest{Nombre: strPtr("ADMINISTRADOR")})
	require.ErrorAs(t, err, &verr)
}

func TestRol_NombreUnicoSinDistinguirMayusculas(t *testing.T) {
	e := nuevoEntorno(t)
	svc := service.NewRolService(e.store, e.reg, e.sink)

	_, err := svc.Crear(e.ctx, admin, dto.CrearRolRequest{Nombre: "Auxiliar"})
	require.NoError(t, err)
	_, err = svc.Crear(e.ctx, admin, dto.CrearRolRequest{Nombre: " auxiliar "})
	var verr *service.ValidacionError
	require.ErrorAs(t, err, &verr)
}

func TestRol_PermisosDesconocidos(t *testing.T) {
	e := nuevoEntorno(t)
	svc := service.NewRolService(e.store, e.reg, e.sink)

	_, err := svc.Crear(e.ctx, admin, dto.CrearRolRequest{
		Nombre:   "Auxiliar",
		Permisos: acceso.Permisos{"landing": {acceso.OpLeer}},
	})
	var verr *service.ValidacionError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Campos, "permisos")
}

func TestRol_CambiosRecarganRegistro(t *testing.T) {
	e := nuevoEntorno(t)
	svc := service.NewRolService(e.store, e.reg, e.sink)

	rol, err := svc.Crear(e.ctx, admin, dto.CrearRolRequest{
		Nombre:   "Auxiliar",
		Permisos: acceso.Permisos{acceso.ModuloProductos: {acceso.OpLeer}},
	})
	require.NoError(t, err)
	assert.True(t, e.reg.PuedeVer("Auxiliar", acceso.ModuloProductos))

	_, err = svc.CambiarEstado(e.ctx, admin, rol.ID, false)
	require.NoError(t, err)
	assert.False(t, e.reg.PuedeVer("Auxiliar", acceso.ModuloProductos))

	_, err = svc.CambiarEstado(e.ctx, admin, rol.ID, true)
	require.NoError(t, err)
	_, err = svc.Actualizar(e.ctx, admin, rol.ID, dto.ActualizarRolRequest{
		Permisos: acceso.Permisos{acceso.ModuloCompras: {acceso.OpLeer}},
	})
	require.NoError(t, err)
	assert.False(t, e.reg.PuedeVer("Auxiliar", acceso.ModuloProductos))
	assert.True(t, e.reg.PuedeVer("Auxiliar", acceso.ModuloCompras))

	require.NoError(t, svc.Eliminar(e.ctx, admin, rol.ID))
	assert.False(t, e.reg.PuedeVer("Auxiliar", acceso.ModuloCompras))
}

func TestRol_EliminarRestricciones(t *testing.T) {
	e := nuevoEntorno(t)
	svc := service.NewRolService(e.store, e.reg, e.sink)

	clienteRol := rolPorNombre(t, e, acceso.RolCliente)
	assert.ErrorIs(t, svc.Eliminar(e.ctx, admin, clienteRol.ID), service.ErrConflicto)

	barberoRol := rolPorNombre(t, e, acceso.RolBarbero)
	require.NoError(t, e.store.Usuarios.Create(e.ctx, &model.Usuario{
		Nombre: "Pedro", Email: "pedro@barberia.test", PasswordHash: "x", RolID: barberoRol.ID, Activo: true,
	}))
	assert.ErrorIs(t, svc.Eliminar(e.ctx, admin, barberoRol.ID), service.ErrConflicto)
}

func TestRol_SoloQuienTieneElModulo(t *testing.T) {
	e := nuevoEntorno(t)
	svc := service.NewRolService(e.store, e.reg, e.sink)

	_, err := svc.Listar(e.ctx, recepcionista)
	assert.ErrorIs(t, err, service.ErrAccesoDenegado)

	roles, err := svc.Listar(e.ctx, admin)
	require.NoError(t, err)
	assert.Len(t, roles, 4)
}

func TestRol_ClienteNoAmpliaSusPermisos(t *testing.T) {
	e := nuevoEntorno(t)
	svc := service.NewRolService(e.store, e.reg, e.sink)
	clienteRol := rolPorNombre(t, e, acceso.RolCliente)

	_, err := svc.Actualizar(e.ctx, admin, clienteRol.ID, dto.ActualizarRolRequest{
		Permisos: acceso.Permisos{
			acceso.ModuloCitas:    {acceso.OpCrear, acceso.OpLeer},
			acceso.ModuloClientes: {acceso.OpLeer},
		},
	})
	var verr *service.ValidacionError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Campos, "permisos")

	_, err = svc.Actualizar(e.ctx, admin, clienteRol.ID, dto.ActualizarRolRequest{Nombre: strPtr("Socio")})
	assert.ErrorIs(t, err, service.ErrConflicto)

	// narrowing stays allowed
	resp, err := svc.Actualizar(e.ctx, admin, clienteRol.ID, dto.ActualizarRolRequest{
		Permisos: acceso.Permisos{acceso.ModuloCitas: {acceso.OpLeer}},
	})
	require.NoError(t, err)
	assert.Equal(t, acceso.Permisos{acceso.ModuloCitas: {acceso.OpLeer}}, resp.Permisos)
	assert.False(t, e.reg.Permite(acceso.RolCliente, acceso.ModuloCitas, acceso.OpCrear))
}

// A stored Cliente role that grants more than the cap (older data) must still
// not let a client read other clients' records.
func TestRol_ClienteConPermisosGuardadosDeMas(t *testing.T) {
	e := nuevoEntorno(t)
	clienteRol := rolPorNombre(t, e, acceso.RolCliente)
	clienteRol.Permisos = acceso.Permisos{
		acceso.ModuloCitas:    {acceso.OpCrear, acceso.OpLeer},
		acceso.ModuloClientes: {acceso.OpLeer, acceso.OpEliminar},
		acceso.ModuloVentas:   {acceso.OpLeer},
	}
	require.NoError(t, e.store.Roles.Update(e.ctx, clienteRol))
	require.NoError(t, service.CargarRegistro(e.ctx, e.store, e.reg))

	ana := e.cliente(t, "Ana", "ana@mail.test")
	beto := e.cliente(t, "Beto", "beto@mail.test")
	actor := clienteActor(ana.ID, "ana@mail.test")

	clientes := service.NewClienteService(e.store, e.reg, e.sink)
	_, err := clientes.Listar(e.ctx, actor, "")
	assert.ErrorIs(t, err, service.ErrAccesoDenegado)
	assert.ErrorIs(t, clientes.Eliminar(e.ctx, actor, beto.ID), service.ErrAccesoDenegado)

	ventas := service.NewVentaService(e.store, e.reg, e.sink, nil, "Barberia", t.TempDir())
	_, err = ventas.Listar(e.ctx, actor, dto.VentaFilter{})
	assert.ErrorIs(t, err, service.ErrAccesoDenegado)
}
