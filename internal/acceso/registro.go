// Package acceso holds the role registry: which modules each role may see and
// which operations it may perform on them, plus the record-level visibility
// rule applied to client actors.
package acceso

import (
	"fmt"
	"slices"
	"strings"
	"sync"
)

// Modulo is a functional area of the console and the unit of role-based visibility.
type Modulo string

const (
	ModuloServicios    Modulo = "servicios"
	ModuloCitas        Modulo = "citas"
	ModuloEmpleados    Modulo = "empleados"
	ModuloClientes     Modulo = "clientes"
	ModuloProveedores  Modulo = "proveedores"
	ModuloProductos    Modulo = "productos"
	ModuloCompras      Modulo = "compras"
	ModuloVentas       Modulo = "ventas"
	ModuloDevoluciones Modulo = "devoluciones"
	ModuloRoles        Modulo = "roles"
	ModuloUsuarios     Modulo = "usuarios"
)

// Modulos lists every module in menu order.
var Modulos = []Modulo{
	ModuloCitas,
	ModuloServicios,
	ModuloClientes,
	ModuloEmpleados,
	ModuloProveedores,
	ModuloProductos,
	ModuloCompras,
	ModuloVentas,
	ModuloDevoluciones,
	ModuloRoles,
	ModuloUsuarios,
}

// Operacion is one of the CRUD verbs a role may be granted on a module.
type Operacion string

const (
	OpCrear      Operacion = "crear"
	OpLeer       Operacion = "leer"
	OpActualizar Operacion = "actualizar"
	OpEliminar   Operacion = "eliminar"
)

var operaciones = []Operacion{OpCrear, OpLeer, OpActualizar, OpEliminar}

// Built-in role names.
const (
	RolAdministrador = "Administrador"
	RolBarbero       = "Barbero"
	RolRecepcionista = "Recepcionista"
	RolCliente       = "Cliente"
)

// Permisos maps a module to the operations granted on it.
type Permisos map[Modulo][]Operacion

// Tiene reports whether op is granted on m.
func (p Permisos) Tiene(m Modulo, op Operacion) bool {
	return slices.Contains(p[m], op)
}

// Validar rejects unknown modules and operations.
func (p Permisos) Validar() error {
	for m, ops := range p {
		if !slices.Contains(Modulos, m) {
			return fmt.Errorf("modulo desconocido: %s", m)
		}
		for _, op := range ops {
			if !slices.Contains(operaciones, op) {
				return fmt.Errorf("operacion desconocida en %s: %s", m, op)
			}
		}
	}
	return nil
}

// PermisosCompletos grants every operation on every module.
func PermisosCompletos() Permisos {
	p := make(Permisos, len(Modulos))
	for _, m := range Modulos {
		p[m] = slices.Clone(operaciones)
	}
	return p
}

// PermisosPorDefecto is the static allow-list used to seed the built-in roles.
var PermisosPorDefecto = map[string]Permisos{
	RolAdministrador: PermisosCompletos(),
	RolBarbero: {
		ModuloCitas:     {OpCrear, OpLeer, OpActualizar, OpEliminar},
		ModuloServicios: {OpLeer},
		ModuloClientes:  {OpCrear, OpLeer, OpActualizar},
		ModuloProductos: {OpLeer},
		ModuloVentas:    {OpCrear, OpLeer},
	},
	RolRecepcionista: {
		ModuloCitas:        {OpCrear, OpLeer, OpActualizar, OpEliminar},
		ModuloServicios:    {OpLeer},
		ModuloClientes:     {OpCrear, OpLeer, OpActualizar, OpEliminar},
		ModuloEmpleados:    {OpLeer},
		ModuloProductos:    {OpLeer},
		ModuloVentas:       {OpCrear, OpLeer},
		ModuloDevoluciones: {OpCrear, OpLeer},
	},
	RolCliente: {
		ModuloCitas:     {OpCrear, OpLeer},
		ModuloServicios: {OpLeer},
	},
}

// PermisosMaximosCliente bounds what the client role can ever be granted.
// Every other module holds records of other clients.
var PermisosMaximosCliente = Permisos{
	ModuloCitas:     {OpCrear, OpLeer},
	ModuloServicios: {OpLeer},
}

// FueraDe returns the first grant in p that tope does not include.
func (p Permisos) FueraDe(tope Permisos) (Modulo, Operacion, bool) {
	for _, m := range Modulos {
		for _, op := range p[m] {
			if !tope.Tiene(m, op) {
				return m, op, true
			}
		}
	}
	return "", "", false
}

// EsRolProtegido reports whether nombre is the administrator role, which can
// never be renamed, deactivated or deleted.
func EsRolProtegido(nombre string) bool {
	return strings.EqualFold(strings.TrimSpace(nombre), RolAdministrador)
}

// EsRolCliente reports whether nombre is the client role.
func EsRolCliente(nombre string) bool {
	return strings.EqualFold(strings.TrimSpace(nombre), RolCliente)
}

// DefinicionRol is the registry's view of a stored role.
type DefinicionRol struct {
	Nombre   string
	Permisos Permisos
	Activo   bool
}

// DefinicionesPorDefecto returns the built-in roles, all active.
func DefinicionesPorDefecto() []DefinicionRol {
	nombres := []string{RolAdministrador, RolBarbero, RolRecepcionista, RolCliente}
	defs := make([]DefinicionRol, 0, len(nombres))
	for _, n := range nombres {
		defs = append(defs, DefinicionRol{Nombre: n, Permisos: PermisosPorDefecto[n], Activo: true})
	}
	return defs
}

// Registro answers permission questions by role name. It is safe for
// concurrent use and can be reloaded when roles change.
type Registro struct {
	mu    sync.RWMutex
	roles map[string]DefinicionRol
}

func NuevoRegistro(defs []DefinicionRol) *Registro {
	r := &Registro{}
	r.Recargar(defs)
	return r
}

// Recargar replaces the registry contents.
func (r *Registro) Recargar(defs []DefinicionRol) {
	roles := make(map[string]DefinicionRol, len(defs))
	for _, d := range defs {
		roles[clave(d.Nombre)] = d
	}
	r.mu.Lock()
	r.roles = roles
	r.mu.Unlock()
}

// Permite reports whether rol may perform op on m. The administrator is always
// allowed; unknown or inactive roles never are. The client role never goes
// beyond PermisosMaximosCliente, whatever is stored for it.
func (r *Registro) Permite(rol string, m Modulo, op Operacion) bool {
	if EsRolProtegido(rol) {
		return true
	}
	r.mu.RLock()
	def, ok := r.roles[clave(rol)]
	r.mu.RUnlock()
	if !ok || !def.Activo {
		return false
	}
	if EsRolCliente(rol) && !PermisosMaximosCliente.Tiene(m, op) {
		return false
	}
	return def.Permisos.Tiene(m, op)
}

// PuedeVer reports whether rol may read m.
func (r *Registro) PuedeVer(rol string, m Modulo) bool {
	return r.Permite(rol, m, OpLeer)
}

// Menu returns the modules rol can see, in menu order.
func (r *Registro) Menu(rol string) []Modulo {
	menu := make([]Modulo, 0, len(Modulos))
	for _, m := range Modulos {
		if r.PuedeVer(rol, m) {
			menu = append(menu, m)
		}
	}
	return menu
}

func clave(nombre string) string {
	return strings.ToLower(strings.TrimSpace(nombre))
}
