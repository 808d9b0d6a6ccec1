package acceso

// Actor is the authenticated user performing an operation. It is read from
// the access token and never mutated by the services.
type Actor struct {
	UsuarioID uint
	Email     string
	Rol       string
	// ClienteID links a client account to its client record; nil for staff
	// and for accounts created before the link existed.
	ClienteID *uint
}

// EsCliente reports whether the actor holds the client role.
func (a Actor) EsCliente() bool {
	return EsRolCliente(a.Rol)
}

// Visibles narrows items to what actor may see. Staff actors see everything.
// A client actor sees only items whose owner equals clienteID; with no
// resolved client record the result is empty. Order is preserved.
func Visibles[T any](actor Actor, clienteID *uint, items []T, duenio func(T) (uint, bool)) []T {
	if !actor.EsCliente() {
		return items
	}
	out := make([]T, 0)
	if clienteID == nil {
		return out
	}
	for _, it := range items {
		if id, ok := duenio(it); ok && id == *clienteID {
			out = append(out, it)
		}
	}
	return out
}
