package model

// Todos lists every persisted model in migration order.
func Todos() []any {
	return []any{
		&Rol{},
		&Cliente{},
		&ClienteTemporal{},
		&Empleado{},
		&Usuario{},
		&Servicio{},
		&Cita{},
		&Proveedor{},
		&Producto{},
		&Compra{},
		&CompraItem{},
		&Venta{},
		&VentaItem{},
		&Devolucion{},
	}
}
