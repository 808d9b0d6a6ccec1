// Package busqueda implements the free-text filter used by every list screen.
// Matching is a lowercase substring test over a record's display fields; the
// appointment variant also expands the date into the formats people type.
package busqueda

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

var meses = [...]string{
	"enero", "febrero", "marzo", "abril", "mayo", "junio",
	"julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre",
}

// Normalizar lowercases and trims q.
func Normalizar(q string) string {
	return strings.ToLower(strings.TrimSpace(q))
}

// Coincide reports whether q is a substring of any campo. An empty query
// matches everything.
func Coincide(q string, campos ...string) bool {
	q = Normalizar(q)
	if q == "" {
		return true
	}
	for _, c := range campos {
		if strings.Contains(strings.ToLower(c), q) {
			return true
		}
	}
	return false
}

// CitaVista is the denormalized row shown in the appointment list.
type CitaVista struct {
	ID       uint
	Cliente  string
	Servicio string
	Empleado string
	Fecha    string // YYYY-MM-DD
	Hora     string // HH:MM
	Estado   string
	Notas    string
}

// Campos returns every searchable string for v, date variants included.
func (v CitaVista) Campos() []string {
	id := strconv.FormatUint(uint64(v.ID), 10)
	campos := []string{id, "#" + id, v.Cliente, v.Servicio, v.Empleado, v.Hora, v.Estado, v.Notas}
	return append(campos, VariantesFecha(v.Fecha)...)
}

// CoincideCita reports whether q matches the appointment row.
func CoincideCita(q string, v CitaVista) bool {
	return Coincide(q, v.Campos()...)
}

// FiltrarCitas keeps the rows matching q, preserving order.
func FiltrarCitas(q string, vistas []CitaVista) []CitaVista {
	return Filtrar(q, vistas, CitaVista.Campos)
}

// Filtrar keeps the items whose campos match q, preserving order.
func Filtrar[T any](q string, items []T, campos func(T) []string) []T {
	if Normalizar(q) == "" {
		return items
	}
	out := make([]T, 0, len(items))
	for _, it := range items {
		if Coincide(q, campos(it)...) {
			out = append(out, it)
		}
	}
	return out
}

// VariantesFecha expands an ISO date into the formats a user might search
// with. An unparseable date yields just itself.
func VariantesFecha(fecha string) []string {
	t, err := time.Parse("2006-01-02", fecha)
	if err != nil {
		return []string{fecha}
	}
	d, m, y := t.Day(), int(t.Month()), t.Year()
	mes := meses[m-1]
	corto := mes[:3]
	return []string{
		fecha,
		fmt.Sprintf("%02d/%02d/%d", d, m, y),
		fmt.Sprintf("%d/%d/%d", d, m, y),
		fmt.Sprintf("%d de %s de %d", d, mes, y),
		fmt.Sprintf("%d %s %d", d, corto, y),
		mes,
		corto,
		strconv.Itoa(d),
		fmt.Sprintf("%02d", d),
		strconv.Itoa(m),
		fmt.Sprintf("%02d", m),
	}
}
