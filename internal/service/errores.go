package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"barberia/internal/validacion"

	"gorm.io/gorm"
)

// Error taxonomy shared by every service. Handlers map these to HTTP statuses.
var (
	ErrAccesoDenegado      = errors.New("no tiene permiso para realizar esta operacion")
	ErrClienteNoEncontrado = errors.New("la cuenta no tiene un cliente asociado")
	ErrNoEncontrado        = errors.New("registro no encontrado")
	ErrConflicto           = errors.New("la operacion entra en conflicto con el estado actual")
	ErrCredenciales        = errors.New("credenciales invalidas")

	ErrRolProtegido = errNegocio{base: ErrConflicto, msg: "el rol Administrador no puede modificarse ni eliminarse"}
)

// errNegocio carries a user-facing message while matching its base error with
// errors.Is.
type errNegocio struct {
	base error
	msg  string
}

func (e errNegocio) Error() string { return e.msg }
func (e errNegocio) Unwrap() error { return e.base }

func conflicto(format string, args ...any) error {
	return errNegocio{base: ErrConflicto, msg: fmt.Sprintf(format, args...)}
}

func denegado(format string, args ...any) error {
	return errNegocio{base: ErrAccesoDenegado, msg: fmt.Sprintf(format, args...)}
}

// noEncontrado maps gorm's not-found to ErrNoEncontrado with msg; other
// errors pass through.
func noEncontrado(msg string, err error) error {
	if esNoEncontrado(err) {
		return errNegocio{base: ErrNoEncontrado, msg: msg}
	}
	return err
}

func esNoEncontrado(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// ValidacionError reports invalid fields as field → message.
type ValidacionError struct {
	Campos map[string]string
}

func (e *ValidacionError) Error() string {
	partes := make([]string, 0, len(e.Campos))
	for campo, msg := range e.Campos {
		partes = append(partes, campo+": "+msg)
	}
	sort.Strings(partes)
	return "validacion: " + strings.Join(partes, "; ")
}

func invalido(campo, msg string) *ValidacionError {
	return &ValidacionError{Campos: map[string]string{campo: msg}}
}

// validar runs the struct tags of req.
func validar(req any) error {
	err := validacion.Struct(req)
	if err == nil {
		return nil
	}
	if campos := validacion.Campos(err); campos != nil {
		return &ValidacionError{Campos: campos}
	}
	return err
}

// duplicado turns a unique-index violation into a conflict.
func duplicado(err error, msg string) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return conflicto("%s", msg)
	}
	return err
}
