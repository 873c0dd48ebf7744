// Package messages maps core failures to the stable codes and user-facing
// Spanish messages shown by the storefront.
package messages

import (
	"errors"

	"github.com/rs/zerolog"

	"github.com/tiendademo/storefront/internal/core/domain"
)

// Code identifies a user-facing failure.
type Code string

const (
	InvalidCredentials Code = "CREDENCIALES_INVALIDAS"
	UserNotFound       Code = "USUARIO_NO_EXISTE"
	UserExists         Code = "USUARIO_EXISTE"
	WrongPassword      Code = "CLAVE_INCORRECTA"
	PasswordsDiffer    Code = "CLAVES_NO_COINCIDEN"
	InvalidCode        Code = "CODIGO_INVALIDO"
	InvalidFields      Code = "CAMPOS_INVALIDOS"
	Forbidden          Code = "ACCESO_DENEGADO"
	Unexpected         Code = "ERROR_INESPERADO"
)

var text = map[Code]string{
	InvalidCredentials: "Correo o contraseña incorrecta.",
	UserNotFound:       "No existe una cuenta registrada con este correo.",
	UserExists:         "Ya existe una cuenta registrada con este correo.",
	WrongPassword:      "La contraseña actual no es correcta.",
	PasswordsDiffer:    "Las contraseñas no coinciden.",
	InvalidCode:        "El código ingresado no es válido.",
	InvalidFields:      "Revisa los campos obligatorios.",
	Forbidden:          "No tienes permisos para acceder a esta sección.",
}

const fallback = "Ha ocurrido un error inesperado. Intenta nuevamente."

// ErrPasswordsDiffer is returned when a password and its confirmation differ.
var ErrPasswordsDiffer = errors.New("passwords do not match")

// ErrInvalidFields is returned when form input fails validation.
var ErrInvalidFields = errors.New("invalid fields")

// Message returns the text for code. Unknown codes get the generic message.
func Message(code Code) string {
	if msg, ok := text[code]; ok {
		return msg
	}
	return fallback
}

// Resolve classifies err. Unrecognised errors are logged and reported as Unexpected.
func Resolve(err error, log zerolog.Logger) Code {
	switch {
	case errors.Is(err, ErrInvalidFields):
		return InvalidFields
	case errors.Is(err, ErrPasswordsDiffer):
		return PasswordsDiffer
	}

	switch domain.ReasonOf(err) {
	case domain.ReasonInvalidCredentials:
		return InvalidCredentials
	case domain.ReasonUserNotFound:
		return UserNotFound
	case domain.ReasonUserExists:
		return UserExists
	case domain.ReasonWrongPassword:
		return WrongPassword
	case domain.ReasonInvalidCode:
		return InvalidCode
	case domain.ReasonForbidden:
		return Forbidden
	}

	log.Error().Err(err).Msg("unhandled error")
	return Unexpected
}

// Describe is Message(Resolve(err, log)).
func Describe(err error, log zerolog.Logger) string {
	return Message(Resolve(err, log))
}
