package messages

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/tiendademo/storefront/internal/core/domain"
)

func TestResolve_KnownErrors(t *testing.T) {
	cases := []struct {
		err  error
		want Code
	}{
		{domain.ErrInvalidCredentials, InvalidCredentials},
		{domain.ErrUserNotFound, UserNotFound},
		{domain.ErrUserExists, UserExists},
		{domain.ErrWrongPassword, WrongPassword},
		{domain.ErrInvalidCode, InvalidCode},
		{domain.ErrForbidden, Forbidden},
		{ErrPasswordsDiffer, PasswordsDiffer},
		{fmt.Errorf("register: %w", ErrInvalidFields), InvalidFields},
		{fmt.Errorf("reset: %w", domain.ErrInvalidCode), InvalidCode},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Resolve(tc.err, zerolog.Nop()), tc.err.Error())
	}
}

func TestResolve_UnexpectedIsLogged(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf)

	code := Resolve(errors.New("disk full"), log)

	assert.Equal(t, Unexpected, code)
	assert.Contains(t, buf.String(), "disk full")
}

func TestMessage(t *testing.T) {
	assert.Equal(t, "Correo o contraseña incorrecta.", Message(InvalidCredentials))
	assert.Equal(t, "El código ingresado no es válido.", Message(InvalidCode))
	assert.Equal(t, fallback, Message(Unexpected))
	assert.Equal(t, fallback, Message("OTRO"))
	assert.Equal(t, "La contraseña actual no es correcta.", Describe(domain.ErrWrongPassword, zerolog.Nop()))
}
