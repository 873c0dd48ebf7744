package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tiendademo/storefront/internal/core/domain"
)

type harness struct {
	t   *testing.T
	app *App
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	app, err := NewMemoryApp(context.Background(), zerolog.Nop())
	require.NoError(t, err)
	return &harness{t: t, app: app}
}

func (h *harness) run(args ...string) (stdout, stderr string, code int) {
	h.t.Helper()
	var out, errOut bytes.Buffer
	build := func(context.Context) (*App, error) { return h.app, nil }
	code = Run(context.Background(), args, &out, &errOut, build, zerolog.Nop())
	return out.String(), errOut.String(), code
}

func (h *harness) mustRun(args ...string) string {
	h.t.Helper()
	out, errOut, code := h.run(args...)
	require.Equal(h.t, 0, code, "stderr: %s", errOut)
	return out
}

func registerArgs(email, password string) []string {
	return []string{
		"users", "register",
		"--name", "Camila Rojas",
		"--handle", "camila",
		"--email", email,
		"--password", password,
		"--confirm", password,
		"--birth-date", "1995-05-20",
		"--address", "Av. Siempre Viva 742",
	}
}

func TestRegisterLoginWhoAmI(t *testing.T) {
	h := newHarness(t)

	out := h.mustRun(registerArgs(" Camila@Shop.cl ", "Secret1!")...)
	assert.Contains(t, out, "camila@shop.cl")

	out = h.mustRun("session", "login", "--email", "CAMILA@shop.cl", "--password", "Secret1!")
	assert.Contains(t, out, "Bienvenido, Camila Rojas (customer)")

	out = h.mustRun("session", "whoami")
	assert.Contains(t, out, "camila@shop.cl")
	assert.Contains(t, out, "Av. Siempre Viva 742")

	h.mustRun("session", "logout")
	out = h.mustRun("session", "whoami")
	assert.Contains(t, out, "No hay sesión activa.")
}

func TestRegister_Failures(t *testing.T) {
	h := newHarness(t)
	h.mustRun(registerArgs("ana@shop.cl", "Secret1!")...)

	_, errOut, code := h.run(registerArgs("ana@shop.cl", "Secret1!")...)
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "Ya existe una cuenta registrada con este correo.")

	_, errOut, code = h.run(registerArgs("bea@shop.cl", "weakpass")...)
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "Revisa los campos obligatorios.")
	assert.Contains(t, errOut, "uppercase")

	args := registerArgs("bea@shop.cl", "Secret1!")
	args[11] = "Secret2!" // --confirm value
	_, errOut, code = h.run(args...)
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "Las contraseñas no coinciden.")
}

func TestLogin_WrongPassword(t *testing.T) {
	h := newHarness(t)

	_, errOut, code := h.run("session", "login", "--email", domain.DefaultAdminEmail, "--password", "nope")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "Correo o contraseña incorrecta.")
	assert.Nil(t, h.app.Session.CurrentUser())
}

func TestUnknownFlagIsInvalidInput(t *testing.T) {
	h := newHarness(t)

	_, errOut, code := h.run("session", "login", "--nope")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "Revisa los campos obligatorios.")
}

func TestAdminCommands_RequireAdmin(t *testing.T) {
	h := newHarness(t)
	h.mustRun(registerArgs("ana@shop.cl", "Secret1!")...)

	_, errOut, code := h.run("users", "list")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "No tienes permisos")

	h.mustRun("session", "login", "--email", "ana@shop.cl", "--password", "Secret1!")
	_, _, code = h.run("users", "toggle", "ana@shop.cl")
	assert.Equal(t, 1, code)
}

func TestAdminCommands_ListAndStatus(t *testing.T) {
	h := newHarness(t)
	h.mustRun(registerArgs("ana@shop.cl", "Secret1!")...)
	h.mustRun("session", "login", "--email", domain.DefaultAdminEmail, "--password", domain.DefaultAdminPassword)

	out := h.mustRun("users", "list")
	assert.Contains(t, out, domain.DefaultAdminEmail)
	assert.Contains(t, out, "ana@shop.cl")

	out = h.mustRun("users", "list", "--role", "customer")
	assert.NotContains(t, out, domain.DefaultAdminEmail)
	assert.Contains(t, out, "ana@shop.cl")

	out = h.mustRun("users", "toggle", "ana@shop.cl")
	assert.Contains(t, out, "inactiva")

	out = h.mustRun("users", "list", "--status", "inactive")
	assert.Contains(t, out, "ana@shop.cl")
	assert.NotContains(t, out, domain.DefaultAdminEmail)

	h.mustRun("users", "set-status", "ana@shop.cl", "active")
	u, err := h.app.Directory.FindByEmail(context.Background(), "ana@shop.cl")
	require.NoError(t, err)
	assert.True(t, u.IsActive())

	_, errOut, code := h.run("users", "set-status", "ghost@shop.cl", "active")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "No existe una cuenta registrada con este correo.")
}

func TestProfileAndPasswd(t *testing.T) {
	h := newHarness(t)
	h.mustRun(registerArgs("ana@shop.cl", "Secret1!")...)

	_, errOut, code := h.run("session", "profile", "--handle", "anita")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "No tienes permisos")

	h.mustRun("session", "login", "--email", "ana@shop.cl", "--password", "Secret1!")
	h.mustRun("session", "profile", "--handle", "anita", "--address", "")

	me := h.app.Session.CurrentUser()
	require.NotNil(t, me)
	assert.Equal(t, "anita", me.Handle)
	assert.Equal(t, "Camila Rojas", me.FullName)
	require.NotNil(t, me.Address)
	assert.Empty(t, *me.Address)

	_, errOut, code = h.run("session", "passwd", "--current", "wrong", "--new", "Nuevo123", "--confirm", "Nuevo123")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "La contraseña actual no es correcta.")

	h.mustRun("session", "passwd", "--current", "Secret1!", "--new", "Nuevo123", "--confirm", "Nuevo123")
	h.mustRun("session", "logout")
	h.mustRun("session", "login", "--email", "ana@shop.cl", "--password", "Nuevo123")
}

func TestRecoverFlow(t *testing.T) {
	h := newHarness(t)
	h.mustRun(registerArgs("ana@shop.cl", "Secret1!")...)

	_, errOut, code := h.run("recover", "request", "--email", "ghost@shop.cl")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "No existe una cuenta registrada con este correo.")

	out := h.mustRun("recover", "request", "--email", "ana@shop.cl")
	fields := strings.Fields(out)
	require.NotEmpty(t, fields)
	recoveryCode := fields[len(fields)-1]
	require.Len(t, recoveryCode, 6)

	_, errOut, code = h.run("recover", "verify", "--email", "ana@shop.cl", "--code", "12345")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "Revisa los campos obligatorios.")

	h.mustRun("recover", "verify", "--email", "ana@shop.cl", "--code", recoveryCode)
	h.mustRun("recover", "reset", "--email", "ana@shop.cl", "--code", recoveryCode, "--password", "Nueva1#x", "--confirm", "Nueva1#x")

	_, errOut, code = h.run("recover", "verify", "--email", "ana@shop.cl", "--code", recoveryCode)
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "El código ingresado no es válido.")

	h.mustRun("session", "login", "--email", "ana@shop.cl", "--password", "Nueva1#x")
}

func TestCartQuote(t *testing.T) {
	h := newHarness(t)

	out := h.mustRun("cart", "quote", "--item", "a:Catan:10000:2", "--coupon", "descuento10")
	assert.Contains(t, out, "$18.000")
	assert.Contains(t, out, "$3.990")
	assert.Contains(t, out, "$21.990")

	_, errOut, code := h.run("cart", "quote", "--item", "a:Catan:10000", "--coupon", "GRATIS")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "cupón no válido")
}

func TestHealth_LocalBackend(t *testing.T) {
	h := newHarness(t)

	out := h.mustRun("health")
	assert.Contains(t, out, "backend: memory")
	assert.Contains(t, out, "status: ok")
}

func TestParseItem(t *testing.T) {
	it, err := parseItem("dix:Dixit:24990")
	require.NoError(t, err)
	assert.Equal(t, "dix", it.ID)
	assert.Equal(t, 1, it.Quantity)
	assert.Equal(t, "24990", it.UnitPrice.String())

	for _, raw := range []string{"dix", "dix:Dixit:abc", ":Dixit:100", "dix:Dixit:100:0", "dix:Dixit:-1"} {
		_, err := parseItem(raw)
		assert.Error(t, err, raw)
	}
}

func TestMoney(t *testing.T) {
	cases := map[string]string{
		"0":       "$0",
		"990":     "$990",
		"3990":    "$3.990",
		"1234567": "$1.234.567",
		"-5000":   "-$5.000",
	}
	for in, want := range cases {
		d, err := decimal.NewFromString(in)
		require.NoError(t, err)
		assert.Equal(t, want, money(d), in)
	}
}

func TestWriteMetrics_TextFormat(t *testing.T) {
	h := newHarness(t)
	h.mustRun("session", "login", "--email", domain.DefaultAdminEmail, "--password", domain.DefaultAdminPassword)

	var out bytes.Buffer
	require.NoError(t, writeMetrics(&out, prometheus.DefaultGatherer))

	text := out.String()
	assert.Contains(t, text, "# TYPE storefront_logins_total counter")
	assert.Contains(t, text, `storefront_logins_total{result="ok"}`)
	assert.NotContains(t, text, "go_goroutines")
}
