package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tiendademo/storefront/internal/core/domain"
	"github.com/tiendademo/storefront/internal/core/guard"
	"github.com/tiendademo/storefront/internal/messages"
)

func newSessionCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Log in, log out and manage your own account",
	}
	cmd.AddCommand(
		newLoginCmd(e),
		newLogoutCmd(e),
		newWhoAmICmd(e),
		newProfileCmd(e),
		newPasswdCmd(e),
	)
	return cmd
}

func newLoginCmd(e *env) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Start a session",
		Args:  inputArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(email) == "" || strings.TrimSpace(password) == "" {
				return fmt.Errorf("%w: email and password are required", messages.ErrInvalidFields)
			}
			u, err := e.App().Session.Login(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Bienvenido, %s (%s).\n", u.FullName, u.Role)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "email address")
	cmd.Flags().StringVar(&password, "password", "", "password")
	return cmd
}

func newLogoutCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the current session",
		Args:  inputArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := e.App().Session.Logout(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Sesión cerrada.")
			return nil
		},
	}
}

func newWhoAmICmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged-in user",
		Args:  inputArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			u := e.App().Session.CurrentUser()
			out := cmd.OutOrStdout()
			if !guard.Authenticated(u) {
				fmt.Fprintln(out, "No hay sesión activa.")
				return nil
			}
			fmt.Fprintf(out, "Nombre:     %s\n", u.FullName)
			fmt.Fprintf(out, "Usuario:    %s\n", u.Handle)
			fmt.Fprintf(out, "Correo:     %s\n", u.Email)
			fmt.Fprintf(out, "Nacimiento: %s\n", u.BirthDate)
			if u.Address != nil && *u.Address != "" {
				fmt.Fprintf(out, "Dirección:  %s\n", *u.Address)
			}
			fmt.Fprintf(out, "Rol:        %s\n", u.Role)
			fmt.Fprintf(out, "Estado:     %s\n", statusLabel(statusOf(*u)))
			return nil
		},
	}
}

type profileForm struct {
	FullName  string
	Handle    string `validate:"omitempty,min=3"`
	BirthDate string `validate:"omitempty,datetime=2006-01-02,notfuture,minage=13"`
}

func newProfileCmd(e *env) *cobra.Command {
	var (
		form    profileForm
		address string
	)

	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Update your own profile",
		Args:  inputArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			app := e.App()
			me := app.Session.CurrentUser()
			if err := guard.Check(guard.Authenticated, me); err != nil {
				return err
			}
			if err := e.forms.Validate(&form); err != nil {
				return err
			}

			update := domain.User{
				Email:     me.Email,
				FullName:  strings.TrimSpace(form.FullName),
				Handle:    strings.TrimSpace(form.Handle),
				BirthDate: form.BirthDate,
			}
			if cmd.Flags().Changed("address") {
				update.Address = domain.StringPtr(strings.TrimSpace(address))
			}

			ok, err := app.Session.UpdateProfile(cmd.Context(), update)
			if err != nil {
				return err
			}
			if !ok {
				return domain.ErrUserNotFound
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Perfil actualizado.")
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&form.FullName, "name", "", "full name")
	f.StringVar(&form.Handle, "handle", "", "public user name")
	f.StringVar(&form.BirthDate, "birth-date", "", "birth date, YYYY-MM-DD")
	f.StringVar(&address, "address", "", "shipping address; pass an empty value to clear it")
	return cmd
}

func newPasswdCmd(e *env) *cobra.Command {
	var form passwordChangeForm

	cmd := &cobra.Command{
		Use:   "passwd",
		Short: "Change your own password",
		Args:  inputArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			app := e.App()
			if err := guard.Check(guard.Authenticated, app.Session.CurrentUser()); err != nil {
				return err
			}
			if err := e.forms.Validate(&form); err != nil {
				return err
			}
			if err := app.Session.ChangeOwnPassword(cmd.Context(), form.Current, form.Password); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Contraseña actualizada.")
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&form.Current, "current", "", "current password")
	f.StringVar(&form.Password, "new", "", "new password")
	f.StringVar(&form.Confirm, "confirm", "", "new password again")
	return cmd
}
