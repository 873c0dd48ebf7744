package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/tiendademo/storefront/internal/core/domain"
	"github.com/tiendademo/storefront/internal/core/guard"
	"github.com/tiendademo/storefront/internal/messages"
)

var adminOnly = guard.RequireRole(domain.RoleAdmin)

func newUsersCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Register and manage accounts",
	}
	cmd.AddCommand(
		newRegisterCmd(e),
		newListUsersCmd(e),
		newSetStatusCmd(e),
		newToggleStatusCmd(e),
	)
	return cmd
}

func newRegisterCmd(e *env) *cobra.Command {
	var form registrationForm

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a customer account",
		Args:  inputArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			form.Email = strings.ToLower(strings.TrimSpace(form.Email))
			if err := e.forms.Validate(&form); err != nil {
				return err
			}

			ok, err := e.App().Directory.Register(cmd.Context(), domain.User{
				FullName:  strings.TrimSpace(form.FullName),
				Handle:    strings.TrimSpace(form.Handle),
				Email:     form.Email,
				BirthDate: form.BirthDate,
				Address:   domain.StringPtr(strings.TrimSpace(form.Address)),
				Password:  form.Password,
				Role:      domain.RoleCustomer,
				Status:    domain.StatusActive,
			})
			if err != nil {
				return err
			}
			if !ok {
				return domain.ErrUserExists
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Cuenta creada para %s.\n", form.Email)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&form.FullName, "name", "", "full name")
	f.StringVar(&form.Handle, "handle", "", "public user name")
	f.StringVar(&form.Email, "email", "", "email address")
	f.StringVar(&form.Password, "password", "", "password")
	f.StringVar(&form.Confirm, "confirm", "", "password again")
	f.StringVar(&form.BirthDate, "birth-date", "", "birth date, YYYY-MM-DD")
	f.StringVar(&form.Address, "address", "", "shipping address (optional)")
	return cmd
}

type userFilter struct {
	email  string
	role   string
	status string
}

func (f userFilter) match(u domain.User) bool {
	if f.email != "" && !strings.Contains(strings.ToLower(u.Email), strings.ToLower(f.email)) {
		return false
	}
	if f.role != "" && string(u.Role) != f.role {
		return false
	}
	switch f.status {
	case "":
	case string(domain.StatusActive):
		return u.IsActive()
	case string(domain.StatusInactive):
		return !u.IsActive()
	default:
		return false
	}
	return true
}

func newListUsersCmd(e *env) *cobra.Command {
	var filter userFilter

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List accounts (admin)",
		Args:  inputArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			app := e.App()
			if err := guard.Check(adminOnly, app.Session.CurrentUser()); err != nil {
				return err
			}

			users, err := app.Directory.ListAll(cmd.Context())
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "EMAIL\tUSUARIO\tNOMBRE\tROL\tESTADO")
			for _, u := range users {
				if !filter.match(u) {
					continue
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", u.Email, u.Handle, u.FullName, u.Role, statusOf(u))
			}
			return tw.Flush()
		},
	}

	f := cmd.Flags()
	f.StringVar(&filter.email, "email", "", "substring of the email")
	f.StringVar(&filter.role, "role", "", "admin or customer")
	f.StringVar(&filter.status, "status", "", "active or inactive")
	return cmd
}

func newSetStatusCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "set-status EMAIL active|inactive",
		Short: "Enable or disable an account (admin)",
		Args:  inputArgs(cobra.ExactArgs(2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			status := domain.Status(strings.ToLower(args[1]))
			if status != domain.StatusActive && status != domain.StatusInactive {
				return fmt.Errorf("%w: status must be active or inactive", messages.ErrInvalidFields)
			}
			return setStatus(cmd, e, args[0], func(domain.User) domain.Status { return status })
		},
	}
}

func newToggleStatusCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle EMAIL",
		Short: "Flip an account between active and inactive (admin)",
		Args:  inputArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return setStatus(cmd, e, args[0], func(u domain.User) domain.Status {
				if u.IsActive() {
					return domain.StatusInactive
				}
				return domain.StatusActive
			})
		},
	}
}

func setStatus(cmd *cobra.Command, e *env, email string, next func(domain.User) domain.Status) error {
	app := e.App()
	if err := guard.Check(adminOnly, app.Session.CurrentUser()); err != nil {
		return err
	}

	email = strings.ToLower(strings.TrimSpace(email))
	u, err := app.Directory.FindByEmail(cmd.Context(), email)
	if err != nil {
		return err
	}
	if u == nil {
		return domain.ErrUserNotFound
	}

	status := next(*u)
	ok, err := app.Directory.SetStatus(cmd.Context(), email, status)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrUserNotFound
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s ahora está %s.\n", email, statusLabel(status))
	return nil
}

func statusOf(u domain.User) domain.Status {
	if u.IsActive() {
		return domain.StatusActive
	}
	return domain.StatusInactive
}

func statusLabel(s domain.Status) string {
	if s == domain.StatusInactive {
		return "inactiva"
	}
	return "activa"
}
