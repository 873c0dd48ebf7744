package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newRecoverCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recover",
		Short: "Reset a forgotten password with a one-time code",
	}
	cmd.AddCommand(
		newRecoverRequestCmd(e),
		newRecoverVerifyCmd(e),
		newRecoverResetCmd(e),
	)
	return cmd
}

func newRecoverRequestCmd(e *env) *cobra.Command {
	var form emailForm

	cmd := &cobra.Command{
		Use:   "request",
		Short: "Issue a recovery code",
		Args:  inputArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			form.Email = strings.ToLower(strings.TrimSpace(form.Email))
			if err := e.forms.Validate(&form); err != nil {
				return err
			}
			code, err := e.App().Recovery.RequestCode(cmd.Context(), form.Email)
			if err != nil {
				return err
			}
			// No mail transport: the code is shown to the operator.
			fmt.Fprintf(cmd.OutOrStdout(), "Código de recuperación para %s: %s\n", form.Email, code)
			return nil
		},
	}
	cmd.Flags().StringVar(&form.Email, "email", "", "email address")
	return cmd
}

func newRecoverVerifyCmd(e *env) *cobra.Command {
	var form recoveryCodeForm

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Check a recovery code without using it",
		Args:  inputArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			form.Email = strings.ToLower(strings.TrimSpace(form.Email))
			form.Code = strings.TrimSpace(form.Code)
			if err := e.forms.Validate(&form); err != nil {
				return err
			}
			if err := e.App().Recovery.VerifyCode(cmd.Context(), form.Email, form.Code); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Código válido.")
			return nil
		},
	}
	cmd.Flags().StringVar(&form.Email, "email", "", "email address")
	cmd.Flags().StringVar(&form.Code, "code", "", "six digit code")
	return cmd
}

func newRecoverResetCmd(e *env) *cobra.Command {
	var form recoveryResetForm

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Set a new password using a recovery code",
		Args:  inputArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			form.Email = strings.ToLower(strings.TrimSpace(form.Email))
			form.Code = strings.TrimSpace(form.Code)
			if err := e.forms.Validate(&form); err != nil {
				return err
			}
			if err := e.App().Recovery.ResetPassword(cmd.Context(), form.Email, form.Code, form.Password); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Contraseña restablecida. Ya puedes iniciar sesión.")
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&form.Email, "email", "", "email address")
	f.StringVar(&form.Code, "code", "", "six digit code")
	f.StringVar(&form.Password, "password", "", "new password")
	f.StringVar(&form.Confirm, "confirm", "", "new password again")
	return cmd
}
