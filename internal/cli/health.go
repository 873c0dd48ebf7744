package cli

import (
	"errors"
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

var errDegraded = errors.New("one or more dependencies are unhealthy")

func newHealthCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check connectivity of the configured storage backend",
		Args:  inputArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			app := e.App()
			out := cmd.OutOrStdout()
			results := app.Health(cmd.Context())

			fmt.Fprintf(out, "backend: %s\n", app.Backend)

			names := make([]string, 0, len(results))
			for name := range results {
				names = append(names, name)
			}
			sort.Strings(names)

			healthy := true
			for _, name := range names {
				if err := results[name]; err != nil {
					healthy = false
					fmt.Fprintf(out, "%s: unhealthy (%v)\n", name, err)
					continue
				}
				fmt.Fprintf(out, "%s: ok\n", name)
			}

			if !healthy {
				fmt.Fprintln(out, "status: degraded")
				return errDegraded
			}
			fmt.Fprintln(out, "status: ok")
			return nil
		},
	}
}
