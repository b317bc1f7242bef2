package main

import (
	"fmt"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cartridge-gg/introspect/plugin"
)

func (a *app) expandCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "expand <file.cairo>",
		Short: "Expand introspection macros in a Cairo file",
		Long: `Run every registered attribute, derive and inline macro found in a Cairo
source file and print the expanded source.

Failed invocations leave their item untouched. Their diagnostics are
printed to stderr and the command exits non-zero.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := os.ReadFile(args[0])
			if err != nil {
				return errors.Wrapf(err, "failed to read %s", args[0])
			}
			out, expandErr := plugin.New(a.cfg).ExpandFile(string(src))

			var macroErr *plugin.MacroError
			if expandErr != nil && !errors.As(expandErr, &macroErr) {
				return errors.Wrapf(expandErr, "failed to expand %s", args[0])
			}
			if macroErr != nil {
				for _, d := range macroErr.Diagnostics {
					fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s\n", args[0], d)
				}
			}

			if output == "" {
				fmt.Fprint(cmd.OutOrStdout(), out)
			} else if err := os.WriteFile(output, []byte(out), 0644); err != nil {
				return errors.Wrapf(err, "failed to write %s", output)
			}
			a.logger.Info("expanded file", zap.String("file", args[0]), zap.String("output", output))

			if macroErr != nil {
				return errors.Newf("%d macro invocation(s) failed", len(macroErr.Diagnostics))
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default: stdout)")
	return cmd
}
