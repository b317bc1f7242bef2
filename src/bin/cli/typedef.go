package main

import (
	"os"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/cartridge-gg/introspect/typedef"
)

func readTypeDef(path string) (typedef.TypeDef, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %s", path)
	}
	t, err := typedef.ParseJSON(data)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse type definition %s", path)
	}
	return t, nil
}

func (a *app) typeDefCmd() *cobra.Command {
	var as string
	cmd := &cobra.Command{
		Use:   "typedef <file.json>",
		Short: "Print a TypeDef",
		Long: `Read a TypeDef in its JSON form and print it.

  --as text   human readable layout (default)
  --as cairo  the Cairo expression constructing it
  --as json   normalized JSON, subject to --query and --format`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := readTypeDef(args[0])
			if err != nil {
				return err
			}
			switch as {
			case "text":
				return printLine(cmd.OutOrStdout(), typedef.Format(t))
			case "cairo":
				return printLine(cmd.OutOrStdout(), typedef.Cairo(t, a.cfg.IntrospectPath))
			case "json":
				doc, err := typedef.MarshalJSON(t)
				if err != nil {
					return err
				}
				return a.writeJSON(cmd.OutOrStdout(), doc)
			}
			return errors.Newf("unknown --as %q (want text, cairo or json)", as)
		},
	}
	cmd.Flags().StringVar(&as, "as", "text", "Output form: text, cairo or json")
	return cmd
}
