package main

import (
	"github.com/spf13/cobra"

	"github.com/cartridge-gg/introspect/selector"
)

type selectorRow struct {
	Name     string `json:"name"`
	Selector string `json:"selector"`
}

func (a *app) selectorCmd() *cobra.Command {
	var keccak bool
	cmd := &cobra.Command{
		Use:   "selector <name>...",
		Short: "Print the selectors of names",
		Long: `Print the ASCII selector (short string felt) of every name, or its
starknet keccak with --keccak. Names longer than 31 bytes have no ASCII
selector.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rows := make([]selectorRow, 0, len(args))
			for _, name := range args {
				row := selectorRow{Name: name}
				if keccak {
					row.Selector = selector.Keccak(name).String()
				} else {
					sel, err := selector.ASCII(name)
					if err != nil {
						return err
					}
					row.Selector = sel.String()
				}
				rows = append(rows, row)
			}
			doc, err := marshalJSON(rows)
			if err != nil {
				return err
			}
			return a.writeJSON(cmd.OutOrStdout(), doc)
		},
	}
	cmd.Flags().BoolVar(&keccak, "keccak", false, "Use starknet keccak instead of the ASCII encoding")
	return cmd
}
