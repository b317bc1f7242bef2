package main

import (
	"encoding/hex"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cartridge-gg/introspect/serde"
	"github.com/cartridge-gg/introspect/transcode"
)

func (a *app) transcodeCmd() *cobra.Command {
	var typePath, from, to string
	cmd := &cobra.Command{
		Use:   "transcode --type <typedef.json> <felt>...",
		Short: "Decode felts laid out by a TypeDef",
		Long: `Read felts (hex or decimal, space or comma separated) laid out by the
given TypeDef and write them as:

  json    JSON document (default)
  cbor    hex encoded CBOR
  serde   felts in the native Cairo layout
  iserde  felts in the self-delimited layout`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := readTypeDef(typePath)
			if err != nil {
				return err
			}
			felts, err := parseFelts(args)
			if err != nil {
				return err
			}
			framing, err := serde.ParseFraming(from)
			if err != nil {
				return err
			}
			a.logger.Debug("transcoding",
				zap.String("type", typePath),
				zap.Int("felts", len(felts)),
				zap.Stringer("from", framing),
				zap.String("to", to))

			switch to {
			case "json":
				doc, err := transcode.ToJSON(t, felts, framing)
				if err != nil {
					return err
				}
				return a.writeJSON(cmd.OutOrStdout(), doc)
			case "cbor":
				data, err := transcode.ToCBOR(t, felts, framing)
				if err != nil {
					return err
				}
				return printLine(cmd.OutOrStdout(), hex.EncodeToString(data))
			case "serde", "iserde":
				target, err := serde.ParseFraming(to)
				if err != nil {
					return err
				}
				out, err := transcode.Reframe(t, felts, framing, target)
				if err != nil {
					return err
				}
				doc, err := marshalJSON(feltStrings(out))
				if err != nil {
					return err
				}
				return a.writeJSON(cmd.OutOrStdout(), doc)
			}
			return errors.Newf("unknown --to %q (want json, cbor, serde or iserde)", to)
		},
	}
	cmd.Flags().StringVarP(&typePath, "type", "t", "", "TypeDef JSON file")
	cmd.Flags().StringVar(&from, "framing", "serde", "Layout of the input felts: serde or iserde")
	cmd.Flags().StringVar(&to, "to", "json", "Output: json, cbor, serde or iserde")
	_ = cmd.MarkFlagRequired("type")
	return cmd
}
