package main

import (
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"strings"

	"github.com/NethermindEth/juno/core/felt"
	"github.com/NethermindEth/starknet.go/utils"
	"github.com/cockroachdb/errors"
	"github.com/itchyny/gojq"
	"github.com/tidwall/pretty"
	"gopkg.in/yaml.v3"

	introspect "github.com/cartridge-gg/introspect"
)

// writeJSON filters doc through --query and prints every result as
// pretty JSON or YAML.
func (a *app) writeJSON(w io.Writer, doc []byte) error {
	format := a.format()
	if format != "json" && format != "yaml" {
		return errors.Newf("unknown output format %q (want json or yaml)", format)
	}
	if a.query == "" && format == "json" {
		_, err := w.Write(pretty.Pretty(doc))
		return err
	}

	var v any
	if err := json.Unmarshal(doc, &v); err != nil {
		return errors.Wrap(err, "output is not valid json")
	}
	results := []any{v}
	if a.query != "" {
		var err error
		if results, err = runQuery(a.query, v); err != nil {
			return err
		}
	}

	for _, r := range results {
		var out []byte
		var err error
		if format == "yaml" {
			out, err = yaml.Marshal(r)
		} else {
			out, err = json.Marshal(r)
			out = pretty.Pretty(out)
		}
		if err != nil {
			return errors.Wrap(err, "encode output")
		}
		if _, err := w.Write(out); err != nil {
			return err
		}
	}
	return nil
}

func runQuery(src string, v any) ([]any, error) {
	q, err := gojq.Parse(src)
	if err != nil {
		return nil, errors.Wrapf(err, "parse query %q", src)
	}
	var out []any
	iter := q.Run(v)
	for {
		x, ok := iter.Next()
		if !ok {
			break
		}
		if err, ok := x.(error); ok {
			return nil, errors.Wrap(err, "run query")
		}
		out = append(out, x)
	}
	return out, nil
}

func marshalJSON(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	return data, errors.Wrap(err, "encode json")
}

// parseFelt accepts 0x-prefixed hex or a decimal number.
func parseFelt(s string) (*felt.Felt, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		f, err := utils.HexToFelt(s)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid felt %q", s)
		}
		return f, nil
	}
	n, ok := new(big.Int).SetString(s, 10)
	if !ok || n.Sign() < 0 || n.Cmp(introspect.Modulus()) >= 0 {
		return nil, errors.Newf("invalid felt %q", s)
	}
	return introspect.FeltFromBigInt(n), nil
}

// parseFelts parses every argument, splitting comma separated lists.
func parseFelts(args []string) ([]*felt.Felt, error) {
	var out []*felt.Felt
	for _, arg := range args {
		for _, s := range strings.Split(arg, ",") {
			if strings.TrimSpace(s) == "" {
				continue
			}
			f, err := parseFelt(s)
			if err != nil {
				return nil, err
			}
			out = append(out, f)
		}
	}
	return out, nil
}

func feltStrings(felts []*felt.Felt) []string {
	out := make([]string, len(felts))
	for i, f := range felts {
		out[i] = f.String()
	}
	return out
}

func printLine(w io.Writer, s string) error {
	_, err := fmt.Fprintln(w, s)
	return err
}
