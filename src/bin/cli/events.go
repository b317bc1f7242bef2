package main

import (
	"encoding/json"

	"github.com/NethermindEth/starknet.go/rpc"
	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cartridge-gg/introspect/events"
)

type fetchedRow struct {
	Block           uint64          `json:"block"`
	TransactionHash string          `json:"transaction_hash,omitempty"`
	From            string          `json:"from,omitempty"`
	Event           json.RawMessage `json:"event"`
}

type eventRow struct {
	Name     string `json:"name"`
	Selector string `json:"selector"`
}

func (a *app) eventsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "events",
		Short: "Decode schema events",
	}
	cmd.AddCommand(a.eventsListCmd(), a.eventsDecodeCmd(), a.eventsFetchCmd())
	return cmd
}

func (a *app) eventsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the known events and their selectors",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var rows []eventRow
			for _, name := range events.Names() {
				sel, _ := events.Selector(name)
				rows = append(rows, eventRow{Name: name, Selector: sel.String()})
			}
			doc, err := marshalJSON(rows)
			if err != nil {
				return err
			}
			return a.writeJSON(cmd.OutOrStdout(), doc)
		},
	}
}

func (a *app) eventsDecodeCmd() *cobra.Command {
	var keys, data []string
	cmd := &cobra.Command{
		Use:   "decode --keys <felts> --data <felts>",
		Short: "Decode one emitted event",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := parseFelts(keys)
			if err != nil {
				return errors.Wrap(err, "keys")
			}
			d, err := parseFelts(data)
			if err != nil {
				return errors.Wrap(err, "data")
			}
			ev, err := events.Decode(k, d)
			if err != nil {
				return err
			}
			doc, err := events.MarshalJSON(ev)
			if err != nil {
				return err
			}
			return a.writeJSON(cmd.OutOrStdout(), doc)
		},
	}
	cmd.Flags().StringSliceVar(&keys, "keys", nil, "Event keys, comma separated")
	cmd.Flags().StringSliceVar(&data, "data", nil, "Event data, comma separated")
	_ = cmd.MarkFlagRequired("keys")
	return cmd
}

func (a *app) eventsFetchCmd() *cobra.Command {
	var (
		address          string
		fromBlock, toBlk uint64
		chunkSize, pages int
		strict           bool
	)
	cmd := &cobra.Command{
		Use:   "fetch --rpc <url> --address <contract>",
		Short: "Fetch and decode the events a contract emitted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			url := a.v.GetString("cli.rpc_url")
			if url == "" {
				return errors.New("no RPC endpoint: pass --rpc or set cli.rpc_url")
			}
			addr, err := parseFelt(address)
			if err != nil {
				return errors.Wrap(err, "address")
			}
			provider, err := rpc.NewProvider(url)
			if err != nil {
				return errors.Wrapf(err, "failed to connect to %s", url)
			}

			options := []events.FetchOption{
				events.WithFromBlock(rpc.WithBlockNumber(fromBlock)),
				events.WithChunkSize(chunkSize),
				events.WithMaxPages(pages),
			}
			if toBlk > 0 {
				options = append(options, events.WithToBlock(rpc.WithBlockNumber(toBlk)))
			}
			if strict {
				options = append(options, events.WithStrict())
			}

			fetched, err := events.NewFetcher(provider, addr).Fetch(cmd.Context(), options...)
			if err != nil {
				return err
			}
			a.logger.Info("fetched events", zap.String("address", addr.String()), zap.Int("events", len(fetched)))
			return a.writeFetched(cmd, fetched)
		},
	}
	flags := cmd.Flags()
	flags.String("rpc", "", "Starknet RPC endpoint (default: cli.rpc_url)")
	_ = a.v.BindPFlag("cli.rpc_url", flags.Lookup("rpc"))
	flags.StringVar(&address, "address", "", "Contract address")
	flags.Uint64Var(&fromBlock, "from", 0, "First block")
	flags.Uint64Var(&toBlk, "to", 0, "Last block (default: latest)")
	flags.IntVar(&chunkSize, "chunk-size", 100, "Events per page")
	flags.IntVar(&pages, "pages", 0, "Maximum pages to fetch (0: no limit)")
	flags.BoolVar(&strict, "strict", false, "Fail on undecodable events instead of skipping them")
	_ = cmd.MarkFlagRequired("address")
	return cmd
}

func (a *app) writeFetched(cmd *cobra.Command, fetched []events.Fetched) error {
	rows := make([]fetchedRow, 0, len(fetched))
	for _, f := range fetched {
		ev, err := events.MarshalJSON(f.Event)
		if err != nil {
			return err
		}
		row := fetchedRow{Block: f.BlockNumber, Event: ev}
		if f.TransactionHash != nil {
			row.TransactionHash = f.TransactionHash.String()
		}
		if f.From != nil {
			row.From = f.From.String()
		}
		rows = append(rows, row)
	}
	doc, err := marshalJSON(rows)
	if err != nil {
		return err
	}
	return a.writeJSON(cmd.OutOrStdout(), doc)
}
