package events

import (
	"context"

	"github.com/NethermindEth/juno/core/felt"
	"github.com/NethermindEth/starknet.go/rpc"
	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
)

// EventSource is the part of *rpc.Provider the fetcher uses.
type EventSource interface {
	Events(ctx context.Context, input rpc.EventsInput) (*rpc.EventChunk, error)
}

var _ EventSource = (*rpc.Provider)(nil)

// FetchOpts configures a Fetch call.
type FetchOpts struct {
	FromBlock *rpc.BlockID // defaults to block 0
	ToBlock   *rpc.BlockID // defaults to "latest"
	ChunkSize int
	MaxPages  int  // 0 means no limit
	Strict    bool // fail on undecodable events instead of skipping them
}

// FetchOption sets one FetchOpts field.
type FetchOption func(*FetchOpts)

func WithFromBlock(id rpc.BlockID) FetchOption {
	return func(opts *FetchOpts) {
		opts.FromBlock = &id
	}
}

func WithToBlock(id rpc.BlockID) FetchOption {
	return func(opts *FetchOpts) {
		opts.ToBlock = &id
	}
}

func WithChunkSize(n int) FetchOption {
	return func(opts *FetchOpts) {
		opts.ChunkSize = n
	}
}

func WithMaxPages(n int) FetchOption {
	return func(opts *FetchOpts) {
		opts.MaxPages = n
	}
}

func WithStrict() FetchOption {
	return func(opts *FetchOpts) {
		opts.Strict = true
	}
}

// NewFetchOpts applies options over the defaults.
func NewFetchOpts(options ...FetchOption) *FetchOpts {
	opts := &FetchOpts{ChunkSize: 100}
	for _, option := range options {
		option(opts)
	}
	if opts.FromBlock == nil {
		from := rpc.WithBlockNumber(0)
		opts.FromBlock = &from
	}
	if opts.ToBlock == nil {
		to := rpc.WithBlockTag("latest")
		opts.ToBlock = &to
	}
	return opts
}

// Fetched is a decoded event with its on-chain position.
type Fetched struct {
	Event           Event
	From            *felt.Felt
	BlockNumber     uint64
	TransactionHash *felt.Felt
}

// Fetcher pages through the events a contract emitted and decodes the
// ones that belong to the catalog.
type Fetcher struct {
	source  EventSource
	address *felt.Felt
}

func NewFetcher(source EventSource, address *felt.Felt) *Fetcher {
	return &Fetcher{source: source, address: address}
}

// Fetch returns every catalog event in the configured block range, in
// chain order.
func (f *Fetcher) Fetch(ctx context.Context, options ...FetchOption) ([]Fetched, error) {
	opts := NewFetchOpts(options...)

	input := rpc.EventsInput{}
	input.FromBlock = *opts.FromBlock
	input.ToBlock = *opts.ToBlock
	input.Address = f.address
	input.Keys = [][]*felt.Felt{Selectors()}
	input.ChunkSize = opts.ChunkSize

	var out []Fetched
	for page := 0; opts.MaxPages == 0 || page < opts.MaxPages; page++ {
		chunk, err := f.source.Events(ctx, input)
		if err != nil {
			return out, errors.Wrapf(err, "fetch events page %d", page)
		}

		decoded, skipped := 0, 0
		for _, emitted := range chunk.Events {
			ev, err := Decode(emitted.Keys, emitted.Data)
			if err != nil {
				if opts.Strict {
					return out, errors.Wrapf(err, "decode event in tx %s", feltString(emitted.TransactionHash))
				}
				Logger().Warn("skipping undecodable event",
					zap.String("tx", feltString(emitted.TransactionHash)),
					zap.Error(err))
				skipped++
				continue
			}
			out = append(out, Fetched{
				Event:           ev,
				From:            emitted.FromAddress,
				BlockNumber:     emitted.BlockNumber,
				TransactionHash: emitted.TransactionHash,
			})
			decoded++
		}

		Logger().Info("fetched events page",
			zap.Int("page", page),
			zap.Int("decoded", decoded),
			zap.Int("skipped", skipped))

		if chunk.ContinuationToken == "" {
			break
		}
		input.ContinuationToken = chunk.ContinuationToken
	}
	return out, nil
}

func feltString(f *felt.Felt) string {
	if f == nil {
		return "<nil>"
	}
	return f.String()
}
