// Package events decodes and encodes the schema-evolution and row-mutation
// events emitted by introspected contracts.
//
// An event arrives as (keys, data). keys holds exactly the event selector,
// the ASCII selector of the event name. data holds the fields in declaration
// order using the Serde framing. Row events end with a list that drains the
// remaining data. Both felt spans must be consumed exactly.
package events

import (
	"encoding/json"
	"sort"

	"github.com/NethermindEth/juno/core/felt"
	"github.com/cockroachdb/errors"

	"github.com/cartridge-gg/introspect/selector"
	"github.com/cartridge-gg/introspect/serde"
)

// Event is one entry of the closed catalog.
type Event interface {
	// EventName is the event name; its ASCII selector is the first key.
	EventName() string

	decode(r *reader)
	encode(w *writer)
}

type entry struct {
	name     string
	selector *felt.Felt
	new      func() Event
}

var (
	bySelector = map[felt.Felt]*entry{}
	byName     = map[string]*entry{}
)

func register(ctors ...func() Event) {
	for _, ctor := range ctors {
		name := ctor().EventName()
		e := &entry{name: name, selector: selector.MustASCII(name), new: ctor}
		if _, dup := bySelector[*e.selector]; dup {
			panic("events: duplicate selector for " + name)
		}
		bySelector[*e.selector] = e
		byName[name] = e
	}
}

// Selector returns the selector of the named event.
func Selector(name string) (*felt.Felt, bool) {
	e, ok := byName[name]
	if !ok {
		return nil, false
	}
	return new(felt.Felt).Set(e.selector), true
}

// Selectors returns every catalog selector, handy as an RPC key filter.
func Selectors() []*felt.Felt {
	out := make([]*felt.Felt, 0, len(bySelector))
	for _, name := range Names() {
		out = append(out, byName[name].selector)
	}
	return out
}

// Names lists the catalog in alphabetical order.
func Names() []string {
	names := make([]string, 0, len(byName))
	for name := range byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup returns the name of the event identified by sel.
func Lookup(sel *felt.Felt) (string, bool) {
	e, ok := bySelector[*sel]
	if !ok {
		return "", false
	}
	return e.name, true
}

// Decode parses one event. Unknown selectors fail with InvalidTag and
// leftover keys or data with NotEof.
func Decode(keys, data []*felt.Felt) (Event, error) {
	kr := serde.NewFeltReader(keys)
	sel, err := kr.Next()
	if err != nil {
		return nil, err
	}
	e, ok := bySelector[*sel]
	if !ok {
		return nil, serde.InvalidTag("event", sel)
	}
	if err := kr.ExpectEOF(); err != nil {
		return nil, err
	}

	ev := e.new()
	dr := serde.NewFeltReader(data)
	r := &reader{src: dr}
	ev.decode(r)
	if r.err != nil {
		return nil, serde.Promote(r.err)
	}
	if err := dr.ExpectEOF(); err != nil {
		return nil, err
	}
	return ev, nil
}

// Encode lays ev out as (keys, data).
func Encode(ev Event) (keys, data []*felt.Felt, err error) {
	e, ok := byName[ev.EventName()]
	if !ok {
		return nil, nil, errors.Newf("unknown event %q", ev.EventName())
	}
	w := &writer{w: serde.NewFeltWriter(8)}
	ev.encode(w)
	if w.err != nil {
		return nil, nil, errors.Wrapf(w.err, "encode %s", ev.EventName())
	}
	return []*felt.Felt{new(felt.Felt).Set(e.selector)}, w.w.Felts(), nil
}

type envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// MarshalJSON renders ev as {"event": name, "data": {...}}.
func MarshalJSON(ev Event) ([]byte, error) {
	data, err := json.Marshal(ev)
	if err != nil {
		return nil, errors.Wrapf(err, "marshal %s", ev.EventName())
	}
	return json.Marshal(envelope{Event: ev.EventName(), Data: data})
}

// ParseJSON is the inverse of MarshalJSON.
func ParseJSON(data []byte) (Event, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, errors.Wrap(err, "parse event json")
	}
	e, ok := byName[env.Event]
	if !ok {
		return nil, errors.Newf("unknown event %q", env.Event)
	}
	ev := e.new()
	if err := json.Unmarshal(env.Data, ev); err != nil {
		return nil, errors.Wrapf(err, "parse %s", env.Event)
	}
	return ev, nil
}

func init() {
	register(schemaEvents...)
	register(rowEvents...)
}
