package events

import (
	"github.com/NethermindEth/juno/core/felt"

	"github.com/cartridge-gg/introspect/serde"
	"github.com/cartridge-gg/introspect/typedef"
)

// reader pulls event fields out of the data felts. The first error sticks
// and every later read becomes a no-op.
type reader struct {
	src serde.FeltSource
	err error
}

func (r *reader) fail(err error) {
	if r.err == nil && err != nil {
		r.err = err
	}
}

func (r *reader) felt() *felt.Felt {
	if r.err != nil {
		return nil
	}
	f, err := r.src.Next()
	r.fail(err)
	return f
}

func (r *reader) str() string {
	if r.err != nil {
		return ""
	}
	s, err := serde.ReadString(r.src)
	r.fail(err)
	return s
}

func (r *reader) attrs() []typedef.Attribute {
	if r.err != nil {
		return nil
	}
	a, err := typedef.DecodeAttributes(r.src, serde.Serde)
	r.fail(err)
	return a
}

func (r *reader) typeDef() typedef.Def {
	if r.err != nil {
		return typedef.Def{}
	}
	t, err := typedef.Decode(r.src, serde.Serde)
	r.fail(err)
	return typedef.Def{TypeDef: t}
}

// felts reads a length-prefixed felt span.
func (r *reader) felts() []*felt.Felt {
	if r.err != nil {
		return nil
	}
	f, err := serde.ReadFelts(r.src)
	r.fail(err)
	return f
}

// rest drains the remaining data.
func (r *reader) rest() []*felt.Felt {
	return drain(r, (*reader).felt)
}

func list[T any](r *reader, item func(*reader) T) []T {
	if r.err != nil {
		return nil
	}
	out, err := serde.ReadList(r.src, func(serde.FeltSource) (T, error) {
		v := item(r)
		return v, r.err
	})
	r.fail(err)
	return out
}

func drain[T any](r *reader, item func(*reader) T) []T {
	if r.err != nil {
		return nil
	}
	out, err := serde.Drain(r.src, func(serde.FeltSource) (T, error) {
		v := item(r)
		return v, r.err
	})
	r.fail(err)
	return out
}

type writer struct {
	w   *serde.FeltWriter
	err error
}

func (w *writer) fail(err error) {
	if w.err == nil && err != nil {
		w.err = err
	}
}

func (w *writer) felt(f *felt.Felt) {
	if f == nil {
		f = new(felt.Felt)
	}
	w.w.WriteFelt(f)
}

func (w *writer) str(s string) {
	serde.WriteString(w.w, s)
}

func (w *writer) attrs(a []typedef.Attribute) {
	w.fail(typedef.EncodeAttributes(w.w, a, serde.Serde))
}

func (w *writer) typeDef(d typedef.Def) {
	w.fail(typedef.Encode(w.w, d.TypeDef, serde.Serde))
}

func (w *writer) felts(f []*felt.Felt) {
	serde.WriteUint(w.w, uint64(len(f)))
	w.rest(f)
}

func (w *writer) rest(f []*felt.Felt) {
	for _, x := range f {
		w.felt(x)
	}
}

func writeList[T any](w *writer, items []T, item func(*writer, T)) {
	serde.WriteUint(w.w, uint64(len(items)))
	writeRest(w, items, item)
}

func writeRest[T any](w *writer, items []T, item func(*writer, T)) {
	for _, x := range items {
		item(w, x)
	}
}
