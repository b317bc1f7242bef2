package events

import (
	"github.com/NethermindEth/juno/core/felt"
)

// Entry is one row's serialized payload.
type Entry struct {
	Row  *felt.Felt   `json:"row"`
	Data []*felt.Felt `json:"data"`
}

func readEntry(r *reader) Entry {
	return Entry{Row: r.felt(), Data: r.felts()}
}

func writeEntry(w *writer, e Entry) {
	w.felt(e.Row)
	w.felts(e.Data)
}

// ============================================================================
// Inserts
// ============================================================================

type InsertRecord struct {
	Table *felt.Felt   `json:"table"`
	Row   *felt.Felt   `json:"row"`
	Data  []*felt.Felt `json:"data"`
}

func (*InsertRecord) EventName() string { return "InsertRecord" }

func (e *InsertRecord) decode(r *reader) {
	e.Table, e.Row, e.Data = r.felt(), r.felt(), r.rest()
}

func (e *InsertRecord) encode(w *writer) {
	w.felt(e.Table)
	w.felt(e.Row)
	w.rest(e.Data)
}

type InsertRecords struct {
	Table   *felt.Felt `json:"table"`
	Entries []Entry    `json:"entries"`
}

func (*InsertRecords) EventName() string { return "InsertRecords" }

func (e *InsertRecords) decode(r *reader) {
	e.Table = r.felt()
	e.Entries = drain(r, readEntry)
}

func (e *InsertRecords) encode(w *writer) {
	w.felt(e.Table)
	writeRest(w, e.Entries, writeEntry)
}

type InsertField struct {
	Table  *felt.Felt   `json:"table"`
	Row    *felt.Felt   `json:"row"`
	Column *felt.Felt   `json:"column"`
	Data   []*felt.Felt `json:"data"`
}

func (*InsertField) EventName() string { return "InsertField" }

func (e *InsertField) decode(r *reader) {
	e.Table, e.Row, e.Column, e.Data = r.felt(), r.felt(), r.felt(), r.rest()
}

func (e *InsertField) encode(w *writer) {
	w.felt(e.Table)
	w.felt(e.Row)
	w.felt(e.Column)
	w.rest(e.Data)
}

type InsertFields struct {
	Table   *felt.Felt   `json:"table"`
	Row     *felt.Felt   `json:"row"`
	Columns []*felt.Felt `json:"columns"`
	Data    []*felt.Felt `json:"data"`
}

func (*InsertFields) EventName() string { return "InsertFields" }

func (e *InsertFields) decode(r *reader) {
	e.Table, e.Row, e.Columns, e.Data = r.felt(), r.felt(), r.felts(), r.rest()
}

func (e *InsertFields) encode(w *writer) {
	w.felt(e.Table)
	w.felt(e.Row)
	w.felts(e.Columns)
	w.rest(e.Data)
}

type InsertsField struct {
	Table   *felt.Felt `json:"table"`
	Column  *felt.Felt `json:"column"`
	Entries []Entry    `json:"entries"`
}

func (*InsertsField) EventName() string { return "InsertsField" }

func (e *InsertsField) decode(r *reader) {
	e.Table, e.Column = r.felt(), r.felt()
	e.Entries = drain(r, readEntry)
}

func (e *InsertsField) encode(w *writer) {
	w.felt(e.Table)
	w.felt(e.Column)
	writeRest(w, e.Entries, writeEntry)
}

type InsertsFields struct {
	Table   *felt.Felt   `json:"table"`
	Columns []*felt.Felt `json:"columns"`
	Entries []Entry      `json:"entries"`
}

func (*InsertsFields) EventName() string { return "InsertsFields" }

func (e *InsertsFields) decode(r *reader) {
	e.Table, e.Columns = r.felt(), r.felts()
	e.Entries = drain(r, readEntry)
}

func (e *InsertsFields) encode(w *writer) {
	w.felt(e.Table)
	w.felts(e.Columns)
	writeRest(w, e.Entries, writeEntry)
}

type InsertFieldSet struct {
	Table *felt.Felt   `json:"table"`
	Row   *felt.Felt   `json:"row"`
	Set   *felt.Felt   `json:"set"`
	Data  []*felt.Felt `json:"data"`
}

func (*InsertFieldSet) EventName() string { return "InsertFieldSet" }

func (e *InsertFieldSet) decode(r *reader) {
	e.Table, e.Row, e.Set, e.Data = r.felt(), r.felt(), r.felt(), r.rest()
}

func (e *InsertFieldSet) encode(w *writer) {
	w.felt(e.Table)
	w.felt(e.Row)
	w.felt(e.Set)
	w.rest(e.Data)
}

type InsertFieldSets struct {
	Table *felt.Felt   `json:"table"`
	Row   *felt.Felt   `json:"row"`
	Sets  []*felt.Felt `json:"sets"`
	Data  []*felt.Felt `json:"data"`
}

func (*InsertFieldSets) EventName() string { return "InsertFieldSets" }

func (e *InsertFieldSets) decode(r *reader) {
	e.Table, e.Row, e.Sets, e.Data = r.felt(), r.felt(), r.felts(), r.rest()
}

func (e *InsertFieldSets) encode(w *writer) {
	w.felt(e.Table)
	w.felt(e.Row)
	w.felts(e.Sets)
	w.rest(e.Data)
}

type InsertsFieldSet struct {
	Table   *felt.Felt `json:"table"`
	Set     *felt.Felt `json:"set"`
	Entries []Entry    `json:"entries"`
}

func (*InsertsFieldSet) EventName() string { return "InsertsFieldSet" }

func (e *InsertsFieldSet) decode(r *reader) {
	e.Table, e.Set = r.felt(), r.felt()
	e.Entries = drain(r, readEntry)
}

func (e *InsertsFieldSet) encode(w *writer) {
	w.felt(e.Table)
	w.felt(e.Set)
	writeRest(w, e.Entries, writeEntry)
}

type InsertsFieldSets struct {
	Table   *felt.Felt   `json:"table"`
	Sets    []*felt.Felt `json:"sets"`
	Entries []Entry      `json:"entries"`
}

func (*InsertsFieldSets) EventName() string { return "InsertsFieldSets" }

func (e *InsertsFieldSets) decode(r *reader) {
	e.Table, e.Sets = r.felt(), r.felts()
	e.Entries = drain(r, readEntry)
}

func (e *InsertsFieldSets) encode(w *writer) {
	w.felt(e.Table)
	w.felts(e.Sets)
	writeRest(w, e.Entries, writeEntry)
}

// ============================================================================
// Deletes
// ============================================================================

type DeleteRecord struct {
	Table *felt.Felt `json:"table"`
	Row   *felt.Felt `json:"row"`
}

func (*DeleteRecord) EventName() string { return "DeleteRecord" }

func (e *DeleteRecord) decode(r *reader) {
	e.Table, e.Row = r.felt(), r.felt()
}

func (e *DeleteRecord) encode(w *writer) {
	w.felt(e.Table)
	w.felt(e.Row)
}

type DeleteRecords struct {
	Table *felt.Felt   `json:"table"`
	Rows  []*felt.Felt `json:"rows"`
}

func (*DeleteRecords) EventName() string { return "DeleteRecords" }

func (e *DeleteRecords) decode(r *reader) {
	e.Table, e.Rows = r.felt(), r.rest()
}

func (e *DeleteRecords) encode(w *writer) {
	w.felt(e.Table)
	w.rest(e.Rows)
}

type DeleteField struct {
	Table  *felt.Felt `json:"table"`
	Row    *felt.Felt `json:"row"`
	Column *felt.Felt `json:"column"`
}

func (*DeleteField) EventName() string { return "DeleteField" }

func (e *DeleteField) decode(r *reader) {
	e.Table, e.Row, e.Column = r.felt(), r.felt(), r.felt()
}

func (e *DeleteField) encode(w *writer) {
	w.felt(e.Table)
	w.felt(e.Row)
	w.felt(e.Column)
}

type DeleteFields struct {
	Table   *felt.Felt   `json:"table"`
	Row     *felt.Felt   `json:"row"`
	Columns []*felt.Felt `json:"columns"`
}

func (*DeleteFields) EventName() string { return "DeleteFields" }

func (e *DeleteFields) decode(r *reader) {
	e.Table, e.Row, e.Columns = r.felt(), r.felt(), r.rest()
}

func (e *DeleteFields) encode(w *writer) {
	w.felt(e.Table)
	w.felt(e.Row)
	w.rest(e.Columns)
}

type DeletesField struct {
	Table  *felt.Felt   `json:"table"`
	Column *felt.Felt   `json:"column"`
	Rows   []*felt.Felt `json:"rows"`
}

func (*DeletesField) EventName() string { return "DeletesField" }

func (e *DeletesField) decode(r *reader) {
	e.Table, e.Column, e.Rows = r.felt(), r.felt(), r.rest()
}

func (e *DeletesField) encode(w *writer) {
	w.felt(e.Table)
	w.felt(e.Column)
	w.rest(e.Rows)
}

type DeletesFields struct {
	Table   *felt.Felt   `json:"table"`
	Rows    []*felt.Felt `json:"rows"`
	Columns []*felt.Felt `json:"columns"`
}

func (*DeletesFields) EventName() string { return "DeletesFields" }

func (e *DeletesFields) decode(r *reader) {
	e.Table, e.Rows, e.Columns = r.felt(), r.felts(), r.rest()
}

func (e *DeletesFields) encode(w *writer) {
	w.felt(e.Table)
	w.felts(e.Rows)
	w.rest(e.Columns)
}

type DeleteFieldSet struct {
	Table *felt.Felt `json:"table"`
	Row   *felt.Felt `json:"row"`
	Set   *felt.Felt `json:"set"`
}

func (*DeleteFieldSet) EventName() string { return "DeleteFieldSet" }

func (e *DeleteFieldSet) decode(r *reader) {
	e.Table, e.Row, e.Set = r.felt(), r.felt(), r.felt()
}

func (e *DeleteFieldSet) encode(w *writer) {
	w.felt(e.Table)
	w.felt(e.Row)
	w.felt(e.Set)
}

type DeleteFieldSets struct {
	Table *felt.Felt   `json:"table"`
	Row   *felt.Felt   `json:"row"`
	Sets  []*felt.Felt `json:"sets"`
}

func (*DeleteFieldSets) EventName() string { return "DeleteFieldSets" }

func (e *DeleteFieldSets) decode(r *reader) {
	e.Table, e.Row, e.Sets = r.felt(), r.felt(), r.rest()
}

func (e *DeleteFieldSets) encode(w *writer) {
	w.felt(e.Table)
	w.felt(e.Row)
	w.rest(e.Sets)
}

type DeletesFieldSet struct {
	Table *felt.Felt   `json:"table"`
	Set   *felt.Felt   `json:"set"`
	Rows  []*felt.Felt `json:"rows"`
}

func (*DeletesFieldSet) EventName() string { return "DeletesFieldSet" }

func (e *DeletesFieldSet) decode(r *reader) {
	e.Table, e.Set, e.Rows = r.felt(), r.felt(), r.rest()
}

func (e *DeletesFieldSet) encode(w *writer) {
	w.felt(e.Table)
	w.felt(e.Set)
	w.rest(e.Rows)
}

type DeletesFieldSets struct {
	Table *felt.Felt   `json:"table"`
	Sets  []*felt.Felt `json:"sets"`
	Rows  []*felt.Felt `json:"rows"`
}

func (*DeletesFieldSets) EventName() string { return "DeletesFieldSets" }

func (e *DeletesFieldSets) decode(r *reader) {
	e.Table, e.Sets, e.Rows = r.felt(), r.felts(), r.rest()
}

func (e *DeletesFieldSets) encode(w *writer) {
	w.felt(e.Table)
	w.felts(e.Sets)
	w.rest(e.Rows)
}

var rowEvents = []func() Event{
	func() Event { return &InsertRecord{} },
	func() Event { return &InsertRecords{} },
	func() Event { return &InsertField{} },
	func() Event { return &InsertFields{} },
	func() Event { return &InsertsField{} },
	func() Event { return &InsertsFields{} },
	func() Event { return &InsertFieldSet{} },
	func() Event { return &InsertFieldSets{} },
	func() Event { return &InsertsFieldSet{} },
	func() Event { return &InsertsFieldSets{} },
	func() Event { return &DeleteRecord{} },
	func() Event { return &DeleteRecords{} },
	func() Event { return &DeleteField{} },
	func() Event { return &DeleteFields{} },
	func() Event { return &DeletesField{} },
	func() Event { return &DeletesFields{} },
	func() Event { return &DeleteFieldSet{} },
	func() Event { return &DeleteFieldSets{} },
	func() Event { return &DeletesFieldSet{} },
	func() Event { return &DeletesFieldSets{} },
}
