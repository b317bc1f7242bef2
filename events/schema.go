package events

import (
	"github.com/NethermindEth/juno/core/felt"

	"github.com/cartridge-gg/introspect/typedef"
)

// PrimaryDef describes a table's primary key column.
type PrimaryDef struct {
	Name       string              `json:"name"`
	Attributes []typedef.Attribute `json:"attributes"`
	TypeDef    typedef.Def         `json:"type_def"`
}

// ColumnDef describes one table column.
type ColumnDef struct {
	ID         *felt.Felt          `json:"id"`
	Name       string              `json:"name"`
	Attributes []typedef.Attribute `json:"attributes"`
	TypeDef    typedef.Def         `json:"type_def"`
}

type ColumnName struct {
	ID   *felt.Felt `json:"id"`
	Name string     `json:"name"`
}

type ColumnType struct {
	ID         *felt.Felt          `json:"id"`
	Attributes []typedef.Attribute `json:"attributes"`
	TypeDef    typedef.Def         `json:"type_def"`
}

func readPrimary(r *reader) PrimaryDef {
	return PrimaryDef{Name: r.str(), Attributes: r.attrs(), TypeDef: r.typeDef()}
}

func writePrimary(w *writer, p PrimaryDef) {
	w.str(p.Name)
	w.attrs(p.Attributes)
	w.typeDef(p.TypeDef)
}

func readColumn(r *reader) ColumnDef {
	return ColumnDef{ID: r.felt(), Name: r.str(), Attributes: r.attrs(), TypeDef: r.typeDef()}
}

func writeColumn(w *writer, c ColumnDef) {
	w.felt(c.ID)
	w.str(c.Name)
	w.attrs(c.Attributes)
	w.typeDef(c.TypeDef)
}

func readColumnName(r *reader) ColumnName {
	return ColumnName{ID: r.felt(), Name: r.str()}
}

func writeColumnName(w *writer, c ColumnName) {
	w.felt(c.ID)
	w.str(c.Name)
}

func readColumnType(r *reader) ColumnType {
	return ColumnType{ID: r.felt(), Attributes: r.attrs(), TypeDef: r.typeDef()}
}

func writeColumnType(w *writer, c ColumnType) {
	w.felt(c.ID)
	w.attrs(c.Attributes)
	w.typeDef(c.TypeDef)
}

// ============================================================================
// Table lifecycle
// ============================================================================

type CreateTable struct {
	ID         *felt.Felt          `json:"id"`
	Name       string              `json:"name"`
	Primary    PrimaryDef          `json:"primary"`
	Attributes []typedef.Attribute `json:"attributes"`
}

func (*CreateTable) EventName() string { return "CreateTable" }

func (e *CreateTable) decode(r *reader) {
	e.ID, e.Name, e.Primary, e.Attributes = r.felt(), r.str(), readPrimary(r), r.attrs()
}

func (e *CreateTable) encode(w *writer) {
	w.felt(e.ID)
	w.str(e.Name)
	writePrimary(w, e.Primary)
	w.attrs(e.Attributes)
}

type CreateTableWithColumns struct {
	ID         *felt.Felt          `json:"id"`
	Name       string              `json:"name"`
	Attributes []typedef.Attribute `json:"attributes"`
	Primary    PrimaryDef          `json:"primary"`
	Columns    []ColumnDef         `json:"columns"`
}

func (*CreateTableWithColumns) EventName() string { return "CreateTableWithColumns" }

func (e *CreateTableWithColumns) decode(r *reader) {
	e.ID, e.Name, e.Attributes = r.felt(), r.str(), r.attrs()
	e.Primary = readPrimary(r)
	e.Columns = list(r, readColumn)
}

func (e *CreateTableWithColumns) encode(w *writer) {
	w.felt(e.ID)
	w.str(e.Name)
	w.attrs(e.Attributes)
	writePrimary(w, e.Primary)
	writeList(w, e.Columns, writeColumn)
}

type CreateTableFromClassHash struct {
	ID        *felt.Felt `json:"id"`
	Name      string     `json:"name"`
	ClassHash *felt.Felt `json:"class_hash"`
}

func (*CreateTableFromClassHash) EventName() string { return "CreateTableFromClassHash" }

func (e *CreateTableFromClassHash) decode(r *reader) {
	e.ID, e.Name, e.ClassHash = r.felt(), r.str(), r.felt()
}

func (e *CreateTableFromClassHash) encode(w *writer) {
	w.felt(e.ID)
	w.str(e.Name)
	w.felt(e.ClassHash)
}

type RenameTable struct {
	ID   *felt.Felt `json:"id"`
	Name string     `json:"name"`
}

func (*RenameTable) EventName() string { return "RenameTable" }

func (e *RenameTable) decode(r *reader) {
	e.ID, e.Name = r.felt(), r.str()
}

func (e *RenameTable) encode(w *writer) {
	w.felt(e.ID)
	w.str(e.Name)
}

type DropTable struct {
	ID *felt.Felt `json:"id"`
}

func (*DropTable) EventName() string { return "DropTable" }

func (e *DropTable) decode(r *reader) {
	e.ID = r.felt()
}

func (e *DropTable) encode(w *writer) {
	w.felt(e.ID)
}

// ============================================================================
// Primary and columns
// ============================================================================

type RenamePrimary struct {
	Table *felt.Felt `json:"table"`
	Name  string     `json:"name"`
}

func (*RenamePrimary) EventName() string { return "RenamePrimary" }

func (e *RenamePrimary) decode(r *reader) {
	e.Table, e.Name = r.felt(), r.str()
}

func (e *RenamePrimary) encode(w *writer) {
	w.felt(e.Table)
	w.str(e.Name)
}

type RetypePrimary struct {
	Table      *felt.Felt          `json:"table"`
	TypeDef    typedef.Def         `json:"type_def"`
	Attributes []typedef.Attribute `json:"attributes"`
}

func (*RetypePrimary) EventName() string { return "RetypePrimary" }

func (e *RetypePrimary) decode(r *reader) {
	e.Table, e.TypeDef, e.Attributes = r.felt(), r.typeDef(), r.attrs()
}

func (e *RetypePrimary) encode(w *writer) {
	w.felt(e.Table)
	w.typeDef(e.TypeDef)
	w.attrs(e.Attributes)
}

type AddColumn struct {
	Table      *felt.Felt          `json:"table"`
	ID         *felt.Felt          `json:"id"`
	Name       string              `json:"name"`
	Attributes []typedef.Attribute `json:"attributes"`
	TypeDef    typedef.Def         `json:"type_def"`
}

func (*AddColumn) EventName() string { return "AddColumn" }

func (e *AddColumn) decode(r *reader) {
	e.Table = r.felt()
	c := readColumn(r)
	e.ID, e.Name, e.Attributes, e.TypeDef = c.ID, c.Name, c.Attributes, c.TypeDef
}

func (e *AddColumn) encode(w *writer) {
	w.felt(e.Table)
	writeColumn(w, ColumnDef{ID: e.ID, Name: e.Name, Attributes: e.Attributes, TypeDef: e.TypeDef})
}

type AddColumns struct {
	Table   *felt.Felt  `json:"table"`
	Columns []ColumnDef `json:"columns"`
}

func (*AddColumns) EventName() string { return "AddColumns" }

func (e *AddColumns) decode(r *reader) {
	e.Table = r.felt()
	e.Columns = list(r, readColumn)
}

func (e *AddColumns) encode(w *writer) {
	w.felt(e.Table)
	writeList(w, e.Columns, writeColumn)
}

type RenameColumn struct {
	Table *felt.Felt `json:"table"`
	ID    *felt.Felt `json:"id"`
	Name  string     `json:"name"`
}

func (*RenameColumn) EventName() string { return "RenameColumn" }

func (e *RenameColumn) decode(r *reader) {
	e.Table, e.ID, e.Name = r.felt(), r.felt(), r.str()
}

func (e *RenameColumn) encode(w *writer) {
	w.felt(e.Table)
	w.felt(e.ID)
	w.str(e.Name)
}

type RenameColumns struct {
	Table   *felt.Felt   `json:"table"`
	Columns []ColumnName `json:"columns"`
}

func (*RenameColumns) EventName() string { return "RenameColumns" }

func (e *RenameColumns) decode(r *reader) {
	e.Table = r.felt()
	e.Columns = list(r, readColumnName)
}

func (e *RenameColumns) encode(w *writer) {
	w.felt(e.Table)
	writeList(w, e.Columns, writeColumnName)
}

type RetypeColumn struct {
	Table      *felt.Felt          `json:"table"`
	ID         *felt.Felt          `json:"id"`
	Attributes []typedef.Attribute `json:"attributes"`
	TypeDef    typedef.Def         `json:"type_def"`
}

func (*RetypeColumn) EventName() string { return "RetypeColumn" }

func (e *RetypeColumn) decode(r *reader) {
	e.Table = r.felt()
	c := readColumnType(r)
	e.ID, e.Attributes, e.TypeDef = c.ID, c.Attributes, c.TypeDef
}

func (e *RetypeColumn) encode(w *writer) {
	w.felt(e.Table)
	writeColumnType(w, ColumnType{ID: e.ID, Attributes: e.Attributes, TypeDef: e.TypeDef})
}

type RetypeColumns struct {
	Table   *felt.Felt   `json:"table"`
	Columns []ColumnType `json:"columns"`
}

func (*RetypeColumns) EventName() string { return "RetypeColumns" }

func (e *RetypeColumns) decode(r *reader) {
	e.Table = r.felt()
	e.Columns = list(r, readColumnType)
}

func (e *RetypeColumns) encode(w *writer) {
	w.felt(e.Table)
	writeList(w, e.Columns, writeColumnType)
}

type DropColumn struct {
	Table *felt.Felt `json:"table"`
	ID    *felt.Felt `json:"id"`
}

func (*DropColumn) EventName() string { return "DropColumn" }

func (e *DropColumn) decode(r *reader) {
	e.Table, e.ID = r.felt(), r.felt()
}

func (e *DropColumn) encode(w *writer) {
	w.felt(e.Table)
	w.felt(e.ID)
}

type DropColumns struct {
	Table *felt.Felt   `json:"table"`
	IDs   []*felt.Felt `json:"ids"`
}

func (*DropColumns) EventName() string { return "DropColumns" }

func (e *DropColumns) decode(r *reader) {
	e.Table, e.IDs = r.felt(), r.felts()
}

func (e *DropColumns) encode(w *writer) {
	w.felt(e.Table)
	w.felts(e.IDs)
}

type CreateColumnSet struct {
	ID      *felt.Felt   `json:"id"`
	Columns []*felt.Felt `json:"columns"`
}

func (*CreateColumnSet) EventName() string { return "CreateColumnSet" }

func (e *CreateColumnSet) decode(r *reader) {
	e.ID, e.Columns = r.felt(), r.felts()
}

func (e *CreateColumnSet) encode(w *writer) {
	w.felt(e.ID)
	w.felts(e.Columns)
}

type CreateIndex struct {
	Table   *felt.Felt   `json:"table"`
	ID      *felt.Felt   `json:"id"`
	Name    string       `json:"name"`
	Columns []*felt.Felt `json:"columns"`
}

func (*CreateIndex) EventName() string { return "CreateIndex" }

func (e *CreateIndex) decode(r *reader) {
	e.Table, e.ID, e.Name, e.Columns = r.felt(), r.felt(), r.str(), r.felts()
}

func (e *CreateIndex) encode(w *writer) {
	w.felt(e.Table)
	w.felt(e.ID)
	w.str(e.Name)
	w.felts(e.Columns)
}

type DropIndex struct {
	Table *felt.Felt `json:"table"`
	ID    *felt.Felt `json:"id"`
}

func (*DropIndex) EventName() string { return "DropIndex" }

func (e *DropIndex) decode(r *reader) {
	e.Table, e.ID = r.felt(), r.felt()
}

func (e *DropIndex) encode(w *writer) {
	w.felt(e.Table)
	w.felt(e.ID)
}

var schemaEvents = []func() Event{
	func() Event { return &CreateTable{} },
	func() Event { return &CreateTableWithColumns{} },
	func() Event { return &CreateTableFromClassHash{} },
	func() Event { return &RenameTable{} },
	func() Event { return &DropTable{} },
	func() Event { return &RenamePrimary{} },
	func() Event { return &RetypePrimary{} },
	func() Event { return &AddColumn{} },
	func() Event { return &AddColumns{} },
	func() Event { return &RenameColumn{} },
	func() Event { return &RenameColumns{} },
	func() Event { return &RetypeColumn{} },
	func() Event { return &RetypeColumns{} },
	func() Event { return &DropColumn{} },
	func() Event { return &DropColumns{} },
	func() Event { return &CreateColumnSet{} },
	func() Event { return &CreateIndex{} },
	func() Event { return &DropIndex{} },
}
