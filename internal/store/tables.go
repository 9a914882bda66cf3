package store

import (
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

const (
	revisionsTable = "revisions"
	counterTable   = "revision_counter"

	colID            = "id"
	colSequence      = "sequence"
	colSavedAt       = "saved_at"
	colFormatVersion = "format_version"
	colDocument      = "document"
	colLastSequence  = "last_sequence"

	// counterRowID is the id of the single row in the counter table.
	counterRowID = 1
)

var (
	// RevisionsColumns holds the columns for the "revisions" table.
	RevisionsColumns = []*schema.Column{
		{Name: colID, Type: field.TypeInt, Increment: true},
		{Name: colSequence, Type: field.TypeInt64, Unique: true},
		{Name: colSavedAt, Type: field.TypeTime},
		{Name: colFormatVersion, Type: field.TypeString, Default: ""},
		{Name: colDocument, Type: field.TypeJSON},
	}
	// RevisionsTable holds the schema information for the "revisions" table.
	RevisionsTable = &schema.Table{
		Name:       revisionsTable,
		Columns:    RevisionsColumns,
		PrimaryKey: []*schema.Column{RevisionsColumns[0]},
		Indexes: []*schema.Index{
			{
				Name:    "revision_saved_at",
				Unique:  false,
				Columns: []*schema.Column{RevisionsColumns[2]},
			},
		},
	}
	// CounterColumns holds the columns for the "revision_counter" table.
	CounterColumns = []*schema.Column{
		{Name: colID, Type: field.TypeInt},
		{Name: colLastSequence, Type: field.TypeInt64, Default: 0},
	}
	// CounterTable holds the last sequence handed out. It is kept apart
	// from the revisions so deleting revisions never rewinds it.
	CounterTable = &schema.Table{
		Name:       counterTable,
		Columns:    CounterColumns,
		PrimaryKey: []*schema.Column{CounterColumns[0]},
	}
	// Tables holds all the tables in the schema.
	Tables = []*schema.Table{
		RevisionsTable,
		CounterTable,
	}
)
