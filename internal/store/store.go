// Package store defines the document store contract the service layer
// depends on, together with in-memory, Redis, and SQL-backed backends.
//
// Every backend guarantees that a single-document operation (insert,
// field set, array push/pull, delete) commits atomically. Nothing that
// spans documents is transactional: DeleteMany and UpdateMany commit one
// document at a time, and callers own any cross-document consistency.
package store

import (
	"context"
	"errors"
	"fmt"
)

// ErrNotFound is returned when a document identifier does not resolve.
var ErrNotFound = errors.New("store: document not found")

// IDField is the document field carrying the store-assigned identifier.
const IDField = "id"

// Doc is a decoded JSON document.
type Doc = map[string]any

// DuplicateKeyError is returned when an insert or update violates a
// unique-field constraint registered on the collection.
type DuplicateKeyError struct {
	Collection string
	Field      string
	Value      string
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("store: duplicate %s.%s %q", e.Collection, e.Field, e.Value)
}

// Collection describes a named collection and the string fields the store
// must keep unique across its documents.
type Collection struct {
	Name   string
	Unique []string
}

// Match selects array elements for Pull. With Field empty the element
// itself is compared against Value; otherwise the element must be an
// object whose Field equals Value.
type Match struct {
	Field string
	Value any
}

// FieldMatch pairs a document field with an expected value.
type FieldMatch struct {
	Field string
	Value any
}

// Filter selects documents within a collection. The zero value matches
// every document; set members narrow the selection conjunctively.
type Filter struct {
	IDs      []string    // restrict to these identifiers
	Equals   *FieldMatch // field equality
	Contains *FieldMatch // array field containing value
}

type opKind int

const (
	opSet opKind = iota
	opPush
	opAddToSet
	opPull
)

// Op is a single-document update operator.
type Op struct {
	kind   opKind
	fields map[string]any
	field  string
	value  any
	match  Match
}

// Set assigns the given fields on the document.
func Set(fields map[string]any) Op {
	return Op{kind: opSet, fields: fields}
}

// Push appends value to the named array field.
func Push(field string, value any) Op {
	return Op{kind: opPush, field: field, value: value}
}

// AddToSet appends value to the named array field unless an equal element
// is already present.
func AddToSet(field string, value any) Op {
	return Op{kind: opAddToSet, field: field, value: value}
}

// Pull removes every element of the named array field selected by match.
// Pulling an absent element is a no-op.
func Pull(field string, match Match) Op {
	return Op{kind: opPull, field: field, match: match}
}

// Store is the full set of primitives the managers consume. Get, UpdateOne
// and DeleteOne return ErrNotFound when the id does not resolve; DeleteOne
// returns the document as it stood before deletion.
type Store interface {
	Insert(ctx context.Context, collection string, doc Doc) (string, error)
	Get(ctx context.Context, collection, id string) (Doc, error)
	Find(ctx context.Context, collection string, filter Filter) ([]Doc, error)
	UpdateOne(ctx context.Context, collection, id string, ops ...Op) (Doc, error)
	DeleteOne(ctx context.Context, collection, id string) (Doc, error)
	DeleteMany(ctx context.Context, collection string, filter Filter) (int64, error)
	UpdateMany(ctx context.Context, collection string, filter Filter, ops ...Op) (int64, error)
}
