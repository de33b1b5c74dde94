// Package repository provides typed data access over the document store.
//
// Repositories translate store-level failures into application errors:
// a missing document becomes NOT_FOUND, a rejected unique value becomes
// VALIDATION_ERROR, and anything else is wrapped as INTERNAL_ERROR.
package repository

import (
	"errors"
	"fmt"

	"murmur/internal/models"
	"murmur/internal/store"
)

// Collection names served by the store.
const (
	UsersCollection    = "users"
	ThoughtsCollection = "thoughts"
)

// Collections returns the collection specs every store backend must serve.
// Username and email uniqueness lives here, in the store, so duplicate
// detection happens at write time instead of a racy pre-check.
func Collections() []store.Collection {
	return []store.Collection{
		{Name: UsersCollection, Unique: []string{"username", "email"}},
		{Name: ThoughtsCollection},
	}
}

// translateStoreErr maps store errors for a single-document operation onto
// the application error taxonomy.
func translateStoreErr(resource string, id any, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, store.ErrNotFound) {
		return models.NewNotFoundError(resource, id)
	}
	var dup *store.DuplicateKeyError
	if errors.As(err, &dup) {
		return models.NewValidationError(fmt.Sprintf("%s %q is already taken", dup.Field, dup.Value))
	}
	return models.NewInternalError(err)
}
