// Package store holds the persistence rules of the recipe domain. Every
// function takes the *gorm.DB to run against, so callers may pass a
// transaction.
package store

import (
	"errors"

	"foodgram/backend/internal/apperr"
	"foodgram/backend/internal/models"

	"gorm.io/gorm"
)

// Page selects a window of a list. A non-positive Limit means no limit.
type Page struct {
	Offset int
	Limit  int
}

func (p Page) apply(db *gorm.DB) *gorm.DB {
	if p.Offset > 0 {
		db = db.Offset(p.Offset)
	}
	if p.Limit > 0 {
		db = db.Limit(p.Limit)
	}
	return db
}

// Actor is the authenticated principal performing a mutation.
type Actor struct {
	UserID     uint
	Privileged bool
}

// CanMutate reports whether the actor may change or delete r.
func (a Actor) CanMutate(r models.Recipe) bool {
	return a.Privileged || (a.UserID != 0 && r.AuthorID == a.UserID)
}

// notFound converts gorm.ErrRecordNotFound into a client-facing error.
func notFound(err error, message string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound(message)
	}
	return err
}
