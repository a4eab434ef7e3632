package database

import (
	"testing"

	"foodgram/backend/internal/config"
)

func TestOpenRequiresURL(t *testing.T) {
	t.Parallel()

	db, err := Open(&config.Config{})
	if err == nil {
		t.Fatal("expected error when database URL is empty")
	}
	if db != nil {
		t.Fatal("expected returned db handle to be nil on error")
	}
}

func TestMigrateRejectsNilDatabase(t *testing.T) {
	t.Parallel()

	if err := Migrate(nil); err == nil {
		t.Fatal("expected error when database handle is nil")
	}
}

func TestGormConfigTranslatesErrors(t *testing.T) {
	t.Parallel()

	if !GormConfig().TranslateError {
		t.Fatal("expected TranslateError to be enabled")
	}
}
