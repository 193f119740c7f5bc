package repository

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestSettingUpdateValue(t *testing.T) {
	db := testDB(t)
	repo := NewSettingRepository(db)
	ctx := context.Background()

	_, err := db.Exec(
		`INSERT INTO settings (key, value, category, updated_at) VALUES (?, ?, ?, ?)`,
		"site_name", "Old Name", "general", time.Now().Add(-time.Hour).Unix(),
	)
	if err != nil {
		t.Fatalf("seeding setting: %v", err)
	}

	updated, err := repo.UpdateValue(ctx, "site_name", "New Name")
	if err != nil {
		t.Fatalf("UpdateValue: %v", err)
	}
	if updated.Value != "New Name" {
		t.Errorf("value not updated: %+v", updated)
	}

	settings, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(settings) != 1 {
		t.Fatalf("expected 1 setting, got %d", len(settings))
	}
}

func TestSettingUpdateUnknownKey(t *testing.T) {
	repo := NewSettingRepository(testDB(t))

	_, err := repo.UpdateValue(context.Background(), "does_not_exist", "value")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
