package storage

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"campusfind/internal/db"
	"campusfind/internal/model"
)

func TestSaveAndLoadCollectionRoundTrip(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	items := []model.Item{
		{
			ID:          "item-rt-1",
			Name:        "Blue Hydro Flask",
			Type:        model.ItemTypeFound,
			ItemType:    model.CategoryWaterBottle,
			Description: "Dented on one side.",
			ImageURL:    "https://example.com/bottle.jpg",
			Location:    "Library Entrance",
			ReportedAt:  time.Date(2024, 7, 28, 10, 0, 0, 0, time.UTC),
			ReportedBy:  "user-2",
			Status:      model.ItemStatusOpen,
		},
		{
			ID:         "item-rt-2",
			Name:       "Backpack",
			Type:       model.ItemTypeLost,
			ItemType:   model.CategoryBag,
			Location:   "Gym",
			ReportedAt: time.Date(2024, 7, 29, 14, 0, 0, 0, time.UTC),
			ReportedBy: "user-1",
			Status:     model.ItemStatusOpen,
		},
	}

	if err := SaveCollection(ctx, database, "user-1", CollectionItems, items); err != nil {
		t.Fatalf("SaveCollection: %v", err)
	}

	var loaded []model.Item
	found, err := LoadCollection(ctx, database, "user-1", CollectionItems, &loaded)
	if err != nil {
		t.Fatalf("LoadCollection: %v", err)
	}
	if !found {
		t.Fatal("expected stored collection to be found")
	}
	if !reflect.DeepEqual(items, loaded) {
		t.Errorf("round-trip mismatch:\nsaved:  %+v\nloaded: %+v", items, loaded)
	}
}

func TestLoadCollectionMissing(t *testing.T) {
	database := db.NewTestDB(t)

	var items []model.Item
	found, err := LoadCollection(context.Background(), database, "user-1", CollectionItems, &items)
	if err != nil {
		t.Fatalf("LoadCollection: %v", err)
	}
	if found {
		t.Error("expected no stored collection")
	}
}

func TestLoadCollectionCorrupt(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	_, err := database.ExecContext(ctx,
		`INSERT INTO collections (session, name, data) VALUES (?, ?, ?)`,
		"user-1", keyPrefix+CollectionItems, "{not json",
	)
	if err != nil {
		t.Fatal(err)
	}

	var items []model.Item
	_, err = LoadCollection(ctx, database, "user-1", CollectionItems, &items)
	if !errors.Is(err, ErrCorrupt) {
		t.Errorf("expected ErrCorrupt for corrupt stored value, got %v", err)
	}
}

func TestSaveCollectionOverwrites(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	SaveCollection(ctx, database, "user-1", CollectionNotifications, []model.Notification{{ID: "notif-a"}})
	SaveCollection(ctx, database, "user-1", CollectionNotifications, []model.Notification{{ID: "notif-b"}, {ID: "notif-c"}})

	var notifs []model.Notification
	found, err := LoadCollection(ctx, database, "user-1", CollectionNotifications, &notifs)
	if err != nil || !found {
		t.Fatalf("LoadCollection: found=%v err=%v", found, err)
	}
	if len(notifs) != 2 || notifs[0].ID != "notif-b" {
		t.Errorf("expected overwritten collection, got %+v", notifs)
	}
}

func TestClearSessionIsPerSession(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	SaveCollection(ctx, database, "user-1", CollectionItems, []model.Item{{ID: "item-a"}})
	SaveCollection(ctx, database, "user-2", CollectionItems, []model.Item{{ID: "item-b"}})

	if err := ClearSession(ctx, database, "user-1"); err != nil {
		t.Fatalf("ClearSession: %v", err)
	}

	var items []model.Item
	found, _ := LoadCollection(ctx, database, "user-1", CollectionItems, &items)
	if found {
		t.Error("expected user-1 collections to be cleared")
	}

	found, _ = LoadCollection(ctx, database, "user-2", CollectionItems, &items)
	if !found {
		t.Error("expected user-2 collections to survive")
	}
}

func TestLoadFixtures(t *testing.T) {
	f, err := LoadFixtures()
	if err != nil {
		t.Fatalf("LoadFixtures: %v", err)
	}

	if len(f.Users) != 3 {
		t.Errorf("expected 3 seed users, got %d", len(f.Users))
	}
	if len(f.Items) != 6 {
		t.Errorf("expected 6 seed items, got %d", len(f.Items))
	}
	if len(f.Claims) != 0 || len(f.Notifications) != 0 {
		t.Error("expected empty seed claims and notifications")
	}

	// Copies must not alias the seed.
	items := f.Collection(CollectionItems).([]model.Item)
	items[0].Name = "mutated"
	if f.Items[0].Name == "mutated" {
		t.Error("Collection copy aliases the fixture slice")
	}
}
