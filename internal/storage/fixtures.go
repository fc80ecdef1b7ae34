package storage

import (
	"embed"
	"encoding/json"
	"fmt"

	"campusfind/internal/model"
)

//go:embed fixtures
var fixturesFS embed.FS

// Fixtures holds the static seed data a fresh session starts from.
type Fixtures struct {
	Users         []model.User
	Items         []model.Item
	Claims        []model.Claim
	Notifications []model.Notification
}

// LoadFixtures parses the embedded seed data. The fixtures are part of
// the binary, so a parse failure is a build defect, not a runtime state.
func LoadFixtures() (*Fixtures, error) {
	f := &Fixtures{}
	for name, dest := range map[string]any{
		CollectionUsers:         &f.Users,
		CollectionItems:         &f.Items,
		CollectionClaims:        &f.Claims,
		CollectionNotifications: &f.Notifications,
	} {
		data, err := fixturesFS.ReadFile("fixtures/" + name + ".json")
		if err != nil {
			return nil, fmt.Errorf("reading fixture %s: %w", name, err)
		}
		if err := json.Unmarshal(data, dest); err != nil {
			return nil, fmt.Errorf("parsing fixture %s: %w", name, err)
		}
	}
	return f, nil
}

// Collection returns a deep copy of the named fixture collection, so
// callers can mutate their copy without touching the seed.
func (f *Fixtures) Collection(name string) any {
	switch name {
	case CollectionUsers:
		return append([]model.User(nil), f.Users...)
	case CollectionItems:
		return append([]model.Item(nil), f.Items...)
	case CollectionClaims:
		return append([]model.Claim(nil), f.Claims...)
	case CollectionNotifications:
		return append([]model.Notification(nil), f.Notifications...)
	}
	return nil
}
