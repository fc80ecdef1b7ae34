package state

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"campusfind/internal/match"
	"campusfind/internal/model"
	"campusfind/internal/storage"
)

// AddItem assigns an id and timestamp to the draft, marks it open, and
// prepends it to the item collection. A found item additionally kicks
// off match evaluation against every currently open lost item; those
// evaluations are fire-and-forget and never block or roll back the
// report.
func (s *Session) AddItem(ctx context.Context, draft model.Item) (*model.Item, error) {
	if draft.Type != model.ItemTypeLost && draft.Type != model.ItemTypeFound {
		return nil, fmt.Errorf("invalid item type %q", draft.Type)
	}
	if !model.ValidCategory(draft.ItemType) {
		return nil, fmt.Errorf("invalid item category %q", draft.ItemType)
	}

	item := draft
	item.ID = model.NewItemID()
	item.ReportedAt = time.Now().UTC()
	item.ReportedBy = s.userID
	item.Status = model.ItemStatusOpen

	s.mu.Lock()
	s.items = append([]model.Item{item}, s.items...)
	err := s.persist(ctx, storage.CollectionItems)
	if err != nil {
		// Keep memory and storage in step: a report that was not
		// persisted was not reported.
		s.items = s.items[1:]
	}

	var openLost []model.Item
	if err == nil && item.Type == model.ItemTypeFound {
		// Snapshot the open lost items that exist right now; reports
		// arriving later get their own evaluation.
		for _, it := range s.items {
			if it.Type == model.ItemTypeLost && it.Status == model.ItemStatusOpen {
				openLost = append(openLost, it)
			}
		}
	}
	s.mu.Unlock()

	if err != nil {
		return nil, err
	}

	for _, lost := range openLost {
		s.matching.Add(1)
		go s.evaluateMatch(lost, item)
	}

	return &item, nil
}

// evaluateMatch runs one lost item through the matching collaborator
// with the new found item as the candidate. A score above the threshold
// notifies the lost item's reporter. Failures are logged and otherwise
// invisible; a notification may reference an item deleted while the
// evaluation was in flight (tolerated orphan).
func (s *Session) evaluateMatch(lost, found model.Item) {
	defer s.matching.Done()

	ctx := context.Background()
	matches, err := s.matcher.FindSimilar(ctx, match.Request{
		PhotoDataURI: lost.ImageURL,
		Description:  lost.Description,
		Candidates:   []model.Item{found},
	})
	if err != nil {
		slog.Warn("match evaluation failed", "lostItem", lost.ID, "foundItem", found.ID, "error", err)
		return
	}

	for _, result := range matches {
		if result.SimilarityScore <= match.Threshold {
			continue
		}
		message := fmt.Sprintf("A newly reported found item, %q (%s), may match your lost item %q.",
			found.Name, found.Location, lost.Name)
		if _, err := s.AddNotification(ctx, lost.ReportedBy, message); err != nil {
			slog.Warn("adding match notification failed", "lostItem", lost.ID, "error", err)
		}
	}
}

// GetItem returns the item with the given id, or nil if absent.
func (s *Session) GetItem(id string) *model.Item {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ID == id {
			item := s.items[i]
			return &item
		}
	}
	return nil
}

// Items returns the item collection, optionally filtered by type,
// status, or reporter. Empty filter values match everything.
func (s *Session) Items(itemType, status, reportedBy string) []model.Item {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := make([]model.Item, 0, len(s.items))
	for _, item := range s.items {
		if itemType != "" && item.Type != itemType {
			continue
		}
		if status != "" && item.Status != status {
			continue
		}
		if reportedBy != "" && item.ReportedBy != reportedBy {
			continue
		}
		items = append(items, item)
	}
	return items
}

// UpdateItem replaces an item by id. Identity fields (type, reporter,
// report time) are preserved from the stored item, and the status may
// only follow a valid transition.
func (s *Session) UpdateItem(ctx context.Context, item model.Item) (*model.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ID != item.ID {
			continue
		}

		current := s.items[i]
		if item.Status == "" {
			item.Status = current.Status
		}
		if !model.ValidStatusTransition(current.Status, item.Status) {
			return nil, fmt.Errorf("%w: %s to %s", ErrInvalidTransition, current.Status, item.Status)
		}
		if item.ItemType != "" && !model.ValidCategory(item.ItemType) {
			return nil, fmt.Errorf("invalid item category %q", item.ItemType)
		}

		item.Type = current.Type
		item.ReportedBy = current.ReportedBy
		item.ReportedAt = current.ReportedAt
		if item.ItemType == "" {
			item.ItemType = current.ItemType
		}

		s.items[i] = item
		if err := s.persist(ctx, storage.CollectionItems); err != nil {
			return nil, err
		}
		return &item, nil
	}
	return nil, ErrNotFound
}

// DeleteItem removes an item by id. Claims and notifications that
// reference it are not cascaded; orphans are tolerated.
func (s *Session) DeleteItem(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ID != id {
			continue
		}
		s.items = append(s.items[:i], s.items[i+1:]...)
		return s.persist(ctx, storage.CollectionItems)
	}
	return ErrNotFound
}

// FindMatches runs the matching collaborator for a lost item against
// the currently open found items. A collaborator failure surfaces as an
// error the caller degrades to "no matches, try again".
func (s *Session) FindMatches(ctx context.Context, itemID string) ([]match.Match, error) {
	item := s.GetItem(itemID)
	if item == nil {
		return nil, ErrNotFound
	}
	if item.Type != model.ItemTypeLost {
		return nil, ErrNotLost
	}

	candidates := s.Items(model.ItemTypeFound, model.ItemStatusOpen, "")
	matches, err := s.matcher.FindSimilar(ctx, match.Request{
		PhotoDataURI: item.ImageURL,
		Description:  item.Description,
		Candidates:   candidates,
	})
	if err != nil {
		return nil, fmt.Errorf("finding matches for %s: %w", itemID, err)
	}
	return matches, nil
}
