package store

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/t77yq/lifeos/internal/model"
)

// ShoppingItem returns a copy of the shopping item with the given id
func (s *Store) ShoppingItem(id string) (model.ShoppingItem, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, ok := s.shopping.get(id)
	if !ok {
		return model.ShoppingItem{}, false
	}
	return *item, true
}

// ShoppingItems returns the shopping list in insertion order
func (s *Store) ShoppingItems() []model.ShoppingItem {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]model.ShoppingItem, 0, len(s.shopping.order))
	for _, item := range s.shopping.list() {
		items = append(items, *item)
	}
	return items
}

// AddShoppingItem stores a new item. Status defaults to need, and a missing
// total is derived from quantity and unit price.
func (s *Store) AddShoppingItem(item model.ShoppingItem) model.ShoppingItem {
	s.lock()
	defer s.unlock()

	stored := s.insertShoppingItem(item)
	s.logActivity("added", entityShoppingItem, stored.ID, stored.Name, "")
	return *stored
}

func (s *Store) insertShoppingItem(item model.ShoppingItem) *model.ShoppingItem {
	stored := item
	if stored.ID == "" {
		stored.ID = s.newID()
	}
	if stored.Status == "" {
		stored.Status = model.ShoppingStatusNeed
	}
	if stored.TotalCost == 0 && stored.Quantity > 0 {
		stored.TotalCost = stored.Quantity * stored.UnitPrice
	}
	now := s.now()
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = now
	}
	if stored.StatusUpdatedDate.IsZero() {
		stored.StatusUpdatedDate = now
	}
	s.shopping.put(stored.ID, &stored)
	return &stored
}

// UpdateShoppingItem replaces an item. A status change refreshes its
// StatusUpdatedDate. A missing id is a no-op.
func (s *Store) UpdateShoppingItem(item model.ShoppingItem) bool {
	s.lock()
	defer s.unlock()

	existing, ok := s.shopping.get(item.ID)
	if !ok {
		return false
	}
	updated := item
	if updated.Status != existing.Status {
		updated.StatusUpdatedDate = s.now()
	}
	if updated.CreatedAt.IsZero() {
		updated.CreatedAt = existing.CreatedAt
	}
	s.shopping.put(updated.ID, &updated)

	s.logActivity("updated", entityShoppingItem, updated.ID, updated.Name, "")
	return true
}

// SetShoppingItemStatus moves an item to status
func (s *Store) SetShoppingItemStatus(id string, status model.ShoppingStatus) bool {
	s.lock()
	defer s.unlock()

	item, ok := s.shopping.get(id)
	if !ok {
		return false
	}
	if item.Status == status {
		return true
	}
	previous := item.Status
	item.Status = status
	item.StatusUpdatedDate = s.now()

	s.logActivity("changed status", entityShoppingItem, item.ID, item.Name,
		fmt.Sprintf("%s -> %s", previous, status))
	return true
}

// DeleteShoppingItem removes an item. Materials linking to it stop
// contributing to task cost.
func (s *Store) DeleteShoppingItem(id string) bool {
	s.lock()
	defer s.unlock()

	item, ok := s.shopping.get(id)
	if !ok {
		return false
	}
	s.shopping.remove(id)

	s.logActivity("deleted", entityShoppingItem, id, item.Name, "")
	return true
}

// ReconcileReceipt applies a parsed receipt to the shopping list. Each line
// is matched to the first needed item whose name contains, or is contained
// in, the line's name ignoring case; that item becomes acquired at the parsed
// price. Unmatched lines are added as new acquired items.
func (s *Store) ReconcileReceipt(receipt model.Receipt) (matched, created int) {
	s.lock()
	defer s.unlock()

	now := s.now()
	for _, line := range receipt.Items {
		if item := s.findNeeded(line.Name); item != nil {
			item.Status = model.ShoppingStatusAcquired
			item.StatusUpdatedDate = now
			item.UnitPrice = line.UnitPrice
			item.TotalCost = line.TotalPrice
			if line.Quantity > 0 {
				item.Quantity = line.Quantity
			}
			matched++
			s.logActivity("acquired", entityShoppingItem, item.ID, item.Name, "receipt from "+receipt.Vendor)
			continue
		}

		item := s.insertShoppingItem(model.ShoppingItem{
			Name:      line.Name,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
			TotalCost: line.TotalPrice,
			Status:    model.ShoppingStatusAcquired,
		})
		created++
		s.logActivity("added", entityShoppingItem, item.ID, item.Name, "receipt from "+receipt.Vendor)
	}

	s.logger.Info("Reconciled receipt",
		zap.String("vendor", receipt.Vendor),
		zap.Int("matched", matched),
		zap.Int("created", created))
	return matched, created
}

func (s *Store) findNeeded(name string) *model.ShoppingItem {
	needle := strings.ToLower(strings.TrimSpace(name))
	if needle == "" {
		return nil
	}
	for _, item := range s.shopping.list() {
		if item.Status != model.ShoppingStatusNeed {
			continue
		}
		candidate := strings.ToLower(strings.TrimSpace(item.Name))
		if candidate == "" {
			continue
		}
		if strings.Contains(candidate, needle) || strings.Contains(needle, candidate) {
			return item
		}
	}
	return nil
}
