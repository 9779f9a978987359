// Package shopping merges priced candidates into a household's shopping list.
package shopping

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/Veraticus/larder/internal/common"
	"github.com/Veraticus/larder/internal/model"
)

// ErrInvalidCandidate is returned when a candidate cannot become a list item.
var ErrInvalidCandidate = errors.New("invalid shopping list item")

// Candidate is a proposed list item produced by a matcher, a meal plan or the user.
type Candidate struct {
	Price      *float64
	OfferPrice *float64
	// Checked overrides the existing checked state when set.
	Checked    *bool
	ID         string
	Name       string
	Unit       string
	Store      string
	OfferID    string
	Source     model.ItemSource
	Amount     float64
	IsEstimate bool
}

func (c Candidate) validate() error {
	if c.ID == "" {
		return fmt.Errorf("%w: id is required", ErrInvalidCandidate)
	}
	if c.Name == "" {
		return fmt.Errorf("%w: name is required for %s", ErrInvalidCandidate, c.ID)
	}
	for _, p := range []*float64{c.Price, c.OfferPrice} {
		if p != nil && (*p < 0 || math.IsNaN(*p) || math.IsInf(*p, 0)) {
			return fmt.Errorf("%w: price must be a non-negative number for %s", ErrInvalidCandidate, c.ID)
		}
	}
	if c.Amount < 0 {
		return fmt.Errorf("%w: amount must not be negative for %s", ErrInvalidCandidate, c.ID)
	}
	return nil
}

func (c Candidate) item(checked bool) model.ShoppingListItem {
	item := model.ShoppingListItem{
		ID:         c.ID,
		Name:       c.Name,
		Amount:     c.Amount,
		Unit:       c.Unit,
		Store:      c.Store,
		OfferID:    c.OfferID,
		Source:     c.Source,
		Price:      copyFloat(c.Price),
		OfferPrice: copyFloat(c.OfferPrice),
		IsEstimate: c.IsEstimate,
		Checked:    checked,
	}
	if c.Checked != nil {
		item.Checked = *c.Checked
	}
	switch {
	case item.OfferPrice != nil:
		item.IsEstimate = false
	case item.Price == nil:
		item.IsEstimate = false
	}
	return item
}

// Aggregator applies list mutations. Every method leaves its input untouched
// and returns a new list with TotalPrice recomputed from the items.
type Aggregator struct {
	now func() time.Time
}

// NewAggregator creates an aggregator that stamps UpdatedAt with the wall clock.
func NewAggregator() *Aggregator {
	return &Aggregator{now: time.Now}
}

// AddOrUpdateItems merges candidates into the list by item id.
// Existing items take the candidate's fields but keep their checked state
// unless the candidate sets one. New ids are appended in candidate order, and
// when an id repeats within the batch the last candidate wins.
func (a *Aggregator) AddOrUpdateItems(list *model.ShoppingList, candidates []Candidate) (*model.ShoppingList, error) {
	if err := mutable(list, "add items to"); err != nil {
		return nil, err
	}
	for _, c := range candidates {
		if err := c.validate(); err != nil {
			return nil, err
		}
	}

	next := clone(list)
	index := make(map[string]int, len(next.Items))
	for i, item := range next.Items {
		index[item.ID] = i
	}

	for _, c := range candidates {
		if i, ok := index[c.ID]; ok {
			next.Items[i] = c.item(next.Items[i].Checked)
			continue
		}
		index[c.ID] = len(next.Items)
		next.Items = append(next.Items, c.item(false))
	}

	return a.finish(next), nil
}

// ToggleChecked flips the checked flag of one item.
func (a *Aggregator) ToggleChecked(list *model.ShoppingList, itemID string) (*model.ShoppingList, error) {
	if err := mutable(list, "check items on"); err != nil {
		return nil, err
	}

	next := clone(list)
	for i := range next.Items {
		if next.Items[i].ID == itemID {
			next.Items[i].Checked = !next.Items[i].Checked
			return a.finish(next), nil
		}
	}
	return nil, fmt.Errorf("item %s: %w", itemID, common.ErrNotFound)
}

// RemoveItem drops one item. Removing an unknown id leaves the items unchanged.
func (a *Aggregator) RemoveItem(list *model.ShoppingList, itemID string) (*model.ShoppingList, error) {
	if err := mutable(list, "remove items from"); err != nil {
		return nil, err
	}

	next := clone(list)
	kept := next.Items[:0]
	for _, item := range next.Items {
		if item.ID != itemID {
			kept = append(kept, item)
		}
	}
	next.Items = kept
	return a.finish(next), nil
}

// Clear removes every item.
func (a *Aggregator) Clear(list *model.ShoppingList) (*model.ShoppingList, error) {
	if err := mutable(list, "clear"); err != nil {
		return nil, err
	}

	next := clone(list)
	next.Items = []model.ShoppingListItem{}
	return a.finish(next), nil
}

// MarkCompleted checks out the list. Completion is one-way.
func (a *Aggregator) MarkCompleted(list *model.ShoppingList) (*model.ShoppingList, error) {
	if err := mutable(list, "complete"); err != nil {
		return nil, err
	}

	next := clone(list)
	next.Completed = true
	return a.finish(next), nil
}

func (a *Aggregator) finish(list *model.ShoppingList) *model.ShoppingList {
	Recalculate(list)
	list.UpdatedAt = a.now().UTC()
	return list
}

// Recalculate sets TotalPrice to the sum of the items' selected prices, rounded to cents.
func Recalculate(list *model.ShoppingList) {
	total := 0.0
	for _, item := range list.Items {
		total += item.SelectedPrice()
	}
	list.TotalPrice = model.RoundCents(total)
}

func mutable(list *model.ShoppingList, action string) error {
	if list == nil {
		return fmt.Errorf("cannot %s a missing list: %w", action, common.ErrNotFound)
	}
	if list.Completed {
		return common.InvalidState("cannot %s completed list %s", action, list.ID)
	}
	return nil
}

func clone(list *model.ShoppingList) *model.ShoppingList {
	next := *list
	next.Items = make([]model.ShoppingListItem, len(list.Items))
	for i, item := range list.Items {
		item.Price = copyFloat(item.Price)
		item.OfferPrice = copyFloat(item.OfferPrice)
		next.Items[i] = item
	}
	return &next
}

func copyFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
