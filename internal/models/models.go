// package models defines the data model for the ice-cream order summaries
package models

import (
	"slices"
	"strings"
)

// OrderItem is one flavor line of an [Order].
type OrderItem struct {
	Flavor string `json:"flavor"`
	Count  int    `json:"count"`
}

// Order is a user's flavor selection.
type Order struct {
	Username string      `json:"username,omitempty"`
	Items    []OrderItem `json:"items"`
}

// NewOrder builds an [Order] from a flavor -> count map, sorted by flavor name (case-insensitive).
func NewOrder(username string, flavors map[string]int) *Order {
	items := make([]OrderItem, 0, len(flavors))
	for flavor, count := range flavors {
		items = append(items, OrderItem{Flavor: flavor, Count: count})
	}
	slices.SortFunc(items, func(a, b OrderItem) int {
		if c := strings.Compare(strings.ToLower(a.Flavor), strings.ToLower(b.Flavor)); c != 0 {
			return c
		}
		return strings.Compare(a.Flavor, b.Flavor)
	})

	return &Order{Username: username, Items: items}
}

// Total returns the number of scoops across all items.
func (o *Order) Total() int {
	total := 0
	for _, item := range o.Items {
		total += item.Count
	}
	return total
}
