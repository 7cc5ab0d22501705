package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
)

var (
	_ list.Item = flavorItem{}
)

// flavorItem wraps one iceCreamMap entry to implement [list.Item].
type flavorItem struct {
	name  string
	count int
}

func (i flavorItem) FilterValue() string { return i.name }
func (i flavorItem) Title() string       { return i.name }
func (i flavorItem) Description() string {
	if i.count == 1 {
		return "1 scoop"
	}
	return fmt.Sprintf("%d scoops", i.count)
}
