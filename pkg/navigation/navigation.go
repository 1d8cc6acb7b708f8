package navigation

import "strings"

// Item represents a navigation link rendered by the shared layout. Items
// with children are rendered as dropdowns.
type Item struct {
	Label    string
	Path     string
	Children []Item
}

// HasChildren reports whether the item renders as a dropdown.
func (i Item) HasChildren() bool {
	return len(i.Children) > 0
}

// Active reports whether current is the item's page or one of its children.
func (i Item) Active(current string) bool {
	if samePath(i.Path, current) {
		return true
	}
	for _, child := range i.Children {
		if child.Active(current) {
			return true
		}
	}
	return false
}

func samePath(a, b string) bool {
	a, _, _ = strings.Cut(a, "#")
	b, _, _ = strings.Cut(b, "#")
	a = strings.TrimSuffix(a, "/")
	b = strings.TrimSuffix(b, "/")
	return a == b
}
