// Package focus picks the next item to focus when a remote-control direction
// key is pressed. Everything here is a pure function of its arguments: the
// caller owns the item snapshot and applies focus itself.
package focus

import "math"

// Route returns the item that should receive focus after moving in dir from
// current. current may be nil or no longer part of items; both are treated
// as "nothing focused". The boolean is false when there is nowhere to go.
func Route(dir Direction, current *Item, items []Item) (Item, bool) {
	idx := RouteIndex(dir, current, items)
	if idx < 0 {
		return Item{}, false
	}
	return items[idx], true
}

// RouteIndex is Route but returns an index into items, or -1.
func RouteIndex(dir Direction, current *Item, items []Item) int {
	n := len(items)
	if n == 0 {
		return -1
	}

	cur := -1
	if current != nil {
		cur = IndexOf(items, current.ID)
	}
	if cur < 0 {
		// No valid current item: every direction starts at the top
		return 0
	}

	switch dir {
	case Down:
		return (cur + 1) % n
	case Up:
		return (cur - 1 + n) % n
	case Left, Right:
		if idx := nearestInRow(dir, cur, items); idx >= 0 {
			return idx
		}
		return linearStep(dir, cur, n)
	}
	return -1
}

// IndexOf returns the position of the item with the given ID, or -1
func IndexOf(items []Item, id string) int {
	for i := range items {
		if items[i].ID == id {
			return i
		}
	}
	return -1
}

// SameRow reports whether two rectangles share a row
func SameRow(a, b Rect) bool {
	return math.Abs(a.CenterY()-b.CenterY()) < RowTolerance
}

// nearestInRow finds the closest same-row item strictly on the requested side
func nearestInRow(dir Direction, cur int, items []Item) int {
	origin := items[cur].Rect
	best := -1
	bestDistance := math.Inf(1)

	for i := range items {
		if i == cur || !SameRow(origin, items[i].Rect) {
			continue
		}
		distance := items[i].Rect.Left - origin.Left
		if dir == Left {
			distance = -distance
		}
		if distance > 0 && distance < bestDistance {
			best = i
			bestDistance = distance
		}
	}
	return best
}

// linearStep moves one position through the sequence without wrapping.
// Landing back on cur means there is no move to make.
func linearStep(dir Direction, cur, n int) int {
	next := cur - 1
	if dir == Right {
		next = cur + 1
	}
	if next < 0 || next >= n {
		return -1
	}
	return next
}

// Rows groups items into visual rows, preserving their order. An item joins
// the first row whose leading item it shares a row with.
func Rows(items []Item) [][]Item {
	var rows [][]Item
	for _, it := range items {
		placed := false
		for r := range rows {
			if SameRow(rows[r][0].Rect, it.Rect) {
				rows[r] = append(rows[r], it)
				placed = true
				break
			}
		}
		if !placed {
			rows = append(rows, []Item{it})
		}
	}
	return rows
}
