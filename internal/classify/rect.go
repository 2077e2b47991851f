package classify

import (
	"strconv"
	"strings"

	"iyftv/internal/focus"
)

// ParseRect reads a "top,left,width,height" attribute value
func ParseRect(s string) (focus.Rect, bool) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return focus.Rect{}, false
	}
	var v [4]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return focus.Rect{}, false
		}
		v[i] = f
	}
	return focus.Rect{Top: v[0], Left: v[1], Width: v[2], Height: v[3]}, true
}

// FormatRect is the inverse of ParseRect
func FormatRect(r focus.Rect) string {
	return strings.Join([]string{
		strconv.FormatFloat(r.Top, 'f', -1, 64),
		strconv.FormatFloat(r.Left, 'f', -1, 64),
		strconv.FormatFloat(r.Width, 'f', -1, 64),
		strconv.FormatFloat(r.Height, 'f', -1, 64),
	}, ",")
}
