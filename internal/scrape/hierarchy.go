package scrape

// Levels is the number of heading levels tracked per page.
const Levels = 7

// Hierarchy holds the most recently seen heading text per level during
// one page's walk. It is a plain value scoped to a single extraction
// call and is never shared across pages.
type Hierarchy [Levels]string

// Set stores text at the given level and clears every deeper level.
// Levels above the given one are untouched.
func (h *Hierarchy) Set(level int, text string) {
	h[level] = text
	for i := level + 1; i < Levels; i++ {
		h[i] = ""
	}
}

// Deepest returns the deepest non-empty level, or -1 when the hierarchy
// is empty.
func (h Hierarchy) Deepest() int {
	for i := Levels - 1; i >= 0; i-- {
		if h[i] != "" {
			return i
		}
	}
	return -1
}
