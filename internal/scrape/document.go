package scrape

import (
	"fmt"
	"hash/fnv"
	"io"
)

// Document types.
const (
	TypeContent = "content"
	TypeLvl1    = "lvl1"
)

// Document is the unit of indexing: one searchable record carrying its
// heading context, ranking key, and page-level metadata.
type Document struct {
	ObjectID         string `json:"objectID"`
	URL              string `json:"url"`
	URLWithoutAnchor string `json:"url_without_anchor"`
	Anchor           string `json:"anchor,omitempty"`
	Content          string `json:"content"`
	Type             string `json:"type"`

	HierarchyLvl0 string `json:"hierarchy_lvl0"`
	HierarchyLvl1 string `json:"hierarchy_lvl1"`
	HierarchyLvl2 string `json:"hierarchy_lvl2"`
	HierarchyLvl3 string `json:"hierarchy_lvl3"`
	HierarchyLvl4 string `json:"hierarchy_lvl4"`
	HierarchyLvl5 string `json:"hierarchy_lvl5"`
	HierarchyLvl6 string `json:"hierarchy_lvl6"`

	Product    string   `json:"product,omitempty"`
	Breadcrumb string   `json:"breadcrumb,omitempty"`
	Tags       []string `json:"tags,omitempty"`

	ItemPriority int64 `json:"item_priority"`
}

// setHierarchy copies a hierarchy snapshot into the flat record fields.
func (d *Document) setHierarchy(h Hierarchy) {
	d.HierarchyLvl0 = h[0]
	d.HierarchyLvl1 = h[1]
	d.HierarchyLvl2 = h[2]
	d.HierarchyLvl3 = h[3]
	d.HierarchyLvl4 = h[4]
	d.HierarchyLvl5 = h[5]
	d.HierarchyLvl6 = h[6]
}

// Hierarchy returns the record's heading context as a value.
func (d *Document) Hierarchy() Hierarchy {
	return Hierarchy{
		d.HierarchyLvl0, d.HierarchyLvl1, d.HierarchyLvl2, d.HierarchyLvl3,
		d.HierarchyLvl4, d.HierarchyLvl5, d.HierarchyLvl6,
	}
}

// objectID derives a deterministic record identifier from the document
// URL (anchor included when present) and the page-local emission order.
// FNV-1a is enough: the ID only needs to be stable and unique, not
// tamper-proof.
func objectID(docURL string, seq int) string {
	h := fnv.New64a()
	_, _ = io.WriteString(h, docURL)
	return fmt.Sprintf("%016x-%d", h.Sum64(), seq)
}

// itemPriority combines the start-URL rank, heading depth, and
// intra-page position into one integer ranking key. Higher rank beats
// everything; shallower headings beat deeper ones at equal rank;
// earlier content beats later content at equal depth.
func itemPriority(rank int, h Hierarchy, totalCandidates, contentIndex int) int64 {
	return int64(rank)*1_000_000_000 +
		int64(levelWeight(h))*1000 +
		int64(totalCandidates-contentIndex)
}

// levelWeight rewards shallower heading context. The deepest non-empty
// level decides the bucket; lvl0 and lvl1 share the top one.
func levelWeight(h Hierarchy) int {
	deepest := h.Deepest()
	if deepest < 1 {
		deepest = 1
	}
	return 100 - 10*deepest
}
