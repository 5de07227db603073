package scrape

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
)

// compileSelector compiles a CSS selector group. A malformed selector
// returns nil so queries made with it match nothing instead of
// aborting the page: goquery's own Find panics on invalid input.
func compileSelector(selector string) cascadia.Selector {
	if selector == "" {
		return nil
	}
	sel, err := cascadia.Compile(selector)
	if err != nil {
		return nil
	}
	return sel
}

// findAll returns the elements matching the selector in document order,
// or an empty selection for empty and malformed selectors.
func findAll(doc *goquery.Document, selector string) *goquery.Selection {
	sel := compileSelector(selector)
	if sel == nil {
		return doc.FindNodes()
	}
	return doc.FindMatcher(sel)
}

// firstText returns the normalized text of the first element matching
// the selector, or "".
func firstText(doc *goquery.Document, selector string) string {
	sel := findAll(doc, selector)
	if sel.Length() == 0 {
		return ""
	}
	return normalizeText(sel.First())
}

// normalizeText extracts an element's text with whitespace collapsed.
// Table rows are special-cased: cell texts are space-joined, empty
// cells skipped.
func normalizeText(sel *goquery.Selection) string {
	if isTableRow(sel) {
		var cells []string
		sel.Find("td, th").Each(func(_ int, cell *goquery.Selection) {
			if text := collapseWhitespace(cell.Text()); text != "" {
				cells = append(cells, text)
			}
		})
		return strings.Join(cells, " ")
	}
	return collapseWhitespace(sel.Text())
}

// isTableRow reports whether the selection's first node is a tr element.
func isTableRow(sel *goquery.Selection) bool {
	return len(sel.Nodes) > 0 && sel.Nodes[0].Data == "tr"
}

// collapseWhitespace trims and collapses all whitespace runs to single
// spaces.
func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
