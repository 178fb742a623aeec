// Package extract pulls raw label/value fields out of parsed match pages.
// It performs structural queries only; it never fetches and never parses
// markup itself.
package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/jonesrussell/matchcrawl/internal/domain"
)

// TableWithMarker returns the first table whose text contains the given
// structural marker, or nil when no table matches.
func TableWithMarker(doc *goquery.Document, marker string) *goquery.Selection {
	var found *goquery.Selection

	doc.Find("table").EachWithBreak(func(_ int, table *goquery.Selection) bool {
		if strings.Contains(table.Text(), marker) {
			found = table
			return false
		}
		return true
	})

	return found
}

// PairedCells walks the table's cells two at a time, treating even cells as
// labels and odd cells as values. A label present in the field map stores
// the following cell's text under the canonical key; unmatched labels are
// ignored and an unpaired trailing cell is discarded.
func PairedCells(table *goquery.Selection, fields domain.FieldMap) domain.RawRecord {
	record := domain.RawRecord{}
	if table == nil {
		return record
	}

	cells := table.Find("td")

	for i := 0; i+1 < cells.Length(); i += 2 {
		label := strings.TrimSpace(cells.Eq(i).Text())

		key, ok := fields[label]
		if !ok {
			continue
		}

		record[key] = strings.TrimSpace(cells.Eq(i + 1).Text())
	}

	return record
}

// ColonRule classifies a "label : value" list item by keyword substring and
// names the characters stripped from its value.
type ColonRule struct {
	// Contains is the label keyword that selects this rule.
	Contains string
	// Key is the canonical field key the value is stored under.
	Key string
	// Strip lists substrings removed from the value (unit suffixes,
	// thousands separators).
	Strip []string
}

// UnmatchedFunc is invoked for list items no rule claims.
type UnmatchedFunc func(text string)

// ColonList extracts fields from "label : value" list items. For each item
// the first rule whose keyword is contained in the text wins; the stored
// value is the text after the last colon with the rule's strip characters
// removed. Items matching no rule are reported through onUnmatched and
// skipped.
func ColonList(items *goquery.Selection, rules []ColonRule, onUnmatched UnmatchedFunc) domain.RawRecord {
	record := domain.RawRecord{}

	items.Each(func(_ int, item *goquery.Selection) {
		text := item.Text()

		for i := range rules {
			if strings.Contains(text, rules[i].Contains) {
				record[rules[i].Key] = colonValue(text, rules[i].Strip)
				return
			}
		}

		if onUnmatched != nil {
			onUnmatched(strings.TrimSpace(text))
		}
	})

	return record
}

// colonValue takes the text after the last colon and removes the given
// strip substrings.
func colonValue(text string, strip []string) string {
	parts := strings.Split(text, ":")
	value := parts[len(parts)-1]

	for _, s := range strip {
		value = strings.ReplaceAll(value, s, "")
	}

	return strings.TrimSpace(value)
}
