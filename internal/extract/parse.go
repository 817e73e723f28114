package extract

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ErrNoContainer is returned when the document has no <main> element.
var ErrNoContainer = errors.New("status page has no <main> container")

// layout identifies the column structure of a data row.
type layout uint8

const (
	layoutUnknown layout = iota
	// layoutSplit: timestamp | name | value | unit
	layoutSplit
	// layoutCombined: name | "value unit" | timestamp (newer firmware)
	layoutCombined
)

func (l layout) String() string {
	switch l {
	case layoutSplit:
		return "split"
	case layoutCombined:
		return "combined"
	default:
		return "unknown"
	}
}

// rawRow holds the cell texts of one data row after layout dispatch.
type rawRow struct {
	timestamp string
	name      string
	value     string
	unit      string
}

// Parse reads a status page and returns one Record per data row, in
// document order. Only a missing <main> container or a malformed timestamp
// fail the call; rows of an unknown shape or without a usable name are
// skipped.
func Parse(r io.Reader) ([]Record, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	container := findFirst(doc, atom.Main)
	if container == nil {
		return nil, ErrNoContainer
	}

	var records []Record
	for _, table := range findAll(container, atom.Table) {
		for _, tr := range tableRows(table) {
			cells, header := rowCells(tr)
			if header {
				continue
			}

			l := probeLayout(cells)
			var raw rawRow
			switch l {
			case layoutSplit:
				raw = splitRow(cells)
			case layoutCombined:
				raw = combinedRow(cells)
			default:
				slog.Debug("extract: skipping row with unsupported layout", "cells", len(cells))
				continue
			}

			rec, ok, err := raw.record()
			if err != nil {
				return nil, err
			}
			if !ok {
				slog.Debug("extract: skipping row without name", "layout", l.String(), "value", raw.value)
				continue
			}
			records = append(records, rec)
		}
	}
	return records, nil
}

// probeLayout picks the row variant from its cell count.
func probeLayout(cells []*html.Node) layout {
	switch len(cells) {
	case 4:
		return layoutSplit
	case 3:
		return layoutCombined
	default:
		return layoutUnknown
	}
}

func splitRow(cells []*html.Node) rawRow {
	return rawRow{
		timestamp: textContent(cells[0]),
		name:      textContent(cells[1]),
		value:     textContent(cells[2]),
		unit:      LookupUnit(textContent(cells[3])),
	}
}

// combinedRow reads only the value cell's own text; nested elements carry
// annotations, not the reading.
func combinedRow(cells []*html.Node) rawRow {
	value, unit := SplitUnit(ownText(cells[1]))
	return rawRow{
		name:      textContent(cells[0]),
		value:     value,
		unit:      unit,
		timestamp: textContent(cells[2]),
	}
}

// record normalizes the row. The timestamp is checked first so that a bad
// timestamp fails the scrape even on rows that would be dropped.
func (r rawRow) record() (Record, bool, error) {
	ts, err := ParseTimestamp(r.timestamp)
	if err != nil {
		return Record{}, false, err
	}

	name := metricName(r.name, r.unit)
	if name == "" {
		return Record{}, false, nil
	}

	return Record{
		Name:      name,
		Unit:      r.unit,
		Value:     Coerce(r.value),
		Timestamp: ts,
	}, true, nil
}

// --- tree helpers -----------------------------------------------------------

func isElement(n *html.Node, a atom.Atom) bool {
	return n.Type == html.ElementNode && n.DataAtom == a
}

// findFirst returns the first element of type a below n in document order.
func findFirst(n *html.Node, a atom.Atom) *html.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if isElement(c, a) {
			return c
		}
		if found := findFirst(c, a); found != nil {
			return found
		}
	}
	return nil
}

// findAll returns every element of type a below n in document order,
// including nested ones.
func findAll(n *html.Node, a atom.Atom) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if isElement(c, a) {
				out = append(out, c)
			}
			walk(c)
		}
	}
	walk(n)
	return out
}

// tableRows returns the rows owned by table. Rows of nested tables belong to
// those tables and are not repeated here.
func tableRows(table *html.Node) []*html.Node {
	var rows []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			switch {
			case isElement(c, atom.Table):
				continue
			case isElement(c, atom.Tr):
				rows = append(rows, c)
			default:
				walk(c)
			}
		}
	}
	walk(table)
	return rows
}

// rowCells returns the <td> children of tr and whether the row is a header
// row, i.e. contains any <th>.
func rowCells(tr *html.Node) ([]*html.Node, bool) {
	var cells []*html.Node
	for c := tr.FirstChild; c != nil; c = c.NextSibling {
		switch {
		case isElement(c, atom.Th):
			return nil, true
		case isElement(c, atom.Td):
			cells = append(cells, c)
		}
	}
	return cells, false
}

// textContent concatenates all text below n.
func textContent(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			switch c.Type {
			case html.TextNode:
				b.WriteString(c.Data)
			case html.ElementNode:
				walk(c)
			}
		}
	}
	walk(n)
	return b.String()
}

// ownText concatenates the direct text children of n.
func ownText(n *html.Node) string {
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
		}
	}
	return b.String()
}
