package adapters

import (
	"strings"

	"golang.org/x/net/html"
)

// table is a flattened HTML table: the first row with header cells (or the
// first row when the table has no <th>) becomes the header, everything else
// data rows.
type table struct {
	header []string
	rows   [][]string
}

// headerIndex returns the column index whose header contains needle
// (case-insensitive), or -1.
func (t *table) headerIndex(needle string) int {
	needle = strings.ToLower(needle)
	for i, h := range t.header {
		if strings.Contains(strings.ToLower(h), needle) {
			return i
		}
	}
	return -1
}

func (t *table) cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

// parseTables extracts every <table> from an HTML document in document
// order. Parsing never fails on malformed markup; x/net/html repairs what it
// can and the caller decides whether any table matches its expected shape.
func parseTables(doc string) []table {
	root, err := html.Parse(strings.NewReader(doc))
	if err != nil {
		return nil
	}

	var tables []table
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "table" {
			tables = append(tables, flattenTable(n))
			// Nested tables are rare in the sources we scrape; treat the
			// outer table as authoritative and skip its children.
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return tables
}

func flattenTable(tbl *html.Node) table {
	var out table
	var walkRows func(n *html.Node)
	walkRows = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "tr" {
			cells, isHeader := rowCells(n)
			if isHeader && out.header == nil {
				out.header = cells
			} else {
				out.rows = append(out.rows, cells)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walkRows(c)
		}
	}
	walkRows(tbl)

	// Tables without <th> cells use their first row as the header.
	if out.header == nil && len(out.rows) > 0 {
		out.header = out.rows[0]
		out.rows = out.rows[1:]
	}
	return out
}

func rowCells(tr *html.Node) (cells []string, isHeader bool) {
	for c := tr.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		switch c.Data {
		case "th":
			isHeader = true
			cells = append(cells, nodeText(c))
		case "td":
			cells = append(cells, nodeText(c))
		}
	}
	return cells, isHeader
}

func nodeText(n *html.Node) string {
	var b strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(strings.Fields(b.String()), " ")
}
