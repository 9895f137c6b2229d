// Package tabular turns spreadsheet exports into a grid of trimmed cells.
//
// Two inputs are recognized: an HTML document holding a <table> (the
// "publish to web" page of a spreadsheet) and comma separated text.
package tabular

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ErrMalformedHTML is returned when an HTML export cannot be read.
var ErrMalformedHTML = errors.New("malformed html table")

// Parse returns the rows of raw, detecting the format from its content.
//
// CSV parsing never fails, the worst case is a single big field per line.
func Parse(raw string) ([][]string, error) {
	trimmed := strings.TrimSpace(raw)
	if strings.HasPrefix(trimmed, "<") && strings.Contains(strings.ToLower(trimmed), "<table") {
		return ParseHTML(trimmed)
	}
	return ParseCSV(raw), nil
}

// ParseHTML extracts every <tr> of the document, each cell being the trimmed
// text of a <td> or <th>. Rows whose cells are all empty are dropped.
func ParseHTML(doc string) ([][]string, error) {
	root, err := html.Parse(strings.NewReader(doc))
	if err != nil {
		return nil, fmt.Errorf("%w: %v (check that the sheet is published as a web page)", ErrMalformedHTML, err)
	}
	if findFirst(root, atom.Table) == nil {
		return nil, fmt.Errorf("%w: no <table> element found (check that the sheet is published as a web page)", ErrMalformedHTML)
	}

	var grid [][]string
	walk(root, func(n *html.Node) bool {
		if n.DataAtom != atom.Tr {
			return true
		}
		var row []string
		blank := true
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != html.ElementNode || (c.DataAtom != atom.Td && c.DataAtom != atom.Th) {
				continue
			}
			cell := strings.TrimSpace(textContent(c))
			if cell != "" {
				blank = false
			}
			row = append(row, cell)
		}
		if !blank {
			grid = append(grid, row)
		}
		return false // nested tables are read as text of their cell
	})
	return grid, nil
}

// walk visits n and its descendants depth first; children are skipped when
// visit returns false.
func walk(n *html.Node, visit func(*html.Node) bool) {
	if n.Type == html.ElementNode && !visit(n) {
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, visit)
	}
}

func findFirst(n *html.Node, a atom.Atom) *html.Node {
	var found *html.Node
	walk(n, func(n *html.Node) bool {
		if found != nil {
			return false
		}
		if n.DataAtom == a {
			found = n
			return false
		}
		return true
	})
	return found
}

// textContent renders the text of n, a <br> is a line break.
func textContent(n *html.Node) string {
	var sb strings.Builder
	var render func(*html.Node)
	render = func(n *html.Node) {
		switch {
		case n.Type == html.TextNode:
			sb.WriteString(n.Data)
		case n.Type == html.ElementNode && n.DataAtom == atom.Br:
			sb.WriteByte('\n')
		case n.Type == html.ElementNode && (n.DataAtom == atom.Script || n.DataAtom == atom.Style):
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			render(c)
		}
	}
	render(n)
	return sb.String()
}

// ParseCSV splits text into lines and each line into fields. Blank lines are
// skipped.
func ParseCSV(text string) [][]string {
	var grid [][]string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		grid = append(grid, SplitLine(line))
	}
	return grid
}

// SplitLine tokenizes a single CSV line.
//
// A quote toggles the in-quotes state and a comma outside quotes ends the
// field. Each field is trimmed, loses one layer of surrounding quotes and
// has its doubled quotes collapsed.
func SplitLine(line string) []string {
	var fields []string
	var sb strings.Builder
	quoted := false
	for _, r := range line {
		switch {
		case r == '"':
			quoted = !quoted
			sb.WriteRune(r)
		case r == ',' && !quoted:
			fields = append(fields, cleanField(sb.String()))
			sb.Reset()
		default:
			sb.WriteRune(r)
		}
	}
	return append(fields, cleanField(sb.String()))
}

func cleanField(f string) string {
	f = strings.TrimSpace(f)
	if len(f) >= 2 && f[0] == '"' && f[len(f)-1] == '"' {
		f = f[1 : len(f)-1]
	}
	return strings.ReplaceAll(f, `""`, `"`)
}
