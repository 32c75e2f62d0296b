package scrape

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// extractRows parses HTML and returns the text of every row element inside the
// table element. The table must be present; an empty table yields no rows.
func extractRows(r io.Reader, tableSelector, rowSelector string) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, &Error{Kind: KindParse, Err: fmt.Errorf("failed to parse HTML: %w", err)}
	}

	table := doc.Find(tableSelector).First()
	if table.Length() == 0 {
		return nil, &Error{Kind: KindParse, Err: fmt.Errorf("element %q not found", tableSelector)}
	}

	var rows []string
	table.Find(rowSelector).Each(func(_ int, s *goquery.Selection) {
		rows = append(rows, blockText(s))
	})
	return rows, nil
}

// blockText approximates a browser's innerText: text from separate elements is
// joined with newlines, whitespace inside a text node is trimmed.
func blockText(s *goquery.Selection) string {
	var parts []string
	s.Contents().Each(func(_ int, c *goquery.Selection) {
		var text string
		switch goquery.NodeName(c) {
		case "#text":
			text = strings.TrimSpace(c.Text())
		case "script", "style", "#comment":
			return
		default:
			text = blockText(c)
		}
		if text != "" {
			parts = append(parts, text)
		}
	})
	return strings.Join(parts, "\n")
}
