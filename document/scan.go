package document

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/net/html"
)

// Scan parses the document at path and returns every button that carries an
// id attribute, in document order.
func Scan(path string) ([]Button, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open document: %w", err)
	}
	defer f.Close()

	return parseButtons(f)
}

func parseButtons(r io.Reader) ([]Button, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}

	var buttons []Button
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "button" {
			if id := attr(n, "id"); id != "" {
				buttons = append(buttons, Button{
					ID:    id,
					Color: backgroundColor(attr(n, "style")),
				})
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return buttons, nil
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// backgroundColor extracts the background-color declaration from an inline
// style attribute.
func backgroundColor(style string) string {
	for _, decl := range strings.Split(style, ";") {
		prop, value, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(prop), "background-color") {
			return strings.TrimSpace(value)
		}
	}
	return ""
}
