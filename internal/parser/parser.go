// Package parser extracts hyperlinks (with anchor text) and plain text
// from fetched HTML, grounded on the teacher's goquery-based
// parser/advanced.go, generalized so a single document walk produces
// both link targets and their anchor text together.
package parser

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Hyperlink is one <a href> extracted from a document, in document
// order, with whatever anchor text accompanied it.
type Hyperlink struct {
	Href       string
	AnchorText string
}

// ExtractHyperlinks walks every <a href> in htmlContent and returns them
// in document order. hrefs are returned exactly as written in the
// markup; the caller (the frontier) is responsible for resolving and
// normalizing them against the page's URL.
func ExtractHyperlinks(htmlContent string) ([]Hyperlink, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return nil, err
	}

	var links []Hyperlink
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, ok := s.Attr("href")
		if !ok {
			return
		}
		links = append(links, Hyperlink{
			Href:       strings.TrimSpace(href),
			AnchorText: strings.TrimSpace(s.Text()),
		})
	})

	return links, nil
}

// ExtractText strips <script> and <style> content and returns the
// remaining visible text, whitespace-collapsed.
func ExtractText(htmlContent string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return "", err
	}

	doc.Find("script, style").Remove()

	text := doc.Text()
	fields := strings.Fields(text)
	return strings.Join(fields, " "), nil
}

// ExtractTitle returns the document's <title> text, or "" if absent.
func ExtractTitle(htmlContent string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(doc.Find("title").First().Text())
}
