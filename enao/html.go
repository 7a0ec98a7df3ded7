package enao

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// parseCanvas extracts the name of every item on the page's canvas: the
// genres on the front page, or the artists on a genre page.
func parseCanvas(doc *goquery.Document) ([]string, error) {
	var names []string
	doc.Find("div.canvas > div").Each(func(i int, sel *goquery.Selection) {
		if name := (canvasElement{sel}).Name(); name != "" {
			names = append(names, name)
		}
	})
	if len(names) == 0 {
		return nil, fmt.Errorf("no entries on page")
	}
	return names, nil
}

// A canvasElement is the div for a single item on everynoise.com.
type canvasElement struct{ *goquery.Selection }

// Name is the element's own text, without the "»" navigation link.
func (el canvasElement) Name() string {
	name := el.Clone().Children().Remove().End().Text()
	name = strings.TrimSpace(name)
	name = strings.TrimSuffix(name, "»")
	name = strings.TrimSuffix(name, "Â")
	return strings.TrimSpace(name)
}
