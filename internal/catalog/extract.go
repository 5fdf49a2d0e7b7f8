package catalog

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Selectors matching the catalog site's markup.
const (
	subjectPanelSelector = "div.az_sitemap"
	courseListSelector   = "div.sc_sccoursedescs"
	courseBlockSelector  = "div.courseblock"
)

// CategoryLinks returns the absolute URLs of every category listed on the
// catalog index page. The index marks its category list with a <ul> whose id
// equals the catalog path; an absent container yields an empty slice and the
// caller decides how loudly to complain. Document order is preserved.
func CategoryLinks(doc *goquery.Document, base *url.URL) []string {
	list := doc.Find(fmt.Sprintf("ul[id=%q]", base.Path))
	if list.Length() == 0 {
		return nil
	}
	var links []string
	list.Find("li").Each(func(_ int, li *goquery.Selection) {
		href, ok := li.Find("a").First().Attr("href")
		if !ok {
			return
		}
		if resolved := resolveRef(base, href); resolved != "" {
			links = append(links, resolved)
		}
	})
	return links
}

// SubjectLinks returns the subject pages linked from a category page's
// site-map panel. Items without a link, or whose link is only a same-page
// anchor, are skipped. A missing panel is an *ExtractionError, skippable
// per category.
func SubjectLinks(doc *goquery.Document, category *url.URL) ([]string, error) {
	panel := doc.Find(subjectPanelSelector)
	if panel.Length() == 0 {
		return nil, &ExtractionError{URL: category.String(), Selector: subjectPanelSelector}
	}
	var links []string
	panel.Find("ul li").Each(func(_ int, li *goquery.Selection) {
		href, ok := li.Find("a").First().Attr("href")
		if !ok || strings.HasPrefix(href, "#") {
			return
		}
		if resolved := resolveRef(category, href); resolved != "" {
			links = append(links, resolved)
		}
	})
	return links, nil
}

// CourseBlocks returns one selection per course block on a subject page.
// A missing course-description container is an *ExtractionError for the whole
// page, caught at the subject boundary.
func CourseBlocks(doc *goquery.Document, pageURL string) ([]*goquery.Selection, error) {
	container := doc.Find(courseListSelector)
	if container.Length() == 0 {
		return nil, &ExtractionError{URL: pageURL, Selector: courseListSelector}
	}
	var blocks []*goquery.Selection
	container.Find(courseBlockSelector).Each(func(_ int, s *goquery.Selection) {
		blocks = append(blocks, s)
	})
	return blocks, nil
}

func resolveRef(base *url.URL, href string) string {
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return ""
	}
	return base.ResolveReference(ref).String()
}
