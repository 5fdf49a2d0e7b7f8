package catalog

import (
	"net/url"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

func docFromHTML(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func mustParseURL(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return u
}

func TestCategoryLinks(t *testing.T) {
	t.Parallel()

	base := mustParseURL(t, "https://catalog.test/courses/")
	doc := docFromHTML(t, `
<ul id="/courses/">
  <li><a href="engineering/">Engineering</a></li>
  <li>no link here</li>
  <li><a href="/courses/liberal-arts/">Liberal Arts</a></li>
</ul>`)

	links := CategoryLinks(doc, base)
	require.Equal(t, []string{
		"https://catalog.test/courses/engineering/",
		"https://catalog.test/courses/liberal-arts/",
	}, links)
}

func TestCategoryLinksMissingContainer(t *testing.T) {
	t.Parallel()

	base := mustParseURL(t, "https://catalog.test/courses/")
	doc := docFromHTML(t, `<ul id="/other/"><li><a href="x/">x</a></li></ul>`)

	require.Empty(t, CategoryLinks(doc, base))
}

func TestSubjectLinks(t *testing.T) {
	t.Parallel()

	category := mustParseURL(t, "https://catalog.test/courses/engineering/")
	doc := docFromHTML(t, `
<div class="az_sitemap">
  <ul>
    <li><a href="#C">C</a></li>
    <li><a href="cmpsc/">Computer Science</a></li>
  </ul>
  <ul>
    <li><a href="/courses/engineering/ee/">Electrical Engineering</a></li>
    <li>no link</li>
  </ul>
</div>`)

	links, err := SubjectLinks(doc, category)
	require.NoError(t, err)
	require.Equal(t, []string{
		"https://catalog.test/courses/engineering/cmpsc/",
		"https://catalog.test/courses/engineering/ee/",
	}, links)
}

func TestSubjectLinksMissingPanel(t *testing.T) {
	t.Parallel()

	category := mustParseURL(t, "https://catalog.test/courses/engineering/")
	doc := docFromHTML(t, `<div class="content">nothing here</div>`)

	_, err := SubjectLinks(doc, category)
	require.Error(t, err)

	var extErr *ExtractionError
	require.ErrorAs(t, err, &extErr)
	require.Equal(t, subjectPanelSelector, extErr.Selector)
}

func TestCourseBlocks(t *testing.T) {
	t.Parallel()

	doc := docFromHTML(t, `
<div class="sc_sccoursedescs">
  <div class="courseblock">one</div>
  <div class="courseblock">two</div>
</div>`)

	blocks, err := CourseBlocks(doc, "https://catalog.test/courses/engineering/cmpsc/")
	require.NoError(t, err)
	require.Len(t, blocks, 2)
}

func TestCourseBlocksMissingContainer(t *testing.T) {
	t.Parallel()

	doc := docFromHTML(t, `<div class="content">not a course page</div>`)

	_, err := CourseBlocks(doc, "https://catalog.test/x/")
	var extErr *ExtractionError
	require.ErrorAs(t, err, &extErr)
	require.Equal(t, courseListSelector, extErr.Selector)
}

func TestCourseBlocksEmptyContainer(t *testing.T) {
	t.Parallel()

	doc := docFromHTML(t, `<div class="sc_sccoursedescs"></div>`)

	blocks, err := CourseBlocks(doc, "https://catalog.test/x/")
	require.NoError(t, err)
	require.Empty(t, blocks)
}

func TestResolveRefInvalidHref(t *testing.T) {
	t.Parallel()

	base := mustParseURL(t, "https://catalog.test/courses/")
	require.Equal(t, "", resolveRef(base, "https://bad url with spaces\x7f"))
}
