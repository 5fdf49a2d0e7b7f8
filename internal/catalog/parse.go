package catalog

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
)

// Whitespace runs, including non-breaking spaces, collapse to one space in
// attribute text.
var whitespaceRun = regexp.MustCompile(`[\s\x{00A0}]+`)

// ParseCourse extracts one Course from a courseblock element. The title
// bubble's code, title, and credits sub-elements are required; the
// description and extra blocks are optional and map to the "N/A" placeholder
// when absent.
func ParseCourse(block *goquery.Selection) (Course, error) {
	title := block.Find("div.courseblocktitle_bubble").First()
	if title.Length() == 0 {
		return Course{}, &ParseError{Field: "title bubble"}
	}

	codeSpans := title.Find("div.course_code span")
	if codeSpans.Length() == 0 {
		return Course{}, &ParseError{Field: "course code"}
	}
	parts := make([]string, 0, codeSpans.Length())
	codeSpans.Each(func(_ int, span *goquery.Selection) {
		parts = append(parts, span.Text())
	})
	code := strings.Join(parts, " ")

	nameEl := title.Find("div.course_codetitle").First()
	if nameEl.Length() == 0 {
		return Course{}, &ParseError{Field: "course title", Code: code}
	}

	creditsEl := title.Find("div.course_credits").First()
	if creditsEl.Length() == 0 {
		return Course{}, &ParseError{Field: "course credits", Code: code}
	}

	return Course{
		Code:        code,
		Name:        strings.TrimSpace(nameEl.Text()),
		Credits:     leadingDigits(strings.TrimSpace(creditsEl.Text())),
		Description: parseDescription(block),
		Attributes:  parseAttributes(block),
	}, nil
}

// leadingDigits returns the run of numeric characters at the start of s:
// "3 Credits" yields "3", "1-3 Credits" yields "1", and a non-numeric first
// character yields the empty string.
func leadingDigits(s string) string {
	for i, r := range s {
		if !unicode.IsDigit(r) {
			return s[:i]
		}
	}
	return s
}

func parseDescription(block *goquery.Selection) string {
	p := block.Find("div.courseblockdesc p").First()
	if p.Length() == 0 {
		return NotAvailable
	}
	return strings.TrimSpace(p.Text())
}

// parseAttributes joins the extra block's paragraphs with ", " and a single
// trailing space, dropping paragraphs that mention "Objective". An absent
// block, or one whose paragraphs are all filtered out, yields "N/A".
func parseAttributes(block *goquery.Selection) string {
	paras := block.Find("div.courseblockextra p")
	if paras.Length() == 0 {
		return NotAvailable
	}
	var kept []string
	paras.Each(func(_ int, p *goquery.Selection) {
		text := p.Text()
		if strings.Contains(text, "Objective") {
			return
		}
		kept = append(kept, strings.TrimSpace(whitespaceRun.ReplaceAllString(text, " ")))
	})
	if len(kept) == 0 {
		return NotAvailable
	}
	return strings.Join(kept, ", ") + " "
}
