package amazon

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

// reviewSelectors are tried in order; the first one with matches wins.
var reviewSelectors = []string{
	`[data-hook="review-body"]`,
	".review-text-content",
	".review-text",
}

// boilerplate fragments are never reviews.
var boilerplate = map[string]struct{}{
	"read more":                      {},
	"read less":                      {},
	"see more":                       {},
	"report":                         {},
	"helpful":                        {},
	"the media could not be loaded.": {},
}

// blockMarkers identify anti-bot interstitials. Matched case-insensitively.
var blockMarkers = []string{
	"captcha",
	"robot check",
	"enter the characters you see below",
	"to discuss automated access",
	"api-services-support@amazon.com",
}

// findBlockMarker returns the first block marker found in body.
func findBlockMarker(body []byte) (string, bool) {
	lower := bytes.ToLower(body)
	for _, m := range blockMarkers {
		if bytes.Contains(lower, []byte(m)) {
			return m, true
		}
	}
	return "", false
}

// extractFragments returns cleaned review texts in document order.
func extractFragments(doc *goquery.Document, minChars int) []string {
	for _, sel := range reviewSelectors {
		nodes := doc.Find(sel)
		if nodes.Length() == 0 {
			continue
		}
		var out []string
		nodes.Each(func(_ int, s *goquery.Selection) {
			// scripts and styles inside review bodies are not visible text
			s.Find("script, style").Remove()
			text := cleanText(s.Text())
			if keepFragment(text, minChars) {
				out = append(out, text)
			}
		})
		return out
	}
	return nil
}

func keepFragment(text string, minChars int) bool {
	if text == "" {
		return false
	}
	if _, ok := boilerplate[strings.ToLower(text)]; ok {
		return false
	}
	return utf8.RuneCountInString(text) >= minChars
}

// cleanText collapses whitespace runs into single spaces.
func cleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
