package extract

import (
	"html"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
)

// Sentences shorter than this many words carry too little signal for
// repetition analysis and are discarded.
const minSentenceWords = 6

var sentenceDelimiters = func(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}

func cleanHumanText(value string) string {
	unescaped := html.UnescapeString(value)
	collapsed := collapseSpaces(unescaped)

	return strings.TrimSpace(collapsed)
}

func collapseSpaces(value string) string {
	var builder strings.Builder
	builder.Grow(len(value))

	previousSpace := false
	for _, r := range value {
		if unicode.IsSpace(r) {
			if previousSpace {
				continue
			}

			builder.WriteRune(' ')
			previousSpace = true

			continue
		}

		builder.WriteRune(r)
		previousSpace = false
	}

	return builder.String()
}

// collectSentences gathers normalized sentences from block-level tags.
// Only each element's own text nodes are read, so nested blocks do not
// contribute the same sentence twice.
func collectSentences(body *goquery.Selection) []string {
	sentences := []string{}

	body.Find("p, li, div, span, article, section").Each(func(_ int, selection *goquery.Selection) {
		sentences = append(sentences, splitSentences(directText(selection))...)
	})

	return sentences
}

func directText(selection *goquery.Selection) string {
	var builder strings.Builder

	selection.Contents().Each(func(_ int, child *goquery.Selection) {
		if goquery.NodeName(child) == "#text" {
			builder.WriteString(child.Text())
			builder.WriteByte(' ')
		}
	})

	return builder.String()
}

func splitSentences(text string) []string {
	sentences := []string{}

	for _, part := range strings.FieldsFunc(cleanHumanText(text), sentenceDelimiters) {
		normalized := strings.ToLower(strings.TrimSpace(part))
		if len(strings.Fields(normalized)) < minSentenceWords {
			continue
		}

		sentences = append(sentences, normalized)
	}

	return sentences
}
