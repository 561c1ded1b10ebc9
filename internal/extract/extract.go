package extract

import (
	"bytes"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"pageaudit/internal/urlutil"
)

const (
	missingAltExampleLimit = 3
	srcExampleMaxLength    = 70
)

var faviconRels = map[string]bool{
	"icon":             true,
	"shortcut icon":    true,
	"apple-touch-icon": true,
	"mask-icon":        true,
}

// Link is one anchor with its resolved absolute target and visible text.
type Link struct {
	Href string
	Text string
}

// Page aggregates everything extracted from one HTML document.
// Missing elements yield false flags and empty values; text is
// HTML-decoded and whitespace-collapsed.
type Page struct {
	HasTitle bool
	Title    string

	HasDescription bool
	Description    string

	DeclaredLang           string
	DetectedLang           string
	DetectedLangConfidence float64

	HasFavicon bool

	HasCanonical  bool
	CanonicalHref string

	HasCharset bool
	Charset    string

	HasViewport bool
	Viewport    string

	OpenGraph   map[string]string
	TwitterTags map[string]string

	HeadingLevels []int

	ImageCount         int
	ImagesMissingAlt   int
	MissingAltExamples []string

	InternalLinks []Link
	ExternalLinks []Link

	WordCount  int
	Sentences  []string
	MediaCount int
}

// Parse parses HTML and extracts the page signals. Links are resolved
// against base and classified as internal or external by site.
func Parse(body []byte, base *url.URL) (Page, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return Page{}, err
	}

	page := Page{}

	parseTitle(doc, &page)
	parseDescription(doc, &page)
	parseCanonical(doc, base, &page)
	parseDeclaredLang(doc, &page)
	parseMetaTags(doc, &page)
	parseFavicon(doc, &page)
	parseHeadings(doc, &page)
	parseImages(doc, &page)
	parseLinks(doc, base, &page)
	parseText(doc, &page)
	detectLanguage(&page)

	return page, nil
}

func parseTitle(doc *goquery.Document, page *Page) {
	selection := doc.Find("title").First()
	page.HasTitle = selection.Length() > 0
	if page.HasTitle {
		page.Title = cleanHumanText(selection.Text())
	}
}

func parseDescription(doc *goquery.Document, page *Page) {
	doc.Find("meta[name]").EachWithBreak(func(_ int, selection *goquery.Selection) bool {
		name, ok := selection.Attr("name")
		if !ok {
			return true
		}

		if !strings.EqualFold(strings.TrimSpace(name), "description") {
			return true
		}

		page.HasDescription = true
		content, _ := selection.Attr("content")
		page.Description = cleanHumanText(content)

		return false
	})
}

func parseCanonical(doc *goquery.Document, base *url.URL, page *Page) {
	doc.Find("link[rel]").EachWithBreak(func(_ int, selection *goquery.Selection) bool {
		rel, ok := selection.Attr("rel")
		if !ok || !strings.EqualFold(strings.TrimSpace(rel), "canonical") {
			return true
		}

		href := strings.TrimSpace(selection.AttrOr("href", ""))
		if href == "" {
			return true
		}

		if resolved, ok := urlutil.Resolve(base, href); ok {
			href = resolved
		}

		page.HasCanonical = true
		page.CanonicalHref = href

		return false
	})
}

// parseMetaTags collects charset, viewport, and social sharing meta
// tags in one pass over the document's meta elements.
func parseMetaTags(doc *goquery.Document, page *Page) {
	doc.Find("meta").Each(func(_ int, selection *goquery.Selection) {
		content := strings.TrimSpace(selection.AttrOr("content", ""))

		if charset, ok := selection.Attr("charset"); ok && strings.TrimSpace(charset) != "" {
			if !page.HasCharset {
				page.HasCharset = true
				page.Charset = strings.TrimSpace(charset)
			}
			return
		}

		if equiv, ok := selection.Attr("http-equiv"); ok && strings.EqualFold(strings.TrimSpace(equiv), "content-type") {
			if charset := charsetFromContentType(content); charset != "" && !page.HasCharset {
				page.HasCharset = true
				page.Charset = charset
			}
			return
		}

		if property, ok := selection.Attr("property"); ok {
			property = strings.ToLower(strings.TrimSpace(property))
			if strings.HasPrefix(property, "og:") {
				if page.OpenGraph == nil {
					page.OpenGraph = map[string]string{}
				}
				page.OpenGraph[property] = content
			}
			return
		}

		name, ok := selection.Attr("name")
		if !ok {
			return
		}
		name = strings.ToLower(strings.TrimSpace(name))

		switch {
		case name == "viewport":
			if !page.HasViewport {
				page.HasViewport = true
				page.Viewport = content
			}
		case strings.HasPrefix(name, "twitter:"):
			if page.TwitterTags == nil {
				page.TwitterTags = map[string]string{}
			}
			page.TwitterTags[name] = content
		}
	})
}

// charsetFromContentType pulls the charset parameter out of a
// Content-Type value like "text/html; charset=utf-8".
func charsetFromContentType(value string) string {
	lower := strings.ToLower(value)
	index := strings.Index(lower, "charset=")
	if index < 0 {
		return ""
	}

	charset := value[index+len("charset="):]
	if semicolon := strings.IndexByte(charset, ';'); semicolon >= 0 {
		charset = charset[:semicolon]
	}

	return strings.TrimSpace(charset)
}

func parseDeclaredLang(doc *goquery.Document, page *Page) {
	lang, ok := doc.Find("html").First().Attr("lang")
	if !ok {
		return
	}

	page.DeclaredLang = strings.TrimSpace(lang)
}

func parseFavicon(doc *goquery.Document, page *Page) {
	doc.Find("link[rel]").EachWithBreak(func(_ int, selection *goquery.Selection) bool {
		rel, ok := selection.Attr("rel")
		if !ok {
			return true
		}

		normalized := strings.Join(strings.Fields(strings.ToLower(rel)), " ")
		if !faviconRels[normalized] {
			return true
		}

		page.HasFavicon = true

		return false
	})
}

func parseHeadings(doc *goquery.Document, page *Page) {
	page.HeadingLevels = []int{}
	doc.Find("h1, h2, h3, h4, h5, h6").Each(func(_ int, selection *goquery.Selection) {
		name := goquery.NodeName(selection)
		if len(name) != 2 || name[0] != 'h' {
			return
		}

		level := int(name[1] - '0')
		if level < 1 || level > 6 {
			return
		}

		page.HeadingLevels = append(page.HeadingLevels, level)
	})
}

func parseImages(doc *goquery.Document, page *Page) {
	page.MissingAltExamples = []string{}
	doc.Find("img").Each(func(_ int, selection *goquery.Selection) {
		page.ImageCount++

		alt, ok := selection.Attr("alt")
		if ok && strings.TrimSpace(alt) != "" {
			return
		}

		page.ImagesMissingAlt++
		if len(page.MissingAltExamples) < missingAltExampleLimit {
			src := strings.TrimSpace(selection.AttrOr("src", ""))
			if src == "" {
				src = "(no src)"
			}
			page.MissingAltExamples = append(page.MissingAltExamples, shorten(src, srcExampleMaxLength))
		}
	})
}

func parseLinks(doc *goquery.Document, base *url.URL, page *Page) {
	page.InternalLinks = []Link{}
	page.ExternalLinks = []Link{}

	doc.Find("a[href]").Each(func(_ int, selection *goquery.Selection) {
		href, ok := selection.Attr("href")
		if !ok {
			return
		}

		resolved, ok := urlutil.Resolve(base, href)
		if !ok {
			return
		}

		link := Link{Href: resolved, Text: cleanHumanText(selection.Text())}
		if urlutil.SameSite(base, resolved) {
			page.InternalLinks = append(page.InternalLinks, link)
		} else {
			page.ExternalLinks = append(page.ExternalLinks, link)
		}
	})
}

func parseText(doc *goquery.Document, page *Page) {
	body := doc.Find("body")

	page.WordCount = len(strings.Fields(cleanHumanText(body.Text())))
	page.Sentences = collectSentences(body)
	page.MediaCount = body.Find("img, video, audio, iframe").Length()
}

func shorten(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}

	return string(runes[:limit]) + "..."
}
