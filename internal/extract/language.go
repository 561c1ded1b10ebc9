package extract

import (
	"strings"

	"github.com/abadojack/whatlanggo"
)

// Detection below this many words is noise and is skipped entirely.
const minWordsForDetection = 10

// detectLanguage fills the detected language fields from the page's
// collected sentences. Short pages stay undetected rather than guessed.
func detectLanguage(page *Page) {
	sample := strings.Join(page.Sentences, ". ")
	if len(strings.Fields(sample)) < minWordsForDetection {
		return
	}

	info := whatlanggo.Detect(sample)
	code := info.Lang.Iso6391()
	if code == "" {
		return
	}

	page.DetectedLang = code
	page.DetectedLangConfidence = info.Confidence
}
