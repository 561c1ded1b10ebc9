package audit

import (
	"fmt"
	"math"
	"strings"
)

const (
	titleMinLength  = 50
	titleMaxLength  = 60
	avgCharWidthPx  = 6.19
	descMinLengthPx = 300
	descMaxLengthPx = 960
)

// buildMetadataCard analyzes title, description, canonical tag,
// language, charset, favicon, and social sharing tags.
func buildMetadataCard(sig PageSignals) *Card {
	card := NewCard("Metadata")

	card.AddCategory(titleCategory(sig))
	card.AddCategory(descriptionCategory(sig))
	card.AddCategory(canonicalCategory(sig))
	card.AddCategory(languageCategory(sig))
	card.AddCategory(charsetCategory(sig))
	card.AddCategory(faviconCategory(sig))
	card.AddCategory(socialCategory(sig))

	return card
}

func titleCategory(sig PageSignals) *Category {
	category := NewCategory("Title")

	title := strings.TrimSpace(sig.Title)
	missing := !sig.HasTitle || title == ""

	category.AddFinding(verdictFor(!missing), render("title.missing", verdictFor(!missing)))
	if missing {
		category.AddImprovement(renderImprovement("title.missing"))
		return category
	}

	category.AddFinding(Neutral, fmt.Sprintf("Title: %q", title))

	length := len([]rune(title))
	lengthOK := length >= titleMinLength && length <= titleMaxLength
	category.AddFinding(verdictFor(lengthOK), render("title.length", verdictFor(lengthOK), length, titleMinLength, titleMaxLength))
	if !lengthOK {
		category.AddImprovement(renderImprovement("title.length", titleMinLength, titleMaxLength))
	}

	repeated := repeatedWords(title)
	repetitionOK := len(repeated) == 0
	if repetitionOK {
		category.AddFinding(Pass, render("title.repetition", Pass))
	} else {
		joined := strings.Join(repeated, ", ")
		category.AddFinding(Fail, render("title.repetition", Fail, joined))
		category.AddImprovement(renderImprovement("title.repetition", joined))
	}

	return category
}

// repeatedWords returns the words appearing more than once in text,
// case-insensitive, in order of first repetition.
func repeatedWords(text string) []string {
	counts := map[string]int{}
	repeated := []string{}

	for _, word := range strings.Fields(strings.ToLower(text)) {
		counts[word]++
		if counts[word] == 2 {
			repeated = append(repeated, word)
		}
	}

	return repeated
}

func descriptionCategory(sig PageSignals) *Category {
	category := NewCategory("Description")

	description := strings.TrimSpace(sig.Description)
	missing := !sig.HasDescription || description == ""

	category.AddFinding(verdictFor(!missing), render("description.missing", verdictFor(!missing)))
	if missing {
		category.AddImprovement(renderImprovement("description.missing"))
		return category
	}

	category.AddFinding(Neutral, fmt.Sprintf("Description: %q", description))

	chars := len([]rune(description))
	px := descriptionPixels(chars)
	lengthOK := px >= descMinLengthPx && px <= descMaxLengthPx
	category.AddFinding(verdictFor(lengthOK), render("description.length", verdictFor(lengthOK), px, chars, descMinLengthPx, descMaxLengthPx))
	category.AddChartFinding("range", descMinLengthPx, descMaxLengthPx, "px", float64(px))
	if !lengthOK {
		category.AddImprovement(renderImprovement("description.length", descMinLengthPx, descMaxLengthPx))
	}

	return category
}

// descriptionPixels estimates rendered width from the character count.
func descriptionPixels(chars int) int {
	return int(math.Round(float64(chars) * avgCharWidthPx))
}

func languageCategory(sig PageSignals) *Category {
	category := NewCategory("Language")

	declared := strings.TrimSpace(sig.DeclaredLang)
	hasDeclared := declared != ""
	if hasDeclared {
		category.AddFinding(Pass, render("language.declared", Pass, declared))
	} else {
		category.AddFinding(Fail, render("language.declared", Fail))
		category.AddImprovement(renderImprovement("language.declared"))
	}

	detected := strings.TrimSpace(sig.DetectedLang)
	if detected != "" {
		category.AddFinding(Pass, render("language.detected", Pass, detected, sig.DetectedLangConfidence*100))
	} else {
		category.AddFinding(Fail, render("language.detected", Fail))
	}

	if hasDeclared && detected != "" {
		match := baseLang(declared) == baseLang(detected)
		category.AddFinding(verdictFor(match), render("language.match", verdictFor(match), declared, detected))
		if !match {
			category.AddImprovement(renderImprovement("language.match"))
		}
	}

	return category
}

// baseLang reduces a BCP 47 tag to its lower-cased base language.
func baseLang(tag string) string {
	base, _, _ := strings.Cut(tag, "-")
	return strings.ToLower(strings.TrimSpace(base))
}

func canonicalCategory(sig PageSignals) *Category {
	category := NewCategory("Canonical")

	href := strings.TrimSpace(sig.CanonicalHref)
	if !sig.HasCanonical || href == "" {
		category.AddFinding(Fail, render("canonical.missing", Fail))
		category.AddImprovement(renderImprovement("canonical.missing"))

		return category
	}

	category.AddFinding(Pass, render("canonical.missing", Pass, href))
	if href == sig.FinalURL {
		return category
	}

	if canonicalEquivalent(href, sig.FinalURL) {
		category.AddFinding(Pass, render("canonical.target", Pass, href))
	} else {
		category.AddFinding(Fail, render("canonical.target", Fail, href, sig.FinalURL))
		category.AddImprovement(renderImprovement("canonical.target"))
	}

	return category
}

// canonicalEquivalent reports whether two URLs differ only by a
// trailing slash, the scheme, or a www. host prefix.
func canonicalEquivalent(canonical, final string) bool {
	return normalizePageURL(canonical) == normalizePageURL(final)
}

func normalizePageURL(raw string) string {
	s := strings.TrimSuffix(raw, "/")
	s = strings.TrimPrefix(s, "https://")
	s = strings.TrimPrefix(s, "http://")

	return strings.TrimPrefix(s, "www.")
}

func charsetCategory(sig PageSignals) *Category {
	category := NewCategory("Charset")

	if sig.HasCharset {
		category.AddFinding(Pass, render("charset", Pass, sig.Charset))
	} else {
		category.AddFinding(Fail, render("charset", Fail))
		category.AddImprovement(renderImprovement("charset"))
	}

	return category
}

var (
	essentialOpenGraph = []string{"og:title", "og:description", "og:image", "og:url"}
	essentialTwitter   = []string{"twitter:card", "twitter:title", "twitter:description", "twitter:image"}
)

func socialCategory(sig PageSignals) *Category {
	category := NewCategory("Social Tags")

	addSocialFindings(category, "social.og", sig.OpenGraph, essentialOpenGraph)
	addSocialFindings(category, "social.twitter", sig.TwitterTags, essentialTwitter)

	return category
}

func addSocialFindings(category *Category, check string, tags map[string]string, essential []string) {
	if len(tags) == 0 {
		category.AddFinding(Fail, render(check, Fail))
		category.AddImprovement(renderImprovement(check))

		return
	}

	category.AddFinding(Pass, render(check, Pass, len(tags)))

	missing := []string{}
	for _, name := range essential {
		if strings.TrimSpace(tags[name]) == "" {
			missing = append(missing, name)
		}
	}

	if len(missing) > 0 {
		category.AddFinding(Fail, render(check+".essential", Fail, strings.Join(missing, ", ")))
		category.AddImprovement(renderImprovement(check + ".essential"))
	}
}

func faviconCategory(sig PageSignals) *Category {
	category := NewCategory("Favicon")

	category.AddFinding(verdictFor(sig.HasFavicon), render("favicon", verdictFor(sig.HasFavicon)))
	if !sig.HasFavicon {
		category.AddImprovement(renderImprovement("favicon"))
	}

	return category
}
