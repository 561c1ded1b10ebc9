package audit

import "fmt"

// remark holds the human-readable templates for one check, keyed by
// outcome. The table is read-only and loaded once; routines render
// through it instead of reaching for process-wide state.
type remark struct {
	pass        string
	fail        string
	improvement string
}

var remarks = map[string]remark{
	"title.missing": {
		pass:        "Title tag is present.",
		fail:        "Title tag is missing.",
		improvement: "Add a descriptive and relevant <title> tag to your page.",
	},
	"title.length": {
		pass:        "Title length is %d characters (optimal: %d-%d).",
		fail:        "Title length is %d characters. Recommended length is %d-%d characters.",
		improvement: "Adjust the title length to be between %d and %d characters for optimal display in search results.",
	},
	"title.repetition": {
		pass:        "No word repetitions found in the title.",
		fail:        "Word repetitions found in title: %s.",
		improvement: "Avoid repeating words like '%s' in the title. Keep it concise and informative.",
	},
	"description.missing": {
		pass:        "Meta description is present.",
		fail:        "Meta description is missing.",
		improvement: "Add a unique and compelling meta description. It influences click-through rates from search results.",
	},
	"description.length": {
		pass:        "Description length is approx. %dpx (%d chars), within the recommended range of %d-%dpx.",
		fail:        "Description length is approx. %dpx (%d chars). This is outside the recommended range (%d-%dpx).",
		improvement: "Adjust the description length. Aim for %d-%d pixels so it is fully visible in search results.",
	},
	"language.declared": {
		pass:        "Declared page language: %s.",
		fail:        "No page language declared.",
		improvement: `Declare the page language using the lang attribute on the <html> tag (e.g. <html lang="en">).`,
	},
	"language.detected": {
		pass: "Detected language in text: %s (%.0f%% confidence).",
		fail: "Could not detect a language from the page text.",
	},
	"language.match": {
		pass:        "Declared and detected languages match.",
		fail:        "Declared language %q might mismatch detected language %q.",
		improvement: "Ensure the lang attribute in <html> reflects the main language of the page content.",
	},
	"canonical.missing": {
		pass:        "Canonical link tag found: %s.",
		fail:        "Canonical link tag is missing.",
		improvement: "Add a canonical link tag to prevent duplicate content issues.",
	},
	"canonical.target": {
		pass:        "Canonical tag points to a similar URL (%s), likely handling variations correctly.",
		fail:        "Canonical tag (%s) points to a significantly different URL than the one accessed (%s).",
		improvement: "Verify the canonical tag. It should point to the preferred version of the current page URL.",
	},
	"charset": {
		pass:        "Character set declared: %s.",
		fail:        "Character set meta tag missing.",
		improvement: `Add a character set meta tag (e.g. <meta charset="UTF-8">) to ensure correct text rendering.`,
	},
	"social.og": {
		pass:        "Found %d Open Graph (og:) tag(s).",
		fail:        "No Open Graph (og:) tags found.",
		improvement: "Add Open Graph tags (og:title, og:description, og:image, og:url) to control how the page appears when shared.",
	},
	"social.og.essential": {
		fail:        "Missing essential Open Graph tags: %s.",
		improvement: "Ensure essential Open Graph tags (og:title, og:description, og:image, og:url) are present and have content.",
	},
	"social.twitter": {
		pass:        "Found %d Twitter Card (twitter:) tag(s).",
		fail:        "No Twitter Card (twitter:) tags found.",
		improvement: "Add Twitter Card tags (twitter:card, twitter:title, twitter:description, twitter:image) to control appearance when shared.",
	},
	"social.twitter.essential": {
		fail:        "Missing essential Twitter Card tags: %s.",
		improvement: "Ensure essential Twitter Card tags (twitter:card, twitter:title, twitter:description, twitter:image) are present and have content.",
	},
	"favicon": {
		pass:        "Favicon link tag found.",
		fail:        "No favicon link tag found.",
		improvement: "Add a favicon link tag in the <head>. It improves recognition in browser tabs and bookmarks.",
	},
	"content.length": {
		pass:        "Content length is %d words.",
		fail:        "Content length is %d words, below the recommended minimum of %d.",
		improvement: "Consider expanding the content. Aim for at least %d words to signal relevance.",
	},
	"content.duplicates": {
		pass:        "No duplicate sentences found.",
		fail:        "Duplicate sentences found.",
		improvement: "Avoid repeating identical sentences or text blocks. Example: %q",
	},
	"content.fewsentences": {
		pass: "Not enough distinct sentences to reliably check for duplicates.",
	},
	"images.none": {
		pass: "No <img> tags found.",
	},
	"images.alt": {
		pass:        "All %d image(s) have alt text.",
		fail:        "%d of %d image(s) are missing alt text.",
		improvement: `Add descriptive alt text to meaningful images (e.g. %s). Use alt="" for decorative images.`,
	},
	"viewport": {
		pass:        "Viewport meta tag present: %s.",
		fail:        "Viewport meta tag missing.",
		improvement: `Add a viewport meta tag (<meta name="viewport" content="width=device-width, initial-scale=1.0">).`,
	},
	"viewport.scalable": {
		fail:        "The viewport prevents zooming (user-scalable=no), which harms accessibility.",
		improvement: "Remove user-scalable=no from the viewport tag.",
	},
	"headings.none": {
		fail:        "No headings found on the page.",
		improvement: "Structure the content with headings, starting with a single H1.",
	},
	"headings.h1": {
		pass:        "Exactly one H1 heading found.",
		fail:        "Found %d H1 heading(s); a page should have exactly one.",
		improvement: "Use a single H1 heading that describes the page topic.",
	},
	"headings.order": {
		pass:        "Heading levels are properly nested.",
		fail:        "Heading levels skip steps (%s).",
		improvement: "Do not skip heading levels: after an H2 the next deeper heading must be an H3.",
	},
	"links.internal.length": {
		pass:        "Internal link texts are concise.",
		fail:        "%d internal link(s) have text longer than %d characters.",
		improvement: "Keep link texts descriptive but concise (at most %d characters).",
	},
	"links.internal.empty": {
		pass:        "All internal links have text.",
		fail:        "%d internal link(s) have empty text.",
		improvement: "Provide descriptive text for every link. Empty link example: %s",
	},
	"links.internal.duplicates": {
		pass:        "Internal link texts appear varied.",
		fail:        "Some internal links use identical text.",
		improvement: "If links point to different destinations, use unique, descriptive text for each link.",
	},
	"links.external.length": {
		pass:        "External link texts are concise.",
		fail:        "%d external link(s) have text longer than %d characters.",
		improvement: "Keep link texts descriptive but concise (at most %d characters).",
	},
	"links.external.empty": {
		pass:        "All external links have text.",
		fail:        "%d external link(s) have empty text.",
		improvement: "Provide descriptive text for every link. Empty link example: %s",
	},
	"links.external.duplicates": {
		pass:        "External link texts appear varied.",
		fail:        "Some external links use identical text.",
		improvement: "If links point to different destinations, use unique, descriptive text for each link.",
	},
	"server.noredirect": {
		pass: "No redirects when requesting the URL.",
	},
	"server.httpsredirect": {
		pass:        "Correct redirect from HTTP to HTTPS (%s -> %s).",
		fail:        "Redirect chain detected: %s.",
		improvement: "Make sure redirects are necessary and implemented with status 301; long chains slow the page down.",
	},
	"server.https": {
		pass:        "The page is served over HTTPS.",
		fail:        "The final URL does not use HTTPS.",
		improvement: "Serve the entire site over HTTPS. It is a ranking factor and builds user trust.",
	},
	"server.www": {
		pass:        "Both host variants resolve to the same final URL.",
		fail:        "The www and non-www variants resolve to different URLs.",
		improvement: "Redirect one host variant (www or non-www) to the other with a 301 to avoid duplicate content.",
	},
	"server.www.unreachable": {
		fail: "The alternate host variant (%s) could not be checked.",
	},
	"server.robots": {
		pass:        "Robots.txt found and accessible.",
		fail:        "Robots.txt not found.",
		improvement: "Create a robots.txt file in the site root.",
	},
	"server.sitemap": {
		pass:        "Sitemap found at %s.",
		fail:        "No XML sitemap found.",
		improvement: "Create an XML sitemap (sitemap.xml) and submit it to search engines.",
	},
	"server.compression": {
		pass:        "Response is compressed with %s.",
		fail:        "No supported compression detected (Content-Encoding: %s).",
		improvement: "Enable server-side compression (gzip or Brotli) to reduce transfer size and speed up load times.",
	},
}

// render formats the template registered for the check and verdict.
// Neutral falls back to the pass template.
func render(check string, verdict Verdict, args ...any) string {
	entry, ok := remarks[check]
	if !ok {
		return check
	}

	template := entry.pass
	if verdict == Fail {
		template = entry.fail
	}

	if len(args) == 0 {
		return template
	}

	return fmt.Sprintf(template, args...)
}

func renderImprovement(check string, args ...any) string {
	entry, ok := remarks[check]
	if !ok {
		return check
	}

	if len(args) == 0 {
		return entry.improvement
	}

	return fmt.Sprintf(entry.improvement, args...)
}

func verdictFor(ok bool) Verdict {
	if ok {
		return Pass
	}

	return Fail
}
