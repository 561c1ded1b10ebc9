package audit

import "strings"

var compressionNames = map[string]string{
	"gzip":    "Gzip (gzip)",
	"br":      "Brotli (br)",
	"deflate": "Deflate (deflate)",
}

// buildServerCard analyzes the HTTP exchange: redirect chain, HTTPS
// usage, host-variant consistency, root files, and compression.
func buildServerCard(info FetchInfo) *Card {
	card := NewCard("Server")

	card.AddCategory(redirectCategory(info))
	card.AddCategory(wwwCategory(info))
	card.AddCategory(robotsCategory(info))
	card.AddCategory(compressionCategory(info))

	return card
}

func robotsCategory(info FetchInfo) *Category {
	category := NewCategory("Robots & Sitemap")

	category.AddFinding(verdictFor(info.RobotsFound), render("server.robots", verdictFor(info.RobotsFound)))
	if !info.RobotsFound {
		category.AddImprovement(renderImprovement("server.robots"))
	}

	if info.SitemapFound {
		category.AddFinding(Pass, render("server.sitemap", Pass, info.SitemapURL))
	} else {
		category.AddFinding(Fail, render("server.sitemap", Fail))
		category.AddImprovement(renderImprovement("server.sitemap"))
	}

	return category
}

func redirectCategory(info FetchInfo) *Category {
	category := NewCategory("HTTPS & Redirects")

	if len(info.Redirects) == 0 {
		category.AddFinding(Pass, render("server.noredirect", Pass))
	} else {
		initial := info.Redirects[0]
		if isSchemeUpgrade(initial, info.FinalURL) {
			category.AddFinding(Pass, render("server.httpsredirect", Pass, initial, info.FinalURL))
		} else {
			chain := strings.Join(append(append([]string{}, info.Redirects...), info.FinalURL), " -> ")
			category.AddFinding(Fail, render("server.httpsredirect", Fail, chain))
			category.AddImprovement(renderImprovement("server.httpsredirect"))
		}
	}

	https := strings.HasPrefix(info.FinalURL, "https://")
	category.AddFinding(verdictFor(https), render("server.https", verdictFor(https)))
	if !https {
		category.AddImprovement(renderImprovement("server.https"))
	}

	return category
}

// isSchemeUpgrade reports whether from and to differ only in an
// http -> https scheme change.
func isSchemeUpgrade(from, to string) bool {
	if !strings.HasPrefix(from, "http://") || !strings.HasPrefix(to, "https://") {
		return false
	}

	return strings.TrimPrefix(from, "http://") == strings.TrimPrefix(to, "https://")
}

func wwwCategory(info FetchInfo) *Category {
	category := NewCategory("WWW Consistency")

	if !info.AlternateProbed {
		category.AddFinding(Fail, render("server.www.unreachable", Fail, info.AlternateHostURL))
		category.AddImprovement(renderImprovement("server.www"))

		return category
	}

	consistent := info.AlternateFinalURL == info.FinalURL
	category.AddFinding(verdictFor(consistent), render("server.www", verdictFor(consistent)))
	if !consistent {
		category.AddImprovement(renderImprovement("server.www"))
	}

	return category
}

func compressionCategory(info FetchInfo) *Category {
	category := NewCategory("Compression")

	encoding := strings.ToLower(strings.TrimSpace(info.ContentEncoding))
	name, supported := compressionNames[encoding]

	if supported {
		category.AddFinding(Pass, render("server.compression", Pass, name))
		return category
	}

	if encoding == "" {
		encoding = "none"
	}

	category.AddFinding(Fail, render("server.compression", Fail, encoding))
	category.AddImprovement(renderImprovement("server.compression"))

	return category
}
