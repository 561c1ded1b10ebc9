package urlutil

import (
	"net/url"
	"strings"
)

// Resolve resolves href against base and returns an absolute HTTP(S) URL.
// Fragment-only references and non-web schemes (mailto:, tel:,
// javascript:) are rejected.
func Resolve(base *url.URL, href string) (string, bool) {
	trimmed := strings.TrimSpace(href)
	if trimmed == "" || strings.HasPrefix(trimmed, "#") {
		return "", false
	}

	parsed, err := url.Parse(trimmed)
	if err != nil {
		return "", false
	}

	if !isSupportedScheme(parsed.Scheme) {
		return "", false
	}

	resolved := resolveReference(base, parsed)
	if !isSupportedScheme(resolved.Scheme) {
		return "", false
	}

	canonicalizeRootPath(resolved)
	resolved.Fragment = ""

	return resolved.String(), true
}

func isSupportedScheme(scheme string) bool {
	return scheme == "" || scheme == "http" || scheme == "https"
}

func resolveReference(base *url.URL, parsed *url.URL) *url.URL {
	if parsed.Scheme == "" {
		return base.ResolveReference(parsed)
	}

	return parsed
}

func canonicalizeRootPath(u *url.URL) {
	if u.Path == "/" {
		u.Path = ""
		u.RawPath = ""
	}
}

// SameSite reports whether the URL points at the same site as base.
// Hosts are compared case-insensitively with a leading "www." stripped,
// so example.com and www.example.com count as one site.
func SameSite(base *url.URL, raw string) bool {
	parsed, err := url.Parse(raw)
	if err != nil {
		return false
	}

	return normalizeHost(parsed.Host) == normalizeHost(base.Host)
}

// AlternateHost returns the root of the same URL with the "www." prefix
// toggled on the host. The second return is false when the host is
// empty or has no dots, where a www variant makes no sense.
func AlternateHost(u *url.URL) (string, bool) {
	host := u.Hostname()
	if host == "" || !strings.Contains(host, ".") {
		return "", false
	}

	var alternate string
	if strings.HasPrefix(strings.ToLower(host), "www.") {
		alternate = host[len("www."):]
	} else {
		alternate = "www." + host
	}

	if port := u.Port(); port != "" {
		alternate += ":" + port
	}

	toggled := url.URL{Scheme: u.Scheme, Host: alternate}

	return toggled.String(), true
}

func normalizeHost(host string) string {
	lowered := strings.ToLower(host)

	return strings.TrimPrefix(lowered, "www.")
}
