package check

import (
	"fmt"
	"path"
	"strings"

	"github.com/goliatone/go-docsite/internal/markdown"
)

// LinkStats counts link outcomes for a single document.
type LinkStats struct {
	Checked int
	Skipped int
}

// LinkChecker validates internal links offline against the set of routes the
// site will publish. External URLs are never fetched; they count as skipped.
type LinkChecker struct {
	routes  map[string]struct{}
	anchors map[string]map[string]struct{}
}

// NewLinkChecker returns a checker with an empty target set.
func NewLinkChecker() *LinkChecker {
	return &LinkChecker{
		routes:  map[string]struct{}{},
		anchors: map[string]map[string]struct{}{},
	}
}

// AddTarget registers a route as resolvable and records the heading anchors
// its body will expose, so fragment links can be validated too.
func (c *LinkChecker) AddTarget(route string, body []byte) {
	route = normalizeRoute(route)
	c.routes[route] = struct{}{}

	set := c.anchors[route]
	if set == nil {
		set = map[string]struct{}{}
		c.anchors[route] = set
	}
	for _, heading := range markdown.ExtractHeadings(body) {
		if heading.Anchor != "" {
			set[heading.Anchor] = struct{}{}
		}
	}
}

// Check validates every link in body. route names the page being checked so
// bare fragment links resolve against its own headings.
func (c *LinkChecker) Check(file, route string, body []byte) ([]Issue, LinkStats) {
	var issues []Issue
	var stats LinkStats
	route = normalizeRoute(route)

	for _, link := range markdown.ExtractLinks(body) {
		dest := strings.TrimSpace(link.Destination)
		if dest == "" || isExternal(dest) {
			stats.Skipped++
			continue
		}

		if strings.HasPrefix(dest, "#") {
			stats.Checked++
			if !c.hasAnchor(route, strings.TrimPrefix(dest, "#")) {
				issues = append(issues, Issue{
					File:     file,
					Rule:     RuleLinkAnchor,
					Severity: SeverityWarning,
					Detail:   fmt.Sprintf("anchor %q not found on this page", dest),
				})
			}
			continue
		}

		target, fragment := splitFragment(dest)
		if isAsset(target) {
			// Static assets live outside the page catalog.
			stats.Skipped++
			continue
		}

		stats.Checked++
		resolved := resolveRoute(route, target)
		if _, ok := c.routes[resolved]; !ok {
			issues = append(issues, Issue{
				File:     file,
				Rule:     RuleLinkTarget,
				Severity: SeverityError,
				Detail:   fmt.Sprintf("link %q does not resolve to a page", dest),
			})
			continue
		}
		if fragment != "" && !c.hasAnchor(resolved, fragment) {
			issues = append(issues, Issue{
				File:     file,
				Rule:     RuleLinkAnchor,
				Severity: SeverityWarning,
				Detail:   fmt.Sprintf("anchor %q not found on %s", "#"+fragment, resolved),
			})
		}
	}

	return issues, stats
}

func (c *LinkChecker) hasAnchor(route, anchor string) bool {
	set, ok := c.anchors[normalizeRoute(route)]
	if !ok {
		return false
	}
	_, ok = set[anchor]
	return ok
}

// normalizeRoute canonicalizes a route to the /segment/.../ form the
// generator publishes.
func normalizeRoute(route string) string {
	route = strings.TrimSpace(route)
	route = strings.TrimSuffix(route, "index.html")
	route = strings.Trim(route, "/")
	if route == "" {
		return "/"
	}
	return "/" + route + "/"
}

// resolveRoute resolves dest relative to the current route. Absolute
// destinations stand on their own.
func resolveRoute(current, dest string) string {
	if strings.HasPrefix(dest, "/") {
		return normalizeRoute(dest)
	}
	base := strings.TrimSuffix(normalizeRoute(current), "/")
	return normalizeRoute(path.Join(base, dest))
}

func splitFragment(dest string) (string, string) {
	if idx := strings.IndexByte(dest, '#'); idx >= 0 {
		return dest[:idx], dest[idx+1:]
	}
	return dest, ""
}

func isExternal(dest string) bool {
	lower := strings.ToLower(dest)
	return strings.Contains(lower, "://") ||
		strings.HasPrefix(lower, "mailto:") ||
		strings.HasPrefix(lower, "tel:") ||
		strings.HasPrefix(lower, "//")
}

// isAsset reports whether a destination points at a static file rather than
// a documentation route.
func isAsset(dest string) bool {
	ext := strings.ToLower(path.Ext(strings.Trim(dest, "/")))
	switch ext {
	case "", ".html", ".htm":
		return false
	}
	return true
}
