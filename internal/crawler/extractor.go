package crawler

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/docweld/docweld/internal/config"
	"github.com/docweld/docweld/internal/model"
)

// Tab is a section entry of a documentation site. Unlike a menu node,
// a tab's children are unknown until the tab's own page is fetched and
// inspected for sub-navigation.
type Tab struct {
	// Label is the tab text, used as the section heading.
	Label string

	// URL is the absolute address of the tab's page.
	URL string
}

// Extraction is the navigation structure discovered on one page.
type Extraction struct {
	// Title is the page's <title> text, trimmed.
	Title string

	// Tabs are the page's section tabs, in document order. Present on
	// the site root (upper tabs) and on section pages (lower tabs).
	Tabs []Tab

	// Menu is the fully-known side-menu navigation tree, in document
	// order. Empty when the page has no side menu; such pages are
	// treated as plain leaves.
	Menu []model.NavigationNode
}

// Extractor fetches a page and returns its navigation structure.
// Implementations are site-specific; the traversal treats them as a
// black box. A fetch or HTTP error is a retrieval failure and aborts
// the crawl, since the hierarchy cannot be trusted past that point.
type Extractor interface {
	Extract(ctx context.Context, pageURL string) (*Extraction, error)
}

// SiteExtractor extracts navigation using the CSS selectors of a
// configurable site profile. A page missing the expected structural
// elements is not an error: it degrades to a plain leaf with an empty
// Extraction, per the malformed-navigation policy.
type SiteExtractor struct {
	client    *http.Client
	profile   config.Profile
	userAgent string
	logger    *slog.Logger
}

// ExtractorOption configures a SiteExtractor.
type ExtractorOption func(*SiteExtractor)

// WithHTTPClient sets the HTTP client used for page fetches.
func WithHTTPClient(client *http.Client) ExtractorOption {
	return func(e *SiteExtractor) {
		if client != nil {
			e.client = client
		}
	}
}

// WithUserAgent sets the User-Agent header for page fetches.
func WithUserAgent(ua string) ExtractorOption {
	return func(e *SiteExtractor) {
		if ua != "" {
			e.userAgent = ua
		}
	}
}

// WithExtractorLogger sets the logger for extraction diagnostics.
func WithExtractorLogger(logger *slog.Logger) ExtractorOption {
	return func(e *SiteExtractor) {
		e.logger = logger
	}
}

// NewSiteExtractor creates a SiteExtractor for the given site profile.
func NewSiteExtractor(profile config.Profile, opts ...ExtractorOption) *SiteExtractor {
	e := &SiteExtractor{
		client:    http.DefaultClient,
		profile:   profile,
		userAgent: config.DefaultUserAgent,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract fetches the page and returns its title, section tabs, and
// side-menu navigation tree. Relative links are resolved against the
// page URL.
func (e *SiteExtractor) Extract(ctx context.Context, pageURL string) (*Extraction, error) {
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, fmt.Errorf("invalid page URL %q: %w", pageURL, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", e.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")
	if e.profile.Cookie != "" {
		req.Header.Set("Cookie", e.profile.Cookie)
	}
	for k, v := range e.profile.Headers {
		req.Header.Set(k, v)
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, fmt.Errorf("fetch %s: unexpected status %s", pageURL, resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", pageURL, err)
	}

	ext := &Extraction{
		Title: strings.TrimSpace(doc.Find("title").First().Text()),
	}
	ext.Tabs = e.extractTabs(doc, base)
	ext.Menu = e.extractMenu(doc, base)

	return ext, nil
}

// extractTabs returns the page's section tabs: upper tabs if present,
// otherwise lower tabs.
func (e *SiteExtractor) extractTabs(doc *goquery.Document, base *url.URL) []Tab {
	for _, selector := range []string{e.profile.UpperTabs, e.profile.LowerTabs} {
		if selector == "" {
			continue
		}

		var tabs []Tab
		doc.Find(selector).Each(func(_ int, s *goquery.Selection) {
			a := s.Find("a").First()
			target := resolveHref(base, a.AttrOr("href", ""))
			label := strings.TrimSpace(a.Text())
			if target == "" || label == "" {
				return
			}
			tabs = append(tabs, Tab{Label: label, URL: target})
		})

		if len(tabs) > 0 {
			return tabs
		}
	}
	return nil
}

// extractMenu returns the side-menu navigation tree, or nil when the
// page has no menu container (the page then degrades to a plain leaf).
func (e *SiteExtractor) extractMenu(doc *goquery.Document, base *url.URL) []model.NavigationNode {
	if e.profile.Menu == "" {
		return nil
	}

	container := doc.Find(e.profile.Menu).First()
	if container.Length() == 0 {
		e.logger.Debug("no side menu found; treating page as leaf", "url", base.String())
		return nil
	}

	return e.parseMenuItems(container.ChildrenFiltered("li"), base)
}

// parseMenuItems converts a flat run of <li> menu items into navigation
// nodes. Expandable items become nesting groups over their nested list.
// Decorative separator headings become non-nesting groups collecting
// the items that follow them, up to the next heading.
func (e *SiteExtractor) parseMenuItems(items *goquery.Selection, base *url.URL) []model.NavigationNode {
	var nodes []model.NavigationNode

	// openIdx is the index of the decorative heading currently
	// collecting siblings, or -1 at the top run of the list.
	openIdx := -1

	appendNode := func(n model.NavigationNode) {
		if openIdx >= 0 {
			nodes[openIdx].Children = append(nodes[openIdx].Children, n)
			return
		}
		nodes = append(nodes, n)
	}

	items.Each(func(_ int, s *goquery.Selection) {
		switch {
		case e.profile.HeadingClass != "" && s.HasClass(e.profile.HeadingClass):
			label := e.itemLabel(s)
			if label == "" {
				return
			}
			nodes = append(nodes, model.Group(label, false))
			openIdx = len(nodes) - 1

		case e.profile.ExpandableClass != "" && s.HasClass(e.profile.ExpandableClass):
			label := e.itemLabel(s)
			children := e.parseMenuItems(s.Find("ul").First().ChildrenFiltered("li"), base)
			if label == "" {
				return
			}
			appendNode(model.Group(label, true, children...))

		default:
			a := s.Find("a").First()
			target := resolveHref(base, a.AttrOr("href", ""))
			label := strings.TrimSpace(a.Text())
			if target == "" || label == "" {
				e.logger.Debug("skipping menu item without link", "url", base.String())
				return
			}
			appendNode(model.Leaf(label, target))
		}
	})

	return nodes
}

// itemLabel returns the display text of a heading or expandable item.
func (e *SiteExtractor) itemLabel(s *goquery.Selection) string {
	if e.profile.NavText != "" {
		if text := strings.TrimSpace(s.Find(e.profile.NavText).First().Text()); text != "" {
			return text
		}
	}
	return strings.TrimSpace(s.Find("span").First().Text())
}

// resolveHref resolves a possibly relative href against the page URL.
// Non-navigational schemes and fragments yield an empty string.
func resolveHref(base *url.URL, href string) string {
	href = strings.TrimSpace(href)
	if href == "" || href == "#" ||
		strings.HasPrefix(href, "javascript:") ||
		strings.HasPrefix(href, "mailto:") {
		return ""
	}

	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	return base.ResolveReference(ref).String()
}
