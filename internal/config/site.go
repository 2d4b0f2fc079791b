package config

// Profile holds the site-specific selectors and credentials used to
// extract navigation structure from a documentation site. The selector
// set is the swappable, markup-dependent part of the crawler; the
// defaults target the Google devsite layout.
type Profile struct {
	// UpperTabs selects the top-level section tabs on the root page.
	UpperTabs string `yaml:"upperTabs,omitempty"`

	// LowerTabs selects the second-level section tabs on a section page.
	LowerTabs string `yaml:"lowerTabs,omitempty"`

	// Menu selects the side-menu container listing a section's pages.
	Menu string `yaml:"menu,omitempty"`

	// NavText selects the label element inside an expandable menu item.
	NavText string `yaml:"navText,omitempty"`

	// ExpandableClass marks a menu item with nested children.
	// Class name only, without the leading dot.
	ExpandableClass string `yaml:"expandableClass,omitempty"`

	// HeadingClass marks a decorative separator heading in the menu.
	// Such headings label the items that follow them but do not
	// introduce a nesting level in the output table of contents.
	HeadingClass string `yaml:"headingClass,omitempty"`

	// Cookie is an HTTP cookie sent with navigation fetches, for
	// documentation sites behind a login.
	// Format: "name=value" or "name1=value1; name2=value2"
	Cookie string `yaml:"cookie,omitempty"`

	// Headers are custom HTTP headers sent with navigation fetches.
	Headers map[string]string `yaml:"headers,omitempty"`
}

// DefaultProfile returns the devsite selector set used by
// developer.android.com and other Google documentation properties.
func DefaultProfile() Profile {
	return Profile{
		UpperTabs:       "devsite-tabs.upper-tabs tab",
		LowerTabs:       "devsite-tabs.lower-tabs tab",
		Menu:            `nav.devsite-book-nav ul.devsite-nav-list[menu="_book"]`,
		NavText:         "span.devsite-nav-text",
		ExpandableClass: "devsite-nav-expandable",
		HeadingClass:    "devsite-nav-heading",
	}
}

// File represents the structure of the .docweld configuration file.
type File struct {
	// Profiles maps site hosts (e.g. "developer.android.com") to their
	// site-specific profiles.
	Profiles map[string]Profile `yaml:"profiles,omitempty"`

	// Defaults is applied to every site unless overridden per host.
	Defaults Profile `yaml:"defaults,omitempty"`
}

// GetProfile returns the effective profile for a site host: the
// built-in devsite defaults, overlaid with the file's defaults, overlaid
// with the host-specific profile.
func (cf *File) GetProfile(host string) Profile {
	result := DefaultProfile()
	overlayProfile(&result, cf.Defaults)
	if p, ok := cf.Profiles[host]; ok {
		overlayProfile(&result, p)
	}
	return result
}

// overlayProfile copies the non-empty fields of src over dst.
func overlayProfile(dst *Profile, src Profile) {
	if src.UpperTabs != "" {
		dst.UpperTabs = src.UpperTabs
	}
	if src.LowerTabs != "" {
		dst.LowerTabs = src.LowerTabs
	}
	if src.Menu != "" {
		dst.Menu = src.Menu
	}
	if src.NavText != "" {
		dst.NavText = src.NavText
	}
	if src.ExpandableClass != "" {
		dst.ExpandableClass = src.ExpandableClass
	}
	if src.HeadingClass != "" {
		dst.HeadingClass = src.HeadingClass
	}
	if src.Cookie != "" {
		dst.Cookie = src.Cookie
	}
	if len(src.Headers) > 0 {
		if dst.Headers == nil {
			dst.Headers = make(map[string]string)
		}
		for k, v := range src.Headers {
			dst.Headers[k] = v
		}
	}
}
