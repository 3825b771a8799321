package config

// SiteProfile holds per-site configuration keyed by host name.
// This allows customizing crawl behavior for individual sites without
// changing the global defaults.
type SiteProfile struct {
	// Cookie is an HTTP cookie to send when crawling this site.
	// Format: "name=value" or "name1=value1; name2=value2"
	Cookie string `yaml:"cookie,omitempty"`

	// Headers are custom HTTP headers to include in requests to this site.
	Headers map[string]string `yaml:"headers,omitempty"`

	// Depth overrides the global crawl depth for this site.
	// If zero, the global CrawlDepth is used.
	Depth int `yaml:"depth,omitempty"`

	// MinChunkLen overrides the global minimum chunk length.
	// If zero, the global MinChunkLen is used.
	MinChunkLen int `yaml:"minChunkLen,omitempty"`

	// PathKeywords overrides the global path allow-list for this site.
	PathKeywords []string `yaml:"pathKeywords,omitempty"`

	// BlockedExtensions overrides the global blocked extension set.
	BlockedExtensions []string `yaml:"blockedExtensions,omitempty"`

	// AllowSubdomains widens the same-domain policy to dot-suffix matching
	// for this site.
	AllowSubdomains bool `yaml:"allowSubdomains,omitempty"`

	// OrgLabel overrides the derived organization label for this site.
	OrgLabel string `yaml:"orgLabel,omitempty"`
}

// File represents the structure of the .webscrap configuration file.
type File struct {
	// Sites maps host names to their per-site profiles.
	// Keys should be the host without the scheme (e.g., "example.com").
	Sites map[string]SiteProfile `yaml:"sites,omitempty"`

	// Defaults contains a default profile applied to all sites unless
	// overridden in the site-specific profile.
	Defaults SiteProfile `yaml:"defaults,omitempty"`
}

// GetSiteProfile returns the profile for a specific host.
// It merges the site-specific profile with defaults.
func (cf *File) GetSiteProfile(host string) SiteProfile {
	// Start with defaults
	result := cf.Defaults

	// Override with site-specific profile if present
	if profile, ok := cf.Sites[host]; ok {
		if profile.Cookie != "" {
			result.Cookie = profile.Cookie
		}
		if profile.Depth != 0 {
			result.Depth = profile.Depth
		}
		if profile.MinChunkLen != 0 {
			result.MinChunkLen = profile.MinChunkLen
		}
		if len(profile.Headers) > 0 {
			if result.Headers == nil {
				result.Headers = make(map[string]string)
			}
			for k, v := range profile.Headers {
				result.Headers[k] = v
			}
		}
		if len(profile.PathKeywords) > 0 {
			result.PathKeywords = profile.PathKeywords
		}
		if len(profile.BlockedExtensions) > 0 {
			result.BlockedExtensions = profile.BlockedExtensions
		}
		if profile.AllowSubdomains {
			result.AllowSubdomains = true
		}
		if profile.OrgLabel != "" {
			result.OrgLabel = profile.OrgLabel
		}
	}

	return result
}
