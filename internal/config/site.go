package config

// File represents the YAML configuration file (.leadscout).
// It carries per-site overrides keyed by host name.
//
// Example:
//
//	sites:
//	  example.com:
//	    cookie: "session=abc123"
//	    headers:
//	      Authorization: "Bearer token"
//	    depth: 3
//	    delay_seconds: 2
//	    restrict_to_path: "/team"
type File struct {
	// Sites maps a host name to its site-specific configuration.
	Sites map[string]SiteConfig `yaml:"sites"`
}

// SiteConfig holds crawl overrides for a single site. Zero values mean
// "no override"; the job-level configuration applies.
type SiteConfig struct {
	// Cookie is sent as the Cookie header on every request to the site.
	// Useful for sites that hide contact pages behind a session.
	Cookie string `yaml:"cookie,omitempty"`

	// Headers are extra request headers for the site.
	Headers map[string]string `yaml:"headers,omitempty"`

	// Depth overrides the job's MaxDepth when positive.
	Depth int `yaml:"depth,omitempty"`

	// DelaySeconds overrides the job's inter-request delay when positive.
	DelaySeconds int `yaml:"delay_seconds,omitempty"`

	// RestrictToPath overrides the job's path-restriction prefix.
	RestrictToPath string `yaml:"restrict_to_path,omitempty"`
}

// Apply overlays the site overrides onto a copy of the given config and
// returns it. The original config is not modified.
func (s *SiteConfig) Apply(c *Config) *Config {
	if s == nil {
		return c
	}
	out := *c
	if s.Depth > 0 && s.Depth <= MaxDepthLimit {
		out.MaxDepth = s.Depth
	}
	if s.DelaySeconds > 0 {
		out.Delay = secondsToDuration(s.DelaySeconds)
	}
	if s.RestrictToPath != "" {
		out.RestrictToPath = s.RestrictToPath
	}
	return &out
}
