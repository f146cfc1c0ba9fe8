package view

// Config holds all configuration options for the view engine.
type Config struct {
	// Dir is the root directory that logical view names are resolved under.
	Dir string `json:"dir"`

	// Ext is the canonical file extension appended to every logical view
	// name during resolution. It must include the leading dot.
	Ext string `json:"ext"`

	// CacheEnabled controls whether parsed views are kept in memory.
	// When disabled every render re-parses the file, which is useful
	// during development but costs a parse per request.
	CacheEnabled bool `json:"cache_enabled"`

	// SanitizeOutput controls whether the sanitization pipeline runs on
	// emitted output. Return-mode renders are never sanitized regardless
	// of this setting.
	SanitizeOutput bool `json:"sanitize_output"`
}

// DefaultConfig returns a Config with safe default values.
func DefaultConfig() *Config {
	return &Config{
		Dir:            "./data/views",
		Ext:            ".view.html",
		CacheEnabled:   true,
		SanitizeOutput: true,
	}
}
