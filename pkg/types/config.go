package types

// CatalogConfig holds settings for locating the trial catalog.
type CatalogConfig struct {
	// Path is a catalog file (.yaml, .yml, .json) or SQLite database
	// (.db, .sqlite). Empty selects the embedded default catalog.
	Path string `json:"path" yaml:"path" mapstructure:"path"`
}

// MatchConfig holds settings for the matching engine.
type MatchConfig struct {
	// MaxResults caps the number of results a search returns when the query
	// does not set its own limit. Zero means unlimited.
	MaxResults int `json:"max_results" yaml:"max_results" mapstructure:"max_results" validate:"gte=0"`

	// ConditionBoost is added to a record's score when the query filters on
	// a condition tag. Zero (the default) keeps scores equal to the catalog
	// prior.
	ConditionBoost int `json:"condition_boost" yaml:"condition_boost" mapstructure:"condition_boost" validate:"gte=0,lte=100"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `json:"level" yaml:"level" mapstructure:"level" validate:"oneof=debug info warn error"`

	// Format is "json" for production output or "console" for human output.
	Format string `json:"format" yaml:"format" mapstructure:"format" validate:"oneof=console json"`
}

// Config groups all settings for the CLI.
type Config struct {
	Catalog CatalogConfig `json:"catalog" yaml:"catalog" mapstructure:"catalog"`
	Match   MatchConfig   `json:"match" yaml:"match" mapstructure:"match"`
	Log     LogConfig     `json:"log" yaml:"log" mapstructure:"log"`
}
