/*
Copyright © 2025 Pranav J
*/
package types

// AppConfig represents the complete application configuration
type AppConfig struct {
	Verbose bool          `mapstructure:"verbose"`
	Config  string        `mapstructure:"config"`
	Data    DataConfig    `mapstructure:"data" validate:"required"`
	Backup  BackupConfig  `mapstructure:"backup" validate:"required"`
	Anomaly AnomalyConfig `mapstructure:"anomaly" validate:"required"`
	Dates   DatesConfig   `mapstructure:"dates" validate:"required"`
	Sources SourcesConfig `mapstructure:"sources" validate:"required"`
	History HistoryConfig `mapstructure:"history"`
}

// DataConfig holds paths for the persisted assignment data.
type DataConfig struct {
	// Dir is the data directory; relative paths below resolve against it.
	Dir string `mapstructure:"dir" validate:"required"`
	// File is the persisted assignment file name.
	File string `mapstructure:"file" validate:"required"`
	// IncomingDir holds the per-source payload files dropped by the
	// browser automation.
	IncomingDir string `mapstructure:"incomingDir" validate:"required"`
}

// BackupConfig controls snapshot retention.
type BackupConfig struct {
	Dir  string `mapstructure:"dir" validate:"required"`
	Keep int    `mapstructure:"keep" validate:"min=1,max=100"`
}

// AnomalyConfig carries the suspicious-zero threshold.
type AnomalyConfig struct {
	ZeroThreshold int `mapstructure:"zeroThreshold" validate:"min=0"`
}

// DatesConfig carries the due-date parsing heuristics.
type DatesConfig struct {
	YearFloor        int `mapstructure:"yearFloor" validate:"min=1970"`
	YearWindowMonths int `mapstructure:"yearWindowMonths" validate:"min=1,max=12"`
}

// SourcesConfig fixes which sources a collection pass expects and in
// what order. Order matters: deduplication keeps the first occurrence.
type SourcesConfig struct {
	Enabled []string `mapstructure:"enabled" validate:"required,min=1,dive,oneof=google_classroom jupiter sheets_calendar"`
	// GoogleAccounts is how many Google Classroom accounts the browser
	// automation scrapes; each drops its own payload file.
	GoogleAccounts int `mapstructure:"googleAccounts" validate:"min=1,max=8"`
}

// HistoryConfig controls the run-history audit log.
type HistoryConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	File    string `mapstructure:"file"`
}
