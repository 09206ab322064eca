package config

import (
	"time"

	"fyne.io/fyne/v2"
)

// Settings keys for Fyne preferences
const (
	KeyColumns      = "gallery_columns"
	KeyTopMargin    = "gallery_top_margin"
	KeyCloseText    = "viewer_close_text"
	KeyEnableTilt   = "viewer_enable_tilt"
	KeyLastSource   = "gallery_last_source"
	KeyFadeDuration = "cell_fade_duration_ms"
	KeyLanguage     = "app_language"
	KeyMaxParallel  = "max_parallel_probes"
)

// Default values
const (
	DefaultColumns      = 1
	DefaultTopMargin    = 0
	DefaultCloseText    = "Close"
	DefaultEnableTilt   = false
	DefaultFadeDuration = 300 * time.Millisecond
	DefaultLanguage     = "system"
	DefaultMaxParallel  = 4
)

// Column bounds
const (
	MinColumns = 1
	MaxColumns = 8
)

// Parallel probe bounds
const (
	MinParallel = 1
	MaxParallel = 10
)

// Settings manages application configuration
type Settings struct {
	app fyne.App
}

// NewSettings creates a new settings manager
func NewSettings(app fyne.App) *Settings {
	return &Settings{app: app}
}

// GetColumns returns the configured number of grid columns
func (s *Settings) GetColumns() int {
	value := s.app.Preferences().Int(KeyColumns)
	if value <= 0 {
		s.SetColumns(DefaultColumns)
		return DefaultColumns
	}
	return clampColumns(value)
}

// SetColumns sets the number of grid columns
func (s *Settings) SetColumns(columns int) {
	s.app.Preferences().SetInt(KeyColumns, clampColumns(columns))
}

func clampColumns(columns int) int {
	if columns < MinColumns {
		return MinColumns
	}
	if columns > MaxColumns {
		return MaxColumns
	}
	return columns
}

// GetTopMargin returns the vertical offset added to measured cell positions
func (s *Settings) GetTopMargin() float32 {
	return float32(s.app.Preferences().FloatWithFallback(KeyTopMargin, DefaultTopMargin))
}

// SetTopMargin sets the top margin. Negative values are stored as zero.
func (s *Settings) SetTopMargin(margin float32) {
	if margin < 0 {
		margin = 0
	}
	s.app.Preferences().SetFloat(KeyTopMargin, float64(margin))
}

// GetCloseText returns the label of the viewer close control
func (s *Settings) GetCloseText() string {
	text := s.app.Preferences().String(KeyCloseText)
	if text == "" {
		return DefaultCloseText
	}
	return text
}

// SetCloseText sets the viewer close label
func (s *Settings) SetCloseText(text string) {
	s.app.Preferences().SetString(KeyCloseText, text)
}

// GetEnableTilt returns whether tilt-to-close is enabled in the viewer
func (s *Settings) GetEnableTilt() bool {
	return s.app.Preferences().BoolWithFallback(KeyEnableTilt, DefaultEnableTilt)
}

// SetEnableTilt sets whether tilt-to-close is enabled
func (s *Settings) SetEnableTilt(enabled bool) {
	s.app.Preferences().SetBool(KeyEnableTilt, enabled)
}

// GetLastSource returns the manifest or directory opened last time
func (s *Settings) GetLastSource() string {
	return s.app.Preferences().String(KeyLastSource)
}

// SetLastSource remembers the manifest or directory that was opened
func (s *Settings) SetLastSource(source string) {
	s.app.Preferences().SetString(KeyLastSource, source)
}

// GetFadeDuration returns the cell fade-in duration
func (s *Settings) GetFadeDuration() time.Duration {
	ms := s.app.Preferences().Int(KeyFadeDuration)
	if ms <= 0 {
		return DefaultFadeDuration
	}
	return time.Duration(ms) * time.Millisecond
}

// SetFadeDuration sets the cell fade-in duration
func (s *Settings) SetFadeDuration(d time.Duration) {
	if d <= 0 {
		d = DefaultFadeDuration
	}
	s.app.Preferences().SetInt(KeyFadeDuration, int(d/time.Millisecond))
}

// GetMaxParallelProbes returns the maximum number of parallel image size probes
func (s *Settings) GetMaxParallelProbes() int {
	value := s.app.Preferences().Int(KeyMaxParallel)
	if value <= 0 {
		s.SetMaxParallelProbes(DefaultMaxParallel)
		return DefaultMaxParallel
	}
	return value
}

// SetMaxParallelProbes sets the maximum number of parallel image size probes
func (s *Settings) SetMaxParallelProbes(count int) {
	if count < MinParallel {
		count = MinParallel
	}
	if count > MaxParallel {
		count = MaxParallel
	}
	s.app.Preferences().SetInt(KeyMaxParallel, count)
}

// GetLanguage returns the configured language
func (s *Settings) GetLanguage() string {
	lang := s.app.Preferences().String(KeyLanguage)
	if lang == "" {
		s.SetLanguage(DefaultLanguage)
		return DefaultLanguage
	}
	return lang
}

// SetLanguage sets the application language
func (s *Settings) SetLanguage(lang string) {
	s.app.Preferences().SetString(KeyLanguage, lang)
}

// GetLanguageOptions returns available language options
func (s *Settings) GetLanguageOptions() map[string]string {
	return map[string]string{
		"system": "System Default",
		"en":     "English",
		"ru":     "Русский",
		"pt":     "Português",
	}
}
