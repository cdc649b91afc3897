// Package settings stores the user's shortcode preferences in a flat
// key-value store with defaults.
package settings

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/kozaktomas/photo-shortcode/internal/constants"
	"github.com/kozaktomas/photo-shortcode/internal/shortcode"
)

// Storage keys.
const (
	KeyUseThumb   = "useThumb"
	KeyThumbHDPI  = "thumbHDPI"
	KeyThumbWidth = "thumbWidth"
	KeyRowHeight  = "rowHeight"
	KeyUseCaption = "useCaption"
	KeyMaxWidth   = "maxWidth"
)

// Keys lists every persisted key in a stable order.
var Keys = []string{KeyUseThumb, KeyThumbHDPI, KeyThumbWidth, KeyRowHeight, KeyUseCaption, KeyMaxWidth}

var (
	// ErrThumbWidthRequired is returned when thumbnails are enabled without a width.
	ErrThumbWidthRequired = errors.New("thumbnail is required when using preview thumbnails")
	// ErrStorage wraps failures of the underlying key-value store.
	ErrStorage = errors.New("settings storage error")
)

// Settings are the user preferences for shortcode generation.
type Settings struct {
	UseThumb   bool `json:"useThumb" yaml:"useThumb"`
	ThumbHDPI  bool `json:"thumbHDPI" yaml:"thumbHDPI"`
	ThumbWidth int  `json:"thumbWidth" yaml:"thumbWidth"`
	RowHeight  int  `json:"rowHeight" yaml:"rowHeight"`
	UseCaption bool `json:"useCaption" yaml:"useCaption"`
	MaxWidth   int  `json:"maxWidth" yaml:"maxWidth"`
}

// Defaults returns the settings used when nothing is persisted.
func Defaults() Settings {
	return Settings{
		UseThumb:   true,
		ThumbHDPI:  true,
		ThumbWidth: constants.DefaultThumbWidth,
		RowHeight:  constants.DefaultRowHeight,
		UseCaption: true,
	}
}

// Validate checks the save-time invariant. On failure it returns the
// settings with UseThumb turned off alongside ErrThumbWidthRequired.
func (s Settings) Validate() (Settings, error) {
	if s.UseThumb && s.ThumbWidth == 0 {
		s.UseThumb = false
		return s, ErrThumbWidthRequired
	}
	return s, nil
}

// Options converts the settings to generator options.
func (s Settings) Options() shortcode.Options {
	return shortcode.Options{
		UseThumb:   s.UseThumb,
		ThumbHDPI:  s.ThumbHDPI,
		ThumbWidth: s.ThumbWidth,
		RowHeight:  s.RowHeight,
		UseCaption: s.UseCaption,
		MaxWidth:   s.MaxWidth,
	}
}

// Values flattens the settings into string values keyed by storage key.
func (s Settings) Values() map[string]string {
	return map[string]string{
		KeyUseThumb:   strconv.FormatBool(s.UseThumb),
		KeyThumbHDPI:  strconv.FormatBool(s.ThumbHDPI),
		KeyThumbWidth: strconv.Itoa(s.ThumbWidth),
		KeyRowHeight:  strconv.Itoa(s.RowHeight),
		KeyUseCaption: strconv.FormatBool(s.UseCaption),
		KeyMaxWidth:   strconv.Itoa(s.MaxWidth),
	}
}

// Merge returns a copy of s with every known key in values applied.
// Unknown keys are ignored; malformed values are reported.
func (s Settings) Merge(values map[string]string) (Settings, error) {
	for key, raw := range values {
		if err := s.Set(key, raw); err != nil {
			return s, err
		}
	}
	return s, nil
}

// Set parses raw and assigns it to the field stored under key.
func (s *Settings) Set(key, raw string) error {
	switch key {
	case KeyUseThumb, KeyThumbHDPI, KeyUseCaption:
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return fmt.Errorf("invalid value %q for %s: %w", raw, key, err)
		}
		switch key {
		case KeyUseThumb:
			s.UseThumb = v
		case KeyThumbHDPI:
			s.ThumbHDPI = v
		default:
			s.UseCaption = v
		}
	case KeyThumbWidth, KeyRowHeight, KeyMaxWidth:
		v, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("invalid value %q for %s: %w", raw, key, err)
		}
		if v < 0 {
			return fmt.Errorf("invalid value %q for %s: must not be negative", raw, key)
		}
		switch key {
		case KeyThumbWidth:
			s.ThumbWidth = v
		case KeyRowHeight:
			s.RowHeight = v
		default:
			s.MaxWidth = v
		}
	}
	return nil
}
