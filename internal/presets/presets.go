// Package presets loads named styling bundles from a YAML file and applies
// them onto the settings record. A preset only carries the fields it sets;
// everything else is left untouched.
package presets

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/dohr-michael/banner/internal/config"
)

// Preset is one named bundle. Pointer fields distinguish "not part of this
// preset" from a deliberate zero value.
type Preset struct {
	AccentColor   *string  `yaml:"accentColor,omitempty"`
	FontFamily    *string  `yaml:"fontFamily,omitempty"`
	BannerHeight  *float64 `yaml:"bannerHeight,omitempty"`
	FontSize      *float64 `yaml:"fontSize,omitempty"`
	NamePaddingTB *float64 `yaml:"namePaddingTB,omitempty"`
	NamePaddingLR *float64 `yaml:"namePaddingLR,omitempty"`

	ExtraStylingEnabled *bool `yaml:"extraStylingEnabled,omitempty"`
	CompactThemeMode    *bool `yaml:"compactThemeMode,omitempty"`
}

// Load reads the presets file. A missing file is an empty preset set, not an
// error.
func Load(path string) (map[string]Preset, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return map[string]Preset{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read presets: %w", err)
	}

	var out map[string]Preset
	if err := yaml.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("unmarshal presets: %w", err)
	}
	if out == nil {
		out = map[string]Preset{}
	}
	return out, nil
}

// Names returns the preset names in sorted order.
func Names(ps map[string]Preset) []string {
	names := make([]string, 0, len(ps))
	for name := range ps {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Apply merges the preset's fields onto s.
func Apply(p Preset, s *config.Settings) {
	if p.AccentColor != nil {
		s.AccentColor = *p.AccentColor
	}
	if p.FontFamily != nil {
		s.FontFamily = *p.FontFamily
	}
	if p.BannerHeight != nil {
		s.BannerHeight = *p.BannerHeight
	}
	if p.FontSize != nil {
		s.FontSize = *p.FontSize
	}
	if p.NamePaddingTB != nil {
		s.NamePaddingTB = *p.NamePaddingTB
	}
	if p.NamePaddingLR != nil {
		s.NamePaddingLR = *p.NamePaddingLR
	}
	if p.ExtraStylingEnabled != nil {
		s.ExtraStylingEnabled = *p.ExtraStylingEnabled
	}
	if p.CompactThemeMode != nil {
		s.CompactThemeMode = *p.CompactThemeMode
	}
}
