package config

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"sync"
)

// Settings is the flat styling settings record. Sizes are viewport/em
// relative: BannerHeight in vh, FontSize and the name paddings in em. Older
// records stored pixels; Load migrates them once (see migrate).
type Settings struct {
	Enabled             bool `json:"enabled"`
	EnableUserBanners   bool `json:"enableUserBanners"`
	EnablePanelBanner   bool `json:"enablePanelBanner"`
	ExtraStylingEnabled bool `json:"extraStylingEnabled"`
	UseDisplayName      bool `json:"useDisplayName"`
	CompactThemeMode    bool `json:"compactThemeMode"`

	BannerHeight  float64 `json:"bannerHeight"`  // vh
	FontSize      float64 `json:"fontSize"`      // em
	NamePaddingTB float64 `json:"namePaddingTB"` // em
	NamePaddingLR float64 `json:"namePaddingLR"` // em

	AccentColor string `json:"accentColor"`
	FontFamily  string `json:"fontFamily"`

	// UnitsVersion marks the one-time px -> vh/em migration as done.
	UnitsVersion int `json:"unitsVersion"`
}

// unitsVersionCurrent is bumped when the stored unit semantics change.
const unitsVersionCurrent = 1

// Legacy pixel detection thresholds. A stored value above the threshold
// cannot be a sane relative unit, so it is read as legacy pixels. This is
// heuristic: a deliberately small legacy pixel value below the threshold is
// indistinguishable from an already-migrated one and is left alone.
const (
	legacyHeightThreshold  = 40 // vh values above this were pixels
	legacyFontThreshold    = 8  // em values above this were pixels
	legacyPaddingThreshold = 3  // em values above this were pixels
)

// Pixel-to-relative conversion factors: 7.5 px/vh (150px banner ≈ 20vh on a
// 750px viewport), 16 px/em.
const (
	pxPerVH = 7.5
	pxPerEm = 16
)

// DefaultSettings returns the settings used on first access.
func DefaultSettings() Settings {
	return Settings{
		Enabled:       true,
		BannerHeight:  20,
		FontSize:      2.25,
		NamePaddingTB: 0.375,
		NamePaddingLR: 0.625,
		AccentColor:   "#e79fa8",
		UnitsVersion:  unitsVersionCurrent,
	}
}

// migrate converts legacy pixel sizes to relative units. Returns true when
// anything changed. Guarded by UnitsVersion so the heuristic never runs twice.
func migrate(s *Settings) bool {
	if s.UnitsVersion >= unitsVersionCurrent {
		return false
	}
	changed := false
	if s.BannerHeight > legacyHeightThreshold {
		s.BannerHeight = round3(s.BannerHeight / pxPerVH)
		changed = true
	}
	if s.FontSize > legacyFontThreshold {
		s.FontSize = round3(s.FontSize / pxPerEm)
		changed = true
	}
	if s.NamePaddingTB > legacyPaddingThreshold {
		s.NamePaddingTB = round3(s.NamePaddingTB / pxPerEm)
		changed = true
	}
	if s.NamePaddingLR > legacyPaddingThreshold {
		s.NamePaddingLR = round3(s.NamePaddingLR / pxPerEm)
		changed = true
	}
	s.UnitsVersion = unitsVersionCurrent
	if changed {
		slog.Debug("migrated legacy pixel settings to relative units",
			"bannerHeight", s.BannerHeight, "fontSize", s.FontSize)
	}
	return true
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

// SettingsStore owns the settings record on disk. All mutation goes through
// Update, which serializes read-modify-write cycles so interleaved partial
// writes cannot lose fields.
type SettingsStore struct {
	mu      sync.Mutex
	path    string
	current Settings
}

// OpenSettings loads the settings record at path, creating defaults when the
// file does not exist and migrating legacy unit values once.
func OpenSettings(path string) (*SettingsStore, error) {
	st := &SettingsStore{path: path}

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		st.current = DefaultSettings()
		return st, nil
	case err != nil:
		return nil, fmt.Errorf("read settings: %w", err)
	}

	s := DefaultSettings()
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}
	if migrate(&s) {
		st.current = s
		if err := st.write(s); err != nil {
			slog.Warn("persist migrated settings", "error", err)
		}
		return st, nil
	}
	st.current = s
	return st, nil
}

// Current returns a copy of the settings record.
func (st *SettingsStore) Current() Settings {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.current
}

// Update applies fn to the current record and persists the result atomically.
// On write failure the in-memory record is left unchanged.
func (st *SettingsStore) Update(fn func(*Settings)) (Settings, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	next := st.current
	fn(&next)

	if err := st.write(next); err != nil {
		return st.current, fmt.Errorf("write settings: %w", err)
	}
	st.current = next
	return next, nil
}

func (st *SettingsStore) write(s Settings) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(st.path), 0o755); err != nil {
		return err
	}
	tmp := st.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, st.path)
}
