package presets

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/dohr-michael/banner/internal/config"
)

const testPresets = `
rose:
  accentColor: "#e79fa8"
  fontFamily: Caveat
  bannerHeight: 22
midnight:
  accentColor: "#223355"
  extraStylingEnabled: true
`

func TestLoadAndApply(t *testing.T) {
	path := filepath.Join(t.TempDir(), "presets.yaml")
	if err := os.WriteFile(path, []byte(testPresets), 0o644); err != nil {
		t.Fatal(err)
	}

	ps, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := Names(ps); !reflect.DeepEqual(got, []string{"midnight", "rose"}) {
		t.Errorf("Names = %v", got)
	}

	s := config.DefaultSettings()
	Apply(ps["rose"], &s)
	if s.AccentColor != "#e79fa8" || s.FontFamily != "Caveat" || s.BannerHeight != 22 {
		t.Errorf("rose preset not applied: %+v", s)
	}
	// Fields the preset does not carry stay put.
	if s.FontSize != config.DefaultSettings().FontSize {
		t.Errorf("font size changed by preset without fontSize: %v", s.FontSize)
	}

	Apply(ps["midnight"], &s)
	if s.AccentColor != "#223355" || !s.ExtraStylingEnabled {
		t.Errorf("midnight preset not applied: %+v", s)
	}
	if s.FontFamily != "Caveat" {
		t.Error("midnight preset clobbered an unset field")
	}
}

func TestLoadMissingFile(t *testing.T) {
	ps, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(ps) != 0 {
		t.Errorf("missing file produced presets: %v", ps)
	}
}

func TestLoadMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "presets.yaml")
	if err := os.WriteFile(path, []byte("{not yaml"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("malformed presets file did not error")
	}
}
