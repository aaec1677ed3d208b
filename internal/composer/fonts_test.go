package composer

import "testing"

func TestParseFontInputEmpty(t *testing.T) {
	f := ParseFontInput("   ")
	if f.Family != "" || f.ImportURL != "" {
		t.Errorf("empty input parsed to %+v", f)
	}
	if got := f.FamilyCSS(); got != `"Caveat", cursive` {
		t.Errorf("FamilyCSS fallback = %q", got)
	}
	if f.ImportStatement() != "" {
		t.Error("empty font produced an import statement")
	}
}

func TestParseFontInputPlainName(t *testing.T) {
	f := ParseFontInput("Dancing Script")
	if f.Family != "Dancing Script" {
		t.Errorf("Family = %q", f.Family)
	}
	want := "https://fonts.googleapis.com/css2?family=Dancing+Script&display=swap"
	if f.ImportURL != want {
		t.Errorf("ImportURL = %q, want %q", f.ImportURL, want)
	}
	if got := f.FamilyCSS(); got != `"Dancing Script", cursive` {
		t.Errorf("FamilyCSS = %q", got)
	}
}

func TestParseFontInputFormedURL(t *testing.T) {
	in := `@import url('https://fonts.googleapis.com/css2?family=Great+Vibes&display=swap');`
	f := ParseFontInput(in)
	if f.Family != "Great Vibes" {
		t.Errorf("Family = %q", f.Family)
	}
	if f.ImportURL != "https://fonts.googleapis.com/css2?family=Great+Vibes&display=swap" {
		t.Errorf("ImportURL = %q", f.ImportURL)
	}
}

func TestParseFontInputURLWithWeights(t *testing.T) {
	in := "https://fonts.googleapis.com/css2?family=Caveat:wght@400;700&display=swap"
	f := ParseFontInput(in)
	if f.Family != "Caveat" {
		t.Errorf("Family = %q, want weight suffix stripped", f.Family)
	}
}

func TestImportStatement(t *testing.T) {
	f := ParseFontInput("Caveat")
	want := "@import url('https://fonts.googleapis.com/css2?family=Caveat&display=swap');"
	if got := f.ImportStatement(); got != want {
		t.Errorf("ImportStatement = %q, want %q", got, want)
	}
}
