package composer

import (
	"strings"
	"testing"

	"github.com/dohr-michael/banner/internal/config"
	"github.com/dohr-michael/banner/internal/entitystore"
)

const testBanner = "data:image/png;base64,AAAA"

func testStore(t *testing.T) *entitystore.Store {
	t.Helper()
	return entitystore.New(t.TempDir())
}

func singleContext(name string) Context {
	return Context{Characters: []Character{{Name: name}}}
}

func enabledSettings() config.Settings {
	s := config.DefaultSettings()
	s.ExtraStylingEnabled = true
	return s
}

func TestComposeDisabled(t *testing.T) {
	s := enabledSettings()
	s.Enabled = false

	state := Compose(singleContext("Seraphina"), s, testStore(t))
	if state.CSS != "" || state.AnyBanner || state.PanelBanner {
		t.Errorf("disabled compose produced output: %+v", state)
	}
}

func TestComposeIdempotent(t *testing.T) {
	store := testStore(t)
	store.SaveData(entitystore.Character("Seraphina"), entitystore.Record{
		BannerImage: entitystore.String(testBanner),
	})
	ctx := singleContext("Seraphina")
	s := enabledSettings()

	first := Compose(ctx, s, store)
	second := Compose(ctx, s, store)
	if first.CSS != second.CSS {
		t.Error("compose output differs across identical passes")
	}
	if first.CSS == "" {
		t.Fatal("empty stylesheet for a bannered entity")
	}
}

func TestComposeInheritsGlobalAccent(t *testing.T) {
	state := Compose(singleContext("Seraphina"), enabledSettings(), testStore(t))

	// #e79fa8 resolves through the global default.
	if !strings.Contains(state.CSS, "231, 159, 168") {
		t.Errorf("global accent channels missing from CSS:\n%s", state.CSS)
	}
}

func TestComposeEntityAccentOverride(t *testing.T) {
	store := testStore(t)
	store.SaveData(entitystore.Character("Seraphina"), entitystore.Record{
		AccentColor: entitystore.String("#0033ff"),
	})

	state := Compose(singleContext("Seraphina"), enabledSettings(), store)
	if !strings.Contains(state.CSS, "0, 51, 255") {
		t.Errorf("accent override not applied:\n%s", state.CSS)
	}
	if strings.Contains(state.CSS, `.mes[ch_name="Seraphina"] .avatar-banner`) {
		t.Error("banner sub-block emitted for a bannerless entity")
	}
}

func TestComposeQuoteColorChain(t *testing.T) {
	store := testStore(t)
	ctx := singleContext("Seraphina")

	// No override, no theme var: quote falls back to the resolved accent.
	state := Compose(ctx, enabledSettings(), store)
	if !strings.Contains(state.CSS, "color: #e79fa8 !important") {
		t.Errorf("quote fallback to accent missing:\n%s", state.CSS)
	}

	// Theme var wins over the accent fallback.
	ctx.ThemeVars = map[string]string{"--SmartThemeQuoteColor": "#8fd0ff"}
	state = Compose(ctx, enabledSettings(), store)
	if !strings.Contains(state.CSS, "color: #8fd0ff !important") {
		t.Errorf("theme quote color not used:\n%s", state.CSS)
	}

	// Entity override wins over everything.
	store.SaveData(entitystore.Character("Seraphina"), entitystore.Record{
		QuoteColor: entitystore.String("#112233"),
	})
	state = Compose(ctx, enabledSettings(), store)
	if !strings.Contains(state.CSS, "color: #112233 !important") {
		t.Errorf("entity quote override not used:\n%s", state.CSS)
	}
}

func TestComposeInvalidBannerTreatedAsAbsent(t *testing.T) {
	store := testStore(t)
	store.SaveData(entitystore.Character("Seraphina"), entitystore.Record{
		BannerImage: entitystore.String("not-a-data-url"),
	})

	state := Compose(singleContext("Seraphina"), enabledSettings(), store)
	if state.AnyBanner {
		t.Error("invalid image counted as a banner")
	}
	if state.Entities["Seraphina"].Banner != "" {
		t.Error("invalid image surfaced in the entity render map")
	}
	if strings.Contains(state.CSS, ".avatar-banner") &&
		strings.Contains(state.CSS, `ch_name="Seraphina"`) &&
		strings.Contains(state.CSS, "padding-top") {
		t.Errorf("banner sub-block emitted for invalid image:\n%s", state.CSS)
	}
}

func TestComposeGroupPersonaStructuralFlag(t *testing.T) {
	store := testStore(t)
	store.SaveData(entitystore.Character("Bryn"), entitystore.Record{
		BannerImage: entitystore.String(testBanner),
	})

	ctx := Context{
		GroupID: "g1",
		Characters: []Character{
			{Name: "Aelle"}, {Name: "Bryn"}, {Name: "Ciri"},
		},
		PersonaAvatar: "me.png",
	}
	s := enabledSettings()
	s.EnableUserBanners = true

	state := Compose(ctx, s, store)
	if !state.AnyBanner {
		t.Fatal("AnyBanner false with one bannered member")
	}
	if state.PersonaBanner != "" {
		t.Error("persona banner reported without a stored image")
	}
	// Persona messages still receive banner-mode structural CSS.
	if !strings.Contains(state.CSS, `.mes[is_user="true"].has-banner`) {
		t.Errorf("persona structural padding missing:\n%s", state.CSS)
	}
	if state.PanelBanner {
		t.Error("panel banner flag set in a group context")
	}
}

func TestComposePanelBannerFlag(t *testing.T) {
	store := testStore(t)
	store.SaveData(entitystore.Character("Seraphina"), entitystore.Record{
		BannerImage: entitystore.String(testBanner),
	})
	s := enabledSettings()
	s.EnablePanelBanner = true

	state := Compose(singleContext("Seraphina"), s, store)
	if !state.PanelBanner {
		t.Error("panel banner flag not set for a bannered counterpart")
	}

	s.EnablePanelBanner = false
	if Compose(singleContext("Seraphina"), s, store).PanelBanner {
		t.Error("panel banner flag set while disabled")
	}
}

func TestComposeCompactModeSuppressedByHostLayout(t *testing.T) {
	store := testStore(t)
	store.SaveData(entitystore.Character("Seraphina"), entitystore.Record{
		BannerImage: entitystore.String(testBanner),
	})
	s := enabledSettings()
	s.CompactThemeMode = true

	ctx := singleContext("Seraphina")
	ctx.ChatDisplay = DisplayDocument
	state := Compose(ctx, s, store)
	if state.CSS != "" {
		t.Errorf("compact pass not suppressed in document display:\n%s", state.CSS)
	}
	if !state.CompactMode {
		t.Error("compact-mode flag cleared by suppression")
	}

	ctx.ChatDisplay = DisplayBubble
	state = Compose(ctx, s, store)
	if !strings.Contains(state.CSS, ".mes_block") {
		t.Errorf("compact layout not rendered in bubble display:\n%s", state.CSS)
	}
}

func TestComposeFontImportOnce(t *testing.T) {
	store := testStore(t)
	store.SaveData(entitystore.Character("Aelle"), entitystore.Record{
		BannerImage: entitystore.String(testBanner),
	})
	store.SaveData(entitystore.Character("Bryn"), entitystore.Record{
		BannerImage: entitystore.String(testBanner),
	})
	s := enabledSettings()
	s.FontFamily = "Dancing Script"

	ctx := Context{GroupID: "g1", Characters: []Character{{Name: "Aelle"}, {Name: "Bryn"}}}
	state := Compose(ctx, s, store)

	imp := "@import url('https://fonts.googleapis.com/css2?family=Dancing+Script&display=swap');"
	if got := strings.Count(state.CSS, imp); got != 1 {
		t.Errorf("font import appears %d times, want 1", got)
	}
	if !strings.HasPrefix(state.CSS, imp) {
		t.Error("font import is not the first statement")
	}
}

func TestComposeEscapesSelectorName(t *testing.T) {
	name := `Edgy "Quote" Char`
	state := Compose(singleContext(name), enabledSettings(), testStore(t))
	if !strings.Contains(state.CSS, `.mes[ch_name="Edgy \"Quote\" Char"]`) {
		t.Errorf("selector not escaped:\n%s", state.CSS)
	}
}

func TestComposeDisplayNameSwapGating(t *testing.T) {
	store := testStore(t)
	store.SaveData(entitystore.Character("Seraphina"), entitystore.Record{
		BannerImage: entitystore.String(testBanner),
	})
	ctx := Context{Characters: []Character{{Name: "Seraphina", DisplayName: "Sera"}}}

	s := enabledSettings()
	s.UseDisplayName = true
	state := Compose(ctx, s, store)
	er := state.Entities["Seraphina"]
	if er.DisplayName != "Sera" || er.OriginalName != "Seraphina" {
		t.Errorf("swap pair missing: %+v", er)
	}

	// Swap is gated on extra styling.
	s.ExtraStylingEnabled = false
	state = Compose(ctx, s, store)
	if state.Entities["Seraphina"].DisplayName != "" {
		t.Error("display-name swap active without extra styling")
	}
}

func TestComposeMobileBannerBlock(t *testing.T) {
	store := testStore(t)
	store.SaveData(entitystore.Character("Seraphina"), entitystore.Record{
		BannerImage: entitystore.String(testBanner),
	})

	state := Compose(singleContext("Seraphina"), enabledSettings(), store)
	// 20vh default scales to 13vh at the breakpoint.
	if !strings.Contains(state.CSS, "height: 13vh !important") {
		t.Errorf("mobile banner height block missing:\n%s", state.CSS)
	}
}

func TestComposeAlternateNameResolvesSameEntity(t *testing.T) {
	store := testStore(t)
	store.SaveData(entitystore.Character("Seraphina"), entitystore.Record{
		BannerImage: entitystore.String(testBanner),
	})

	// A renaming collaborator shows "Sera" but the card name stays the key.
	ctx := Context{Characters: []Character{{Name: "Sera", OriginalName: "Seraphina"}}}
	state := Compose(ctx, enabledSettings(), store)
	if state.Entities["Seraphina"].Banner != testBanner {
		t.Error("alternate name did not resolve to the stored entity")
	}
}
