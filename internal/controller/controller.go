// Package controller owns the render loop. It holds the latest host snapshot
// (chat context, visible messages, layout state), routes trigger and write
// operations into the stores, and coalesces recompose requests so a burst of
// triggers produces exactly one pass. Every pass result goes out over the
// event bus; nothing here talks to a transport directly.
package controller

import (
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/dohr-michael/banner/internal/colormath"
	"github.com/dohr-michael/banner/internal/composer"
	"github.com/dohr-michael/banner/internal/config"
	"github.com/dohr-michael/banner/internal/debounce"
	"github.com/dohr-michael/banner/internal/entitystore"
	"github.com/dohr-michael/banner/internal/events"
	"github.com/dohr-michael/banner/internal/rendersync"
)

const quoteColorVar = "--SmartThemeQuoteColor"

// Controller is the single owner of render state. All mutation funnels
// through it, so a compose pass always sees a consistent snapshot.
type Controller struct {
	settings *config.SettingsStore
	store    *entitystore.Store
	bus      *events.Bus

	mu       sync.Mutex
	hostCtx  composer.Context
	messages []rendersync.Message
	state    composer.RenderState

	trigger *debounce.Trigger
}

// New wires a controller to its stores and bus.
func New(settings *config.SettingsStore, store *entitystore.Store, bus *events.Bus, windows debounce.Windows) *Controller {
	c := &Controller{
		settings: settings,
		store:    store,
		bus:      bus,
		state:    composer.RenderState{Entities: map[string]composer.EntityRender{}},
	}
	c.trigger = debounce.New(c.recompose, windows)
	return c
}

// Close cancels any pending recompose.
func (c *Controller) Close() {
	c.trigger.Stop()
}

// ChatSwitched replaces the host snapshot wholesale. User-initiated
// navigation, so the short coalescing window applies.
func (c *Controller) ChatSwitched(hostCtx composer.Context, messages []rendersync.Message) {
	c.mu.Lock()
	c.hostCtx = hostCtx
	c.messages = messages
	c.mu.Unlock()

	c.bus.Publish(events.NewTypedEvent(events.SourceController,
		events.ChatSwitchedPayload{Context: hostCtx}))
	c.trigger.RequestImmediate()
}

// MessageAdded appends one message to the visible snapshot.
func (c *Controller) MessageAdded(m rendersync.Message) {
	c.mu.Lock()
	c.messages = append(c.messages, m)
	c.mu.Unlock()

	c.trigger.Request()
}

// SettingsChanged persists the full settings record sent by the host and
// schedules a recompose. Returns the stored record.
func (c *Controller) SettingsChanged(s config.Settings) (config.Settings, error) {
	stored, err := c.settings.Update(func(cur *config.Settings) { *cur = s })
	if err != nil {
		c.notice(events.NoticeError, "settings could not be saved")
		return stored, err
	}

	c.bus.Publish(events.NewTypedEvent(events.SourceController,
		events.SettingsChangedPayload{Settings: stored}))
	c.trigger.Request()
	return stored, nil
}

// LayoutState updates the host's structural layout mode and theme variables.
func (c *Controller) LayoutState(display composer.ChatDisplay, themeVars map[string]string) {
	c.mu.Lock()
	c.hostCtx.ChatDisplay = display
	if themeVars != nil {
		c.hostCtx.ThemeVars = themeVars
	}
	c.mu.Unlock()

	c.trigger.Request()
}

// SaveBanner stores a cropped banner (and optionally the retained source
// image) for an entity.
func (c *Controller) SaveBanner(e entitystore.Entity, banner string, source *string) bool {
	ok := c.store.SaveData(e, entitystore.Record{
		BannerImage: entitystore.String(banner),
		SourceImage: source,
	})
	return c.afterWrite(e, ok, "banner could not be saved")
}

// ClearBanner removes the banner while keeping the source image for re-crop.
func (c *Controller) ClearBanner(e entitystore.Entity) bool {
	return c.afterWrite(e, c.store.ClearBanner(e), "banner could not be cleared")
}

// DeleteCustomImage removes both the banner and the retained source image.
func (c *Controller) DeleteCustomImage(e entitystore.Entity) bool {
	return c.afterWrite(e, c.store.DeleteCustomImage(e), "image could not be deleted")
}

// SaveColors stores per-entity color overrides. A color equal to its
// inherited default (within tolerance) is stored as inherit, not as a
// redundant literal; an empty input also reverts to inherit.
func (c *Controller) SaveColors(e entitystore.Entity, accent, quote string) bool {
	settings := c.settings.Current()
	c.mu.Lock()
	themeQuote := c.hostCtx.ThemeVar(quoteColorVar)
	c.mu.Unlock()

	if accent != "" && colormath.Equal(accent, settings.AccentColor) {
		accent = ""
	}
	quoteDefault := themeQuote
	if quoteDefault == "" {
		quoteDefault = settings.AccentColor
	}
	if quote != "" && colormath.Equal(quote, quoteDefault) {
		quote = ""
	}

	ok := c.store.SaveData(e, entitystore.Record{
		AccentColor: entitystore.String(accent),
		QuoteColor:  entitystore.String(quote),
	})
	return c.afterWrite(e, ok, "colors could not be saved")
}

func (c *Controller) afterWrite(e entitystore.Entity, ok bool, failMsg string) bool {
	if !ok {
		c.notice(events.NoticeError, failMsg)
		return false
	}
	c.bus.Publish(events.NewTypedEvent(events.SourceController,
		events.EntityUpdatedPayload{Kind: string(e.Kind), Identity: e.Identity}))
	c.trigger.Request()
	return true
}

// State returns the result of the latest compose pass.
func (c *Controller) State() composer.RenderState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// RenderOps reconciles the current message snapshot against the latest
// compose state.
func (c *Controller) RenderOps() []rendersync.Op {
	c.mu.Lock()
	defer c.mu.Unlock()
	return rendersync.Reconcile(c.state, c.messages)
}

// Recompose runs a pass immediately, bypassing the debounce window. The CLI
// one-shot path uses it.
func (c *Controller) Recompose() composer.RenderState {
	c.recompose()
	return c.State()
}

// recompose is the debounced pass body.
func (c *Controller) recompose() {
	settings := c.settings.Current()

	c.mu.Lock()
	hostCtx := c.hostCtx
	c.state = composer.Compose(hostCtx, settings, c.store)
	state := c.state
	ops := rendersync.Reconcile(state, c.messages)
	c.mu.Unlock()

	slog.Debug("recomposed stylesheet",
		"bytes", len(state.CSS), "entities", len(state.Entities),
		"anyBanner", state.AnyBanner, "ops", len(ops))

	c.bus.Publish(events.NewTypedEvent(events.SourceController,
		events.StylesheetUpdatedPayload{State: state}))
	c.bus.Publish(events.NewTypedEvent(events.SourceController,
		events.RenderOpsUpdatedPayload{Ops: ops}))
}

func (c *Controller) notice(level events.NoticeLevel, msg string) {
	c.bus.Publish(events.NewTypedEvent(events.SourceController, events.NoticePayload{
		ID:      uuid.NewString(),
		Level:   level,
		Message: msg,
	}))
}
