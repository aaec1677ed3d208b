package events

import (
	"encoding/json"
	"time"

	"github.com/dohr-michael/banner/internal/composer"
	"github.com/dohr-michael/banner/internal/config"
	"github.com/dohr-michael/banner/internal/rendersync"
)

// EventPayload is the interface all typed payloads implement.
type EventPayload interface {
	EventType() EventType
}

// =============================================================================
// HOST TRIGGERS
// =============================================================================

type ChatSwitchedPayload struct {
	Context composer.Context `json:"context"`
}

func (ChatSwitchedPayload) EventType() EventType { return EventChatSwitched }

type MessageAddedPayload struct {
	Message rendersync.Message `json:"message"`
}

func (MessageAddedPayload) EventType() EventType { return EventMessageAdded }

type SettingsChangedPayload struct {
	Settings config.Settings `json:"settings"`
}

func (SettingsChangedPayload) EventType() EventType { return EventSettingsChanged }

type LayoutStatePayload struct {
	ChatDisplay composer.ChatDisplay `json:"chat_display"`
	ThemeVars   map[string]string    `json:"theme_vars,omitempty"`
}

func (LayoutStatePayload) EventType() EventType { return EventLayoutState }

// =============================================================================
// STORE CHANGES
// =============================================================================

type EntityUpdatedPayload struct {
	Kind     string `json:"kind"`
	Identity string `json:"identity"`
}

func (EntityUpdatedPayload) EventType() EventType { return EventEntityUpdated }

// =============================================================================
// ENGINE RESULTS
// =============================================================================

type StylesheetUpdatedPayload struct {
	State composer.RenderState `json:"state"`
}

func (StylesheetUpdatedPayload) EventType() EventType { return EventStylesheetUpdated }

type RenderOpsUpdatedPayload struct {
	Ops []rendersync.Op `json:"ops"`
}

func (RenderOpsUpdatedPayload) EventType() EventType { return EventRenderOpsUpdated }

// =============================================================================
// NOTICES
// =============================================================================

type NoticeLevel string

const (
	NoticeInfo    NoticeLevel = "info"
	NoticeWarning NoticeLevel = "warning"
	NoticeError   NoticeLevel = "error"
)

type NoticePayload struct {
	ID      string      `json:"id"`
	Level   NoticeLevel `json:"level"`
	Message string      `json:"message"`
}

func (NoticePayload) EventType() EventType { return EventNotice }

// =============================================================================
// TYPED EVENT CONSTRUCTORS
// =============================================================================

func NewTypedEvent(source EventSource, payload EventPayload) Event {
	return Event{
		ID:        generateEventID(),
		Type:      payload.EventType(),
		Timestamp: time.Now(),
		Source:    source,
		Payload:   toMap(payload),
	}
}

func toMap(v any) map[string]any {
	var result map[string]any
	data, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	if err := json.Unmarshal(data, &result); err != nil {
		return nil
	}
	return result
}

// =============================================================================
// TYPED PAYLOAD EXTRACTORS
// =============================================================================

func ExtractPayload[T EventPayload](e Event) (T, bool) {
	var result T
	data, err := json.Marshal(e.Payload)
	if err != nil {
		return result, false
	}
	if err := json.Unmarshal(data, &result); err != nil {
		return result, false
	}
	return result, true
}

func GetChatSwitchedPayload(e Event) (ChatSwitchedPayload, bool) {
	return ExtractPayload[ChatSwitchedPayload](e)
}

func GetSettingsChangedPayload(e Event) (SettingsChangedPayload, bool) {
	return ExtractPayload[SettingsChangedPayload](e)
}

func GetStylesheetUpdatedPayload(e Event) (StylesheetUpdatedPayload, bool) {
	return ExtractPayload[StylesheetUpdatedPayload](e)
}

func GetRenderOpsUpdatedPayload(e Event) (RenderOpsUpdatedPayload, bool) {
	return ExtractPayload[RenderOpsUpdatedPayload](e)
}

func GetNoticePayload(e Event) (NoticePayload, bool) {
	return ExtractPayload[NoticePayload](e)
}
