package ws

import (
	"encoding/json"
	"testing"
)

func TestMarshalUnmarshal_RequestFrame(t *testing.T) {
	params, _ := json.Marshal(map[string]string{"kind": "character", "identity": "Seraphina"})
	orig := Frame{
		Type:   FrameTypeRequest,
		ID:     "req-1",
		Method: string(MethodClearBanner),
		Params: params,
	}

	data, err := MarshalFrame(orig)
	if err != nil {
		t.Fatalf("MarshalFrame: %v", err)
	}

	got, err := UnmarshalFrame(data)
	if err != nil {
		t.Fatalf("UnmarshalFrame: %v", err)
	}

	if got.Type != FrameTypeRequest {
		t.Fatalf("expected type %q, got %q", FrameTypeRequest, got.Type)
	}
	if got.ID != "req-1" {
		t.Fatalf("expected id %q, got %q", "req-1", got.ID)
	}
	if got.Method != string(MethodClearBanner) {
		t.Fatalf("expected method %q, got %q", MethodClearBanner, got.Method)
	}

	var p entityParams
	if err := json.Unmarshal(got.Params, &p); err != nil {
		t.Fatalf("unmarshal params: %v", err)
	}
	if p.Identity != "Seraphina" {
		t.Fatalf("expected params.identity %q, got %q", "Seraphina", p.Identity)
	}
}

func TestMarshalUnmarshal_ResponseFrame(t *testing.T) {
	ok := true
	payload, _ := json.Marshal(map[string]bool{"saved": true})
	orig := Frame{
		Type:    FrameTypeResponse,
		ID:      "req-1",
		OK:      &ok,
		Payload: payload,
	}

	data, err := MarshalFrame(orig)
	if err != nil {
		t.Fatalf("MarshalFrame: %v", err)
	}

	got, err := UnmarshalFrame(data)
	if err != nil {
		t.Fatalf("UnmarshalFrame: %v", err)
	}

	if got.Type != FrameTypeResponse {
		t.Fatalf("expected type %q, got %q", FrameTypeResponse, got.Type)
	}
	if got.OK == nil || !*got.OK {
		t.Fatal("expected ok=true")
	}
}

func TestNewEventFrame(t *testing.T) {
	f, err := NewEventFrame("stylesheet.updated", map[string]string{"css": "/* x */"})
	if err != nil {
		t.Fatalf("NewEventFrame: %v", err)
	}
	if f.Type != FrameTypeEvent {
		t.Fatalf("expected type %q, got %q", FrameTypeEvent, f.Type)
	}
	if f.Event != "stylesheet.updated" {
		t.Fatalf("expected event %q, got %q", "stylesheet.updated", f.Event)
	}

	var p map[string]string
	if err := json.Unmarshal(f.Payload, &p); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	if p["css"] != "/* x */" {
		t.Fatalf("expected payload.css %q, got %q", "/* x */", p["css"])
	}
}

func TestNewResponseFrame_OK(t *testing.T) {
	f, err := NewResponseFrame("req-5", true, map[string]string{"status": "accepted"}, "")
	if err != nil {
		t.Fatalf("NewResponseFrame: %v", err)
	}
	if f.Type != FrameTypeResponse {
		t.Fatalf("expected type %q, got %q", FrameTypeResponse, f.Type)
	}
	if f.ID != "req-5" {
		t.Fatalf("expected id %q, got %q", "req-5", f.ID)
	}
	if f.OK == nil || !*f.OK {
		t.Fatal("expected ok=true")
	}
	if f.Error != "" {
		t.Fatalf("expected no error, got %q", f.Error)
	}
}

func TestNewResponseFrame_Error(t *testing.T) {
	f, err := NewResponseFrame("req-6", false, nil, "invalid entity")
	if err != nil {
		t.Fatalf("NewResponseFrame: %v", err)
	}
	if f.OK == nil || *f.OK {
		t.Fatal("expected ok=false")
	}
	if f.Error != "invalid entity" {
		t.Fatalf("expected error %q, got %q", "invalid entity", f.Error)
	}
	if f.Payload != nil {
		t.Fatalf("expected nil payload, got %s", string(f.Payload))
	}
}

func TestEntityParamsValidation(t *testing.T) {
	cases := []struct {
		params entityParams
		ok     bool
	}{
		{entityParams{Kind: "character", Identity: "Seraphina"}, true},
		{entityParams{Kind: "persona", Identity: "me.png"}, true},
		{entityParams{Kind: "character", Identity: ""}, false},
		{entityParams{Kind: "gremlin", Identity: "x"}, false},
	}
	for _, c := range cases {
		if _, ok := c.params.entity(); ok != c.ok {
			t.Errorf("entity(%+v) ok = %v, want %v", c.params, ok, c.ok)
		}
	}
}
