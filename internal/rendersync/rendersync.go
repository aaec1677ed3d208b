// Package rendersync computes the DOM reconciliation ops for visible chat
// messages. It is the pure half of rendering: given the latest compose state
// and a snapshot of what the host currently shows, it returns the op list the
// host applies. No DOM access happens here, which keeps the decision logic
// testable and the host-side applier thin.
package rendersync

import "github.com/dohr-michael/banner/internal/composer"

// Message is the host's snapshot of one visible message element.
type Message struct {
	// Index is the message's position in the chat log, echoed back in ops.
	Index int `json:"index"`
	// IsUser marks persona-authored messages.
	IsUser bool `json:"is_user"`
	// Name is the stored name attribute (card name for characters).
	Name string `json:"name"`
	// NameText is the currently displayed name text, which may have been
	// swapped by an earlier reconcile pass.
	NameText string `json:"name_text"`
	// HasBanner reports whether a banner node is currently mounted.
	HasBanner bool `json:"has_banner"`
}

// OpKind enumerates the reconciliation actions.
type OpKind string

const (
	// OpAddBanner mounts a banner node with Op.Image.
	OpAddBanner OpKind = "add-banner"
	// OpRemoveBanner unmounts the banner node.
	OpRemoveBanner OpKind = "remove-banner"
	// OpSetMarker adds the has-banner marker class.
	OpSetMarker OpKind = "set-marker"
	// OpClearMarker removes the marker class.
	OpClearMarker OpKind = "clear-marker"
	// OpSetName replaces the displayed name text with Op.Name.
	OpSetName OpKind = "set-name"
)

// Op is one reconciliation action against a message element.
type Op struct {
	Index int    `json:"index"`
	Kind  OpKind `json:"kind"`
	Image string `json:"image,omitempty"`
	Name  string `json:"name,omitempty"`
}

// Reconcile compares each visible message against the compose state and
// returns the ops that bring the DOM in line. Banner presence comes from the
// state's entity map, so the validity decision is made exactly once per pass.
// The marker class follows real images only, never styling-only state, so the
// reserve-space padding rules stay correct.
func Reconcile(state composer.RenderState, messages []Message) []Op {
	var ops []Op
	for _, m := range messages {
		ops = append(ops, reconcileOne(state, m)...)
	}
	return ops
}

func reconcileOne(state composer.RenderState, m Message) []Op {
	var ops []Op

	var banner string
	var er composer.EntityRender
	if m.IsUser {
		banner = state.PersonaBanner
	} else {
		var ok bool
		er, ok = state.Entities[m.Name]
		if !ok {
			// The name attribute may hold the swapped display name when a
			// renaming collaborator rewrote it. Fall back to a scan.
			er, ok = byDisplayName(state, m.Name)
		}
		if ok {
			banner = er.Banner
		}
	}

	switch {
	case banner != "" && !m.HasBanner:
		ops = append(ops,
			Op{Index: m.Index, Kind: OpAddBanner, Image: banner},
			Op{Index: m.Index, Kind: OpSetMarker})
	case banner == "" && m.HasBanner:
		ops = append(ops,
			Op{Index: m.Index, Kind: OpRemoveBanner},
			Op{Index: m.Index, Kind: OpClearMarker})
	}

	if !m.IsUser {
		if want := desiredNameText(er, m); want != "" && want != m.NameText {
			ops = append(ops, Op{Index: m.Index, Kind: OpSetName, Name: want})
		}
	}
	return ops
}

// byDisplayName resolves a message whose name attribute carries a swapped
// display name back to its entity.
func byDisplayName(state composer.RenderState, name string) (composer.EntityRender, bool) {
	for _, er := range state.Entities {
		if er.DisplayName != "" && er.DisplayName == name {
			return er, true
		}
	}
	return composer.EntityRender{}, false
}

// desiredNameText returns what the message's name text should read, or ""
// when this pass has no opinion (unknown entity). The swap is exactly
// reversible: enabling then disabling the display name restores the original
// text unchanged.
func desiredNameText(er composer.EntityRender, m Message) string {
	if er.DisplayName != "" {
		return er.DisplayName
	}
	// Swap inactive: restore the stored card name if an earlier pass (or the
	// renaming collaborator) left different text behind.
	if m.Name != "" && m.NameText != m.Name {
		return m.Name
	}
	return ""
}
