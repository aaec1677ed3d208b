package composer

// Character describes one chat participant as reported by the host.
type Character struct {
	// Name is the current card name, as it appears in the message DOM.
	Name string `json:"name"`
	// OriginalName is set when a renaming collaborator changed the displayed
	// name; it is the stable card name and resolves to the same entity.
	OriginalName string `json:"original_name,omitempty"`
	// DisplayName is a friendlier name to show when the display-name swap is
	// active. Empty means "no alternate display name".
	DisplayName string `json:"display_name,omitempty"`
	// Avatar is the character's avatar path.
	Avatar string `json:"avatar,omitempty"`
}

// CardName returns the stable name used for entity identity and CSS
// selectors: the original card name when a renaming collaborator is present,
// the plain name otherwise.
func (c Character) CardName() string {
	if c.OriginalName != "" {
		return c.OriginalName
	}
	return c.Name
}

// ChatDisplay is the host's structural chat layout mode.
type ChatDisplay string

const (
	DisplayFlat     ChatDisplay = "flat"
	DisplayBubble   ChatDisplay = "bubble"
	DisplayDocument ChatDisplay = "document"
	DisplayUnknown  ChatDisplay = ""
)

// Context is the host-state snapshot a compose pass runs against. The host
// forwards it on chat switches and layout changes; the composer never reaches
// back into the host.
type Context struct {
	// GroupID is non-empty in a multi-member chat.
	GroupID   string `json:"group_id,omitempty"`
	GroupName string `json:"group_name,omitempty"`
	// Characters holds all group members in a group chat, or the single
	// active counterpart otherwise.
	Characters []Character `json:"characters"`
	// PersonaAvatar identifies the active persona.
	PersonaAvatar string `json:"persona_avatar,omitempty"`
	// ThemeVars carries the host theme custom properties the composer may
	// read at render time (quote color fallback, blur tints).
	ThemeVars map[string]string `json:"theme_vars,omitempty"`
	// ChatDisplay is the host's current structural layout mode.
	ChatDisplay ChatDisplay `json:"chat_display,omitempty"`
}

// IsGroup reports whether the snapshot describes a multi-member chat.
func (c Context) IsGroup() bool {
	return c.GroupID != ""
}

// ThemeVar returns a theme custom property value, or "" when the host did
// not report it.
func (c Context) ThemeVar(name string) string {
	return c.ThemeVars[name]
}
