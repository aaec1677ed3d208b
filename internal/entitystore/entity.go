// Package entitystore persists per-entity styling overrides (banner images
// and color overrides) for characters and personas. Records live one
// directory per entity under a base dir, written atomically, mirroring how
// the rest of the data root is laid out.
package entitystore

import (
	"fmt"
	"hash/fnv"
	"strings"
)

// Kind distinguishes the two entity families that can hold overrides.
type Kind string

const (
	KindCharacter Kind = "character"
	KindPersona   Kind = "persona"
)

// Entity identifies a character or persona. Identity is the stable key: the
// character's card name or the persona's avatar path. Renaming collaborators
// may present an alternate display name, but the store is always addressed by
// the stable identity.
type Entity struct {
	Kind     Kind   `json:"kind"`
	Identity string `json:"identity"`
}

// Character returns a character entity keyed by its card name.
func Character(name string) Entity {
	return Entity{Kind: KindCharacter, Identity: name}
}

// Persona returns a persona entity keyed by its avatar path.
func Persona(avatar string) Entity {
	return Entity{Kind: KindPersona, Identity: avatar}
}

func (e Entity) key() string {
	return string(e.Kind) + "\x00" + e.Identity
}

// dirName maps an entity to a filesystem-safe directory name. Identities can
// contain path separators and arbitrary text, so unsafe runes are replaced
// and a short hash keeps distinct identities from colliding.
func (e Entity) dirName() string {
	safe := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.' || r == '-' || r == '_':
			return r
		default:
			return '_'
		}
	}, e.Identity)
	if len(safe) > 48 {
		safe = safe[:48]
	}

	h := fnv.New32a()
	h.Write([]byte(e.Identity))
	return fmt.Sprintf("%s-%s-%08x", e.Kind, safe, h.Sum32())
}
