package match

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/mauv0809/pong-ladder/internal/club"
)

const (
	MinNameLength = 2
	MaxNameLength = 50
)

// Whitespace covers Unicode space separators as well as ASCII whitespace.
var validName = regexp.MustCompile(`^[a-zA-ZæøåÆØÅ0-9\p{Z}\s\v\x{FEFF}\-_.]+$`)

// ValidatePlayerName trims the name and checks its length and characters.
// It returns the trimmed name.
func ValidatePlayerName(name string) (string, error) {
	trimmed := strings.TrimSpace(name)
	n := utf8.RuneCountInString(trimmed)
	if n < MinNameLength || n > MaxNameLength {
		return trimmed, ErrInvalidName
	}
	if !validName.MatchString(trimmed) {
		return trimmed, ErrInvalidCharacters
	}
	return trimmed, nil
}

// IsUniquePlayerName reports whether no player already uses name, ignoring case and surrounding whitespace.
func IsUniquePlayerName(name string, players []club.Player) bool {
	key := normalize(name)
	for _, p := range players {
		if normalize(p.Name) == key {
			return false
		}
	}
	return true
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
