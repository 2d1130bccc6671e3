// Package translation turns messages from the configuration into chat translations.
package translation

import (
	"github.com/df-mc/dragonfly/server/player/chat"
	"golang.org/x/text/language"
)

// message is a configured message. It reads the same in every language.
type message string

// Resolve ...
func (m message) Resolve(language.Tag) string { return string(m) }

// MessageJoin is broadcast when a crew member joins. %v is replaced by their name.
func MessageJoin(msg string) chat.Translation {
	return chat.Translate(message(msg), 1, "")
}

// MessageQuit is broadcast when a crew member leaves. %v is replaced by their name.
func MessageQuit(msg string) chat.Translation {
	return chat.Translate(message(msg), 1, "")
}

// MessageServerDisconnect is shown to players when the server shuts down.
func MessageServerDisconnect(msg string) chat.Translation {
	return chat.Translate(message(msg), 0, "")
}
