package shipsort

import (
	"net"
	"strings"

	"github.com/samber/lo"
	"github.com/sandertv/gophertunnel/minecraft/protocol/login"
	"github.com/sandertv/gophertunnel/minecraft/text"
)

// Allower only lets the crew of the ship join. An empty crew lets everyone join.
type Allower struct {
	crew []string
}

// Allow ...
func (a Allower) Allow(_ net.Addr, d login.IdentityData, _ login.ClientData) (string, bool) {
	if len(a.crew) == 0 {
		return "", true
	}
	if lo.ContainsBy(a.crew, func(name string) bool {
		return strings.EqualFold(name, d.DisplayName)
	}) {
		return "", true
	}
	return text.Colourf("<red>You're not part of the crew of this ship.</red>"), false
}
