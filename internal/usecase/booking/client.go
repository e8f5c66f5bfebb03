package booking

import (
	"strings"

	"github.com/google/uuid"
)

const (
	ClientRegistered = "registered"
	ClientGuest      = "guest"
	ClientAnonymous  = "anonymous"
)

// clientType normalizes the requested client type, inferring it from the
// payload when empty. Unknown values are treated the same way.
func clientType(requested string, clientID *uuid.UUID, guestContact string) string {
	switch t := strings.ToLower(strings.TrimSpace(requested)); t {
	case ClientRegistered:
		if clientID != nil {
			return t
		}
	case ClientGuest, ClientAnonymous:
		return t
	}

	switch {
	case clientID != nil:
		return ClientRegistered
	case strings.TrimSpace(guestContact) != "":
		return ClientGuest
	default:
		return ClientAnonymous
	}
}
