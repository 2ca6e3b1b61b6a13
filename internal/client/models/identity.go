// Package models defines client-side data models used by the FotoGen CLI.
package models

// DefaultOwnerName is shown when the identity provider returns no name.
const DefaultOwnerName = "IPS User"

// Identity is the signed-in user as reported by the identity provider.
// It is read-only to the client.
type Identity struct {
	// ID is the opaque object id (oid claim) the backend keys models by.
	ID string
	// HomeAccountID selects the cached provider account.
	HomeAccountID string
	Username      string
	Name          string
	Email         string
}

// DisplayName prefers the human name, then the login, then DefaultOwnerName.
func (i Identity) DisplayName() string {
	switch {
	case i.Name != "":
		return i.Name
	case i.Username != "":
		return i.Username
	default:
		return DefaultOwnerName
	}
}
