package models

// ModelReference identifies the trained model currently targeted for
// generation. The JSON form is what gets cached in session storage.
type ModelReference struct {
	ID            string `json:"id"`
	OwnerName     string `json:"ownerName"`
	IsOwnedByUser bool   `json:"isOwnedByUser"`
}

// DeepLink is the (owner, model) pair carried by a shared-model URL.
type DeepLink struct {
	Username  string
	ModelName string
}

// GeneratedImage is a decoded image returned by the generation endpoint.
type GeneratedImage struct {
	Data   []byte
	Format string
}
