package model

// Package model holds the pure domain types for the POS admin backend.
// No database tags and no framework types; these structs cross every layer.

// Record states shared by users and sales. Cancelling a sale moves it to
// the inactive code.
const (
	StateInactive = 0
	StateActive   = 1
)

// StateLabel derives the display label shown in user listings from a state code.
func StateLabel(state int) string {
	if state == StateActive {
		return "Active"
	}
	return "Inactive"
}

// SaleStateLabel derives the display label for a sale state code.
func SaleStateLabel(state int) string {
	if state == StateActive {
		return "Issued"
	}
	return "Cancelled"
}

// AssetRef is an opaque handle to a binary object held in a named container
// of the asset store. A nil *AssetRef on a record means no asset is attached.
type AssetRef struct {
	Container string `json:"container"`
	Key       string `json:"key"`
}
