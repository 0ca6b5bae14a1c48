// Package domain holds typed identifiers shared across the analytics modules.
// IDs are domain primitives: they enforce validity at parse time so services
// never carry raw strings around.
package domain

import "fmt"

// ClientID identifies a client (ponto de venda) in the platform.
type ClientID string

// ParseClientID validates and returns a ClientID.
func ParseClientID(s string) (ClientID, error) {
	if s == "" {
		return "", fmt.Errorf("client id cannot be empty")
	}
	return ClientID(s), nil
}

// String returns the string representation.
func (c ClientID) String() string {
	return string(c)
}

// IsNil returns true if the client ID is empty.
func (c ClientID) IsNil() bool {
	return c == ""
}

// ProductID identifies a product in the catalog.
type ProductID string

// String returns the string representation.
func (p ProductID) String() string {
	return string(p)
}

// IsNil returns true if the product ID is empty.
func (p ProductID) IsNil() bool {
	return p == ""
}

// EntityID identifies any entity a performance status can be computed for:
// a single client, a region, or a representative rollup.
type EntityID string

// String returns the string representation.
func (e EntityID) String() string {
	return string(e)
}
