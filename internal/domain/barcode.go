package domain

import (
	"fmt"
	"math/rand/v2"
)

// NewBarcode returns a 16-digit numeric barcode drawn uniformly at random.
// Uniqueness is enforced by the database; callers retry on collision.
func NewBarcode() string {
	return fmt.Sprintf("%016d", rand.Int64N(1e16))
}
