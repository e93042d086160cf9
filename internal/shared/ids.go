// Package shared provides small utilities used across the domain and
// infrastructure layers.
package shared

import (
	"fmt"

	"github.com/google/uuid"
)

// NewID generates a unique, prefixed identifier, e.g. "run_3fa85f64".
func NewID(prefix string) string {
	return fmt.Sprintf("%s_%s", prefix, uuid.New().String()[:8])
}
