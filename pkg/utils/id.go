package utils

import (
	"strings"

	"github.com/google/uuid"
)

// NewID returns a random 32 char hex id (uuid v4 without dashes).
func NewID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
