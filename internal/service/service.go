// Package service holds the storefront's business operations. Handlers call these with
// a merchant id already resolved from the bearer credential.
package service

import (
	"strings"

	"github.com/google/uuid"
)

// validID reports whether id is a well-formed UUID. Malformed ids are treated as missing rows.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
