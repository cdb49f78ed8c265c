// Package gravatar derives avatar URLs from email addresses. The hash is an
// identifier per the gravatar addressing scheme, not a security primitive.
package gravatar

import (
	"crypto/md5"
	"fmt"
	"strings"
)

// URL returns the gravatar URL for the email: 200px, identicon fallback,
// rating g.
func URL(email string) string {
	normalized := strings.ToLower(strings.TrimSpace(email))
	hash := md5.Sum([]byte(normalized))
	return fmt.Sprintf("https://www.gravatar.com/avatar/%x?s=200&d=identicon&r=g", hash)
}
