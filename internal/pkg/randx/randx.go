/*
Package randx provides functions for generating cryptographically secure random
tokens and unique object identifiers.
*/
package randx

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// RefreshTokenBytes is the entropy, in bytes, of an opaque refresh token.
const RefreshTokenBytes = 32

// RefreshToken generates an opaque, URL-safe refresh token backed by crypto/rand.
func RefreshToken() (string, error) {
	buf := make([]byte, RefreshTokenBytes)

	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate refresh token: %w", err)
	}

	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// MediaKey builds a storage object key for an uploaded file, namespaced under the
// given prefix ("avatars", "posts", "stories") and keeping the original extension.
func MediaKey(prefix string, fileName string) string {
	ext := strings.ToLower(filepath.Ext(fileName))
	return fmt.Sprintf("%s/%s%s", prefix, uuid.New().String(), ext)
}
