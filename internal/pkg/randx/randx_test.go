package randx

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRefreshTokenUniqueAndURLSafe(t *testing.T) {
	seen := make(map[string]struct{})

	for i := 0; i < 100; i++ {
		token, err := RefreshToken()
		require.NoError(t, err)
		require.NotContains(t, token, "+")
		require.NotContains(t, token, "/")
		require.NotContains(t, token, "=")

		_, dup := seen[token]
		require.False(t, dup)
		seen[token] = struct{}{}
	}
}

func TestMediaKey(t *testing.T) {
	key := MediaKey("avatars", "Photo.JPG")
	require.True(t, strings.HasPrefix(key, "avatars/"))
	require.True(t, strings.HasSuffix(key, ".jpg"))

	noExt := MediaKey("posts", "picture")
	require.True(t, strings.HasPrefix(noExt, "posts/"))
	require.NotContains(t, noExt, ".")

	require.NotEqual(t, MediaKey("stories", "a.png"), MediaKey("stories", "a.png"))
}
