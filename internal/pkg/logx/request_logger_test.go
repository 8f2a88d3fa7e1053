package logx

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAnonymizeIP(t *testing.T) {
	require.Equal(t, "203.0.113.0", anonymizeIP("203.0.113.42:51234"))
	require.Equal(t, "203.0.113.0", anonymizeIP("203.0.113.42"))
	require.Equal(t, "127.0.0.1", anonymizeIP("127.0.0.1:8080"))
	require.Equal(t, "2001:db8:1:2::", anonymizeIP("[2001:db8:1:2:3:4:5:6]:443"))
	require.Equal(t, "unknown_ip", anonymizeIP("not-an-ip"))
	require.Equal(t, "unknown_ip", anonymizeIP(""))
}
