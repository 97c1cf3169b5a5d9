package string_pool

import (
	"strconv"
	"strings"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"
)

func TestNewCap(t *testing.T) {
	pool := NewCap(10)
	a := pool.Intern("aaa")
	require.Equal(t, "aaa", a)
	require.Equal(t, "hello", pool.Intern("hello"))
	require.Equal(t, unsafeData(a), unsafeData(pool.Intern(strings.Repeat("a", 3))))

	for i := 0; i < 302400; i++ {
		pool.Intern(strconv.Itoa(i))
	}
	require.Equal(t, 302402, pool.Len())
	require.Greater(t, len(pool.ms.ms), 1)
	t.Logf("blocks:%v", len(pool.ms.ms))
}

func TestInternLong(t *testing.T) {
	pool := NewCap(1)
	long := strings.Repeat("x", blkSize+1)
	require.Equal(t, long, pool.Intern(long))
	require.Equal(t, "", pool.Intern(""))
	require.Len(t, pool.ms.ms, 1)
}

func unsafeData(s string) *byte {
	return unsafe.StringData(s)
}
