package stringsutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitNonEmpty(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, SplitNonEmpty("a\n\nb\n", "\n"))
	assert.Empty(t, SplitNonEmpty("", "\n"))
}

func TestMaskSecret(t *testing.T) {
	assert.Equal(t, "<not set>", MaskSecret(""))
	assert.Equal(t, "********", MaskSecret("short"))
	assert.Equal(t, "********wxyz", MaskSecret("sk-abcdefghijklmnopqrstuvwxyz"))
}
