package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeCode(t *testing.T) {
	assert.Equal(t, "LOVY-1234", NormalizeCode("  lovy-1234 "))
	assert.Equal(t, "LOVY-1234", NormalizeCode("LOVY-1234"))
	assert.Equal(t, "", NormalizeCode("   "))
}

func TestIsValidCodeFormat(t *testing.T) {
	assert.True(t, IsValidCodeFormat("LOVY", "LOVY-1234"))
	assert.True(t, IsValidCodeFormat("LOVY", "lovy-1234"))
	assert.True(t, IsValidCodeFormat("LOVY", " LOVY-AB12CD34 "))
	assert.True(t, IsValidCodeFormat("lovy", "LOVY-1234"))

	assert.False(t, IsValidCodeFormat("LOVY", "LOVY-123"))
	assert.False(t, IsValidCodeFormat("LOVY", "LOVY1234"))
	assert.False(t, IsValidCodeFormat("LOVY", "DEAL-1234"))
	assert.False(t, IsValidCodeFormat("LOVY", "LOVY-12 34"))
	assert.False(t, IsValidCodeFormat("LOVY", ""))
}

func TestLooksLikeCode(t *testing.T) {
	assert.True(t, LooksLikeCode("LOVY", "lovy-1234"))
	assert.True(t, LooksLikeCode("LOVY", "LOVY1234"))
	assert.False(t, LooksLikeCode("LOVY", "hello there"))
	assert.False(t, LooksLikeCode("LOVY", ""))
}
