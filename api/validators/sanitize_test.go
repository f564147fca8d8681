package validators

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeString(t *testing.T) {
	assert.Equal(t, "SH-100", SanitizeString("  SH-100\n", 0))
	assert.Equal(t, "SH100", SanitizeString("SH\x00100", 0))
	assert.Equal(t, "Schuh", SanitizeString("Schuh-groß", 5))
	// "ß" spans bytes 9 and 10.
	assert.Equal(t, "Schuh-gro", SanitizeString("Schuh-groß", 10))
	assert.Equal(t, "", SanitizeString("äö", 1))
}
