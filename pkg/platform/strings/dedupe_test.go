package strings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDedupeAndTrimLower(t *testing.T) {
	assert.Equal(t, []string{"foo", "bar"}, DedupeAndTrimLower([]string{"  FOO ", "bar", "Foo", "", "  "}))
	assert.Empty(t, DedupeAndTrimLower(nil))
}
