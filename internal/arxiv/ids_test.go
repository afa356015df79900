package arxiv

import (
	"regexp"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var idPattern = regexp.MustCompile(`^18(\d{2})\.(\d{5})$`)

func TestIDGeneratorDeterministic(t *testing.T) {
	first := NewIDGenerator(42)
	second := NewIDGenerator(42)

	for i := 0; i < 10; i++ {
		assert.Equal(t, first.Next(), second.Next())
	}
}

func TestIDGeneratorShape(t *testing.T) {
	gen := NewIDGenerator(7)

	for i := 0; i < 1000; i++ {
		id := gen.Next()
		matches := idPattern.FindStringSubmatch(id)
		require.NotNil(t, matches, "id %q does not match the arXiv pattern", id)

		month, err := strconv.Atoi(matches[1])
		require.NoError(t, err)
		assert.GreaterOrEqual(t, month, 1)
		assert.LessOrEqual(t, month, 12)

		number, err := strconv.Atoi(matches[2])
		require.NoError(t, err)
		assert.Less(t, number, 5000)
	}
}
