package idgen_test

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/KirkDiggler/agency-sheet/internal/pkg/idgen"
)

func TestUUIDGenerator(t *testing.T) {
	gen := idgen.NewUUID("draft")

	first := gen.Generate()
	second := gen.Generate()

	assert.NotEqual(t, first, second)
	assert.True(t, strings.HasPrefix(first, "draft_"))
	_, err := uuid.Parse(strings.TrimPrefix(first, "draft_"))
	assert.NoError(t, err)

	_, err = uuid.Parse(idgen.NewUUID("").Generate())
	assert.NoError(t, err)
}

func TestSequentialGenerator(t *testing.T) {
	gen := idgen.NewSequential("test")

	assert.Equal(t, "test_1", gen.Generate())
	assert.Equal(t, "test_2", gen.Generate())
	assert.Equal(t, "1", idgen.NewSequential("").Generate())
}
