package uid

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUUID_Generate(t *testing.T) {
	t.Parallel()

	id := NewUUID().Generate()
	parsed, err := uuid.Parse(id)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), parsed.Version())
}

func TestSnowflake_Generate(t *testing.T) {
	t.Parallel()

	s, err := NewSnowflake(1)
	require.NoError(t, err)

	a, b := s.Generate(), s.Generate()
	assert.Greater(t, b, a)

	_, err = NewSnowflake(5000)
	assert.Error(t, err)
}
