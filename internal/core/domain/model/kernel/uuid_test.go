package kernel_test

import (
	"testing"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUUID(t *testing.T) {
	t.Run("should create unique valid UUIDs", func(t *testing.T) {
		id1 := kernel.NewUUID()
		id2 := kernel.NewUUID()

		require.NoError(t, id1.Validate())
		assert.False(t, id1.IsEqual(id2))
		assert.NotEqual(t, uuid.Nil.String(), id1.String())
	})
}

func TestUUIDFromString(t *testing.T) {
	validUUID := "550e8400-e29b-41d4-a716-446655440000"

	testCases := []struct {
		name  string
		input string
	}{
		{"canonical", validUUID},
		{"braces", "{550e8400-e29b-41d4-a716-446655440000}"},
		{"urn prefix", "urn:uuid:550e8400-e29b-41d4-a716-446655440000"},
		{"no hyphens", "550e8400e29b41d4a716446655440000"},
	}

	for _, tc := range testCases {
		t.Run("should accept "+tc.name, func(t *testing.T) {
			id, err := kernel.UUIDFromString(tc.input)

			require.NoError(t, err)
			assert.Equal(t, validUUID, id.String())
		})
	}

	t.Run("should reject malformed input", func(t *testing.T) {
		_, err := kernel.UUIDFromString("not-a-uuid")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid UUID format")
	})

	t.Run("should reject the nil UUID", func(t *testing.T) {
		_, err := kernel.UUIDFromString(uuid.Nil.String())

		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})
}

func TestUUIDFromBytes(t *testing.T) {
	t.Run("should round trip through bytes", func(t *testing.T) {
		original := kernel.NewUUID()
		raw := original.Bytes()

		restored, err := kernel.UUIDFromBytes(raw[:])

		require.NoError(t, err)
		assert.True(t, original.IsEqual(restored))
	})

	t.Run("should reject wrong length", func(t *testing.T) {
		_, err := kernel.UUIDFromBytes([]byte{1, 2, 3})

		require.Error(t, err)
	})

	t.Run("should reject zero bytes", func(t *testing.T) {
		_, err := kernel.UUIDFromBytes(make([]byte, 16))

		require.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
	})
}

func TestUUIDFromGoogle(t *testing.T) {
	raw := uuid.New()

	id, err := kernel.UUIDFromGoogle(raw)

	require.NoError(t, err)
	assert.Equal(t, raw.String(), id.String())
}

func TestUUID_Validate(t *testing.T) {
	var zero kernel.UUID

	require.ErrorIs(t, zero.Validate(), kernel.ErrUUIDIsNotConstructed)
	require.NoError(t, kernel.NewUUID().Validate())
}
