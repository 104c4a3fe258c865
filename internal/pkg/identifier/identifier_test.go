package identifier_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/registry/internal/pkg/apperrors"
	"github.com/yigit/registry/internal/pkg/identifier"
)

func TestNext(t *testing.T) {
	tests := []struct {
		lastID string
		want   string
	}{
		{"DEP-00001", "DEP-00002"},
		{"DEP-00009", "DEP-00010"},
		{"DEP-00099", "DEP-00100"},
		{"STD-0000001", "STD-0000002"},
		{"LEC-09999", "LEC-10000"},
		{"USER-9999999", "USER-10000000"},
		{"COURSE-99999", "COURSE-100000"},
		{"X-9", "X-10"},
		{"X-0", "X-1"},
		// inconsistent width is kept, never corrected
		{"DEP-001", "DEP-002"},
		{"DEP-1", "DEP-2"},
		// suffixes beyond 64-bit range neither wrap nor lose width
		{"USER-18446744073709551615", "USER-18446744073709551616"},
		{"A-0010000000000000000000", "A-0010000000000000000001"},
		{"A-0099999999999999999999", "A-0100000000000000000000"},
		{"DEP-99999999999999999999999", "DEP-100000000000000000000000"},
	}

	for _, tt := range tests {
		t.Run(tt.lastID, func(t *testing.T) {
			got, err := identifier.Next(tt.lastID)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNextKeepsWidthAcrossRun(t *testing.T) {
	id := identifier.Student.Seed
	for i := 0; i < 250; i++ {
		next, err := identifier.Next(id)
		require.NoError(t, err)
		assert.Len(t, next, len(id))
		assert.Greater(t, next, id)
		id = next
	}
	assert.Equal(t, "STD-0000251", id)
}

func TestNextMalformed(t *testing.T) {
	for _, in := range []string{"", "DEP", "DEP00001", "DEP-", "-00001", "DEP-12a4", "DEP- 12"} {
		t.Run(in, func(t *testing.T) {
			_, err := identifier.Next(in)
			require.Error(t, err)
			assert.ErrorIs(t, err, apperrors.ErrInvalidIdentifier)
			assert.True(t, apperrors.IsInvalidInput(err))
		})
	}
}

func TestNextInSeries(t *testing.T) {
	got, err := identifier.NextInSeries(identifier.User, "")
	require.NoError(t, err)
	assert.Equal(t, "USER-0000001", got)

	got, err = identifier.NextInSeries(identifier.Department, "DEP-00041")
	require.NoError(t, err)
	assert.Equal(t, "DEP-00042", got)

	_, err = identifier.NextInSeries(identifier.Department, "LEC-00041")
	assert.ErrorIs(t, err, apperrors.ErrInvalidIdentifier)
}

func TestValidate(t *testing.T) {
	assert.NoError(t, identifier.Validate(identifier.Course, "COURSE-00012"))
	assert.ErrorIs(t, identifier.Validate(identifier.Course, "DEP-00012"), apperrors.ErrInvalidIdentifier)
	assert.ErrorIs(t, identifier.Validate(identifier.Course, "COURSE12"), apperrors.ErrInvalidIdentifier)
}
