package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserIsLocked(t *testing.T) {
	tests := []struct {
		name  string
		tries int
		want  bool
	}{
		{"新账户", 0, false},
		{"阈值以下", MaxInvalidTries - 1, false},
		{"达到阈值", MaxInvalidTries, true},
		{"超过阈值", MaxInvalidTries + 50, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user := &User{InvalidTries: tt.tries}
			assert.Equal(t, tt.want, user.IsLocked())
		})
	}
}

func TestStringListValueScan(t *testing.T) {
	list := StringList{"cream", "lotion"}

	value, err := list.Value()
	require.NoError(t, err)

	var scanned StringList
	require.NoError(t, scanned.Scan(value))
	assert.Equal(t, list, scanned)
}

func TestStringListScanNil(t *testing.T) {
	var list StringList
	require.NoError(t, list.Scan(nil))
	assert.Empty(t, list)
}

func TestStringListScanString(t *testing.T) {
	var list StringList
	require.NoError(t, list.Scan(`["a","b"]`))
	assert.Equal(t, StringList{"a", "b"}, list)
}
