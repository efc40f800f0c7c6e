package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "ngx/pkg/domain-errors"
)

func TestNewPhoneNumber_Normalization(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"plain digits", "41555212671", "41555212671"},
		{"international", "+1 415 555 2671", "+14155552671"},
		{"dashes and parens", "(415) 555-2671", "4155552671"},
		{"dots", "415.555.2671", "4155552671"},
		{"leading whitespace", "  +34 612 345 678 ", "+34612345678"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewPhoneNumber(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, p.String())
		})
	}
}

func TestNewPhoneNumber_Rejections(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"empty", ""},
		{"whitespace only", "   "},
		{"letters", "call-me-maybe"},
		{"too short", "+1234567"},
		{"too long", "+12345678901234567"},
		{"plus in the middle", "415+5552671"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewPhoneNumber(tt.raw)
			require.Error(t, err)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
		})
	}
}

func TestPhoneNumber_Formatted(t *testing.T) {
	t.Run("NANP ten digits", func(t *testing.T) {
		p, err := NewPhoneNumber("4155552671")
		require.NoError(t, err)
		assert.Equal(t, "(415) 555-2671", p.Formatted())
	})

	t.Run("NANP with country code", func(t *testing.T) {
		p, err := NewPhoneNumber("+14155552671")
		require.NoError(t, err)
		assert.Equal(t, "+1 (415) 555-2671", p.Formatted())
	})

	t.Run("non-NANP grouped", func(t *testing.T) {
		p, err := NewPhoneNumber("+34612345678")
		require.NoError(t, err)
		assert.Equal(t, "+346 123 456 78", p.Formatted())
	})
}

func TestPhoneNumber_EqualityByNormalizedValue(t *testing.T) {
	a, err := NewPhoneNumber("(415) 555-2671")
	require.NoError(t, err)
	b, err := NewPhoneNumber("415.555.2671")
	require.NoError(t, err)
	assert.Equal(t, a, b)
}
