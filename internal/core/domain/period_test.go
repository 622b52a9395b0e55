package domain_test

import (
	"errors"
	"testing"
	"time"

	"github.com/SscSPs/muni_tax_ledger/internal/apperrors"
	"github.com/SscSPs/muni_tax_ledger/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolvePeriodEnd(t *testing.T) {
	tests := []struct {
		label string
		want  string
	}{
		{"Q1", "2024-03-31"},
		{"Q2", "2024-06-30"},
		{"Q3", "2024-09-30"},
		{"Q4", "2024-12-31"},
		{"M01", "2024-01-31"},
		{"M02", "2024-02-29"},
		{"M11", "2024-11-30"},
		{"M12", "2024-12-31"},
		{"YEAR", "2024-12-31"},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			got, err := domain.ResolvePeriodEnd(2024, tt.label)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Format(domain.DateLayout))
			assert.Equal(t, time.UTC, got.Location())
		})
	}
}

func TestResolvePeriodEnd_Invalid(t *testing.T) {
	for _, label := range []string{"INVALID", "Q0", "Q5", "M00", "M13", "M1", "M+1", "M+9", "M-1", "Q+1", "q1", "year", ""} {
		_, err := domain.ResolvePeriodEnd(2024, label)

		var periodErr *apperrors.InvalidPeriodError
		require.True(t, errors.As(err, &periodErr), "label %q", label)
		assert.Equal(t, label, periodErr.Label)
		assert.ErrorIs(t, err, apperrors.ErrValidation)
	}
}
