package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassOf(t *testing.T) {
	t.Parallel()

	tests := []struct {
		synthetic string
		want      int
		wantErr   bool
	}{
		{synthetic: "013", want: 0},
		{synthetic: "311", want: 3},
		{synthetic: " 601 ", want: 6},
		{synthetic: "31", wantErr: true},
		{synthetic: "3111", wantErr: true},
		{synthetic: "3a1", wantErr: true},
		{synthetic: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.synthetic, func(t *testing.T) {
			got, err := ClassOf(tt.synthetic)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidAccountCode))
				assert.True(t, errors.Is(err, ErrValidation))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTypeForSynthetic(t *testing.T) {
	t.Parallel()

	tests := []struct {
		synthetic string
		want      AccountType
	}{
		{"013", AccountTypeAsset},
		{"112", AccountTypeAsset},
		{"221", AccountTypeAsset},
		{"311", AccountTypeAsset},
		{"355", AccountTypeAsset},
		{"395", AccountTypeAsset},
		{"321", AccountTypeLiability},
		{"343", AccountTypeLiability},
		{"411", AccountTypeEquity},
		{"428", AccountTypeEquity},
		{"431", AccountTypeEquity},
		{"461", AccountTypeLiability},
		{"501", AccountTypeExpense},
		{"601", AccountTypeRevenue},
		{"701", AccountTypeClosing},
		{"710", AccountTypeClosing},
		{" 311", AccountTypeAsset},
		{" 321 ", AccountTypeLiability},
		{"\t431", AccountTypeEquity},
	}

	for _, tt := range tests {
		t.Run(tt.synthetic, func(t *testing.T) {
			got, err := TypeForSynthetic(tt.synthetic)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("unused classes rejected", func(t *testing.T) {
		for _, code := range []string{"801", "999"} {
			_, err := TypeForSynthetic(code)
			assert.ErrorIs(t, err, ErrInvalidAccountCode, code)
		}
	})
}

func TestAccountCode(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "311", (&Account{SyntheticCode: "311"}).Code())
	assert.Equal(t, "311.100", (&Account{SyntheticCode: "311", AnalyticCode: "100"}).Code())
	assert.Equal(t, 3, (&Account{SyntheticCode: "311"}).Class())
}
