package chart

import (
	"bytes"
	"testing"

	"pokerlog/internal/stats"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngSignature = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

func TestBankSharesRendersPNG(t *testing.T) {
	r := &PieRenderer{Width: 300, Height: 300}
	img, err := r.BankShares([]stats.BankShare{
		{Name: "A", Total: decimal.NewFromInt(600)},
		{Name: "B", Total: decimal.RequireFromString("150.50")},
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(img, pngSignature))
}

func TestBankSharesWithoutPositiveTotals(t *testing.T) {
	r := NewPieRenderer()

	_, err := r.BankShares(nil)
	assert.ErrorIs(t, err, ErrNoData)

	_, err = r.BankShares([]stats.BankShare{{Name: "A", Total: decimal.Zero}})
	assert.ErrorIs(t, err, ErrNoData)
}
