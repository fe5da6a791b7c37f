package charts

import (
	"bytes"
	"testing"

	"habitbot/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngSignature = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

func TestCategoryPie(t *testing.T) {
	categories := []domain.CategoryTotal{
		{Category: "Food", Total: decimal.RequireFromString("120.5"), Count: 3},
		{Category: "Transport", Total: decimal.RequireFromString("40"), Count: 2},
		{Category: "Other", Total: decimal.Zero, Count: 0},
	}

	png, err := CategoryPie(categories)

	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, pngSignature))
}

func TestCategoryPie_SingleCategory(t *testing.T) {
	png, err := CategoryPie([]domain.CategoryTotal{{Category: "Food", Total: decimal.NewFromInt(10), Count: 1}})

	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, pngSignature))
}

func TestCategoryPie_NoData(t *testing.T) {
	tests := []struct {
		name       string
		categories []domain.CategoryTotal
	}{
		{name: "nil", categories: nil},
		{name: "only zero totals", categories: []domain.CategoryTotal{{Category: "Food", Total: decimal.Zero}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			png, err := CategoryPie(tt.categories)
			assert.ErrorIs(t, err, ErrNoData)
			assert.Nil(t, png)
		})
	}
}
