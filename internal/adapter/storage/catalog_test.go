package storage

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanProduct(t *testing.T) {

	t.Run("AwkwardCategoryLabels", func(t *testing.T) {
		scan := func(dest ...any) error {
			*(dest[0].(*string)) = "p-1"
			*(dest[1].(*string)) = "Garden hose"
			*(dest[2].(*string)) = "50ft expandable"
			*(dest[3].(*string)) = `["Home, Garden","Say \"hi\""]`
			*(dest[4].(*decimal.Decimal)) = decimal.RequireFromString("19.99")
			*(dest[5].(*int)) = 3
			*(dest[6].(*string)) = `{"color":"green"}`
			*(dest[7].(*string)) = `[{"URL":"http://img","Alt":"hose"}]`
			return nil
		}

		p, err := scanProduct(scan)
		require.NoError(t, err)

		assert.Equal(t, "p-1", p.ProductID)
		assert.Equal(t, []string{"Home, Garden", `Say "hi"`}, p.Categories)
		assert.Equal(t, map[string]string{"color": "green"}, p.Attributes)
		require.Len(t, p.Images, 1)
		assert.Equal(t, "http://img", p.Images[0].URL)
		assert.True(t, p.Price.Equal(decimal.RequireFromString("19.99")))
		assert.Equal(t, 3, p.Stock)
	})

	t.Run("EmptyCategories", func(t *testing.T) {
		scan := func(dest ...any) error {
			*(dest[0].(*string)) = "p-2"
			*(dest[1].(*string)) = "Bare"
			*(dest[2].(*string)) = ""
			*(dest[3].(*string)) = `[]`
			*(dest[4].(*decimal.Decimal)) = decimal.RequireFromString("1.00")
			*(dest[5].(*int)) = 0
			*(dest[6].(*string)) = `{}`
			*(dest[7].(*string)) = `[]`
			return nil
		}

		p, err := scanProduct(scan)
		require.NoError(t, err)
		assert.Empty(t, p.Categories)
		assert.Empty(t, p.CategorySet())
	})
}
