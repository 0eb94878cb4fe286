package service

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/sellermetrics/catalog_api/internal/models"
)

func strPtr(s string) *string     { return &s }
func floatPtr(f float64) *float64 { return &f }
func intPtr(i int) *int           { return &i }

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestMergeProduct(t *testing.T) {
	existing := models.Product{
		ID:            7,
		Name:          "Widget A",
		Category:      "gadgets",
		BaseCost:      decimal.NullDecimal{Decimal: decimal.RequireFromString("4.20"), Valid: true},
		Size:          strPtr("M"),
		Weight:        floatPtr(1.5),
		Source:        "vendor-feed",
		ProductSKU:    "WID-A",
		Parent:        strPtr("WID"),
		CostProfileID: intPtr(3),
	}

	t.Run("empty patch keeps everything", func(t *testing.T) {
		merged := mergeProduct(existing, ProductPatch{})
		assert.Equal(t, existing, merged)
	})

	t.Run("absent fallback fields keep stored values", func(t *testing.T) {
		merged := mergeProduct(existing, ProductPatch{Name: strPtr("Widget A v2")})

		assert.Equal(t, "Widget A v2", merged.Name)
		assert.True(t, merged.BaseCost.Valid)
		assert.Equal(t, "4.20", merged.BaseCost.Decimal.String())
		assert.Equal(t, "M", *merged.Size)
		assert.Equal(t, 1.5, *merged.Weight)
	})

	t.Run("supplied fallback fields overwrite", func(t *testing.T) {
		merged := mergeProduct(existing, ProductPatch{
			BaseCost: decPtr("9.99"),
			Weight:   floatPtr(2.0),
		})

		assert.Equal(t, "9.99", merged.BaseCost.Decimal.String())
		assert.Equal(t, 2.0, *merged.Weight)
		assert.Equal(t, "M", *merged.Size)
	})

	t.Run("authoritative fields take supplied values, empty included", func(t *testing.T) {
		merged := mergeProduct(existing, ProductPatch{
			Category: strPtr(""),
			Source:   strPtr("manual"),
		})

		assert.Equal(t, "", merged.Category)
		assert.Equal(t, "manual", merged.Source)
	})

	t.Run("empty parent clears the stored parent", func(t *testing.T) {
		merged := mergeProduct(existing, ProductPatch{Parent: strPtr("")})
		assert.Nil(t, merged.Parent)
	})

	t.Run("zero cost profile id clears the reference", func(t *testing.T) {
		merged := mergeProduct(existing, ProductPatch{CostProfileID: intPtr(0)})
		assert.Nil(t, merged.CostProfileID)
	})

	t.Run("inputs are not mutated", func(t *testing.T) {
		_ = mergeProduct(existing, ProductPatch{
			Parent:        strPtr(""),
			CostProfileID: intPtr(0),
			Size:          strPtr("XL"),
		})

		assert.Equal(t, "WID", *existing.Parent)
		assert.Equal(t, 3, *existing.CostProfileID)
		assert.Equal(t, "M", *existing.Size)
	})
}
