package service

import (
	"github.com/shopspring/decimal"

	"github.com/sellermetrics/catalog_api/internal/models"
)

// fieldClass decides how an incoming value merges with the stored one.
type fieldClass int

const (
	// fieldFallback: a non-null incoming value overwrites; a null incoming
	// value keeps the stored one.
	fieldFallback fieldClass = iota
	// fieldAuthoritative: an explicitly supplied incoming value always
	// overwrites, empty values included.
	fieldAuthoritative
)

// productFieldClass is the merge policy for product fields. The bulk upsert
// in ProductRepository.UpsertBatch mirrors the fallback entries with COALESCE
// on the corresponding columns; keep the two in agreement.
var productFieldClass = map[string]fieldClass{
	"name":            fieldAuthoritative,
	"category":        fieldAuthoritative,
	"source":          fieldAuthoritative,
	"product_sku":     fieldAuthoritative,
	"parent":          fieldAuthoritative,
	"base_cost":       fieldFallback,
	"size":            fieldFallback,
	"weight":          fieldFallback,
	"width":           fieldFallback,
	"height":          fieldFallback,
	"length":          fieldFallback,
	"cost_profile_id": fieldFallback,
}

// ProductPatch is a partial product update. A nil pointer means the field was
// not supplied and the stored value is kept. For the authoritative parent
// field an explicit empty string clears the stored value; cost_profile_id is
// cleared with 0.
type ProductPatch struct {
	Name          *string          `json:"name"`
	Category      *string          `json:"category"`
	BaseCost      *decimal.Decimal `json:"baseCost"`
	Size          *string          `json:"size"`
	Weight        *float64         `json:"weight"`
	Width         *float64         `json:"width"`
	Height        *float64         `json:"height"`
	Length        *float64         `json:"length"`
	Source        *string          `json:"source"`
	ProductSKU    *string          `json:"productSku"`
	Parent        *string          `json:"parent"`
	CostProfileID *int             `json:"costProfileId"`
}

// mergeProduct resolves a patch against the stored product field by field,
// per productFieldClass, and returns the merged record. Pure: neither input
// is mutated and no storage is touched.
func mergeProduct(existing models.Product, patch ProductPatch) models.Product {
	merged := existing

	if patch.Name != nil {
		merged.Name = *patch.Name
	}
	if patch.Category != nil {
		merged.Category = *patch.Category
	}
	if patch.Source != nil {
		merged.Source = *patch.Source
	}
	if patch.ProductSKU != nil {
		merged.ProductSKU = *patch.ProductSKU
	}
	if patch.Parent != nil {
		if *patch.Parent == "" {
			merged.Parent = nil
		} else {
			parent := *patch.Parent
			merged.Parent = &parent
		}
	}

	if patch.BaseCost != nil {
		merged.BaseCost = decimal.NullDecimal{Decimal: *patch.BaseCost, Valid: true}
	}
	if patch.Size != nil {
		size := *patch.Size
		merged.Size = &size
	}
	if patch.Weight != nil {
		w := *patch.Weight
		merged.Weight = &w
	}
	if patch.Width != nil {
		w := *patch.Width
		merged.Width = &w
	}
	if patch.Height != nil {
		h := *patch.Height
		merged.Height = &h
	}
	if patch.Length != nil {
		l := *patch.Length
		merged.Length = &l
	}
	if patch.CostProfileID != nil {
		if *patch.CostProfileID == 0 {
			merged.CostProfileID = nil
		} else {
			id := *patch.CostProfileID
			merged.CostProfileID = &id
		}
	}

	return merged
}
