package model

import "slices"

// AssetSize is the size of one asset file in kilobytes.
type AssetSize struct {
	File   string  `json:"file"`
	SizeKB float64 `json:"sizeKB"`
}

// OverBudgetAsset is an asset whose size exceeds the configured budget.
type OverBudgetAsset struct {
	File     string  `json:"file"`
	SizeKB   float64 `json:"sizeKB"`
	BudgetKB float64 `json:"budgetKB"`
}

// MetadataAsset is an image that embeds EXIF metadata.
// Stripping the block reduces transfer size without visual change.
type MetadataAsset struct {
	File   string  `json:"file"`
	Tags   int     `json:"tags"`
	ExifKB float64 `json:"exifKB"`

	// Sensitive names the privacy-relevant tag groups present, such as
	// "gps" or "serial".
	Sensitive []string `json:"sensitive,omitempty"`
}

// AssetTotals aggregates sizes across all assets.
type AssetTotals struct {
	// TotalKB is the sum of all asset sizes.
	TotalKB float64 `json:"totalKB"`

	// ByType maps a lower-case extension (".css") or "misc" to its total.
	ByType map[string]float64 `json:"byType"`
}

// AssetSummary is the result of an asset budget run.
type AssetSummary struct {
	Summary AssetTotals `json:"summary"`

	// TopHeavy lists the heaviest assets, largest first, at most MaxTopHeavy.
	TopHeavy []AssetSize `json:"topHeavy"`

	// OverBudget lists every asset strictly above the budget, largest first.
	OverBudget []OverBudgetAsset `json:"overBudget"`

	// WithMetadata lists images carrying EXIF blocks.
	WithMetadata []MetadataAsset `json:"withMetadata"`
}

// MaxTopHeavy bounds AssetSummary.TopHeavy.
const MaxTopHeavy = 20

// Clone returns a deep copy of the summary.
func (a *AssetSummary) Clone() *AssetSummary {
	if a == nil {
		return nil
	}
	byType := make(map[string]float64, len(a.Summary.ByType))
	for k, v := range a.Summary.ByType {
		byType[k] = v
	}
	return &AssetSummary{
		Summary:      AssetTotals{TotalKB: a.Summary.TotalKB, ByType: byType},
		TopHeavy:     slices.Clone(a.TopHeavy),
		OverBudget:   slices.Clone(a.OverBudget),
		WithMetadata: slices.Clone(a.WithMetadata),
	}
}
