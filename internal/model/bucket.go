package model

import "slices"

// ScanBucket holds the latest results of each scan family for one target.
//
// A nil field means the family has not run for the target. A non-nil empty
// slice means it ran and found nothing. Put operations on the result cache
// merge only non-nil fields.
type ScanBucket struct {
	Accessibility []FileResult  `json:"accessibility,omitempty"`
	Links         []LinkResult  `json:"links,omitempty"`
	Assets        *AssetSummary `json:"assets,omitempty"`
}

// Families returns the names of the families present, in fixed order.
func (b ScanBucket) Families() []string {
	families := make([]string, 0, 3)
	if b.Accessibility != nil {
		families = append(families, "accessibility")
	}
	if b.Links != nil {
		families = append(families, "links")
	}
	if b.Assets != nil {
		families = append(families, "assets")
	}
	return families
}

// IsEmpty reports whether no family is present.
func (b ScanBucket) IsEmpty() bool {
	return b.Accessibility == nil && b.Links == nil && b.Assets == nil
}

// Clone returns a copy that shares no slices with b.
// Issues inside FileResult are immutable and are shared.
func (b ScanBucket) Clone() ScanBucket {
	return ScanBucket{
		Accessibility: slices.Clone(b.Accessibility),
		Links:         slices.Clone(b.Links),
		Assets:        b.Assets.Clone(),
	}
}

// Merge returns b with every non-nil family of update replacing its own.
func (b ScanBucket) Merge(update ScanBucket) ScanBucket {
	merged := b
	if update.Accessibility != nil {
		merged.Accessibility = update.Accessibility
	}
	if update.Links != nil {
		merged.Links = update.Links
	}
	if update.Assets != nil {
		merged.Assets = update.Assets
	}
	return merged
}
