package model

// LinkStatus is the outcome of checking a hyperlink target.
type LinkStatus string

const (
	// LinkOK means the target exists inside the allowed roots,
	// or the link is an in-page fragment.
	LinkOK LinkStatus = "ok"

	// LinkMissing means the target does not exist or lies outside
	// the allowed roots.
	LinkMissing LinkStatus = "missing"

	// LinkSkipped means the target was not checked: external URLs,
	// non-file schemes, or extensions excluded by the caller.
	LinkSkipped LinkStatus = "skipped"
)

// LinkResult is the check result of one link found in one document.
type LinkResult struct {
	// File is the resolved path of the document containing the link.
	File string `json:"file"`

	// Link is the raw attribute value as written in the document.
	Link string `json:"link"`

	// Line is the 1-based source line, if known.
	Line int `json:"line,omitempty"`

	// OK is true only when Status is LinkOK.
	OK bool `json:"ok"`

	// External is set for links that point off-site.
	External bool `json:"external,omitempty"`

	// Status is the check outcome.
	Status LinkStatus `json:"status"`
}

// CountMissing returns the number of results with status missing.
func CountMissing(results []LinkResult) int {
	n := 0
	for _, r := range results {
		if r.Status == LinkMissing {
			n++
		}
	}
	return n
}
