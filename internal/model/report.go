package model

import "time"

// Report represents the complete dndscore decomposition and selection report
type Report struct {
	Subject    string     `json:"subject"`              // subject of the report (e.g., page title, "inline text")
	Source     string     `json:"source"`               // URL, file path, or "stdin"
	AnalyzedAt time.Time  `json:"analyzed_at"`          // when the analysis occurred
	FetchMeta  *FetchMeta `json:"fetch_meta,omitempty"` // HTTP metadata when the source was a URL

	Sentences []string `json:"sentences"` // coreference-resolved sentences, in order
	Claims    []Claim  `json:"claims"`    // atomic claims with weights, in extraction order
	Selected  []int    `json:"selected"`  // indices into Claims, in acceptance order

	Stats Stats `json:"stats"` // transparent counts and ratios
}

// FetchMeta contains HTTP metadata from fetching the source
type FetchMeta struct {
	StatusCode   int    `json:"status_code"`
	ContentType  string `json:"content_type,omitempty"`
	LastModified string `json:"last_modified,omitempty"`
	ETag         string `json:"etag,omitempty"`
}

// Stats is the transparent breakdown of the run
type Stats struct {
	Sentences    int     `json:"sentences"`     // sentences analyzed
	SkippedSents int     `json:"skipped"`       // sentences with no finite-verb clause
	RawFacts     int     `json:"raw_facts"`     // facts before atomicity splitting
	AtomicClaims int     `json:"atomic_claims"` // claims after splitting and the gate
	SelectedN    int     `json:"selected"`      // claims retained by the selector
	Retention    float64 `json:"retention"`     // selected / atomic_claims (0 when no claims)
	Tau          float64 `json:"tau"`           // redundancy threshold used
}

// SelectedClaims returns the retained claims in acceptance order.
func (r *Report) SelectedClaims() []Claim {
	out := make([]Claim, 0, len(r.Selected))
	for _, idx := range r.Selected {
		if idx >= 0 && idx < len(r.Claims) {
			out = append(out, r.Claims[idx])
		}
	}
	return out
}
