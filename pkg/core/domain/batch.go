package domain

// RefreshOutcome is the result of refreshing one publication in a batch
type RefreshOutcome struct {
	Publication Publication `json:"publication"` // Refreshed, or unchanged on failure
	Error       string      `json:"error,omitempty"`
}

// OK reports whether the refresh succeeded
func (o RefreshOutcome) OK() bool { return o.Error == "" }

// BatchResult reports a batch refresh, items in input order
type BatchResult struct {
	Total     int              `json:"total"`
	Succeeded int              `json:"succeeded"`
	Failed    int              `json:"failed"`
	Items     []RefreshOutcome `json:"items"`
}

// Publications returns the publications of the batch in input order
func (r *BatchResult) Publications() []Publication {
	out := make([]Publication, len(r.Items))
	for i, item := range r.Items {
		out[i] = item.Publication
	}
	return out
}

// ImportRow is one candidate URL read from a bulk import file
type ImportRow struct {
	Line int    `json:"line"`
	URL  string `json:"url"`
}

// RowError reports a rejected or partially processed import row
type RowError struct {
	Line    int    `json:"line"`
	URL     string `json:"url"`
	Message string `json:"message"`
}

// ImportResult reports a bulk import
type ImportResult struct {
	Created      []Publication `json:"created"`
	Rejected     []RowError    `json:"rejected"`
	FetchFailed  []RowError    `json:"fetchFailed,omitempty"`
	MetricsFetch bool          `json:"metricsFetched"`
}
