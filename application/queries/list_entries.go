package queries

// ListEntriesQuery lists stored entries, newest first. Undated entries come
// last.
type ListEntriesQuery struct {
	IncludeArchived bool `json:"includeArchived"`
	Limit           int  `json:"limit"`
}

// Validate validates the query
func (q ListEntriesQuery) Validate() error {
	return nil
}

// EntryView is the read model for one entry
type EntryView struct {
	ID       string   `json:"id"`
	Text     string   `json:"text"`
	Tags     []string `json:"tags"`
	Date     string   `json:"date,omitempty"`
	Archived bool     `json:"archived"`
}

// ListEntriesResult wraps the listed entries
type ListEntriesResult struct {
	Entries []EntryView `json:"entries"`
	Total   int         `json:"total"`
}
