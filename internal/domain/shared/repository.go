package shared

// SortField is one entry of a sort specification
type SortField struct {
	Field string
	Desc  bool
}

// Filter represents common list query options
type Filter struct {
	Search string
	Sort   []SortField
}

// DefaultSort orders newest first
func DefaultSort() []SortField {
	return []SortField{{Field: "createdAt", Desc: true}}
}
