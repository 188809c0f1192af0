package catalog

import (
	"strings"

	"github.com/menuhub/backend/internal/domain/shared"
)

// ParseProductSort parses a comma separated sort spec such as "-price,name".
// A leading '-' sorts descending. Unknown fields are rejected.
func ParseProductSort(spec string) ([]shared.SortField, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return shared.DefaultSort(), nil
	}

	var fields []shared.SortField
	for _, part := range strings.Split(spec, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		desc := strings.HasPrefix(part, "-")
		key := strings.TrimPrefix(part, "-")
		field, ok := ProductSortFields[key]
		if !ok {
			return nil, shared.NewValidationError("cannot sort products by %q", key)
		}
		fields = append(fields, shared.SortField{Field: field, Desc: desc})
	}
	if len(fields) == 0 {
		return shared.DefaultSort(), nil
	}
	return fields, nil
}
