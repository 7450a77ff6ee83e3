package utils

import "strings"

// DefaultValues maps material -> location -> pre-fillable section field
// defaults. It is rebuilt fresh from the reference sheet on every fetch.
type DefaultValues map[string]map[string]map[string]string

// BuildDefaults folds a flat defaults table into DefaultValues. The
// first row is the header; each following row is keyed by its first two
// columns (material, location) with the remaining columns holding field
// values named by the header.
//
// Later rows with the same (material, location) key overwrite earlier
// ones. Empty cells are omitted rather than stored as empty strings.
// Rows missing either key are skipped. An empty or header-only table
// yields an empty mapping, not an error.
func BuildDefaults(rows [][]string) DefaultValues {
	defaults := DefaultValues{}
	if len(rows) < 2 {
		return defaults
	}

	headers := rows[0]
	for _, row := range rows[1:] {
		material := cellAt(row, 0)
		location := cellAt(row, 1)
		if material == "" || location == "" {
			continue
		}

		fields := map[string]string{}
		for i := 2; i < len(headers); i++ {
			key := strings.TrimSpace(headers[i])
			value := cellAt(row, i)
			if key != "" && value != "" {
				fields[key] = value
			}
		}

		if defaults[material] == nil {
			defaults[material] = map[string]map[string]string{}
		}
		defaults[material][location] = fields
	}
	return defaults
}

func cellAt(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}
