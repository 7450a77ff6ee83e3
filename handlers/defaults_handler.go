package handlers

import (
	"net/http"

	"p9e.in/asbsurvey/utils"
)

// GetDefaults returns the material -> location -> field-default mapping
// used to pre-fill a section. Rebuilt from the reference sheet on every
// call; never cached.
// GET /api/v1/defaults
func (a *API) GetDefaults(w http.ResponseWriter, r *http.Request) {
	rows, err := a.Defaults.GetRows(r.Context(), a.DefaultsSheet)
	if err != nil {
		writeErrorDetails(w, http.StatusInternalServerError, "Failed to fetch default values", err)
		return
	}

	// The reference sheet keeps a title row and a spare first column;
	// the table proper starts at B2 with its own header row.
	trimmed := make([][]string, 0, len(rows))
	for i, row := range rows {
		if i == 0 {
			continue
		}
		if len(row) > 0 {
			row = row[1:]
		}
		trimmed = append(trimmed, row)
	}

	writeJSON(w, http.StatusOK, utils.BuildDefaults(trimmed))
}
