package handlers

import (
	"log"
	"net/http"

	"p9e.in/asbsurvey/store"
	"p9e.in/asbsurvey/utils"
)

// NextProjectNumber suggests the project number following the most
// recently submitted report. The read-then-increment sequence is not
// transactional: two concurrent callers can be handed the same
// suggestion. A store failure falls back to the default seed instead of
// erroring, which can likewise re-issue a number already in use, so both
// paths log a warning.
// GET /api/v1/next-project-number
func (a *API) NextProjectNumber(w http.ResponseWriter, r *http.Request) {
	last := ""
	rows, err := a.Reports.GetRows(r.Context(), store.MainSheet)
	if err != nil {
		log.Printf("Warning: falling back to default project number, main sheet unreadable: %v", err)
	} else if len(rows) > 1 {
		lastRow := rows[len(rows)-1]
		if len(lastRow) > 2 {
			last = lastRow[2] // projectNo column
		}
	}

	next, fallback := utils.NextProjectNumber(last)
	if fallback && len(rows) > 1 {
		log.Printf("Warning: last project number %q was unparsable, suggesting default %s", last, next)
	}

	writeJSON(w, http.StatusOK, map[string]string{"projectNo": next})
}
