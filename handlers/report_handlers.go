package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"p9e.in/asbsurvey/models"
	"p9e.in/asbsurvey/store"
	"p9e.in/asbsurvey/utils"
)

// SubmitReport validates a report and appends it to the three sheets.
// POST /api/v1/submit-report
func (a *API) SubmitReport(w http.ResponseWriter, r *http.Request) {
	var report models.Report
	if err := json.NewDecoder(r.Body).Decode(&report); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	if msg := validateReport(&report); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	// The reinspection date is derived, never trusted from the form.
	if d := models.ReinspectionDateFor(report.DateOfSurvey); d != "" {
		report.ReinspectionDate = d
	}

	now := a.now()
	reportID := utils.ReportID(report.ProjectNo, now.UnixMilli())
	submittedAt := now.UTC().Format(time.RFC3339)

	// Appends run in order with no cross-sheet rollback: a failure after
	// the main row leaves a report with an incomplete tail.
	appends := []struct {
		sheet string
		rows  [][]interface{}
	}{
		{store.MainSheet, [][]interface{}{store.MainRow(reportID, &report, submittedAt)}},
		{store.SectionsSheet, store.SectionRows(reportID, report.Sections)},
		{store.ImagesSheet, store.ImageRows(reportID, &report)},
	}
	for _, ap := range appends {
		if err := a.Reports.AppendRows(r.Context(), ap.sheet, ap.rows); err != nil {
			log.Printf("Error writing report %s to sheet %s: %v", reportID, ap.sheet, err)
			writeErrorDetails(w, http.StatusInternalServerError, "Failed to submit report", err)
			return
		}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"reportId": reportID,
		"message":  "Report submitted successfully",
	})
}

// GetReport loads a previously submitted report by id.
// GET /api/v1/report/{reportId}
func (a *API) GetReport(w http.ResponseWriter, r *http.Request) {
	reportID := mux.Vars(r)["reportId"]
	if reportID == "" {
		writeError(w, http.StatusBadRequest, "Report ID is required")
		return
	}

	mainRows, err := a.Reports.GetRows(r.Context(), store.MainSheet)
	if err != nil {
		writeErrorDetails(w, http.StatusInternalServerError, "Failed to fetch report", err)
		return
	}
	sectionRows, err := a.Reports.GetRows(r.Context(), store.SectionsSheet)
	if err != nil {
		writeErrorDetails(w, http.StatusInternalServerError, "Failed to fetch report", err)
		return
	}
	imageRows, err := a.Reports.GetRows(r.Context(), store.ImagesSheet)
	if err != nil {
		writeErrorDetails(w, http.StatusInternalServerError, "Failed to fetch report", err)
		return
	}

	report, err := store.ReportFromRows(reportID, mainRows, sectionRows, imageRows)
	if err != nil {
		if errors.Is(err, store.ErrReportNotFound) {
			writeError(w, http.StatusNotFound, "Report not found")
			return
		}
		writeErrorDetails(w, http.StatusInternalServerError, "Failed to fetch report", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"reportId": reportID,
		"data":     report,
	})
}

func validateReport(r *models.Report) string {
	if strings.TrimSpace(r.Client) == "" {
		return "Client name is required"
	}
	if strings.TrimSpace(r.ProjectNo) == "" {
		return "Project number is required"
	}
	if strings.TrimSpace(r.Address) == "" {
		return "Address is required"
	}
	if strings.TrimSpace(r.DateOfSurvey) == "" {
		return "Date of survey is required"
	}
	if len(r.BuildingImages) > models.MaxBuildingImages {
		return fmt.Sprintf("At most %d building images are allowed", models.MaxBuildingImages)
	}
	return ""
}
