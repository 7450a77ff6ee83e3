package models

import "time"

// Report is one full asbestos survey submission.
//
// Dates travel as "2006-01-02" strings, matching the form inputs and the
// spreadsheet cells. ReinspectionDate is derived from DateOfSurvey and
// recomputed server-side on submit.
type Report struct {
	Client           string       `json:"client"`
	ProjectNo        string       `json:"projectNo"`
	Address          string       `json:"address"`
	DateOfSurvey     string       `json:"dateOfSurvey"`
	ReinspectionDate string       `json:"reinspectionDate"`
	NumberOfStoreys  string       `json:"numberOfStoreys"`
	Outbuildings     string       `json:"outbuildings"`
	BuildingImages   []Attachment `json:"buildingImages"`
	Sections         []Section    `json:"sections"`
}

const dateLayout = "2006-01-02"

// ReinspectionDateFor returns the reinspection date for a survey date:
// exactly one year later, same month and day. An unparsable survey date
// yields an empty string so the caller keeps whatever was submitted.
func ReinspectionDateFor(surveyDate string) string {
	t, err := time.Parse(dateLayout, surveyDate)
	if err != nil {
		return ""
	}
	return t.AddDate(1, 0, 0).Format(dateLayout)
}
