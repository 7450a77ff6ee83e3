package models

// Section represents one inspected building element/material entry
// within a survey report.
type Section struct {
	ID                  string      `json:"id"`
	SampleNo            string      `json:"sampleNo"`
	IDSymbol            string      `json:"idSymbol"`
	Location            string      `json:"location"`
	ItemMaterialProduct string      `json:"itemMaterialProduct"`
	QuantityExtent      string      `json:"quantityExtent"`
	AsbestosType        string      `json:"asbestosType"`
	NotAccessed         bool        `json:"notAccessed"`
	NotAccessedReason   string      `json:"notAccessedReason"`
	IsExternal          bool        `json:"isExternal"`
	Accessibility       string      `json:"accessibility"`
	Condition           string      `json:"condition"`
	Image               *Attachment `json:"image"`

	// Material assessment worksheet scores.
	ProductType              int `json:"productType"`              // 1-3
	DamageDeteriorationScore int `json:"damageDeteriorationScore"` // 0-3
	SurfaceTreatment         int `json:"surfaceTreatment"`         // 0-3
	AsbestosTypeScore        int `json:"asbestosTypeScore"`        // 1-3

	// Management and control actions (text inputs for timescales).
	ActionLabel                     string `json:"actionLabel"`
	ActionMonitorReinspect          string `json:"actionMonitorReinspect"`
	ActionEncapsulateEnclose        string `json:"actionEncapsulateEnclose"`
	ActionSafeSystemOfWork          string `json:"actionSafeSystemOfWork"`
	ActionRemoveCompetentContractor string `json:"actionRemoveCompetentContractor"`
	ActionRemoveLicensedContractor  string `json:"actionRemoveLicensedContractor"`
	ActionManageAccess              string `json:"actionManageAccess"`

	LicensedRemoval bool   `json:"licensedRemoval"`
	Recommendations string `json:"recommendations"`
}

// SubScore clamps a material-assessment sub-score into [lo, hi].
// A zero or negative value means the worksheet entry was absent or
// unparsable and contributes nothing to the total.
func SubScore(v, lo, hi int) int {
	if v <= 0 {
		return 0
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// MaterialAssessmentTotal is the sum of the four bounded sub-scores.
// It is recomputed on every read and never stored.
func (s *Section) MaterialAssessmentTotal() int {
	return SubScore(s.ProductType, 1, 3) +
		SubScore(s.DamageDeteriorationScore, 0, 3) +
		SubScore(s.SurfaceTreatment, 0, 3) +
		SubScore(s.AsbestosTypeScore, 1, 3)
}

// TotalScore is defined identically to MaterialAssessmentTotal; no
// independent weighting exists for the overall section score.
func (s *Section) TotalScore() int {
	return s.MaterialAssessmentTotal()
}
