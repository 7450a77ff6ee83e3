package store

import (
	"sort"
	"strconv"

	"p9e.in/asbsurvey/models"
	"p9e.in/asbsurvey/utils"
)

// Image type discriminators stored in the images sheet.
const (
	ImageTypeBuilding = "building"
	ImageTypeSection  = "section"
)

// ImageRoutePrefix is prepended to an uploaded image id to form the
// display URL handed back on the read path.
const ImageRoutePrefix = "/api/v1/image/"

// Header rows written when a sheet is first created. Column order is
// load-bearing: rows are addressed by position, not by header lookup.
var (
	MainHeader = []string{
		"reportId", "client", "projectNo", "address", "dateOfSurvey",
		"reinspectionDate", "numberOfStoreys", "outbuildings",
		"sectionCount", "buildingImageCount", "submittedAt",
	}

	SectionsHeader = []string{
		"sectionId", "reportId", "sectionOrder", "sampleNo", "idSymbol",
		"location", "itemMaterialProduct", "quantityExtent", "asbestosType",
		"notAccessed", "notAccessedReason", "isExternal", "accessibility",
		"condition", "productType", "damageDeteriorationScore",
		"surfaceTreatment", "asbestosTypeScore", "actionLabel",
		"actionMonitorReinspect", "actionEncapsulateEnclose",
		"actionSafeSystemOfWork", "actionRemoveCompetentContractor",
		"actionRemoveLicensedContractor", "actionManageAccess",
		"licensedRemoval", "recommendations", "hasImage",
	}

	ImagesHeader = []string{
		"imageId", "reportId", "sectionId", "imageType", "imageOrder",
		"caption", "uploadedImageId",
	}
)

// MainRow builds the single main-sheet row for a report.
func MainRow(reportID string, r *models.Report, submittedAt string) []interface{} {
	return []interface{}{
		reportID,
		r.Client,
		r.ProjectNo,
		r.Address,
		r.DateOfSurvey,
		r.ReinspectionDate,
		r.NumberOfStoreys,
		r.Outbuildings,
		len(r.Sections),
		len(r.BuildingImages),
		submittedAt,
	}
}

// SectionRows builds one row per section. Section ids are positional,
// assigned from the 1-based index at submit time, and sub-scores are
// clamped into their documented ranges before storage.
func SectionRows(reportID string, sections []models.Section) [][]interface{} {
	rows := make([][]interface{}, 0, len(sections))
	for i, s := range sections {
		rows = append(rows, []interface{}{
			utils.PositionalID(reportID, "SEC", i+1),
			reportID,
			i + 1,
			s.SampleNo,
			s.IDSymbol,
			s.Location,
			s.ItemMaterialProduct,
			s.QuantityExtent,
			s.AsbestosType,
			yesNo(s.NotAccessed),
			s.NotAccessedReason,
			yesNo(s.IsExternal),
			s.Accessibility,
			s.Condition,
			models.SubScore(s.ProductType, 1, 3),
			models.SubScore(s.DamageDeteriorationScore, 0, 3),
			models.SubScore(s.SurfaceTreatment, 0, 3),
			models.SubScore(s.AsbestosTypeScore, 1, 3),
			s.ActionLabel,
			s.ActionMonitorReinspect,
			s.ActionEncapsulateEnclose,
			s.ActionSafeSystemOfWork,
			s.ActionRemoveCompetentContractor,
			s.ActionRemoveLicensedContractor,
			s.ActionManageAccess,
			yesNo(s.LicensedRemoval),
			s.Recommendations,
			yesNo(s.Image != nil),
		})
	}
	return rows
}

// ImageRows builds rows for building-level images followed by section
// images. Section images always carry order 1: a section owns at most
// one photo.
func ImageRows(reportID string, r *models.Report) [][]interface{} {
	var rows [][]interface{}

	for i, img := range r.BuildingImages {
		rows = append(rows, []interface{}{
			utils.PositionalID(reportID, "IMG-BLD", i+1),
			reportID,
			"",
			ImageTypeBuilding,
			i + 1,
			img.Caption,
			img.UploadedImageID,
		})
	}

	for i, s := range r.Sections {
		if s.Image == nil {
			continue
		}
		rows = append(rows, []interface{}{
			utils.PositionalID(reportID, "IMG-SEC", i+1),
			reportID,
			utils.PositionalID(reportID, "SEC", i+1),
			ImageTypeSection,
			1,
			s.Image.Caption,
			s.Image.UploadedImageID,
		})
	}
	return rows
}

// ReportFromRows reconstructs a report from the raw rows of the three
// sheets, filtered by report id. The local file payloads are gone by
// design; attachments come back marked success with a resolved display
// URL. Returns ErrReportNotFound when no main row matches.
func ReportFromRows(reportID string, mainRows, sectionRows, imageRows [][]string) (*models.Report, error) {
	var main []string
	for _, row := range mainRows {
		if cell(row, 0) == reportID {
			main = row
			break
		}
	}
	if main == nil {
		return nil, ErrReportNotFound
	}

	report := &models.Report{
		Client:           cell(main, 1),
		ProjectNo:        cell(main, 2),
		Address:          cell(main, 3),
		DateOfSurvey:     cell(main, 4),
		ReinspectionDate: cell(main, 5),
		NumberOfStoreys:  cell(main, 6),
		Outbuildings:     cell(main, 7),
	}

	// Split image rows into the ordered building list and a per-section
	// lookup keyed by the owning section id.
	type orderedImage struct {
		order int
		img   models.Attachment
	}
	var building []orderedImage
	sectionImages := map[string]models.Attachment{}

	for _, row := range imageRows {
		if cell(row, 1) != reportID {
			continue
		}
		img := attachmentFromRow(row)
		switch cell(row, 3) {
		case ImageTypeBuilding:
			building = append(building, orderedImage{order: atoi(cell(row, 4)), img: img})
		case ImageTypeSection:
			sectionImages[cell(row, 2)] = img
		}
	}
	sort.SliceStable(building, func(i, j int) bool { return building[i].order < building[j].order })
	for _, b := range building {
		report.BuildingImages = append(report.BuildingImages, b.img)
	}

	// Section rows keep their sheet order as section order.
	for _, row := range sectionRows {
		if cell(row, 1) != reportID {
			continue
		}
		sectionID := cell(row, 0)
		section := models.Section{
			ID:                              sectionID,
			SampleNo:                        cell(row, 3),
			IDSymbol:                        cell(row, 4),
			Location:                        cell(row, 5),
			ItemMaterialProduct:             cell(row, 6),
			QuantityExtent:                  cell(row, 7),
			AsbestosType:                    cell(row, 8),
			NotAccessed:                     isYes(cell(row, 9)),
			NotAccessedReason:               cell(row, 10),
			IsExternal:                      isYes(cell(row, 11)),
			Accessibility:                   cell(row, 12),
			Condition:                       cell(row, 13),
			ProductType:                     atoi(cell(row, 14)),
			DamageDeteriorationScore:        atoi(cell(row, 15)),
			SurfaceTreatment:                atoi(cell(row, 16)),
			AsbestosTypeScore:               atoi(cell(row, 17)),
			ActionLabel:                     cell(row, 18),
			ActionMonitorReinspect:          cell(row, 19),
			ActionEncapsulateEnclose:        cell(row, 20),
			ActionSafeSystemOfWork:          cell(row, 21),
			ActionRemoveCompetentContractor: cell(row, 22),
			ActionRemoveLicensedContractor:  cell(row, 23),
			ActionManageAccess:              cell(row, 24),
			LicensedRemoval:                 isYes(cell(row, 25)),
			Recommendations:                 cell(row, 26),
		}
		if img, ok := sectionImages[sectionID]; ok {
			section.Image = &img
		}
		report.Sections = append(report.Sections, section)
	}

	return report, nil
}

func attachmentFromRow(row []string) models.Attachment {
	img := models.Attachment{
		ID:              cell(row, 0),
		Caption:         cell(row, 5),
		UploadedImageID: cell(row, 6),
		Status:          models.UploadSuccess,
	}
	if img.UploadedImageID != "" {
		img.Preview = ImageRoutePrefix + img.UploadedImageID
	}
	return img
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

// isYes is strict: anything other than the literal "Yes" is false.
func isYes(s string) bool { return s == "Yes" }

// atoi parses with a fallback of 0, matching the sheet convention that
// missing or garbled numbers read as zero.
func atoi(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

func cell(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return row[i]
}
