package handlers_test

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"p9e.in/asbsurvey/handlers"
	"p9e.in/asbsurvey/models"
	"p9e.in/asbsurvey/routes"
	"p9e.in/asbsurvey/store"
)

const defaultsSheet = "defaults"

func newReportsStore() *store.MemoryRowStore {
	return store.NewMemoryRowStore(map[string][]string{
		store.MainSheet:     store.MainHeader,
		store.SectionsSheet: store.SectionsHeader,
		store.ImagesSheet:   store.ImagesHeader,
	})
}

func newServerFor(t *testing.T, api *handlers.API) *httptest.Server {
	t.Helper()
	if api.Now == nil {
		api.Now = func() time.Time { return time.UnixMilli(1700000000000).UTC() }
	}
	srv := httptest.NewServer(routes.RegisterRoutes(api))
	t.Cleanup(srv.Close)
	return srv
}

func newTestServer(t *testing.T) (*httptest.Server, *store.MemoryRowStore, *store.MemoryRowStore, *store.MemoryImageStore) {
	t.Helper()

	reports := newReportsStore()
	defaults := store.NewMemoryRowStore(map[string][]string{defaultsSheet: nil})
	images := store.NewMemoryImageStore()

	srv := newServerFor(t, &handlers.API{
		Reports:       reports,
		Defaults:      defaults,
		DefaultsSheet: defaultsSheet,
		Images:        images,
	})
	return srv, reports, defaults, images
}

// failingRowStore delegates to an inner RowStore but refuses appends to
// one sheet, standing in for a spreadsheet backend failing mid-submit.
type failingRowStore struct {
	store.RowStore
	failSheet string
}

func (s *failingRowStore) AppendRows(ctx context.Context, sheet string, rows [][]interface{}) error {
	if sheet == s.failSheet {
		return errors.New("spreadsheet quota exceeded")
	}
	return s.RowStore.AppendRows(ctx, sheet, rows)
}

// failingImageStore is an image backend whose calls always fail.
type failingImageStore struct{}

func (failingImageStore) Upload(ctx context.Context, data []byte, filename, contentType string) (string, error) {
	return "", errors.New("drive unavailable")
}

func (failingImageStore) Fetch(ctx context.Context, id string) ([]byte, string, error) {
	return nil, "", errors.New("drive unavailable")
}

func postJSON(t *testing.T, url string, body interface{}) *http.Response {
	t.Helper()
	b, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(b))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func validReport() *models.Report {
	return &models.Report{
		Client:       "Acme Housing",
		ProjectNo:    "GHM1042-AS",
		Address:      "12 Example Street",
		DateOfSurvey: "2024-03-15",
		Sections: []models.Section{
			{
				SampleNo:          "S1",
				Location:          "Garage roof",
				ProductType:       2,
				AsbestosTypeScore: 1,
			},
		},
	}
}

func TestSubmitReportValidation(t *testing.T) {
	srv, _, _, _ := newTestServer(t)

	tests := []struct {
		name    string
		mutate  func(*models.Report)
		wantMsg string
	}{
		{"missing client", func(r *models.Report) { r.Client = " " }, "Client name is required"},
		{"missing project number", func(r *models.Report) { r.ProjectNo = "" }, "Project number is required"},
		{"missing address", func(r *models.Report) { r.Address = "" }, "Address is required"},
		{"missing survey date", func(r *models.Report) { r.DateOfSurvey = "" }, "Date of survey is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := validReport()
			tt.mutate(report)

			resp := postJSON(t, srv.URL+"/api/v1/submit-report", report)
			if resp.StatusCode != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", resp.StatusCode)
			}
			var body map[string]string
			decodeBody(t, resp, &body)
			if body["error"] != tt.wantMsg {
				t.Errorf("error = %q, want %q", body["error"], tt.wantMsg)
			}
		})
	}
}

func TestSubmitReportRejectsTooManyBuildingImages(t *testing.T) {
	srv, reports, _, _ := newTestServer(t)

	report := validReport()
	for i := 0; i < models.MaxBuildingImages+1; i++ {
		report.BuildingImages = append(report.BuildingImages, models.Attachment{
			ID: fmt.Sprintf("img-%d", i),
		})
	}

	resp := postJSON(t, srv.URL+"/api/v1/submit-report", report)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
	resp.Body.Close()

	rows, _ := reports.GetRows(t.Context(), store.MainSheet)
	if len(rows) != 1 {
		t.Errorf("validation failure must not persist anything, main sheet has %d rows", len(rows))
	}
}

func TestSubmitAndGetReport(t *testing.T) {
	srv, _, _, _ := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/v1/submit-report", validReport())
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("submit status = %d, want 200", resp.StatusCode)
	}
	var submit struct {
		Success  bool   `json:"success"`
		ReportID string `json:"reportId"`
		Message  string `json:"message"`
	}
	decodeBody(t, resp, &submit)

	if !submit.Success {
		t.Error("submit success = false")
	}
	if submit.ReportID != "RPT-GHM1042AS-1700000000000" {
		t.Errorf("reportId = %q, want fixed-clock id", submit.ReportID)
	}

	resp, err := http.Get(srv.URL + "/api/v1/report/" + submit.ReportID)
	if err != nil {
		t.Fatalf("GET report: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get status = %d, want 200", resp.StatusCode)
	}
	var got struct {
		Success  bool          `json:"success"`
		ReportID string        `json:"reportId"`
		Data     models.Report `json:"data"`
	}
	decodeBody(t, resp, &got)

	if !got.Success || got.ReportID != submit.ReportID {
		t.Errorf("unexpected envelope: %+v", got)
	}
	if got.Data.Client != "Acme Housing" || got.Data.ProjectNo != "GHM1042-AS" {
		t.Errorf("report fields differ: %+v", got.Data)
	}
	if got.Data.ReinspectionDate != "2025-03-15" {
		t.Errorf("reinspection date = %q, want survey date plus one year", got.Data.ReinspectionDate)
	}
	if len(got.Data.Sections) != 1 {
		t.Fatalf("expected 1 section, got %d", len(got.Data.Sections))
	}
	if got.Data.Sections[0].ID != submit.ReportID+"-SEC-001" {
		t.Errorf("section id = %q, want positional id", got.Data.Sections[0].ID)
	}
}

func TestSubmitReportOverridesClientReinspectionDate(t *testing.T) {
	srv, _, _, _ := newTestServer(t)

	report := validReport()
	report.ReinspectionDate = "2030-01-01"

	resp := postJSON(t, srv.URL+"/api/v1/submit-report", report)
	var submit struct {
		ReportID string `json:"reportId"`
	}
	decodeBody(t, resp, &submit)

	resp, err := http.Get(srv.URL + "/api/v1/report/" + submit.ReportID)
	if err != nil {
		t.Fatalf("GET report: %v", err)
	}
	var got struct {
		Data models.Report `json:"data"`
	}
	decodeBody(t, resp, &got)

	if got.Data.ReinspectionDate != "2025-03-15" {
		t.Errorf("reinspection date = %q, the derived value must win", got.Data.ReinspectionDate)
	}
}

func TestGetReportNotFound(t *testing.T) {
	srv, _, _, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/v1/report/RPT-NOPE-1")
	if err != nil {
		t.Fatalf("GET report: %v", err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}
	var body map[string]string
	decodeBody(t, resp, &body)
	if body["error"] != "Report not found" {
		t.Errorf("error = %q", body["error"])
	}
}

func TestNextProjectNumber(t *testing.T) {
	srv, _, _, _ := newTestServer(t)

	// Empty history suggests the default seed.
	resp, err := http.Get(srv.URL + "/api/v1/next-project-number")
	if err != nil {
		t.Fatalf("GET next-project-number: %v", err)
	}
	var body map[string]string
	decodeBody(t, resp, &body)
	if body["projectNo"] != "GHM1000-AS" {
		t.Errorf("projectNo = %q, want default seed", body["projectNo"])
	}

	// After a submission the suggestion follows the last project number.
	postJSON(t, srv.URL+"/api/v1/submit-report", validReport()).Body.Close()

	resp, err = http.Get(srv.URL + "/api/v1/next-project-number")
	if err != nil {
		t.Fatalf("GET next-project-number: %v", err)
	}
	decodeBody(t, resp, &body)
	if body["projectNo"] != "GHM1043-AS" {
		t.Errorf("projectNo = %q, want GHM1043-AS", body["projectNo"])
	}
}

func TestDefaultsEndpoint(t *testing.T) {
	srv, _, defaults, _ := newTestServer(t)

	// Sheet layout mirrors the reference workbook: a title row and a
	// spare first column ahead of the table proper.
	seed := [][]interface{}{
		{"", "Defaults", "", "", ""},
		{"", "itemMaterialProduct", "location", "idSymbol", "condition"},
		{"", "Cement board", "Garage roof", "AC", "Good"},
		{"", "Cement board", "Garage roof", "AC2", ""},
	}
	if err := defaults.AppendRows(t.Context(), defaultsSheet, seed); err != nil {
		t.Fatalf("seed defaults: %v", err)
	}

	resp, err := http.Get(srv.URL + "/api/v1/defaults")
	if err != nil {
		t.Fatalf("GET defaults: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var got map[string]map[string]map[string]string
	decodeBody(t, resp, &got)

	fields := got["Cement board"]["Garage roof"]
	if fields == nil {
		t.Fatalf("missing (material, location) entry: %v", got)
	}
	if fields["idSymbol"] != "AC2" {
		t.Errorf("idSymbol = %q, later row must win", fields["idSymbol"])
	}
	if _, ok := fields["condition"]; ok {
		t.Error("empty cell must be omitted, not stored")
	}
}

func TestUploadAndFetchImage(t *testing.T) {
	srv, _, _, _ := newTestServer(t)

	// Tiny GIF header so content sniffing has something real.
	payload := []byte("GIF89a\x01\x00\x01\x00\x80\x00\x00")
	body := map[string]string{
		"base64Image": "data:image/gif;base64," + base64.StdEncoding.EncodeToString(payload),
		"filename":    "roof.gif",
	}

	resp := postJSON(t, srv.URL+"/api/v1/upload-image", body)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("upload status = %d, want 200", resp.StatusCode)
	}
	var up struct {
		Success bool   `json:"success"`
		ImageID string `json:"imageId"`
		URL     string `json:"url"`
	}
	decodeBody(t, resp, &up)

	if !up.Success || up.ImageID == "" {
		t.Fatalf("unexpected upload response: %+v", up)
	}
	if !strings.HasSuffix(up.URL, up.ImageID) {
		t.Errorf("url = %q does not resolve image %q", up.URL, up.ImageID)
	}

	resp, err := http.Get(srv.URL + up.URL)
	if err != nil {
		t.Fatalf("GET image: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("fetch status = %d, want 200", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "image/gif" {
		t.Errorf("content type = %q, want image/gif", ct)
	}
	if cc := resp.Header.Get("Cache-Control"); !strings.Contains(cc, "immutable") {
		t.Errorf("cache control = %q, want long-lived immutable", cc)
	}
}

func TestSubmitReportSectionsAppendFailure(t *testing.T) {
	reports := newReportsStore()
	srv := newServerFor(t, &handlers.API{
		Reports:  &failingRowStore{RowStore: reports, failSheet: store.SectionsSheet},
		Defaults: store.NewMemoryRowStore(map[string][]string{defaultsSheet: nil}),
		Images:   store.NewMemoryImageStore(),
	})

	resp := postJSON(t, srv.URL+"/api/v1/submit-report", validReport())
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", resp.StatusCode)
	}
	var body map[string]string
	decodeBody(t, resp, &body)
	if body["error"] != "Failed to submit report" {
		t.Errorf("error = %q", body["error"])
	}
	if !strings.Contains(body["details"], "quota exceeded") {
		t.Errorf("details = %q, want the upstream message embedded", body["details"])
	}

	// The main row written before the failure stays: there is no
	// cross-sheet rollback, the report simply has an incomplete tail.
	mainRows, err := reports.GetRows(t.Context(), store.MainSheet)
	if err != nil {
		t.Fatalf("GetRows main: %v", err)
	}
	if len(mainRows) != 2 {
		t.Fatalf("main sheet has %d rows, want header plus the retained main row", len(mainRows))
	}
	if mainRows[1][0] != "RPT-GHM1042AS-1700000000000" {
		t.Errorf("retained main row id = %q", mainRows[1][0])
	}
	sectionRows, err := reports.GetRows(t.Context(), store.SectionsSheet)
	if err != nil {
		t.Fatalf("GetRows sections: %v", err)
	}
	if len(sectionRows) != 1 {
		t.Errorf("sections sheet has %d rows, want header only", len(sectionRows))
	}
}

func TestGetReportStoreFailure(t *testing.T) {
	srv := newServerFor(t, &handlers.API{
		Reports:  store.NewMemoryRowStore(nil), // every sheet read fails
		Defaults: store.NewMemoryRowStore(map[string][]string{defaultsSheet: nil}),
		Images:   store.NewMemoryImageStore(),
	})

	resp, err := http.Get(srv.URL + "/api/v1/report/RPT-GHM1042AS-1700000000000")
	if err != nil {
		t.Fatalf("GET report: %v", err)
	}
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", resp.StatusCode)
	}
	var body map[string]string
	decodeBody(t, resp, &body)
	if body["error"] != "Failed to fetch report" || body["details"] == "" {
		t.Errorf("unexpected envelope: %v", body)
	}
}

func TestUploadImageUpstreamFailure(t *testing.T) {
	srv := newServerFor(t, &handlers.API{
		Reports:  newReportsStore(),
		Defaults: store.NewMemoryRowStore(map[string][]string{defaultsSheet: nil}),
		Images:   failingImageStore{},
	})

	body := map[string]string{
		"base64Image": base64.StdEncoding.EncodeToString([]byte("payload")),
		"filename":    "roof.jpg",
	}
	resp := postJSON(t, srv.URL+"/api/v1/upload-image", body)
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", resp.StatusCode)
	}
	var got map[string]string
	decodeBody(t, resp, &got)
	if got["error"] != "Failed to upload image" {
		t.Errorf("error = %q", got["error"])
	}
	if !strings.Contains(got["details"], "drive unavailable") {
		t.Errorf("details = %q, want the upstream message embedded", got["details"])
	}
}

func TestGetImageUpstreamFailure(t *testing.T) {
	srv := newServerFor(t, &handlers.API{
		Reports:  newReportsStore(),
		Defaults: store.NewMemoryRowStore(map[string][]string{defaultsSheet: nil}),
		Images:   failingImageStore{},
	})

	resp, err := http.Get(srv.URL + "/api/v1/image/file-roof")
	if err != nil {
		t.Fatalf("GET image: %v", err)
	}
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", resp.StatusCode)
	}
	var got map[string]string
	decodeBody(t, resp, &got)
	if got["error"] != "Failed to fetch image" || got["details"] == "" {
		t.Errorf("unexpected envelope: %v", got)
	}
}

func TestUploadImageRequiresPayload(t *testing.T) {
	srv, _, _, _ := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/v1/upload-image", map[string]string{"filename": "x.jpg"})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
	var body map[string]string
	decodeBody(t, resp, &body)
	if body["error"] != "Base64 image data is required" {
		t.Errorf("error = %q", body["error"])
	}
}
