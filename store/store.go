// Package store holds the persistence gateway for survey reports: an
// append/read row store backed by spreadsheet workbooks and an image
// store for uploaded photos, plus the mapping between the in-memory
// report record and the flat sheet rows.
package store

import (
	"context"
	"errors"
)

// Sheet names within the reports workbook.
const (
	MainSheet     = "main"
	SectionsSheet = "sections"
	ImagesSheet   = "images"
)

// ErrReportNotFound is returned when no main row matches a report id.
var ErrReportNotFound = errors.New("report not found")

// RowStore is the spreadsheet side of the persistence gateway. Appends
// are atomic per call; there is no atomicity across sheets and no
// retrying inside the gateway.
type RowStore interface {
	// AppendRows appends rows after the last populated row of sheet.
	AppendRows(ctx context.Context, sheet string, rows [][]interface{}) error
	// GetRows returns the raw cell data of sheet, header row included.
	GetRows(ctx context.Context, sheet string) ([][]string, error)
}

// ImageStore is the file-hosting side of the persistence gateway.
type ImageStore interface {
	// Upload stores data and returns the external file identifier.
	Upload(ctx context.Context, data []byte, filename, contentType string) (string, error)
	// Fetch returns the stored bytes and their content type.
	Fetch(ctx context.Context, id string) ([]byte, string, error)
}
