package models

// UploadStatus tracks a photo through its client-side upload lifecycle.
type UploadStatus string

// Possible values for UploadStatus. A failed upload may be retried, which
// moves it from error back to uploading; everything read back from the
// store is success.
const (
	UploadPending   UploadStatus = "pending"
	UploadUploading UploadStatus = "uploading"
	UploadSuccess   UploadStatus = "success"
	UploadError     UploadStatus = "error"
)

// MaxBuildingImages caps the number of building-level photos per report.
const MaxBuildingImages = 5

// Attachment is a photo with caption, owned either by the report
// (building level) or by a single section. The local file payload never
// reaches the server; only the uploaded image id and caption are stored.
type Attachment struct {
	ID              string       `json:"id"`
	Preview         string       `json:"preview,omitempty"`
	Caption         string       `json:"caption,omitempty"`
	Status          UploadStatus `json:"status,omitempty"`
	UploadedImageID string       `json:"uploadedImageId,omitempty"`
}
