package model

import "time"

// ProjectFile is the metadata record for an uploaded attachment.
//
// Filename is the server-generated storage name (crypto-random,
// extension-preserving, unguessable). OriginalFilename is the sanitized
// user-supplied name kept for display and download. FilePath is the
// storage locator under the upload root; the bytes live on disk, only
// metadata lives in the database.
type ProjectFile struct {
	ID               string    `json:"id"`
	ProjectID        string    `json:"projectId"`
	Filename         string    `json:"filename"`
	OriginalFilename string    `json:"originalFilename"`
	FileSize         int64     `json:"fileSize"`
	FileType         string    `json:"fileType"` // MIME type
	FilePath         string    `json:"-"`        // server-side locator, not exposed
	UploadedBy       string    `json:"uploadedBy"`
	UploadedAt       time.Time `json:"uploadedAt"`
}
