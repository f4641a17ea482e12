package model

import "time"

// Document is the stored record of an uploaded XD container.
// It carries no database-specific tags and is shared by the HTTP, service and storage layers.
// ManifestName and ArtboardCount are taken from the container when it is uploaded.
type Document struct {
	ID            string    `json:"id"`
	Filename      string    `json:"filename"`
	StoragePath   string    `json:"storage_path"`
	Size          int64     `json:"size"`
	ContentType   string    `json:"content_type"`
	ManifestName  string    `json:"manifest_name"`
	ArtboardCount int       `json:"artboard_count"`
	CreatedAt     time.Time `json:"created_at"`
}
