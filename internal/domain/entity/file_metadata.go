package entity

import (
	"time"
)

type FileMetadata struct {
	ID           string    `json:"id" firestore:"id"`
	URL          string    `json:"url" firestore:"url"`
	ThumbnailURL string    `json:"thumbnail_url,omitempty" firestore:"thumbnailUrl,omitempty"`
	ObjectName   string    `json:"object_name" firestore:"objectName"`
	EntityType   string    `json:"entity_type" firestore:"entityType"`
	EntityID     string    `json:"entity_id,omitempty" firestore:"entityId,omitempty"`
	UploadedBy   string    `json:"uploaded_by" firestore:"uploadedBy"`
	Filename     string    `json:"filename" firestore:"filename"`
	FileType     string    `json:"file_type" firestore:"fileType"`
	FileSize     int64     `json:"file_size" firestore:"fileSize"`
	CreatedAt    time.Time `json:"created_at" firestore:"createdAt"`
}
