package model

import "time"

// Upload records who stored which object. Only the uploader may delete it,
// and deleting a submission releases its file only when the owner uploaded it.
type Upload struct {
	Key         string    `json:"key"`
	OwnerID     string    `json:"user"`
	URL         string    `json:"url"`
	ContentType string    `json:"content_type"`
	Size        int64     `json:"size"`
	CreatedAt   time.Time `json:"date"`
}
