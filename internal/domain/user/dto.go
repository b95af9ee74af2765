package user

import (
	"fmt"
	"io"
	"time"
)

const (
	PhotoFieldName          = "file"
	DefaultPhotoContentType = "image/jpeg"
)

// Photo is a profile picture to upload.
type Photo struct {
	FileName    string
	ContentType string
	Content     io.Reader
}

// WithDefaults fills a missing file name (profile_<unixtime>.jpg) and
// content type.
func (p Photo) WithDefaults(now time.Time) Photo {
	if p.FileName == "" {
		p.FileName = fmt.Sprintf("profile_%d.jpg", now.Unix())
	}
	if p.ContentType == "" {
		p.ContentType = DefaultPhotoContentType
	}
	return p
}

type UploadPhotoResponse struct {
	ProfilePhotoURL string `json:"profilePhotoUrl"`
	FileURL         string `json:"fileUrl"`
}

// URL returns the stored photo location.
func (r UploadPhotoResponse) URL() string {
	if r.ProfilePhotoURL != "" {
		return r.ProfilePhotoURL
	}
	return r.FileURL
}
