package services

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"partner-portal/internal/status"
	"partner-portal/models"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

const (
	imagePrefix    = "partner-activities"
	PublicImageURL = "/api/public/images/"
)

var imageExtensions = []struct {
	mime string
	ext  string
}{
	{"image/jpeg", ".jpg"},
	{"image/png", ".png"},
	{"image/gif", ".gif"},
	{"image/webp", ".webp"},
}

type UploadedImage struct {
	Key  string `json:"key"`
	URL  string `json:"url"`
	Mime string `json:"mime"`
	Size int    `json:"size"`
}

type UploadService struct {
	images   ImageStore
	maxBytes int64
	baseURL  string
	newID    func() string
}

func NewUploadService(images ImageStore, maxBytes int64, baseURL string) *UploadService {
	if maxBytes <= 0 {
		maxBytes = 5 << 20
	}
	return &UploadService{
		images:   images,
		maxBytes: maxBytes,
		baseURL:  strings.TrimRight(baseURL, "/"),
		newID:    uuid.NewString,
	}
}

// Upload sniffs and stores one activity image. Gallery images go under a
// separate prefix from the cover image.
func (s *UploadService) Upload(ctx context.Context, session models.PartnerSession, r io.Reader, gallery bool) (*UploadedImage, error) {
	content, err := io.ReadAll(io.LimitReader(r, s.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("io.ReadAll(): %w", err)
	}
	if int64(len(content)) > s.maxBytes {
		return nil, status.ErrImageTooLarge
	}

	mime, ext, ok := detectImage(content)
	if !ok {
		return nil, status.ErrUnsupportedImage
	}

	dir := path.Join(imagePrefix, session.PartnerID)
	if gallery {
		dir = path.Join(dir, "gallery")
	}
	key := path.Join(dir, s.newID()+ext)

	if err := s.images.Put(ctx, key, content); err != nil {
		return nil, err
	}

	return &UploadedImage{
		Key:  key,
		URL:  s.baseURL + PublicImageURL + key,
		Mime: mime,
		Size: len(content),
	}, nil
}

// IsImageKey reports whether key names an uploaded activity image.
func IsImageKey(key string) bool {
	clean := path.Clean("/" + key)[1:]
	return clean == key && strings.HasPrefix(key, imagePrefix+"/")
}

func detectImage(content []byte) (string, string, bool) {
	detected := mimetype.Detect(content)
	for _, it := range imageExtensions {
		if detected.Is(it.mime) {
			return it.mime, it.ext, true
		}
	}
	return detected.String(), "", false
}
