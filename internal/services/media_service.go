package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/swapify/swapify-backend/internal/config"
	"github.com/swapify/swapify-backend/internal/dto"
	"github.com/swapify/swapify-backend/internal/metrics"
)

const (
	MaxUploadFiles = 10
	MaxUploadSize  = 5 * 1024 * 1024
)

var allowedImageExts = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".webp": true, ".gif": true,
}

// UploadResult is either the CDN's own JSON, passed through untouched, or
// the list of stored files.
type UploadResult struct {
	Raw   json.RawMessage
	Files []dto.UploadedFile
}

type MediaUploader interface {
	Upload(ctx context.Context, files []*multipart.FileHeader) (*UploadResult, error)
}

// ValidateUploads enforces the count, extension and size limits.
func ValidateUploads(files []*multipart.FileHeader) error {
	if len(files) == 0 {
		return ErrNoFiles
	}
	if len(files) > MaxUploadFiles {
		return fmt.Errorf("%w: at most %d", ErrTooManyFiles, MaxUploadFiles)
	}
	for _, f := range files {
		if !allowedImageExts[strings.ToLower(filepath.Ext(f.Filename))] {
			return fmt.Errorf("%w: %s", ErrUnsupportedFile, f.Filename)
		}
		if f.Size > MaxUploadSize {
			return fmt.Errorf("%w: %s exceeds 5MB", ErrFileTooLarge, f.Filename)
		}
	}
	return nil
}

// NewMediaUploader picks the driver named by MEDIA_DRIVER.
func NewMediaUploader(cfg *config.Config) (MediaUploader, error) {
	switch cfg.MediaDriver {
	case "cloudinary":
		return NewCloudinaryUploader(cfg)
	case "cdn", "":
		return NewCDNUploader(cfg), nil
	default:
		return nil, fmt.Errorf("unknown media driver %q", cfg.MediaDriver)
	}
}

// CDNUploader forwards the files as one multipart request to MEDIACDN/upload.
type CDNUploader struct {
	endpoint   string
	httpClient *http.Client
}

func NewCDNUploader(cfg *config.Config) *CDNUploader {
	return &CDNUploader{
		endpoint:   strings.TrimRight(cfg.MediaCDN, "/") + "/upload",
		httpClient: &http.Client{Timeout: cfg.HTTPTimeout},
	}
}

func (u *CDNUploader) Upload(ctx context.Context, files []*multipart.FileHeader) (*UploadResult, error) {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for _, fh := range files {
		if err := copyPart(w, fh); err != nil {
			return nil, err
		}
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.endpoint, &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := u.httpClient.Do(req)
	if err != nil {
		metrics.Uploads.WithLabelValues("cdn", "error").Add(float64(len(files)))
		return nil, fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}
	if resp.StatusCode >= 300 || !json.Valid(respBody) {
		metrics.Uploads.WithLabelValues("cdn", "error").Add(float64(len(files)))
		return nil, fmt.Errorf("%w: cdn status %d", ErrUploadFailed, resp.StatusCode)
	}

	metrics.Uploads.WithLabelValues("cdn", "ok").Add(float64(len(files)))
	return &UploadResult{Raw: respBody}, nil
}

func copyPart(w *multipart.Writer, fh *multipart.FileHeader) error {
	src, err := fh.Open()
	if err != nil {
		return fmt.Errorf("open %s: %w", fh.Filename, err)
	}
	defer src.Close()

	part, err := w.CreateFormFile("files", fh.Filename)
	if err != nil {
		return err
	}
	_, err = io.Copy(part, src)
	return err
}

// CloudinaryUploader stores each file in CLOUDINARY_FOLDER.
type CloudinaryUploader struct {
	cld     *cloudinary.Cloudinary
	folder  string
	timeout time.Duration
}

func NewCloudinaryUploader(cfg *config.Config) (*CloudinaryUploader, error) {
	cld, err := cloudinary.NewFromURL(cfg.CloudinaryURL)
	if err != nil {
		return nil, fmt.Errorf("cloudinary config: %w", err)
	}
	return &CloudinaryUploader{cld: cld, folder: cfg.CloudinaryFolder, timeout: 2 * cfg.HTTPTimeout}, nil
}

func boolPtr(b bool) *bool { return &b }

func (u *CloudinaryUploader) Upload(ctx context.Context, files []*multipart.FileHeader) (*UploadResult, error) {
	ctx, cancel := context.WithTimeout(ctx, u.timeout)
	defer cancel()

	result := &UploadResult{Files: make([]dto.UploadedFile, 0, len(files))}
	for _, fh := range files {
		f, err := fh.Open()
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", fh.Filename, err)
		}
		up, err := u.cld.Upload.Upload(ctx, f, uploader.UploadParams{
			Folder:         u.folder,
			ResourceType:   "image",
			UseFilename:    boolPtr(true),
			UniqueFilename: boolPtr(true),
			Overwrite:      boolPtr(false),
		})
		f.Close()
		if err != nil {
			metrics.Uploads.WithLabelValues("cloudinary", "error").Inc()
			return nil, fmt.Errorf("%w: %v", ErrUploadFailed, err)
		}
		if up.Error.Message != "" {
			metrics.Uploads.WithLabelValues("cloudinary", "error").Inc()
			return nil, fmt.Errorf("%w: %s", ErrUploadFailed, up.Error.Message)
		}
		metrics.Uploads.WithLabelValues("cloudinary", "ok").Inc()

		name := up.PublicID
		if up.Format != "" {
			name += "." + up.Format
		}
		result.Files = append(result.Files, dto.UploadedFile{Filename: name, URL: up.SecureURL})
	}
	return result, nil
}
