package forms

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

const (
	// MaxUploadSize caps post image uploads at 5 MiB.
	MaxUploadSize = 5 * 1024 * 1024

	// RequiredError is the field error for empty required input.
	RequiredError = "This field is required."

	// InvalidImageError is the fixed field error for uploads whose content
	// is not an image.
	InvalidImageError = "Upload a valid image. The file you uploaded was either not an image or a corrupted image."
)

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// PostForm carries the submitted fields for creating or editing a post.
type PostForm struct {
	Text    string
	GroupID string
	Errors  map[string]string

	imageData []byte
	imageExt  string
}

// ParsePostForm reads the request body. It accepts both urlencoded and
// multipart submissions; the image part is only looked for in the latter.
func ParsePostForm(r *http.Request) (*PostForm, error) {
	form := &PostForm{Errors: make(map[string]string)}

	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "multipart/form-data") {
		r.Body = http.MaxBytesReader(nil, r.Body, MaxUploadSize)
		if err := r.ParseMultipartForm(MaxUploadSize); err != nil {
			return nil, fmt.Errorf("failed to parse multipart form: %w", err)
		}
		if err := form.readImage(r); err != nil {
			return nil, err
		}
	} else {
		if err := r.ParseForm(); err != nil {
			return nil, fmt.Errorf("failed to parse form: %w", err)
		}
	}

	form.Text = r.FormValue("text")
	form.GroupID = r.FormValue("group")
	return form, nil
}

func (f *PostForm) readImage(r *http.Request) error {
	file, header, err := r.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read image part: %w", err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return fmt.Errorf("failed to read image data: %w", err)
	}
	if len(data) == 0 {
		f.Errors["image"] = InvalidImageError
		return nil
	}

	// The client Content-Type header is not trusted; sniff the actual bytes.
	detected := http.DetectContentType(data)
	if !strings.HasPrefix(detected, "image/") {
		f.Errors["image"] = InvalidImageError
		return nil
	}
	ext := imageExtensions[detected]
	if ext == "" {
		ext = filepath.Ext(header.Filename)
	}

	f.imageData = data
	f.imageExt = ext
	return nil
}

// Validate checks required fields and returns true when the form is clean.
func (f *PostForm) Validate() bool {
	if strings.TrimSpace(f.Text) == "" {
		f.Errors["text"] = RequiredError
	}
	return len(f.Errors) == 0
}

// HasImage reports whether a valid image was uploaded.
func (f *PostForm) HasImage() bool {
	return len(f.imageData) > 0
}

// SaveImage writes the uploaded image under dir with a generated filename
// and returns the public /uploads path to store on the post.
func (f *PostForm) SaveImage(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create upload dir: %w", err)
	}
	name := uuid.New().String() + f.imageExt
	if err := os.WriteFile(filepath.Join(dir, name), f.imageData, 0644); err != nil {
		return "", fmt.Errorf("failed to save image: %w", err)
	}
	return "/uploads/" + name, nil
}

// CommentForm carries the submitted comment text.
type CommentForm struct {
	Text   string
	Errors map[string]string
}

// ParseCommentForm reads a comment submission.
func ParseCommentForm(r *http.Request) (*CommentForm, error) {
	if err := r.ParseForm(); err != nil {
		return nil, fmt.Errorf("failed to parse form: %w", err)
	}
	return &CommentForm{
		Text:   r.FormValue("text"),
		Errors: make(map[string]string),
	}, nil
}

// Validate checks required fields and returns true when the form is clean.
func (f *CommentForm) Validate() bool {
	if strings.TrimSpace(f.Text) == "" {
		f.Errors["text"] = RequiredError
	}
	return len(f.Errors) == 0
}
