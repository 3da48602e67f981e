package httpx

import (
	"encoding/base64"
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strings"
)

// ErrUnsupportedImage signals a payload outside the image allow-list.
var ErrUnsupportedImage = errors.New("unsupported image type")

// maxUploadSize caps a single image upload at 10 MiB.
const maxUploadSize = 10 << 20

// allowedImageTypes is the MIME allow-list for uploads.
var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// allowedImageExts mirrors the MIME allow-list for multipart filenames.
var allowedImageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// DecodeDataURI decodes an inline "data:image/...;base64,..." payload
// and returns the raw bytes with their declared MIME type. Types
// outside the allow-list fail with ErrUnsupportedImage.
func DecodeDataURI(s string) ([]byte, string, error) {
	rest, ok := strings.CutPrefix(s, "data:")
	if !ok {
		return nil, "", errors.New("not a data URI")
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return nil, "", errors.New("malformed data URI")
	}
	contentType, ok := strings.CutSuffix(meta, ";base64")
	if !ok {
		return nil, "", errors.New("data URI is not base64 encoded")
	}
	if !allowedImageTypes[contentType] {
		return nil, "", ErrUnsupportedImage
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", errors.New("malformed base64 payload")
	}
	if len(data) > maxUploadSize {
		return nil, "", errors.New("image too large")
	}
	return data, contentType, nil
}

// ReadImageFile pulls a single uploaded file out of a multipart form,
// enforcing the extension and sniffed-MIME allow-list.
func ReadImageFile(r *http.Request, field string) ([]byte, string, error) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		return nil, "", errors.New("malformed multipart form")
	}
	file, header, err := r.FormFile(field)
	if err != nil {
		return nil, "", errors.New("missing file field " + field)
	}
	defer file.Close()

	if !allowedImageExts[strings.ToLower(filepath.Ext(header.Filename))] {
		return nil, "", ErrUnsupportedImage
	}

	data, err := io.ReadAll(io.LimitReader(file, maxUploadSize+1))
	if err != nil {
		return nil, "", err
	}
	if len(data) > maxUploadSize {
		return nil, "", errors.New("image too large")
	}

	contentType := http.DetectContentType(data)
	if !allowedImageTypes[contentType] {
		return nil, "", ErrUnsupportedImage
	}
	return data, contentType, nil
}
