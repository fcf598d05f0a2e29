package util

import (
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strings"
)

// ValidateMimeType 深度校验文件 MIME 类型
// allowedTypes: 允许的 MIME 前缀或完整类型，如 "image/", "application/pdf"
func ValidateMimeType(reader io.Reader, allowedTypes []string) (string, error) {
	buffer := make([]byte, 512)
	n, err := reader.Read(buffer)
	if err != nil && err != io.EOF {
		return "", err
	}

	// 检测 MIME 类型
	mimeType := http.DetectContentType(buffer[:n])

	for _, allowed := range allowedTypes {
		if strings.HasPrefix(mimeType, allowed) || mimeType == allowed {
			return mimeType, nil
		}
	}

	return mimeType, errors.New("invalid file type: " + mimeType)
}

// IsImage 检测是否为图片
func IsImage(mimeType string) bool {
	return strings.HasPrefix(mimeType, MimeImage)
}

// ValidateUpload checks an uploaded file's extension and sniffed content type.
func ValidateUpload(name string, r io.Reader, maxBytes, size int64) error {
	ext := strings.ToLower(filepath.Ext(name))
	allowed := false
	for _, e := range AllowedUploadExtensions {
		if e == ext {
			allowed = true
			break
		}
	}
	if !allowed {
		return NewValidationError("unsupported file", FieldError{Field: "file", Error: "extension " + ext + " is not allowed"})
	}
	if maxBytes > 0 && size > maxBytes {
		return NewValidationError("file too large", FieldError{Field: "file", Error: "exceeds the upload limit"})
	}
	if _, err := ValidateMimeType(r, AllowedUploadMimeTypes); err != nil {
		return NewValidationError("unsupported file", FieldError{Field: "file", Error: err.Error()})
	}
	return nil
}
