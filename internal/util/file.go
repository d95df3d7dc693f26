package util

import (
	"errors"
	"io"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// ValidateMimeType 深度校验文件 MIME 类型
// allowedTypes: 允许的 MIME 前缀或完整类型，如 "application/pdf"
func ValidateMimeType(reader io.Reader, allowedTypes []string) (string, error) {
	mt, err := mimetype.DetectReader(reader)
	if err != nil {
		return "", err
	}

	for _, allowed := range allowedTypes {
		if mt.Is(allowed) || strings.HasPrefix(mt.String(), allowed) {
			return mt.String(), nil
		}
	}

	return mt.String(), errors.New("invalid file type: " + mt.String())
}

// SafeBaseName strips directories from an uploaded filename.
func SafeBaseName(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	base := filepath.Base(name)
	if base == "." || base == "/" || base == ".." {
		return ""
	}
	return base
}
