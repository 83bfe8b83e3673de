package render

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// MIMEType returns the image MIME type for a file name. Unrecognized
// extensions, .jpg included, map to image/jpeg.
func MIMEType(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	default:
		return "image/jpeg"
	}
}

// ResolveImage finds the portrait file, as given or relative to root.
func ResolveImage(path, root string) (string, bool) {
	if path == "" {
		return "", false
	}
	if fileExists(path) {
		return path, true
	}
	if root != "" && !filepath.IsAbs(path) {
		if p := filepath.Join(root, path); fileExists(p) {
			return p, true
		}
	}
	return "", false
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// ImageTag returns an inline img element embedding the portrait as a data
// URI. A missing or unreadable image yields false and is only logged.
func ImageTag(ctx context.Context, path, root string) (string, bool) {
	resolved, ok := ResolveImage(path, root)
	if !ok {
		if path != "" {
			slog.WarnContext(ctx, "portrait not found", "path", path, "root", root)
		}
		return "", false
	}

	data, err := os.ReadFile(resolved)
	if err != nil {
		slog.WarnContext(ctx, "failed to read portrait", "path", resolved, "error", err)
		return "", false
	}

	b64 := base64.StdEncoding.EncodeToString(data)
	return fmt.Sprintf(`<img src="data:%s;base64,%s" class="w-full h-full object-cover">`, MIMEType(resolved), b64), true
}
