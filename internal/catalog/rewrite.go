// Package catalog fetches the product catalog from the Apps Script
// endpoint and rewrites embedded Google Drive image links so browsers load
// them through the local image proxy instead of hitting Drive directly.
//
// Products are deliberately untyped (map[string]any): the upstream schema
// is not owned by this system and passes through unchanged except for the
// images/original_images pair.
package catalog

import (
	"fmt"
	"net/url"
	"strings"
)

// DefaultImageSize is the size hint appended to rewritten image links.
const DefaultImageSize = "w1000"

// ExtractDriveFileID pulls the file identifier out of a Google Drive or
// googleusercontent URL. Recognised shapes:
//
//	https://drive.google.com/uc?export=view&id=<id>
//	https://drive.google.com/file/d/<id>/view
//	https://lh3.googleusercontent.com/d/<id>
//
// Returns ("", false) for any other URL; callers then pass the original
// through unchanged.
func ExtractDriveFileID(raw string) (string, bool) {
	parsed, err := url.Parse(raw)
	if err != nil {
		return "", false
	}

	host := parsed.Hostname()
	switch {
	case strings.Contains(host, "drive.google.com"):
		if id := parsed.Query().Get("id"); id != "" {
			return id, true
		}
		return idAfterDSegment(parsed.Path)
	case strings.Contains(host, "googleusercontent.com"):
		return idAfterDSegment(parsed.Path)
	}
	return "", false
}

// idAfterDSegment finds the path segment following "/d/", as in
// /file/d/<id>/view.
func idAfterDSegment(path string) (string, bool) {
	parts := strings.Split(path, "/")
	for i, part := range parts {
		if part == "d" && i+1 < len(parts) && parts[i+1] != "" {
			return parts[i+1], true
		}
	}
	return "", false
}

// ProxyURL builds the local image-proxy link for a file id.
func ProxyURL(baseURL, fileID, size string) string {
	return fmt.Sprintf("%s/api/products/image/%s?size=%s",
		strings.TrimRight(baseURL, "/"), fileID, size)
}

// RewriteImages rewrites the images field of a single product in place.
//
// A list value gets every URL rewritten; a single string becomes a
// one-element rewritten list. URLs whose file id cannot be extracted pass
// through unchanged. Whenever a rewrite happens, the pre-rewrite URLs are
// preserved under original_images. Items without a recognisable images
// field are left untouched.
func RewriteImages(item map[string]any, baseURL string) {
	switch images := item["images"].(type) {
	case []any:
		original := make([]any, len(images))
		copy(original, images)

		rewritten := make([]any, 0, len(images))
		for _, entry := range images {
			raw, ok := entry.(string)
			if !ok {
				rewritten = append(rewritten, entry)
				continue
			}
			if fileID, ok := ExtractDriveFileID(raw); ok {
				rewritten = append(rewritten, ProxyURL(baseURL, fileID, DefaultImageSize))
			} else {
				rewritten = append(rewritten, raw)
			}
		}
		item["original_images"] = original
		item["images"] = rewritten

	case string:
		if fileID, ok := ExtractDriveFileID(images); ok {
			item["original_images"] = []any{images}
			item["images"] = []any{ProxyURL(baseURL, fileID, DefaultImageSize)}
		}
	}
}
