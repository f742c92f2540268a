package storage

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

const maxKeyNameLen = 50

var unsafeKeyChars = regexp.MustCompile(`[^A-Za-z0-9_-]`)

// GenerateKey returns a key unique per call:
// {workspaceID}/{unixMillis}-{uuid}-{sanitized base name}{ext}.
func GenerateKey(workspaceID, filename string, now time.Time) string {
	ext := filepath.Ext(filename)
	base := strings.TrimSuffix(filename, ext)
	base = unsafeKeyChars.ReplaceAllString(base, "-")
	if len(base) > maxKeyNameLen {
		base = base[:maxKeyNameLen]
	}
	ext = "." + unsafeKeyChars.ReplaceAllString(strings.TrimPrefix(ext, "."), "-")
	if ext == "." {
		ext = ""
	}
	return fmt.Sprintf("%s/%d-%s-%s%s", workspaceID, now.UnixMilli(), uuid.NewString(), base, ext)
}
