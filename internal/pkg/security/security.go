// Package security provides input validation and log sanitization for
// client-supplied values.
package security

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Path validation errors.
var (
	ErrPathEmpty        = &PathError{Reason: "path is empty"}
	ErrPathNullByte     = &PathError{Reason: "path contains null byte"}
	ErrPathTooLong      = &PathError{Reason: "path exceeds maximum length"}
	ErrPathInvalidChars = &PathError{Reason: "path contains invalid characters"}
)

// PathError represents a path validation error.
type PathError struct {
	Reason string
	Path   string
}

func (e *PathError) Error() string {
	if e.Path != "" {
		return e.Reason + ": " + e.Path
	}
	return e.Reason
}

// MaxPathLength is the maximum allowed path length.
const MaxPathLength = 1024

// ValidatePath checks a client-supplied file path for obviously hostile
// input before it reaches the filesystem. It rejects empty paths, null
// bytes, control characters, invalid UTF-8, and overlong paths. It does
// NOT decide whether the path is inside an allowed directory; callers
// enforce that against their configured root.
func ValidatePath(path string) error {
	if path == "" {
		return ErrPathEmpty
	}
	if len(path) > MaxPathLength {
		return &PathError{Reason: ErrPathTooLong.Reason, Path: truncate(path, 64)}
	}
	if strings.ContainsRune(path, 0) {
		return &PathError{Reason: ErrPathNullByte.Reason, Path: truncate(path, 64)}
	}
	if !utf8.ValidString(path) {
		return &PathError{Reason: ErrPathInvalidChars.Reason}
	}
	for _, r := range path {
		if unicode.IsControl(r) {
			return &PathError{Reason: ErrPathInvalidChars.Reason, Path: truncate(path, 64)}
		}
	}
	return nil
}

// MaxLogLength is the maximum length of a client value echoed into logs.
const MaxLogLength = 256

// SanitizeForLog makes a client-supplied string safe to log. Newlines and
// other control characters are replaced so a crafted value cannot forge
// log records, and overlong values are truncated.
func SanitizeForLog(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r == '\n' || r == '\r' || r == '\t':
			b.WriteRune(' ')
		case unicode.IsControl(r):
			b.WriteRune('?')
		default:
			b.WriteRune(r)
		}
	}
	return truncate(b.String(), MaxLogLength)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
