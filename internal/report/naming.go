package report

import (
	"path/filepath"
	"strings"
)

// SanitizeFilename makes a safe file name stem from an arbitrary string.
// ASCII letters, digits, dot and dash are kept. Each run of any other
// characters, underscores included, becomes a single underscore, and the
// result is capped at 128 bytes.
func SanitizeFilename(s string) string {
	if s == "" {
		return "unknown"
	}
	var b strings.Builder
	const maxLen = 128
	lastUnderscore := false
	for _, r := range s {
		if b.Len() >= maxLen {
			break
		}
		switch {
		case (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9'),
			r == '.' || r == '-':
			b.WriteRune(r)
			lastUnderscore = false
		default:
			if !lastUnderscore {
				b.WriteRune('_')
				lastUnderscore = true
			}
		}
	}
	out := strings.Trim(b.String(), "._")
	if out == "" {
		return "unknown"
	}
	return out
}

// DefaultImageName derives an output file name from the capture title, or
// the source file name when the capture has no title.
func DefaultImageName(title, source, ext string) string {
	stem := title
	if stem == "" {
		base := filepath.Base(source)
		stem = strings.TrimSuffix(base, filepath.Ext(base))
	}
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return SanitizeFilename(stem) + ext
}
