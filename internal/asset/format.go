package asset

import "strings"

// Format is the delivery medium of an asset.
type Format string

const (
	FormatVideo       Format = "video"
	FormatDoc         Format = "doc"
	FormatLab         Format = "lab"
	FormatInfographic Format = "infographic"
)

// Formats lists every known format.
var Formats = []Format{FormatVideo, FormatDoc, FormatLab, FormatInfographic}

// NormalizeFormat maps free-form input such as "Video Lecture" or
// "info-graphic" onto the format vocabulary by substring match.
// Anything unrecognised is treated as a document.
func NormalizeFormat(s string) Format {
	f := strings.ToLower(s)
	switch {
	case strings.Contains(f, "video"):
		return FormatVideo
	case strings.Contains(f, "doc"):
		return FormatDoc
	case strings.Contains(f, "info"):
		return FormatInfographic
	case strings.Contains(f, "lab"):
		return FormatLab
	default:
		return FormatDoc
	}
}
