package ffmpeg

import (
	"fmt"
	"regexp"
	"strings"
)

// Cause classifies why an ffmpeg invocation failed.
type Cause string

const (
	CauseDecode  Cause = "decode"
	CauseEncode  Cause = "encode"
	CauseIO      Cause = "io"
	CauseFilter  Cause = "filter"
	CauseUnknown Cause = "unknown"
)

// Pre-compiled regexes for classifying ffmpeg stderr. Checked in order; the
// first match wins.
var (
	reIOIssue = regexp.MustCompile(
		`(?i)No such file or directory|Permission denied|No space left on device|` +
			`Read-only file system|Input/output error|Could not open file|Error opening output`)

	reDecodeIssue = regexp.MustCompile(
		`(?i)Invalid data found when processing input|moov atom not found|` +
			`Error while decoding|could not find codec parameters|` +
			`decode_slice_header error|Invalid NAL unit|corrupt`)

	reFilterIssue = regexp.MustCompile(
		`(?i)No such filter|Error (initializing|reinitializing) filter|` +
			`Failed to configure (input|output) pad|Invalid too big or non positive size`)

	reEncodeIssue = regexp.MustCompile(
		`(?i)Unknown encoder|Error while opening encoder|Error initializing output stream|` +
			`Could not write header|encoder .* not found|Conversion failed`)
)

// Classify maps ffmpeg stderr onto a failure cause.
func Classify(stderr string) Cause {
	switch {
	case reIOIssue.MatchString(stderr):
		return CauseIO
	case reDecodeIssue.MatchString(stderr):
		return CauseDecode
	case reFilterIssue.MatchString(stderr):
		return CauseFilter
	case reEncodeIssue.MatchString(stderr):
		return CauseEncode
	default:
		return CauseUnknown
	}
}

// Error is returned when ffmpeg exits unsuccessfully.
type Error struct {
	Cause  Cause
	Stderr string
	Err    error
}

func (e *Error) Error() string {
	tail := stderrTail(e.Stderr, 3)
	if tail == "" {
		return fmt.Sprintf("ffmpeg %s error: %v", e.Cause, e.Err)
	}
	return fmt.Sprintf("ffmpeg %s error: %v: %s", e.Cause, e.Err, tail)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// stderrTail returns the last n non-empty stderr lines joined by " | ".
func stderrTail(stderr string, n int) string {
	lines := strings.Split(strings.TrimSpace(stderr), "\n")
	kept := make([]string, 0, n)
	for i := len(lines) - 1; i >= 0 && len(kept) < n; i-- {
		if line := strings.TrimSpace(lines[i]); line != "" {
			kept = append(kept, line)
		}
	}
	for i, j := 0, len(kept)-1; i < j; i, j = i+1, j-1 {
		kept[i], kept[j] = kept[j], kept[i]
	}
	return strings.Join(kept, " | ")
}
