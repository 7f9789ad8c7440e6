// pkg/mrsh/label.go
package mrsh

import (
	"errors"
	"strings"
	"unicode/utf8"
)

const (
	// DefaultLabel replaces an empty label
	DefaultLabel = "n/a"

	// MaxLabelBytes is the storage width of a label; longer labels are truncated
	MaxLabelBytes = 199
)

var (
	errLabelSeparator = errors.New("label contains ':', a line break or NUL")
	errLabelEncoding  = errors.New("label is not valid UTF-8")
)

// normalizeLabel applies the label policy. truncated reports whether the
// label was cut to MaxLabelBytes.
func normalizeLabel(label string) (name string, truncated bool, err error) {
	if label == "" {
		return DefaultLabel, false, nil
	}
	if err := checkLabel(label); err != nil {
		return "", false, err
	}
	if len(label) <= MaxLabelBytes {
		return label, false, nil
	}
	cut := MaxLabelBytes
	for cut > 0 && !utf8.RuneStart(label[cut]) {
		cut--
	}
	return label[:cut], true, nil
}

func checkLabel(label string) error {
	if !utf8.ValidString(label) {
		return errLabelEncoding
	}
	if strings.ContainsAny(label, ":\r\n\x00") {
		return errLabelSeparator
	}
	return nil
}
