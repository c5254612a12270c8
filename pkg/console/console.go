// Package console renders the small banner lines printed at process start.
package console

import (
	"fmt"
	"strings"
)

// DefaultLineSize is the line width used by Title.
const DefaultLineSize = 80

// Line returns a single repeated-rune line, e.g. "--------".
func Line(size int) string {
	return strings.Repeat("-", size)
}

// DoubleLine returns a repeated "=" line.
func DoubleLine(size int) string {
	return strings.Repeat("=", size)
}

// Title centers title between two "=" lines, e.g. "===== title =====".
func Title(title string) string {
	title = fmt.Sprintf(" %s ", title)
	startIndex := (DefaultLineSize / 2) - (len(title) / 2)
	delta := len(title) % 2

	return fmt.Sprintf("%s%s%s", DoubleLine(startIndex), title, DoubleLine(startIndex+delta))
}
