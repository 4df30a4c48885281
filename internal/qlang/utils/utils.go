package utils

import "strings"

// SourceLine retourne la ligne n (1-based) du code source, sans '\r' final.
// Une ligne hors limites donne une chaîne vide.
func SourceLine(source string, n int) string {
	if n < 1 {
		return ""
	}
	lines := strings.Split(source, "\n")
	if n > len(lines) {
		return ""
	}
	return strings.TrimRight(lines[n-1], "\r")
}

// Underline builds the caret line placed under a source line: column-1
// spaces followed by width carets. Width is at least 1.
func Underline(column, width int) string {
	if column < 1 {
		column = 1
	}
	if width < 1 {
		width = 1
	}
	return strings.Repeat(" ", column-1) + strings.Repeat("^", width)
}

// SplitLines splits text on '\n', dropping a single trailing empty line.
func SplitLines(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.Split(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
