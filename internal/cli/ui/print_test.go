package ui

import (
	"bytes"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
)

func TestPrintHelpers(t *testing.T) {
	old := color.NoColor
	color.NoColor = true
	defer func() { color.NoColor = old }()

	var buf bytes.Buffer

	Header(&buf, "Processing arXiv paper %s...", "1801.00001")
	Info(&buf, "Checking %s with %d characters...", "main.tex", 42)
	Muted(&buf, "Skipping arXiv paper %s.", "1801.00001")
	Success(&buf, "Obtained %d rule matches after %.1fs.", 3, 1.5)
	Failure(&buf, "Detected output on stderr.")

	want := "Processing arXiv paper 1801.00001...\n" +
		"Checking main.tex with 42 characters...\n" +
		"Skipping arXiv paper 1801.00001.\n" +
		"Obtained 3 rule matches after 1.5s.\n" +
		"Detected output on stderr.\n"
	assert.Equal(t, want, buf.String())
}
