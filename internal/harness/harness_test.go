package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conduit-lang/lspstress/internal/arxiv"
)

func TestSaveTexNamesFileAfterPaper(t *testing.T) {
	dir := t.TempDir()
	doc := arxiv.Document{Path: "1801.00001", Text: `\documentclass{article}`}

	require.NoError(t, saveTex(dir, "1801.00001", doc))

	data, err := os.ReadFile(filepath.Join(dir, "1801.00001.tex"))
	require.NoError(t, err)
	assert.Equal(t, doc.Text, string(data))
}

func TestSaveTexKeepsArchiveFileName(t *testing.T) {
	dir := t.TempDir()
	doc := arxiv.Document{Path: "paper/main.tex", Text: `\section{Intro}`}

	require.NoError(t, saveTex(dir, "1801.00001", doc))

	data, err := os.ReadFile(filepath.Join(dir, "1801.00001_main.tex"))
	require.NoError(t, err)
	assert.Equal(t, doc.Text, string(data))
}
