package arxiv

import (
	"archive/tar"
	"bytes"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
)

// ErrSuspiciousArchive is reported when a paper's tar archive contains
// entries that would escape the extraction directory.
var ErrSuspiciousArchive = errors.New("suspicious path names in tar archive")

// isTarArchive reports whether payload parses as a tar archive.
func isTarArchive(payload []byte) bool {
	reader := tar.NewReader(bytes.NewReader(payload))
	_, err := reader.Next()
	return err == nil
}

// extractDocuments unpacks a tar payload into a temporary directory and
// collects every .tex file, sorted within each directory.
func (f *Fetcher) extractDocuments(payload []byte, arxivID string) ([]Document, error) {
	tempDir, err := os.MkdirTemp("", "lspstress-arxiv-")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(tempDir)

	if err := extractTar(payload, tempDir); err != nil {
		return nil, err
	}

	var documents []Document
	err = filepath.WalkDir(tempDir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".tex") {
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		relPath, err := filepath.Rel(tempDir, path)
		if err != nil {
			return err
		}
		if !utf8.Valid(data) {
			f.logger.Warn("skipping LaTeX file: not valid UTF-8",
				zap.String("arxivId", arxivID),
				zap.String("path", relPath))
			return nil
		}
		documents = append(documents, Document{Path: relPath, Text: string(data)})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return documents, nil
}

// extractTar writes the archive's regular files and directories under
// destDir, rejecting the whole archive on any path that could escape it.
func extractTar(payload []byte, destDir string) error {
	// Validate every entry name before touching the filesystem.
	reader := tar.NewReader(bytes.NewReader(payload))
	for {
		header, err := reader.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}
		if strings.Contains(header.Name, "..") || strings.HasPrefix(header.Name, "/") {
			return ErrSuspiciousArchive
		}
	}

	reader = tar.NewReader(bytes.NewReader(payload))
	for {
		header, err := reader.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		target := filepath.Join(destDir, header.Name)
		switch header.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0o755); err != nil {
				return err
			}
		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
				return err
			}
			data, err := io.ReadAll(reader)
			if err != nil {
				return err
			}
			if err := os.WriteFile(target, data, 0o644); err != nil {
				return err
			}
		}
	}
}
