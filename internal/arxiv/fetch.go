package arxiv

import (
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"net/http"
	"unicode/utf8"

	"go.uber.org/zap"
)

// DefaultBaseURL is the arXiv e-print endpoint.
const DefaultBaseURL = "https://arxiv.org/e-print"

// Document is one LaTeX source file extracted from a paper.
type Document struct {
	// Path identifies the file within the paper's archive, or the arXiv ID
	// itself for single-file papers.
	Path string
	// Text is the decoded file content.
	Text string
}

// Fetcher downloads arXiv e-prints and extracts their LaTeX sources.
type Fetcher struct {
	client  *http.Client
	baseURL string
	logger  *zap.Logger
}

// NewFetcher creates a fetcher talking to the public arXiv endpoint.
func NewFetcher(logger *zap.Logger) *Fetcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Fetcher{
		client:  http.DefaultClient,
		baseURL: DefaultBaseURL,
		logger:  logger,
	}
}

// SetBaseURL points the fetcher at an alternative endpoint, used by tests.
func (f *Fetcher) SetBaseURL(baseURL string) { f.baseURL = baseURL }

// SetClient replaces the HTTP client.
func (f *Fetcher) SetClient(client *http.Client) { f.client = client }

// FetchPaper downloads the e-print for arxivID and returns its LaTeX
// documents in a stable order. Papers whose archives contain suspicious
// path names fail with ErrSuspiciousArchive; files that are not valid
// UTF-8 are skipped with a log line.
func (f *Fetcher) FetchPaper(ctx context.Context, arxivID string) ([]Document, error) {
	payload, err := f.download(ctx, arxivID)
	if err != nil {
		return nil, err
	}

	if isTarArchive(payload) {
		return f.extractDocuments(payload, arxivID)
	}

	// Single-file papers are served as a bare LaTeX file.
	if !utf8.Valid(payload) {
		f.logger.Warn("skipping paper: not valid UTF-8", zap.String("arxivId", arxivID))
		return nil, nil
	}
	return []Document{{Path: arxivID, Text: string(payload)}}, nil
}

// download retrieves the raw e-print payload, decompressing it when the
// endpoint marks it as gzip-compressed.
func (f *Fetcher) download(ctx context.Context, arxivID string) ([]byte, error) {
	url := fmt.Sprintf("%s/%s", f.baseURL, arxivID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("downloading %s: %w", arxivID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("downloading %s: unexpected status %s", arxivID, resp.Status)
	}

	var body io.Reader = resp.Body
	if encoding := resp.Header.Get("Content-Encoding"); encoding == "x-gzip" || encoding == "gzip" {
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("decompressing %s: %w", arxivID, err)
		}
		defer gz.Close()
		body = gz
	}

	payload, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", arxivID, err)
	}
	return payload, nil
}
