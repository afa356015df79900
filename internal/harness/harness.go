package harness

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/conduit-lang/lspstress/internal/arxiv"
	"github.com/conduit-lang/lspstress/internal/cli/config"
	"github.com/conduit-lang/lspstress/internal/cli/ui"
	"github.com/conduit-lang/lspstress/internal/lsp"
	"github.com/conduit-lang/lspstress/internal/results"
)

// paperDelay is the pause between papers, keeping the harness polite
// towards the arXiv export endpoint.
const paperDelay = 5 * time.Second

// Run executes a full batch: discover the extension, launch the server,
// initialize the protocol session, then validate documents from randomly
// chosen arXiv papers. Protocol errors abort the batch; single documents
// that cannot be decoded are skipped.
func Run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	out := os.Stdout

	extensionsDir := cfg.ExtensionsDir
	if extensionsDir == "" {
		var err error
		extensionsDir, err = DefaultExtensionsDir()
		if err != nil {
			return err
		}
	}

	inst, err := DiscoverInstallation(extensionsDir)
	if err != nil {
		return err
	}
	ui.Info(out, "Using LTeX extension from: %s", filepath.Join(inst.ExtensionsDir, inst.MainDir))
	ui.Info(out, "Using LTeX English language extension from: %s", filepath.Join(inst.ExtensionsDir, inst.LanguageDir))

	server, err := LaunchServer(inst, cfg.Port, logger)
	if err != nil {
		return err
	}
	defer server.Close()
	ui.Info(out, "Using port %d.", server.Port)

	tap := lsp.NewOutputTap(server.Stdout, server.Stderr)
	client := lsp.NewClient(server.Conn, tap, logger)

	// The server may legitimately log during startup, so the stderr
	// contract is suppressed for initialize only.
	initializeParams := map[string]any{
		"processId":    os.Getpid(),
		"rootUri":      nil,
		"capabilities": map[string]any{},
	}
	if _, _, err := client.SendRequest(ctx, "initialize", initializeParams,
		lsp.RequestOptions{FailOnStderrOutput: false}); err != nil {
		return fmt.Errorf("initialize: %w", err)
	}

	seed := cfg.Seed
	if seed < 0 {
		seed = rand.Int63n(1000000)
	}
	ui.Info(out, "Using seed %d.", seed)

	generator := arxiv.NewIDGenerator(seed)
	fetcher := arxiv.NewFetcher(logger)

	var store *results.Store
	if cfg.ResultsDB != "" {
		store, err = results.Open(cfg.ResultsDB)
		if err != nil {
			return err
		}
		defer store.Close()
		logger.Info("recording results", zap.String("db", cfg.ResultsDB), zap.String("runId", store.RunID()))
	}

	for i := 0; i < cfg.BatchSize; i++ {
		if i > 0 {
			if err := pause(ctx, paperDelay); err != nil {
				return err
			}
		}

		arxivID := generator.Next()
		ui.Info(out, "")
		ui.Header(out, "Processing arXiv paper %s...", arxivID)

		documents, err := fetcher.FetchPaper(ctx, arxivID)
		if errors.Is(err, arxiv.ErrSuspiciousArchive) {
			ui.Muted(out, "Skipping arXiv paper %s due to suspicious path names in tar archive.", arxivID)
			continue
		}
		if err != nil {
			return err
		}

		for _, doc := range documents {
			if cfg.SaveTexDir != "" {
				if err := saveTex(cfg.SaveTexDir, arxivID, doc); err != nil {
					return err
				}
			}

			ui.Info(out, "Checking %s with %d characters...", doc.Path, len(doc.Text))
			result, err := client.ValidateDocument(ctx, doc.Text, lsp.ValidateOptions{
				FailOnStderrOutput: true,
			})
			if err != nil {
				return fmt.Errorf("validating %s: %w", doc.Path, err)
			}
			ui.Success(out, "Obtained %d rule matches after %.1fs.", result.Matches, result.Duration.Seconds())

			if store != nil {
				if err := store.Add(results.Record{
					ArxivID:    arxivID,
					Path:       doc.Path,
					Characters: len(doc.Text),
					Matches:    result.Matches,
					Duration:   result.Duration,
				}); err != nil {
					return err
				}
			}
		}
	}

	return nil
}

// saveTex copies one checked document into dir, named after the paper.
func saveTex(dir, arxivID string, doc arxiv.Document) error {
	name := arxivID + ".tex"
	if base := filepath.Base(doc.Path); base != arxivID {
		name = arxivID + "_" + base
	}
	path := filepath.Join(dir, name)
	fmt.Printf("Saving LaTeX file as: %s\n", path)
	return os.WriteFile(path, []byte(doc.Text), 0o644)
}

func pause(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
