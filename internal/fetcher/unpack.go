package fetcher

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"strings"

	"github.com/MirrorChyan/dxvk-manager/internal/metrics"
	"github.com/MirrorChyan/dxvk-manager/internal/pkg/archive"
	"github.com/MirrorChyan/dxvk-manager/internal/pkg/errs"
	"github.com/MirrorChyan/dxvk-manager/internal/stg"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Strategy is one way of extracting an archive.
type Strategy interface {
	Name() string
	Extract(ctx context.Context, archivePath, destDir string) error
}

type libraryStrategy struct{}

func (libraryStrategy) Name() string {
	return "library"
}

func (libraryStrategy) Extract(_ context.Context, archivePath, destDir string) error {
	return archive.Unpack(archivePath, destDir)
}

// CommandStrategy runs an external extraction tool.
type CommandStrategy struct {
	Tool string
	Args func(archivePath, destDir string) []string
}

func (s CommandStrategy) Name() string {
	return s.Tool
}

func (s CommandStrategy) Extract(ctx context.Context, archivePath, destDir string) error {
	bin, err := exec.LookPath(s.Tool)
	if err != nil {
		return errors.Wrapf(err, "%s not available", s.Tool)
	}
	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, bin, s.Args(archivePath, destDir)...)
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return errors.Wrapf(err, "%s: %s", s.Tool, strings.TrimSpace(stderr.String()))
	}
	return nil
}

func DefaultStrategies() []Strategy {
	return []Strategy{
		libraryStrategy{},
		CommandStrategy{
			Tool: "tar",
			Args: func(a, d string) []string { return []string{"-xzf", a, "-C", d} },
		},
		CommandStrategy{
			Tool: "7z",
			Args: func(a, d string) []string { return []string{"x", "-y", "-o" + d, a} },
		},
	}
}

// Unpack extracts archivePath into destDir, trying each strategy in turn.
// When every strategy reports failure the destination is probed for the
// x64/x32 layout, since tools sometimes fail after writing complete output.
// The archive is removed only on success.
func (f *Fetcher) Unpack(ctx context.Context, archivePath, destDir string) error {
	if _, err := os.Stat(archivePath); err != nil {
		return errs.ErrNotFound.WithMessage("archive %s not found", archivePath).Wrap(err)
	}
	if err := os.MkdirAll(destDir, os.ModePerm); err != nil {
		return errs.ErrExtractionFailure.WithMessage("cannot create %s", destDir).Wrap(err)
	}

	if f.cfg.UnpackTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.cfg.UnpackTimeout)
		defer cancel()
	}

	// failed strategy names; tool output stays in the log
	var failures []string
	extracted := false
	for _, s := range f.strategies {
		err := s.Extract(ctx, archivePath, destDir)
		if err == nil {
			metrics.Extractions.WithLabelValues(s.Name(), metrics.ResultSuccess).Inc()
			f.logger.Info("Archive extracted",
				zap.String("archive", archivePath),
				zap.String("strategy", s.Name()),
			)
			extracted = true
			break
		}
		metrics.Extractions.WithLabelValues(s.Name(), metrics.ResultFailure).Inc()
		f.logger.Warn("Extraction strategy failed",
			zap.String("archive", archivePath),
			zap.String("strategy", s.Name()),
			zap.Error(err),
		)
		failures = append(failures, s.Name())
	}

	if !extracted {
		if !stg.HasArchLayout(destDir) {
			return errs.ErrExtractionFailure.
				WithMessage("failed to extract %s", archivePath).
				WithDetails(failures)
		}
		f.logger.Warn("All extraction strategies reported errors but the payload layout is present",
			zap.String("archive", archivePath),
			zap.String("dest", destDir),
		)
	}

	if err := os.Remove(archivePath); err != nil && !os.IsNotExist(err) {
		f.logger.Warn("Failed to remove archive after extraction",
			zap.String("archive", archivePath),
			zap.Error(err),
		)
	}
	return nil
}
