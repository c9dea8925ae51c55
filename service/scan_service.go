package service

import (
	"context"
	"io"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/ludo-technologies/migscan/domain"
	"github.com/ludo-technologies/migscan/internal/compliance"
	"github.com/ludo-technologies/migscan/internal/registry"
	"github.com/ludo-technologies/migscan/internal/scanner"
	"github.com/ludo-technologies/migscan/internal/version"
)

// ScanServiceImpl implements the ScanService interface on top of one Scanner.
// The scanner and its registry live as long as the service, so views can be
// recomputed after blocklist changes without rescanning.
type ScanServiceImpl struct {
	scanner  *scanner.Scanner
	progress domain.ProgressManager
	logger   logrus.FieldLogger
}

// NewScanService creates a scan service over the OS filesystem
func NewScanService(logger logrus.FieldLogger) *ScanServiceImpl {
	return NewScanServiceWithProgress(afero.NewOsFs(), logger, nil)
}

// NewScanServiceWithProgress creates a scan service reporting progress to pm
func NewScanServiceWithProgress(fs afero.Fs, logger logrus.FieldLogger, pm domain.ProgressManager) *ScanServiceImpl {
	if logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		logger = l
	}
	if pm == nil {
		pm = &NoOpProgressManager{}
	}

	return &ScanServiceImpl{
		scanner: scanner.New(
			scanner.WithFs(fs),
			scanner.WithLogger(logger),
			scanner.WithProgress(pm),
		),
		progress: pm,
		logger:   logger,
	}
}

// Scan walks req.Root with the current registry and the request's exclude
// patterns. Blocklist changes from the request are the caller's job.
func (s *ScanServiceImpl) Scan(ctx context.Context, req domain.ScanRequest) (*domain.ScanResponse, error) {
	s.scanner.SetIgnorePatterns(req.ExcludePatterns...)
	defer s.progress.Close()

	result, err := s.scanner.Scan(ctx, req.Root)
	if err != nil {
		s.logger.WithError(err).WithField("root", req.Root).Error("Scan failed")
		return nil, err
	}

	return s.buildResponse(result, req.OnlyBlocked), nil
}

// View rebuilds the response of the last scan against the current registry
func (s *ScanServiceImpl) View(filtered bool) (*domain.ScanResponse, error) {
	result := s.scanner.Result()
	if result == nil {
		return nil, domain.NewNoScanError()
	}
	return s.buildResponse(result, filtered), nil
}

// Registry returns the live blocklist
func (s *ScanServiceImpl) Registry() *registry.ExtensionRegistry {
	return s.scanner.Registry()
}

// DiscoveredExtensions returns the extensions found by the last scan
func (s *ScanServiceImpl) DiscoveredExtensions() []string {
	return s.scanner.DiscoveredExtensions()
}

func (s *ScanServiceImpl) buildResponse(result *domain.ScanResult, filtered bool) *domain.ScanResponse {
	issues := result.Issues
	score := result.ComplianceScore()
	compliant := result.CompliantFiles

	if filtered {
		issues = s.scanner.FilteredIssues()
		score = s.scanner.FilteredComplianceScore()
		compliant = max(result.TotalFiles-len(issues), 0)
	}

	return &domain.ScanResponse{
		Root:                 result.Root,
		Issues:               issues,
		Filtered:             filtered,
		TotalFiles:           result.TotalFiles,
		CompliantFiles:       compliant,
		IssueCount:           len(issues),
		ComplianceScore:      score,
		Grade:                compliance.Grade(score),
		BlockedExtensions:    s.scanner.Registry().Sorted(),
		DiscoveredExtensions: result.DiscoveredExtensions,
		Warnings:             result.Warnings,
		GeneratedAt:          time.Now().Format(time.RFC3339),
		DurationMs:           result.Duration.Milliseconds(),
		Version:              version.Version,
	}
}
