package app

import (
	"context"
	"fmt"
	"io"

	"github.com/ludo-technologies/migscan/domain"
	"github.com/ludo-technologies/migscan/internal/registry"
	"github.com/ludo-technologies/migscan/service"
)

// ScanUseCase orchestrates the scan workflow: validate, adjust the
// blocklist, scan, then render the requested view
type ScanUseCase struct {
	service    domain.ScanService
	formatter  domain.OutputFormatter
	fileHelper *FileHelper
}

// NewScanUseCase creates a new scan use case
func NewScanUseCase(svc domain.ScanService, formatter domain.OutputFormatter) *ScanUseCase {
	return &ScanUseCase{
		service:    svc,
		formatter:  formatter,
		fileHelper: NewFileHelper(),
	}
}

// Execute performs the complete scan workflow and writes the report
func (uc *ScanUseCase) Execute(ctx context.Context, req domain.ScanRequest) (*domain.ScanResponse, error) {
	if err := uc.validateRequest(&req); err != nil {
		return nil, err
	}

	root, err := uc.fileHelper.ResolveRoot(req.Root)
	if err != nil {
		return nil, err
	}
	req.Root = root

	ApplyExtensionOverrides(uc.service.Registry(), req)

	response, err := uc.service.Scan(ctx, req)
	if err != nil {
		return nil, err
	}

	if err := uc.writeOutput(response, req); err != nil {
		return response, err
	}

	return response, nil
}

// Session returns an extension session over the same service, for
// adjusting the blocklist after Execute
func (uc *ScanUseCase) Session() *ExtensionSession {
	return NewExtensionSession(uc.service)
}

// ApplyExtensionOverrides adjusts reg in order: initial set, reset, block, allow
func ApplyExtensionOverrides(reg *registry.ExtensionRegistry, req domain.ScanRequest) {
	if req.BlockedExtensions != nil {
		reg.Replace(req.BlockedExtensions...)
	}
	if req.ResetExtensions {
		reg.Reset()
	}
	reg.AddAll(req.BlockExtensions...)
	for _, ext := range req.AllowExtensions {
		reg.Remove(ext)
	}
}

// BelowMinScore reports whether the response fails the request's compliance gate
func BelowMinScore(resp *domain.ScanResponse, req domain.ScanRequest) bool {
	return req.MinScore > 0 && resp.ComplianceScore < req.MinScore
}

func (uc *ScanUseCase) writeOutput(response *domain.ScanResponse, req domain.ScanRequest) error {
	if req.OutputPath != "" {
		if req.OutputFormat == domain.OutputFormatCSV {
			return service.ExportCSVFs(uc.fileHelper.Fs(), req.OutputPath, response.Issues)
		}
		return uc.fileHelper.WriteReport(req.OutputPath, func(w io.Writer) error {
			return uc.formatter.Write(response, req.OutputFormat, w)
		})
	}

	if req.OutputWriter == nil {
		return nil
	}
	if err := uc.formatter.Write(response, req.OutputFormat, req.OutputWriter); err != nil {
		return domain.NewOutputError("failed to write report", err)
	}
	return nil
}

func (uc *ScanUseCase) validateRequest(req *domain.ScanRequest) error {
	if req.OutputFormat == "" {
		req.OutputFormat = domain.OutputFormatText
	}
	if !req.OutputFormat.IsValid() {
		return domain.NewInvalidInputError(fmt.Sprintf("unsupported output format: %s", req.OutputFormat), nil)
	}

	if req.MinScore < 0 || req.MinScore > 100 {
		return domain.NewInvalidInputError(fmt.Sprintf("min score must be between 0 and 100, got %g", req.MinScore), nil)
	}

	for _, ext := range append(append([]string{}, req.BlockExtensions...), req.AllowExtensions...) {
		if registry.Normalize(ext) == "" {
			return domain.NewInvalidInputError(fmt.Sprintf("invalid extension %q", ext), nil)
		}
	}

	return nil
}

// ScanUseCaseBuilder provides a builder pattern for creating ScanUseCase
type ScanUseCaseBuilder struct {
	service    domain.ScanService
	formatter  domain.OutputFormatter
	fileHelper *FileHelper
}

// NewScanUseCaseBuilder creates a new builder
func NewScanUseCaseBuilder() *ScanUseCaseBuilder {
	return &ScanUseCaseBuilder{}
}

// WithService sets the scan service
func (b *ScanUseCaseBuilder) WithService(svc domain.ScanService) *ScanUseCaseBuilder {
	b.service = svc
	return b
}

// WithFormatter sets the output formatter
func (b *ScanUseCaseBuilder) WithFormatter(formatter domain.OutputFormatter) *ScanUseCaseBuilder {
	b.formatter = formatter
	return b
}

// WithFileHelper sets the file helper
func (b *ScanUseCaseBuilder) WithFileHelper(fileHelper *FileHelper) *ScanUseCaseBuilder {
	b.fileHelper = fileHelper
	return b
}

// Build creates the ScanUseCase with the configured dependencies
func (b *ScanUseCaseBuilder) Build() (*ScanUseCase, error) {
	if b.service == nil {
		return nil, fmt.Errorf("scan service is required")
	}
	if b.formatter == nil {
		return nil, fmt.Errorf("output formatter is required")
	}
	if b.fileHelper == nil {
		b.fileHelper = NewFileHelper()
	}

	return &ScanUseCase{
		service:    b.service,
		formatter:  b.formatter,
		fileHelper: b.fileHelper,
	}, nil
}
