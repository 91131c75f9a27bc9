package app

import (
	"context"
	"time"

	"github.com/ludo-technologies/docaudit/domain"
	"github.com/ludo-technologies/docaudit/internal/prompt"
	"github.com/ludo-technologies/docaudit/service"
)

// AuditUseCase orchestrates a full audit run: collect files, audit each one,
// aggregate the session, and write the report.
type AuditUseCase struct {
	client     domain.CompletionClient
	progress   domain.ProgressManager
	fileHelper *FileHelper
	formatter  *service.OutputFormatter
}

// NewAuditUseCase creates a new audit use case
func NewAuditUseCase(client domain.CompletionClient, progress domain.ProgressManager) *AuditUseCase {
	return &AuditUseCase{
		client:     client,
		progress:   progress,
		fileHelper: NewFileHelper(),
		formatter:  service.NewOutputFormatter(),
	}
}

// AuditResult pairs the structured response with the exit code derived from
// the session counters
type AuditResult struct {
	Response *domain.AuditResponse
	ExitCode int
}

// Execute runs the audit described by req and writes the report to
// req.OutputWriter. A returned error is fatal (exit code 2 territory);
// findings and recoverable failures are reflected in the result instead.
func (uc *AuditUseCase) Execute(ctx context.Context, req *domain.AuditRequest) (*AuditResult, error) {
	startTime := time.Now()

	files, err := uc.fileHelper.CollectPythonFiles(req.Paths, req.Recursive, req.IgnoreDirs, req.ExcludePatterns)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, domain.NewFileSystemError("no Python files found in the specified paths", nil)
	}

	session := domain.NewAuditSession()
	svc := service.NewAuditService(uc.client, prompt.NewBuilder(req.DocstringStyle), uc.progress)

	executor := service.NewParallelExecutor(req.MaxWorkers)
	audits, err := executor.Run(ctx, files, func(ctx context.Context, path string) (*domain.FileAudit, error) {
		return svc.AuditFile(ctx, path, req, session)
	})
	if err != nil {
		return nil, err
	}

	response := &domain.AuditResponse{
		Summary:     session.Summary(),
		GeneratedAt: time.Now().Format(time.RFC3339),
		DurationMs:  time.Since(startTime).Milliseconds(),
	}
	for _, audit := range audits {
		if audit != nil {
			response.Files = append(response.Files, *audit)
		}
	}

	if req.OutputWriter != nil {
		if err := uc.formatter.Write(response, req.OutputFormat, req.ShowSuggestions, req.OutputWriter); err != nil {
			return nil, err
		}
	}

	return &AuditResult{
		Response: response,
		ExitCode: session.ExitCode(req.ErrorOnWarnings),
	}, nil
}
