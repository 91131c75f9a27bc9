package service

import (
	"context"
	"os"
	"path/filepath"

	"github.com/ludo-technologies/docaudit/domain"
	"github.com/ludo-technologies/docaudit/internal/parser"
	"github.com/ludo-technologies/docaudit/internal/prompt"
)

// AuditService runs the full audit pipeline for one file: extract function
// units, submit each to the completion provider, parse the critique, tally
// the session, and optionally splice fixes back into the file.
type AuditService struct {
	client    domain.CompletionClient
	prompts   *prompt.Builder
	critiques *CritiqueParser
	applier   *FixApplier
	progress  domain.ProgressManager
}

// NewAuditService creates an audit service
func NewAuditService(client domain.CompletionClient, prompts *prompt.Builder, progress domain.ProgressManager) *AuditService {
	if progress == nil {
		progress = &NoOpProgressManager{}
	}
	return &AuditService{
		client:    client,
		prompts:   prompts,
		critiques: NewCritiqueParser(),
		applier:   NewFixApplier(),
		progress:  progress,
	}
}

// AuditFile audits every function unit of one Python file.
//
// A parse failure is file-scoped: it is recorded on the returned FileAudit
// and the batch continues. A malformed completion is unit-scoped: the unit
// is reported unresolved and the next unit proceeds. A transport failure is
// returned as an error and aborts the run.
func (s *AuditService) AuditFile(ctx context.Context, path string, req *domain.AuditRequest, session *domain.AuditSession) (*domain.FileAudit, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, domain.NewFileSystemError("failed to read "+path, err)
	}
	source := string(data)

	p := parser.NewParser()
	defer p.Close()

	units, err := p.ExtractFunctions(path, data)
	if err != nil {
		session.CountParseFailure()
		return &domain.FileAudit{File: path, ParseError: err.Error()}, nil
	}
	units = parser.FilterByName(units, req.FunctionName)

	session.CountFile()
	audit := &domain.FileAudit{File: path}

	task := s.progress.StartTask(filepath.Base(path), len(units))
	defer task.Complete()

	var candidates []FixCandidate
	var candidateIdx []int

	for i := range units {
		unit := &units[i]
		task.Describe(unit.Name)

		raw, err := s.client.Complete(ctx, s.prompts.Build(unit, req.Model))
		if err != nil {
			return nil, err
		}

		critique, err := s.critiques.Parse(raw)
		if err != nil {
			session.CountUnresolved()
			audit.Critiques = append(audit.Critiques, domain.FunctionCritique{
				File:             path,
				Function:         unit.Name,
				Line:             unit.StartLine,
				Unresolved:       true,
				UnresolvedReason: err.Error(),
			})
			task.Increment(1)
			continue
		}

		session.CountCritique(critique)
		fc := domain.FunctionCritique{
			File:           path,
			Function:       unit.Name,
			Line:           unit.StartLine,
			Classification: critique.Classification,
			Findings:       critique.Findings,
			SuggestedDoc:   critique.SuggestedDoc,
		}

		if req.AutoFix && critique.Classification == domain.SeverityError && critique.SuggestedDoc != "" {
			candidates = append(candidates, FixCandidate{Unit: unit, Critique: critique})
			candidateIdx = append(candidateIdx, len(audit.Critiques))
		}

		audit.Critiques = append(audit.Critiques, fc)
		task.Increment(1)
	}

	if len(candidates) > 0 {
		if err := s.applyFixes(path, source, candidates, candidateIdx, audit, session); err != nil {
			return nil, err
		}
	}

	return audit, nil
}

// applyFixes splices all eligible suggestions in one left-to-right pass and
// atomically rewrites the file. An invalid span skips that fix only; its
// finding stays in the report.
func (s *AuditService) applyFixes(path, source string, candidates []FixCandidate, candidateIdx []int, audit *domain.FileAudit, session *domain.AuditSession) error {
	fixed, results := s.applier.ApplyAll(source, candidates)

	applied := 0
	for i, res := range results {
		if res.Applied {
			audit.Critiques[candidateIdx[i]].Fixed = true
			session.CountFix()
			applied++
		}
	}
	if applied == 0 || fixed == source {
		return nil
	}

	mode := os.FileMode(0644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode()
	}
	return WriteFileAtomic(path, fixed, mode)
}
