package service

import (
	"context"

	"github.com/okian/interviewcoach/internal/domain/model"
)

// analyzerAdapter runs queued requests through the same path as Analyze,
// leaving session bookkeeping to jobRecorder.
type analyzerAdapter struct {
	s *Service
}

func (a *analyzerAdapter) Analyze(ctx context.Context, req model.AnalysisRequest) (model.AnalysisResult, model.SignalKind, error) {
	out, err := a.s.analyze(ctx, req)
	if err != nil {
		return model.AnalysisResult{}, "", err
	}
	return out.AnalysisResult, out.Source, nil
}

// jobRecorder stores job outcomes and records a session for the owner of a
// completed job.
type jobRecorder struct {
	s *Service
}

func (r *jobRecorder) CompleteJob(ctx context.Context, id string, source model.SignalKind, result model.AnalysisResult) error {
	st, err := r.s.storeOrErr("complete job")
	if err != nil {
		return err
	}
	if err := st.CompleteJob(ctx, id, source, result); err != nil {
		return err
	}
	job, err := st.Job(ctx, id)
	if err != nil || job.UserID == "" {
		return nil //nolint:nilerr // the outcome is stored; history is best effort
	}
	r.s.recordSession(ctx, job.UserID, model.Analysis{
		Field:          job.Field,
		Category:       job.Category,
		Source:         source,
		AnalysisResult: result,
	})
	return nil
}

func (r *jobRecorder) FailJob(ctx context.Context, id, reason string) error {
	st, err := r.s.storeOrErr("fail job")
	if err != nil {
		return err
	}
	return st.FailJob(ctx, id, reason)
}
