// Package evaluation scores prediction files against ground-truth relevance
// judgments for a binary relevance task and derives classification metrics.
package evaluation

import (
	"context"

	"github.com/relscore/relscore/internal/pkg/logger"
	"github.com/relscore/relscore/internal/tabular"
)

// Challenge phases that are scored. Any other phase designator skips scoring
// and yields the all-zero report.
const (
	PhaseUnsupervised = "unsupervised"
	PhaseSupervised   = "supervised"
	PhaseFinal        = "final"
)

// Phases returns the recognized phase designators.
func Phases() []string {
	return []string{PhaseUnsupervised, PhaseSupervised, PhaseFinal}
}

// IsRecognizedPhase reports whether scoring runs for the given phase.
func IsRecognizedPhase(phase string) bool {
	switch phase {
	case PhaseUnsupervised, PhaseSupervised, PhaseFinal:
		return true
	}
	return false
}

// supportedExtension reports whether the prediction file format is one of
// the two supported tabular formats. Anything else skips scoring.
func supportedExtension(ext string) bool {
	return ext == "tsv" || ext == "gz"
}

// Evaluator scores submissions. It holds no per-run state; every Evaluate
// call builds its own, so a single Evaluator is safe for concurrent use.
type Evaluator struct {
	log *logger.Logger
}

// NewEvaluator creates a new evaluator.
func NewEvaluator(log *logger.Logger) *Evaluator {
	if log == nil {
		log = logger.Default()
	}
	return &Evaluator{log: log}
}

// Evaluate scores the submission at predictionPath against the annotations
// at truthPath for the given challenge phase. metadata is harness-supplied
// submission context and only informs logging.
//
// Three conditions yield the all-zero report without error: an unrecognized
// phase, an unsupported prediction-file extension, and a truth file with no
// judged queries. File I/O and parse failures are returned as errors.
func (e *Evaluator) Evaluate(ctx context.Context, truthPath, predictionPath, phase string, metadata map[string]any) (*Outcome, error) {
	log := e.log.WithPhase(phase)
	log.Info("starting evaluation",
		"annotation_file", truthPath,
		"submission_file", predictionPath,
		"metadata_keys", len(metadata),
	)

	var report Report

	if !IsRecognizedPhase(phase) {
		log.Warn("unrecognized phase, skipping scoring")
		return outcome(report), nil
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r := newRun()
	truth, err := r.loadGroundTruth(truthPath)
	if err != nil {
		return nil, err
	}

	switch {
	case len(r.queryBase) == 0:
		// An all-"0" truth file judges nothing; there is nothing to score
		// and the macro-average denominator would be zero.
		log.Warn("no judged queries in ground truth, returning zero report")

	case !supportedExtension(tabular.Extension(predictionPath)):
		log.Warn("unsupported submission format, skipping scoring",
			"extension", tabular.Extension(predictionPath))

	default:
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		global, err := r.scorePredictions(predictionPath, truth)
		if err != nil {
			return nil, err
		}

		g := global.Derive()
		avg := r.aggregate()
		report = Report{
			GlobalPrecision:  g.Precision,
			GlobalRecall:     g.Recall,
			GlobalF1:         g.F1,
			GlobalTPR:        g.Recall,
			GlobalFPR:        g.FPR,
			GlobalAccuracy:   g.Accuracy,
			AveragePrecision: avg.Precision,
			AverageRecall:    avg.Recall,
			AverageF1:        avg.F1,
			AverageTPR:       avg.Recall,
			AverageFPR:       avg.FPR,
			AverageAccuracy:  avg.Accuracy,
		}

		log.Info("completed evaluation",
			"judged_queries", len(r.queryBase),
			"judged_pairs", len(truth),
			"global_f1", report.GlobalF1,
			"average_f1", report.AverageF1,
		)
	}

	return outcome(report), nil
}

func outcome(report Report) *Outcome {
	return &Outcome{
		Result:           []ResultEntry{{Data: report}},
		SubmissionResult: report,
	}
}
