// Package pipeline wires the analysis stages together: cleanse, missingness
// profiling, imputation, reshaping, hypothesis testing and clustering. Each
// stage consumes an immutable input and produces a new output; the pipeline
// reports per stage which keys or columns were skipped and why.
package pipeline

import (
	"fmt"

	"diaquant/domain/core"
	"diaquant/domain/frame"
	"diaquant/internal"
	"diaquant/internal/cleanse"
	"diaquant/internal/cluster"
	"diaquant/internal/config"
	"diaquant/internal/hypothesis"
	"diaquant/internal/impute"
	"diaquant/internal/missingness"
	"diaquant/internal/reshape"
)

// Pipeline runs the full analysis with one configuration.
type Pipeline struct {
	cfg *config.Config
	log *internal.Logger
}

// New creates a pipeline. A nil logger falls back to the default.
func New(cfg *config.Config, logger *internal.Logger) *Pipeline {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Pipeline{cfg: cfg, log: logger}
}

// SkippedItem is one key or column a stage excluded, with the reason.
type SkippedItem struct {
	Key    string
	Reason string
}

// StageReport lists what one stage skipped.
type StageReport struct {
	Stage   string
	Skipped []SkippedItem
}

// RunResult is the complete pipeline output.
type RunResult struct {
	RunID core.RunID

	Cleaned        *frame.Frame
	MissingProfile *missingness.Profile
	Imputed        *frame.Frame
	Long           *reshape.Result

	Summaries      []hypothesis.GroupSummary
	ReplicateTests *hypothesis.ReplicateComparison
	EntityTests    *hypothesis.EntityComparison

	// Clusters is nil when the clustering stage aborted; ClusterErr then
	// holds the reason. Clustering failures never fail the whole run.
	Clusters   *cluster.Result
	ClusterErr error

	Reports []StageReport
}

// Run executes all stages on an already-parsed raw frame.
func (p *Pipeline) Run(raw *frame.Frame) (*RunResult, error) {
	if raw.NumRows() == 0 {
		return nil, core.ErrEmptyFrame
	}
	a := p.cfg.Analysis
	res := &RunResult{RunID: core.NewRunID()}
	p.log.Info("run %s: %d rows, %d columns", res.RunID, raw.NumRows(), raw.NumColumns())

	// Stage 1: row expansion, dedup, decoy filter.
	cleaned, err := cleanse.Normalize(raw)
	if err != nil {
		return nil, fmt.Errorf("cleanse: %w", err)
	}
	res.Cleaned = cleaned.Frame
	p.log.Info("cleanse: %d rows after expansion, %d duplicates removed, %d decoys removed",
		cleaned.ExpandedRows, cleaned.DuplicateRows, cleaned.DecoyRows)

	// Stage 2: missingness profile.
	res.MissingProfile = missingness.ProfileFrame(res.Cleaned, a.LowMissingCutoff, a.HighMissingCutoff)
	p.log.Info("missingness: %d moderate columns, %d high columns",
		len(res.MissingProfile.Moderate()), len(res.MissingProfile.High()))

	// Stage 3: chained-equations imputation, run per tier so each bucket's
	// columns predict each other. Completeness failures abort the run;
	// there is no safe partial-fill policy.
	opts := impute.Options{
		Iterations: a.ImputeIterations,
		Chains:     a.ImputeChains,
		Donors:     a.ImputeDonors,
		Seed:       a.Seed,
		PoolMean:   a.ImputePoolMean,
	}
	res.Imputed = res.Cleaned
	for _, bucket := range [][]string{res.MissingProfile.Moderate(), res.MissingProfile.High()} {
		res.Imputed, err = impute.Impute(res.Imputed, bucket, opts)
		if err != nil {
			return nil, fmt.Errorf("impute: %w", err)
		}
	}

	// Stage 4: long-form reshape. Pattern mismatches are warnings.
	res.Long, err = reshape.Melt(res.Imputed)
	if err != nil {
		return nil, fmt.Errorf("reshape: %w", err)
	}
	reshapeReport := StageReport{Stage: "reshape"}
	for _, sk := range res.Long.Skipped {
		p.log.Warn("reshape: column %q excluded: %v", sk.Name, sk.Reason)
		reshapeReport.Skipped = append(reshapeReport.Skipped, SkippedItem{Key: sk.Name, Reason: sk.Reason.Error()})
	}
	res.Reports = append(res.Reports, reshapeReport)
	p.log.Info("reshape: %d observations from %d sample columns",
		len(res.Long.Observations), len(res.Long.MatchedKeys))

	// Stage 5: summaries and hypothesis tests. Keys without enough
	// observations are skipped, the stage completes with partial results.
	res.Summaries = hypothesis.Summarize(res.Long.Observations)
	res.ReplicateTests = hypothesis.CompareReplicates(res.Long.Observations)
	res.EntityTests = hypothesis.CompareEntities(res.Long.Observations, a.SignificanceLevel)
	res.Reports = append(res.Reports,
		skippedReport("replicate-tests", res.ReplicateTests.Skipped, p.log),
		skippedReport("entity-tests", res.EntityTests.Skipped, p.log),
	)
	p.log.Info("hypothesis: %d replicate results, %d entity results",
		len(res.ReplicateTests.Results), len(res.EntityTests.Results))

	// Stage 6: clustering. Failures abort this stage only.
	res.Clusters, err = cluster.Run(res.Imputed, cluster.Options{
		HierClusters:   a.HierClusters,
		KMeansClusters: a.KMeansClusters,
		Restarts:       a.KMeansRestarts,
		Seed:           a.Seed,
	})
	if err != nil {
		p.log.Warn("clustering aborted: %v", err)
		res.ClusterErr = err
		res.Reports = append(res.Reports, StageReport{
			Stage:   "clustering",
			Skipped: []SkippedItem{{Key: "all", Reason: err.Error()}},
		})
		return res, nil
	}
	p.log.Info("clustering: %d entities assigned, inertia %.4f, %d incomplete rows dropped",
		len(res.Clusters.Assignments), res.Clusters.Inertia, res.Clusters.DroppedRows)
	return res, nil
}

func skippedReport(stage string, skipped []hypothesis.SkippedKey, log *internal.Logger) StageReport {
	report := StageReport{Stage: stage}
	for _, sk := range skipped {
		log.Warn("%s: key %q excluded: %v", stage, sk.Key, sk.Reason)
		report.Skipped = append(report.Skipped, SkippedItem{Key: sk.Key, Reason: sk.Reason.Error()})
	}
	return report
}
