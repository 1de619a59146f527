// Package app implements the evaluation pipeline: it scores each target's
// trained model on the trailing window of a dataset and reports MAE, RMSE
// and R2 per target.
//
// The window is the last N rows of the same dataset the models may have been
// trained on. It is a recency split only; nothing here guarantees the rows
// were held out from training.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/okian/gridcast/internal/adapters/modelstore"
	"github.com/okian/gridcast/internal/adapters/provider"
	"github.com/okian/gridcast/internal/config"
	"github.com/okian/gridcast/internal/domain/accuracy"
	"github.com/okian/gridcast/internal/domain/dataset"
	"github.com/okian/gridcast/internal/domain/model"
	"github.com/okian/gridcast/pkg/logger"
)

// Failure kinds reported to the Recorder.
const (
	FailureDataLoad   = "data_load"
	FailureModelLoad  = "model_load"
	FailureSchema     = "schema_violation"
	FailurePrediction = "prediction_failure"
	FailureOther      = "other"
)

// Recorder receives run metrics. *metrics.Manager satisfies it.
type Recorder interface {
	ObserveTarget(target string, mae, rmse, r2 float64, rows int)
	ObserveSkip(target, reason string)
	ObserveFailure(kind string)
	ObserveRun(seconds float64, finishedUnix int64)
}

type nopRecorder struct{}

func (nopRecorder) ObserveTarget(string, float64, float64, float64, int) {}
func (nopRecorder) ObserveSkip(string, string)                           {}
func (nopRecorder) ObserveFailure(string)                                {}
func (nopRecorder) ObserveRun(float64, int64)                            {}

// SkipReason explains why a target was not evaluated.
type SkipReason string

// Skip reasons.
const (
	SkipModelMissing    SkipReason = "model_missing"
	SkipFeaturesMissing SkipReason = "features_missing"
)

// Skip is the recoverable outcome for a target lacking an artifact. It is
// carried in Report.Skipped and matches ErrMissingArtifact.
type Skip struct {
	Target string
	Reason SkipReason
}

func (s Skip) Error() string {
	switch s.Reason {
	case SkipModelMissing:
		return fmt.Sprintf("model for %s not found", s.Target)
	case SkipFeaturesMissing:
		return fmt.Sprintf("no feature columns found for %s", s.Target)
	default:
		return fmt.Sprintf("%s skipped: %s", s.Target, s.Reason)
	}
}

// Unwrap returns ErrMissingArtifact.
func (s Skip) Unwrap() error { return ErrMissingArtifact }

// MetricResult maps target name to its scores. Skipped targets are absent.
type MetricResult map[string]accuracy.Result

// Report is the outcome of one evaluation run.
type Report struct {
	RunID string
	// Window is the configured window; Rows is what was actually scored.
	Window  int
	Rows    int
	Results MetricResult
	// Order lists evaluated targets in configured order.
	Order   []string
	Skipped []Skip
}

// Pipeline evaluates a fixed list of targets. It holds configuration only and
// is safe to reuse across runs.
type Pipeline struct {
	targets  []string
	window   int
	logger   logger.Logger
	recorder Recorder
}

// New constructs a Pipeline with default targets and window.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		targets:  config.DefaultTargets(),
		window:   config.DefaultWindowSize,
		logger:   logger.Nop(),
		recorder: nopRecorder{},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Targets returns the configured targets.
func (p *Pipeline) Targets() []string { return append([]string(nil), p.targets...) }

// WindowSize returns the configured window.
func (p *Pipeline) WindowSize() int { return p.window }

// task is a target whose model and feature list both resolved.
type task struct {
	target   string
	model    model.Model
	features []string
}

// Run loads the dataset and artifacts, then evaluates every target.
func (p *Pipeline) Run(ctx context.Context, data provider.Provider, store modelstore.Store) (*Report, error) {
	started := time.Now()

	p.logger.Info(ctx, "loading data")
	ds, err := data.Produce(ctx)
	if err != nil {
		return nil, p.fail(ctx, FailureDataLoad, fmt.Errorf("load data: %w", err))
	}

	p.logger.Info(ctx, "loading models and feature columns")
	models, err := store.LoadModels(ctx, p.targets)
	if err != nil {
		return nil, p.fail(ctx, FailureModelLoad, fmt.Errorf("load models: %w", err))
	}
	features, err := store.LoadFeatureLists(ctx)
	if err != nil {
		return nil, p.fail(ctx, FailureModelLoad, fmt.Errorf("load feature lists: %w", err))
	}

	report, err := p.Evaluate(ctx, ds, models, features)
	if err != nil {
		return nil, err
	}

	finished := time.Now()
	p.recorder.ObserveRun(finished.Sub(started).Seconds(), finished.Unix())
	return report, nil
}

// Evaluate scores every configured target against the trailing window of ds.
//
// A target without a model or with an empty feature list is skipped and
// listed in Report.Skipped. A dataset missing a required column, or a model
// whose Predict fails, aborts the whole run with an error.
func (p *Pipeline) Evaluate(ctx context.Context, ds *dataset.Dataset, models map[string]model.Model, features map[string][]string) (*Report, error) {
	if ds == nil {
		return nil, p.fail(ctx, FailureSchema, ErrNoDataset)
	}
	runID := uuid.NewString()
	log := p.logger.With(logger.String("run_id", runID))

	tasks, skipped := p.plan(models, features)
	for _, s := range skipped {
		log.Warn(ctx, "skipping target", logger.String("target", s.Target), logger.String("reason", string(s.Reason)), logger.Error(s))
		p.recorder.ObserveSkip(s.Target, string(s.Reason))
	}

	if err := requireColumns(ds, tasks); err != nil {
		return nil, p.fail(ctx, FailureSchema, err)
	}

	window := ds.Tail(p.window)
	report := &Report{
		RunID:   runID,
		Window:  p.window,
		Rows:    window.Len(),
		Results: make(MetricResult, len(tasks)),
		Skipped: skipped,
	}
	for _, t := range tasks {
		log.Info(ctx, "evaluating model", logger.String("target", t.target), logger.Int("rows", window.Len()))
		res, err := score(window, t)
		if err != nil {
			return nil, p.fail(ctx, classify(err), fmt.Errorf("evaluate %s: %w", t.target, err))
		}
		log.Info(ctx, "evaluated model",
			logger.String("target", t.target),
			logger.Float64("mae", res.MAE),
			logger.Float64("rmse", res.RMSE),
			logger.Float64("r2", res.R2),
		)
		if !accuracy.IsDefined(res.R2) {
			log.Warn(ctx, "r2 undefined: labels are constant over the window", logger.String("target", t.target))
		}
		p.recorder.ObserveTarget(t.target, res.MAE, res.RMSE, res.R2, window.Len())
		report.Results[t.target] = res
		report.Order = append(report.Order, t.target)
	}
	return report, nil
}

// plan splits targets into evaluable tasks and recoverable skips.
func (p *Pipeline) plan(models map[string]model.Model, features map[string][]string) ([]task, []Skip) {
	var (
		tasks   []task
		skipped []Skip
	)
	for _, target := range p.targets {
		t, skip := resolve(target, models, features)
		if skip != nil {
			skipped = append(skipped, *skip)
			continue
		}
		tasks = append(tasks, t)
	}
	return tasks, skipped
}

func resolve(target string, models map[string]model.Model, features map[string][]string) (task, *Skip) {
	m, ok := models[target]
	if !ok || m == nil {
		return task{}, &Skip{Target: target, Reason: SkipModelMissing}
	}
	cols := features[target]
	if len(cols) == 0 {
		return task{}, &Skip{Target: target, Reason: SkipFeaturesMissing}
	}
	return task{target: target, model: m, features: append([]string(nil), cols...)}, nil
}

// requireColumns validates the dataset once for every planned task: the
// timestamp column, each feature column and each label column.
func requireColumns(ds *dataset.Dataset, tasks []task) error {
	var names []string
	for _, t := range tasks {
		names = append(names, t.features...)
		names = append(names, t.target)
	}
	return ds.Require(names...)
}

// score runs one task on the window. X and y come from the same rows.
func score(window *dataset.Dataset, t task) (accuracy.Result, error) {
	x, err := window.Matrix(t.features)
	if err != nil {
		return accuracy.Result{}, err
	}
	y, err := window.Column(t.target)
	if err != nil {
		return accuracy.Result{}, err
	}
	preds, err := t.model.Predict(x)
	if err != nil {
		return accuracy.Result{}, fmt.Errorf("%w: %w", ErrPredictionFailure, err)
	}
	res, err := accuracy.Compute(y, preds)
	if err != nil {
		return accuracy.Result{}, fmt.Errorf("%w: %w", ErrPredictionFailure, err)
	}
	return res, nil
}

func classify(err error) string {
	switch {
	case errors.Is(err, dataset.ErrSchemaViolation):
		return FailureSchema
	case errors.Is(err, ErrPredictionFailure):
		return FailurePrediction
	default:
		return FailureOther
	}
}

func (p *Pipeline) fail(ctx context.Context, kind string, err error) error {
	p.logger.Error(ctx, "evaluation aborted", logger.String("kind", kind), logger.Error(err))
	p.recorder.ObserveFailure(kind)
	return err
}

// Summary renders one line per evaluated target in report order.
func Summary(r *Report) []string {
	if r == nil {
		return nil
	}
	lines := make([]string, 0, len(r.Order))
	for _, target := range r.Order {
		res := r.Results[target]
		lines = append(lines, fmt.Sprintf("%s -> MAE: %.4f, RMSE: %.4f, R2: %.4f", target, res.MAE, res.RMSE, res.R2))
	}
	return lines
}
