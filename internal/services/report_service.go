package services

import (
	"context"
	"encoding/json"
	"fmt"
	"runtime"
	"time"

	"github.com/google/uuid"
	"github.com/soltixdb/thermalreport/internal/analytics"
	"github.com/soltixdb/thermalreport/internal/analytics/hotwindow"
	"github.com/soltixdb/thermalreport/internal/analytics/quality"
	"github.com/soltixdb/thermalreport/internal/analytics/summary"
	"github.com/soltixdb/thermalreport/internal/analytics/threshold"
	"github.com/soltixdb/thermalreport/internal/config"
	"github.com/soltixdb/thermalreport/internal/ingest"
	"github.com/soltixdb/thermalreport/internal/logging"
	"github.com/soltixdb/thermalreport/internal/queue"
	"github.com/soltixdb/thermalreport/internal/report"
	"github.com/soltixdb/thermalreport/internal/utils"
	"golang.org/x/sync/errgroup"
)

// ReportService turns a normalized series into per-day and whole-range
// report sections and optionally hands the result to a publisher.
type ReportService struct {
	logger    *logging.Logger
	publisher queue.Publisher
	subject   string
}

// NewReportService creates a new ReportService. A nil publisher disables
// publishing.
func NewReportService(logger *logging.Logger, publisher queue.Publisher, subject string) *ReportService {
	if logger == nil {
		logger = logging.Global()
	}
	return &ReportService{
		logger:    logger,
		publisher: publisher,
		subject:   subject,
	}
}

// Publishing reports whether built reports are handed to a publisher
func (s *ReportService) Publishing() bool {
	return s.publisher != nil
}

// AnalysisOptions parameterizes a single Analyze or Build call
type AnalysisOptions struct {
	Threshold       float64
	Window          time.Duration
	MinSamples      int
	Quality         quality.Config
	ExcludeOutliers bool
	Location        *time.Location
	Title           string
	Disclaimer      string

	// From and To restrict Build to from <= t < to; zero means unbounded
	From time.Time
	To   time.Time
}

// OptionsFromConfig maps the analysis config section onto AnalysisOptions
func OptionsFromConfig(cfg config.AnalysisConfig) AnalysisOptions {
	return AnalysisOptions{
		Threshold:       cfg.Threshold,
		Window:          cfg.Window,
		MinSamples:      cfg.HotWindowMinSamples,
		Quality:         cfg.Quality(),
		ExcludeOutliers: cfg.ExcludeOutliers,
		Location:        cfg.Location(),
		Title:           cfg.Title,
		Disclaimer:      cfg.Disclaimer,
	}
}

// QualityFacts summarizes the data-quality checks of one section
type QualityFacts struct {
	Gaps       []quality.Gap    `json:"gaps"`
	InRange    int              `json:"in_range"`
	OutOfRange analytics.Series `json:"out_of_range"`
}

// Analysis holds the facts and composed text of one report section
type Analysis struct {
	Label     string               `json:"label"`
	Summary   summary.Summary      `json:"summary"`
	Quality   QualityFacts         `json:"quality"`
	HotWindow *hotwindow.HotWindow `json:"hot_window"`
	Intervals []threshold.Interval `json:"intervals"`
	Coverage  threshold.Coverage   `json:"coverage"`
	Lines     []string             `json:"lines"`
	Warnings  []string             `json:"warnings,omitempty"`

	text report.Text
}

// Text returns the composed text including typed warnings
func (a *Analysis) Text() report.Text {
	return a.text
}

// Diagnostics describes what normalization and filtering discarded
type Diagnostics struct {
	Rows       int                 `json:"rows"`
	Dropped    int                 `json:"dropped"`
	Duplicates int                 `json:"duplicates"`
	Filtered   int                 `json:"filtered"` // samples outside the requested range
	Excluded   int                 `json:"excluded"` // out-of-bounds samples left out of the analyses
	RowErrors  []ingest.ParseError `json:"row_errors,omitempty"`
	Empty      string              `json:"empty,omitempty"`
}

// Report is the complete output of Build
type Report struct {
	ID          string      `json:"id"`
	GeneratedAt time.Time   `json:"generated_at"`
	Timezone    string      `json:"timezone"`
	Threshold   float64     `json:"threshold"`
	Window      string      `json:"window"`
	Empty       bool        `json:"empty"`
	Days        []*Analysis `json:"days"`
	Overall     *Analysis   `json:"overall"`
	Diagnostics Diagnostics `json:"diagnostics"`
	Published   bool        `json:"published"`
}

// Analyze runs the quality, summary, hot-window and threshold analyses of
// series concurrently and composes the section text.
func (s *ReportService) Analyze(ctx context.Context, series analytics.Series, opts AnalysisOptions) (*Analysis, error) {
	return s.analyze(ctx, "", series, opts)
}

func (s *ReportService) analyze(ctx context.Context, label string, series analytics.Series, opts AnalysisOptions) (*Analysis, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	minSamples := opts.MinSamples
	if minSamples < 1 {
		minSamples = 1
	}

	analysed, inRange, outOfRange := usableSeries(series, opts)
	if outOfRange == nil {
		outOfRange = analytics.Series{}
	}

	a := &Analysis{
		Label: label,
		Quality: QualityFacts{
			InRange:    len(inRange),
			OutOfRange: outOfRange,
		},
	}

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.Quality.Gaps = quality.DetectGaps(series, opts.Quality.MaxGap)
		return nil
	})
	g.Go(func() error {
		a.Summary = summary.Summarize(analysed)
		return nil
	})
	g.Go(func() error {
		a.HotWindow = hotwindow.Find(analysed, hotwindow.Options{Duration: opts.Window, MinSamples: minSamples})
		return nil
	})
	g.Go(func() error {
		a.Intervals, a.Coverage = threshold.Analyze(analysed, opts.Threshold)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if a.Intervals == nil {
		a.Intervals = []threshold.Interval{}
	}
	if a.Quality.Gaps == nil {
		a.Quality.Gaps = []quality.Gap{}
	}

	a.text = report.Compose(report.Facts{
		Title:      opts.Title,
		Day:        label,
		Summary:    a.Summary,
		HotWindow:  a.HotWindow,
		Window:     opts.Window,
		Threshold:  opts.Threshold,
		Intervals:  a.Intervals,
		Coverage:   a.Coverage,
		Disclaimer: opts.Disclaimer,
		Location:   opts.Location,
	})
	a.Lines = a.text.Lines
	a.Warnings = a.text.WarningMessages()

	return a, nil
}

// usableSeries partitions series by the plausibility bounds and returns the
// samples the summary, hot-window and threshold analyses run on
func usableSeries(series analytics.Series, opts AnalysisOptions) (analysed, inRange, outOfRange analytics.Series) {
	inRange, outOfRange = quality.PartitionOutliers(series, opts.Quality.Bounds)
	analysed = series
	if opts.ExcludeOutliers {
		analysed = inRange
	}
	return analysed, inRange, outOfRange
}

// Build produces the per-day sections and the whole-range section for a
// normalized result. A range without samples yields a report flagged Empty
// with ErrEmptySeries in its diagnostics.
func (s *ReportService) Build(ctx context.Context, res *ingest.Result, opts AnalysisOptions) (*Report, error) {
	if res == nil {
		return nil, NewServiceError(CodeInvalidInput, "no normalized input")
	}
	if !opts.From.IsZero() && !opts.To.IsZero() && !opts.From.Before(opts.To) {
		return nil, NewServiceErrorWithDetails(CodeInvalidRange, "from must be before to", map[string]interface{}{
			"from": opts.From,
			"to":   opts.To,
		})
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}

	startExec := time.Now()
	rep := &Report{
		ID:          uuid.New().String(),
		GeneratedAt: startExec.UTC(),
		Timezone:    opts.Location.String(),
		Threshold:   opts.Threshold,
		Window:      opts.Window.String(),
		Days:        []*Analysis{},
		Diagnostics: Diagnostics{
			Rows:       res.Rows,
			Dropped:    res.Dropped,
			Duplicates: res.Duplicates,
			RowErrors:  res.RowErrors,
		},
	}
	ctx = logging.WithReportID(ctx, rep.ID)
	log := s.logger.WithContext(ctx)

	series := res.Series.Between(opts.From, opts.To)
	rep.Diagnostics.Filtered = len(res.Series) - len(series)

	usable, _, _ := usableSeries(series, opts)
	rep.Diagnostics.Excluded = len(series) - len(usable)

	overall, err := s.analyze(ctx, "", series, opts)
	if err != nil {
		return nil, err
	}
	rep.Overall = overall

	if usable.Empty() {
		rep.Empty = true
		rep.Diagnostics.Empty = ErrEmptySeries.Error()
		log.Warn("Report has no usable samples",
			"rows", res.Rows,
			"dropped", res.Dropped,
			"filtered", rep.Diagnostics.Filtered,
			"excluded", rep.Diagnostics.Excluded)
		return rep, nil
	}

	days := analytics.SplitByDay(series, opts.Location)
	rep.Days = make([]*Analysis, len(days))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, day := range days {
		i, day := i, day
		g.Go(func() error {
			a, err := s.analyze(gctx, day.Date, day.Series, opts)
			if err != nil {
				return fmt.Errorf("day %s: %w", day.Date, err)
			}
			rep.Days[i] = a
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	log.Info("Report built",
		"samples", len(series),
		"days", len(days),
		"intervals", len(overall.Intervals),
		"latency_ms", time.Since(startExec).Milliseconds())

	rep.Published = s.publish(ctx, rep)
	return rep, nil
}

// publish hands rep to the configured publisher. Failures are logged and
// reported through the return value only.
func (s *ReportService) publish(ctx context.Context, rep *Report) bool {
	if s.publisher == nil {
		return false
	}

	data, err := json.Marshal(rep)
	if err != nil {
		s.logger.WithContext(ctx).Error("Failed to encode report", "error", err)
		return false
	}

	pubCtx, cancel := context.WithTimeout(ctx, utils.PublishTimeout)
	defer cancel()

	if err := s.publisher.Publish(pubCtx, s.subject, data); err != nil {
		s.logger.WithContext(ctx).Warn("Failed to publish report",
			"subject", s.subject,
			"error", err)
		return false
	}
	return true
}
