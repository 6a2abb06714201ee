package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/soltixdb/thermalreport/internal/config"
	"github.com/soltixdb/thermalreport/internal/ingest"
	"github.com/soltixdb/thermalreport/internal/logging"
	"github.com/soltixdb/thermalreport/internal/queue"
	"github.com/soltixdb/thermalreport/internal/services"
	_ "modernc.org/sqlite"
)

type options struct {
	configPath string
	csvPath    string
	sqlitePath string
	query      string
	thingSpeak bool
	from       string
	to         string
	jsonOut    bool
	publish    bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var opts options

	fs := flag.NewFlagSet("thermalreport", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.configPath, "config", "", "Path to configuration file")
	fs.StringVar(&opts.csvPath, "csv", "", "CSV file to analyse (.sz for snappy framed)")
	fs.StringVar(&opts.sqlitePath, "sqlite", "", "SQLite database to read readings from")
	fs.StringVar(&opts.query, "query", "", "SQL query returning the configured columns (with -sqlite)")
	fs.BoolVar(&opts.thingSpeak, "thingspeak", false, "Fetch the ThingSpeak channel from the config")
	fs.StringVar(&opts.from, "from", "", "Only samples at or after this time")
	fs.StringVar(&opts.to, "to", "", "Only samples before this time; a bare date includes that day")
	fs.BoolVar(&opts.jsonOut, "json", false, "Print the report as JSON")
	fs.BoolVar(&opts.publish, "publish", false, "Publish the report to the configured queue")

	if err := fs.Parse(args); err != nil {
		return opts, err
	}

	sources := 0
	for _, set := range []bool{opts.csvPath != "", opts.sqlitePath != "", opts.thingSpeak} {
		if set {
			sources++
		}
	}
	if sources != 1 {
		return opts, errors.New("exactly one of -csv, -sqlite or -thingspeak is required")
	}
	if opts.sqlitePath != "" && opts.query == "" {
		return opts, errors.New("-query is required with -sqlite")
	}
	return opts, nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}

	// Report output owns stdout
	logCfg := cfg.Logging
	if logCfg.OutputPath == "" || logCfg.OutputPath == "stdout" {
		logCfg.OutputPath = "stderr"
	}
	logger, err := logging.NewFromConfig(logCfg)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	logging.SetGlobal(logger)

	analysis := services.OptionsFromConfig(cfg.Analysis)
	if opts.from != "" {
		if analysis.From, err = ingest.ParseTimestamp(opts.from); err != nil {
			return fmt.Errorf("invalid -from: %w", err)
		}
	}
	if opts.to != "" {
		if analysis.To, err = ingest.ParseRangeEnd(opts.to); err != nil {
			return fmt.Errorf("invalid -to: %w", err)
		}
	}

	table, cols, err := loadTable(ctx, opts, cfg)
	if err != nil {
		return err
	}

	res, err := ingest.Normalize(table, cols)
	if err != nil {
		return err
	}

	var publisher queue.Publisher
	if opts.publish {
		if publisher, err = queue.NewPublisher(cfg.Queue); err != nil {
			return fmt.Errorf("failed to connect to queue: %w", err)
		}
		if publisher != nil {
			defer func() { _ = publisher.Close() }()
		}
	}

	svc := services.NewReportService(logger, publisher, cfg.Queue.Subject)
	rep, err := svc.Build(ctx, res, analysis)
	if err != nil {
		return err
	}

	if opts.jsonOut {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(rep)
	}
	printReport(stdout, stderr, rep)
	return nil
}

// loadTable reads the selected source and returns it with the columns that map it
func loadTable(ctx context.Context, opts options, cfg *config.Config) (ingest.Table, ingest.Columns, error) {
	switch {
	case opts.csvPath != "":
		t, err := ingest.OpenCSVFile(opts.csvPath)
		return t, cfg.Columns, err

	case opts.sqlitePath != "":
		db, err := sql.Open("sqlite", opts.sqlitePath)
		if err != nil {
			return ingest.Table{}, ingest.Columns{}, fmt.Errorf("failed to open %s: %w", opts.sqlitePath, err)
		}
		defer func() { _ = db.Close() }()

		t, err := ingest.LoadSQL(ctx, db, opts.query)
		return t, cfg.Columns, err

	default:
		req := cfg.ThingSpeak.FeedRequest()
		client := ingest.NewThingSpeakClient(cfg.ThingSpeak.BaseURL, cfg.ThingSpeak.Timeout)

		fetchCtx, cancel := context.WithTimeout(ctx, client.HTTPClient.Timeout+time.Second)
		defer cancel()

		t, err := client.Fetch(fetchCtx, req)
		return t, req.Columns(), err
	}
}

// printReport writes one block per day, followed by the whole range when it
// spans more than one day. Warnings go to stderr.
func printReport(stdout, stderr io.Writer, rep *services.Report) {
	sections := rep.Days
	if len(sections) != 1 {
		sections = append(sections, rep.Overall)
	}

	for i, a := range sections {
		if i > 0 {
			fmt.Fprintln(stdout)
		}
		fmt.Fprintln(stdout, strings.Join(a.Lines, "\n"))
		for _, w := range a.Warnings {
			label := a.Label
			if label == "" {
				label = "range"
			}
			fmt.Fprintf(stderr, "warning (%s): %s\n", label, w)
		}
	}

	if rep.Diagnostics.Dropped > 0 || rep.Diagnostics.Duplicates > 0 {
		fmt.Fprintf(stderr, "%d of %d rows dropped, %d duplicate timestamps merged\n",
			rep.Diagnostics.Dropped, rep.Diagnostics.Rows, rep.Diagnostics.Duplicates)
	}
}
