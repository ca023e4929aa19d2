package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"tradelens/internal/analysis"
	"tradelens/internal/cluster"
	"tradelens/internal/convert"
	"tradelens/internal/export"
	"tradelens/internal/forecast"
	"tradelens/internal/normalize"
	"tradelens/internal/rates"
	"tradelens/internal/table"
	"tradelens/pkg/config"
	"tradelens/pkg/hooks"
	"tradelens/pkg/storage"
)

const usage = `usage: tradelens <command> [flags]

commands:
  standardize   normalize text columns of a sheet
  kg            convert quantities to kilograms
  usd           add USD companions for value columns
  cluster       add a cluster column for a text column
  analyze       run a cluster analysis
  periods       compute time-based averages
  forecast      forecast a cluster's monthly values
  export        write a color-coded clustered workbook
`

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Error("load config", "error", err)
		os.Exit(1)
	}

	var runErr error
	switch os.Args[1] {
	case "standardize":
		runErr = runStandardize(os.Args[2:])
	case "kg":
		runErr = runKg(cfg, os.Args[2:])
	case "usd":
		runErr = runUSD(cfg, logger, os.Args[2:])
	case "cluster":
		runErr = runCluster(cfg, os.Args[2:])
	case "analyze":
		runErr = runAnalyze(logger, os.Args[2:])
	case "periods":
		runErr = runPeriods(logger, os.Args[2:])
	case "forecast":
		runErr = runForecast(cfg, logger, os.Args[2:])
	case "export":
		runErr = runExport(cfg, os.Args[2:])
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	if runErr != nil {
		logger.Error(os.Args[1], "error", runErr)
		os.Exit(1)
	}
}

func runStandardize(args []string) error {
	fs := flag.NewFlagSet("standardize", flag.ExitOnError)
	in := fs.String("in", "", "input sheet (.csv or .xlsx)")
	out := fs.String("out", "", "output CSV path (default: stdout)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	t, err := loadSheet(*in)
	if err != nil {
		return err
	}
	normalize.Table(t, normalize.DetectStringColumns(t))
	return writeCSV(t, *out)
}

func runKg(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("kg", flag.ExitOnError)
	in := fs.String("in", "", "input sheet")
	out := fs.String("out", "", "output CSV path (default: stdout)")
	unitCol := fs.String("unit-col", "Unit", "unit column name")
	qtyCol := fs.String("qty-col", "Quantity", "quantity column name")
	deletedOut := fs.String("deleted-out", "", "optional CSV path for the deleted-rows log")
	if err := fs.Parse(args); err != nil {
		return err
	}

	t, err := loadSheet(*in)
	if err != nil {
		return err
	}
	res, err := convert.ToKilograms(t, *unitCol, *qtyCol)
	if err != nil {
		return err
	}
	slog.Info("unit conversion done", "converted", res.Converted, "deleted", len(res.Deleted))

	if *deletedOut != "" && len(res.Deleted) > 0 {
		data, err := convert.DeletedRowsCSV(res.Deleted)
		if err != nil {
			return err
		}
		if err := saveArtifact(cfg, *deletedOut, "text/csv", data); err != nil {
			return fmt.Errorf("save deleted-rows log: %w", err)
		}
	}
	return writeCSV(res.Table, *out)
}

func runUSD(cfg *config.Config, logger *slog.Logger, args []string) error {
	fs := flag.NewFlagSet("usd", flag.ExitOnError)
	in := fs.String("in", "", "input sheet")
	out := fs.String("out", "", "output CSV path (default: stdout)")
	currencyCol := fs.String("currency-col", "Currency", "currency code column")
	valueCols := fs.String("value-cols", "", "comma-separated value columns")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *valueCols == "" {
		return fmt.Errorf("usd: -value-cols is required")
	}

	t, err := loadSheet(*in)
	if err != nil {
		return err
	}

	source := rates.NewClient(cfg.Rates.BaseURL, cfg.Rates.APIKey, cfg.Rates.Timeout, logger)
	conv := convert.NewCurrencyConverter(source, logger)
	converted, err := conv.SheetToUSD(context.Background(), t, *currencyCol, splitCols(*valueCols), slogHooks(logger))
	if err != nil {
		return err
	}
	return writeCSV(converted, *out)
}

func runCluster(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("cluster", flag.ExitOnError)
	in := fs.String("in", "", "input sheet")
	out := fs.String("out", "", "output CSV path (default: stdout)")
	col := fs.String("col", "", "column to cluster")
	variant := fs.String("variant", "fuzzy", "clustering variant: fuzzy or core")
	threshold := fs.Int("threshold", cfg.Cluster.Threshold, "fuzzy similarity threshold (0-100)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *col == "" {
		return fmt.Errorf("cluster: -col is required")
	}

	t, err := loadSheet(*in)
	if err != nil {
		return err
	}

	v := cluster.Fuzzy
	if *variant == "core" {
		v = cluster.Deterministic
	}
	asg, err := cluster.AddClusterColumn(t, *col, v, *threshold)
	if err != nil {
		return err
	}
	slog.Info("clustered", "column", *col, "clusters", len(asg.Canonicals))
	return writeCSV(t, *out)
}

func runAnalyze(logger *slog.Logger, args []string) error {
	fs := flag.NewFlagSet("analyze", flag.ExitOnError)
	in := fs.String("in", "", "input sheet")
	out := fs.String("out", "", "output CSV path (default: stdout)")
	kind := fs.String("type", string(analysis.ClusterSummary), "analysis type")
	clusterCol := fs.String("cluster-col", "", "cluster column name")
	target := fs.String("target", "", "target numeric column")
	groupBy := fs.String("group-by", "", "categorical column for cluster_by_category")
	selected := fs.String("clusters", "", "comma-separated clusters to include (default: all)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	t, err := loadSheet(*in)
	if err != nil {
		return err
	}

	result, msg := analysis.ClusterAnalysis(t, analysis.ClusterRequest{
		Type:       analysis.AnalysisType(*kind),
		ClusterCol: *clusterCol,
		TargetCol:  *target,
		GroupByCol: *groupBy,
		Selected:   splitCols(*selected),
	})
	logger.Info("analysis", "type", *kind, "message", msg)
	if result == nil {
		return fmt.Errorf("%s", msg)
	}
	return writeCSV(result, *out)
}

func runPeriods(logger *slog.Logger, args []string) error {
	fs := flag.NewFlagSet("periods", flag.ExitOnError)
	in := fs.String("in", "", "input sheet")
	dateCol := fs.String("date-col", "Month", "date column name")
	valueCol := fs.String("value-col", "", "numeric column to average")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *valueCol == "" {
		return fmt.Errorf("periods: -value-col is required")
	}

	t, err := loadSheet(*in)
	if err != nil {
		return err
	}

	averages, msg := analysis.FullPeriodicAnalysis(t, *dateCol, *valueCol)
	logger.Info("periods", "message", msg)
	if averages == nil {
		return fmt.Errorf("%s", msg)
	}
	for _, part := range []*table.Table{averages.Monthly, averages.Quarterly, averages.FiscalYear, averages.CalendarYear} {
		if err := writeCSV(part, ""); err != nil {
			return err
		}
	}
	return nil
}

func runForecast(cfg *config.Config, logger *slog.Logger, args []string) error {
	fs := flag.NewFlagSet("forecast", flag.ExitOnError)
	in := fs.String("in", "", "input sheet")
	clusterCol := fs.String("cluster-col", "", "cluster column name")
	item := fs.String("item", "", "cluster value to forecast")
	valueCol := fs.String("value-col", "", "numeric column to forecast")
	dateCol := fs.String("date-col", "Month", "date column name")
	pngOut := fs.String("png", "", "optional PNG chart output path")
	if err := fs.Parse(args); err != nil {
		return err
	}

	t, err := loadSheet(*in)
	if err != nil {
		return err
	}

	res, msg := forecast.ForecastCluster(t, forecast.NewHolt(), forecast.Request{
		ClusterCol: *clusterCol,
		ItemName:   *item,
		ValueCol:   *valueCol,
		DateCol:    *dateCol,
		Horizon:    cfg.Forecast.HorizonMonths,
	})
	logger.Info("forecast", "message", msg)
	if res == nil {
		return fmt.Errorf("%s", msg)
	}
	logger.Info("forecast trend", "trend", res.Trend)
	for i, m := range res.ForecastMonths {
		fmt.Printf("%s,%.2f\n", m.Format("2006-01"), res.Forecast[i])
	}

	if *pngOut != "" {
		png, err := forecast.RenderPNG(res, fmt.Sprintf("%s Forecast for %s", *valueCol, *item))
		if err != nil {
			return err
		}
		if err := saveArtifact(cfg, *pngOut, "image/png", png); err != nil {
			return fmt.Errorf("save chart: %w", err)
		}
	}
	return nil
}

func runExport(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	in := fs.String("in", "", "input sheet")
	col := fs.String("col", "", "clustered column name")
	out := fs.String("out", "clustered.xlsx", "workbook artifact name")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *col == "" {
		return fmt.Errorf("export: -col is required")
	}

	t, err := loadSheet(*in)
	if err != nil {
		return err
	}
	data, err := export.ColoredWorkbook(t, *col)
	if err != nil {
		return err
	}
	if err := saveArtifact(cfg, *out, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	slog.Info("workbook exported", "rows", t.Len())
	return nil
}

// pipelineRun groups every artifact this invocation saves.
var pipelineRun = uuid.New()

// saveArtifact writes one output into the run-scoped artifact store rooted
// at the configured export directory.
func saveArtifact(cfg *config.Config, name, contentType string, data []byte) error {
	store, err := storage.NewLocal(cfg.Export.OutputDir)
	if err != nil {
		return err
	}
	info, err := store.Save(context.Background(), pipelineRun, name, contentType, bytes.NewReader(data))
	if err != nil {
		return err
	}
	slog.Info("artifact saved", "run_id", pipelineRun, "name", info.Name, "path", info.Path, "bytes", info.Size)
	return nil
}

func loadSheet(path string) (*table.Table, error) {
	if path == "" {
		return nil, fmt.Errorf("-in is required")
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return table.LoadExcel(f)
	default:
		return table.LoadCSV(f)
	}
}

func writeCSV(t *table.Table, path string) error {
	data, err := t.CSVBytes()
	if err != nil {
		return err
	}
	if path == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}

func splitCols(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// slogHooks bridges pipeline progress callbacks onto the structured logger.
func slogHooks(logger *slog.Logger) *hooks.Hooks {
	return &hooks.Hooks{
		OnStatus:  func(msg string) { logger.Info(msg) },
		OnWarning: func(msg string) { logger.Warn(msg) },
		OnSuccess: func(msg string) { logger.Info(msg) },
	}
}
