package charts

// The single linear run: fetch the three snapshots, derive the chart set,
// render everything into memory, then write the artifacts atomically. Any
// failure before the write phase leaves the output directory untouched.

import (
	"context"
	"path/filepath"

	"github.com/shreyashinde0507/idigbio-live-charts/internal/clients_api/idigbio"
	"github.com/shreyashinde0507/idigbio-live-charts/internal/infra/fs"
	logging "github.com/shreyashinde0507/idigbio-live-charts/internal/infra/log"

	"go.uber.org/zap"
)

// PipelineConfig is everything one run needs. Dates are YYYY-MM-DD.
type PipelineConfig struct {
	Recordset      string
	MonthlyMinDate string
	OverallMinDate string
	MaxDate        string
	OutDir         string
}

type chartDef struct {
	stem   string
	title  string
	logY   bool
	series []Series
}

type artifact struct {
	path string
	data []byte
}

// RunPipeline executes one full update and returns the paths written.
func RunPipeline(ctx context.Context, client *idigbio.Client, cfg PipelineConfig) ([]string, error) {
	monthly, err := client.FetchMonthlyUsage(ctx, cfg.Recordset, cfg.MonthlyMinDate)
	if err != nil {
		return nil, err
	}
	ingest, err := client.FetchIngestStats(ctx, cfg.Recordset, cfg.OverallMinDate, cfg.MaxDate)
	if err != nil {
		return nil, err
	}
	use, err := client.FetchUseStats(ctx, cfg.Recordset, cfg.OverallMinDate, cfg.MaxDate)
	if err != nil {
		return nil, err
	}

	defs := []chartDef{
		{
			stem:   "usage_monthly",
			title:  "Monthly Usage",
			series: MonthlySeries(monthly, "search_count", "download_count"),
		},
		{
			stem:   "ingest_metrics",
			title:  "Data Ingestion Metrics (annual)",
			logY:   true,
			series: MetricSeries(ingest),
		},
		{
			stem:   "search_download",
			title:  "Search Events vs Download Events (annual)",
			logY:   true,
			series: AnnualSeries(use, "search_count", "download_count"),
		},
		{
			stem:   "usage_vs_viewed",
			title:  "Downloaded vs Viewed (annual)",
			logY:   true,
			series: AnnualSeries(use, "download_count", "viewed_records", "viewed_media"),
		},
		{
			stem:   "usage_ratios",
			title:  "Usage Ratios (annual)",
			logY:   true,
			series: Ratios(use),
		},
	}

	// Render phase: everything in memory before the first byte hits disk.
	var artifacts []artifact
	for _, def := range defs {
		png, err := RenderLineChart(def.title, def.series, def.logY)
		if err != nil {
			return nil, err
		}
		html, err := RenderHTMLChart(def.title, def.series, def.logY)
		if err != nil {
			return nil, err
		}
		artifacts = append(artifacts,
			artifact{path: filepath.Join(cfg.OutDir, def.stem+".png"), data: png},
			artifact{path: filepath.Join(cfg.OutDir, def.stem+".html"), data: html},
		)
	}

	// Write phase: atomic per artifact.
	if err := fs.EnsureDir(cfg.OutDir); err != nil {
		return nil, err
	}
	paths := make([]string, 0, len(artifacts))
	for _, a := range artifacts {
		if err := fs.WriteFileAtomic(a.path, a.data); err != nil {
			return nil, err
		}
		paths = append(paths, a.path)
	}

	logging.LogSuccess("All charts generated",
		zap.String("recordset", cfg.Recordset),
		zap.String("out_dir", cfg.OutDir),
		zap.Int("artifacts", len(paths)))
	return paths, nil
}
