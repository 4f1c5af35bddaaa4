package commands

// The update command runs one full chart refresh: fetch, aggregate, render,
// write. Exit status is the whole contract; the external scheduler commits
// the artifacts and retries on the next cadence.

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/shreyashinde0507/idigbio-live-charts/internal/clients_api/idigbio"
	"github.com/shreyashinde0507/idigbio-live-charts/internal/config"
	"github.com/shreyashinde0507/idigbio-live-charts/internal/features/charts"
	"github.com/shreyashinde0507/idigbio-live-charts/internal/infra/log"
	"github.com/shreyashinde0507/idigbio-live-charts/internal/notify"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Fetch recordset statistics and regenerate all charts",
	Long: `Fetch monthly usage, annual ingestion and annual usage statistics for the
given recordset from the iDigBio summary API and write the chart artifacts
into the output directory, overwriting the previous run.`,
	RunE: runUpdate,
}

func init() {
	updateCmd.Flags().String("recordset", "", "UUID of the iDigBio recordset (env: IDIGBIO_RECORDSET)")
	updateCmd.Flags().String("monthly_min_date", "", "Earliest date (YYYY-MM-DD) for monthly stats (default: Jan 1 of this year)")
	updateCmd.Flags().String("overall_min_date", "", "Earliest date (YYYY-MM-DD) for annual stats")
	updateCmd.Flags().String("max_date", "", "Latest date (YYYY-MM-DD) for annual stats (default: today)")
	updateCmd.Flags().String("out_dir", "", "Directory to save generated charts (env: CHARTS_OUT_DIR)")
}

func runUpdate(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return err
	}

	client := idigbio.NewClient(
		cfg.API.BaseURL,
		time.Duration(cfg.API.RequestTimeout)*time.Second,
		cfg.API.MaxRetries,
	)

	paths, err := charts.RunPipeline(ctx, client, charts.PipelineConfig{
		Recordset:      cfg.Recordset,
		MonthlyMinDate: cfg.MonthlyMinDate,
		OverallMinDate: cfg.OverallMinDate,
		MaxDate:        cfg.MaxDate,
		OutDir:         cfg.OutDir,
	})
	if err != nil {
		log.LogError("Chart update failed", zap.Error(err))
		return err
	}

	log.LogSuccess("Chart update complete",
		zap.String("recordset", cfg.Recordset),
		zap.Int("artifacts", len(paths)))

	sendNotification(cfg, paths)
	return nil
}

// sendNotification posts the monthly usage chart to Telegram when delivery
// is configured. Failures are warnings only.
func sendNotification(cfg *config.Config, paths []string) {
	notifier, err := notify.New(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
	if err != nil {
		log.LogWarn("Telegram notifier unavailable", zap.Error(err))
		return
	}
	if notifier == nil {
		return
	}
	for _, path := range paths {
		if strings.HasSuffix(path, "usage_monthly.png") {
			caption := "Monthly usage charts updated for recordset " + cfg.Recordset
			if err := notifier.SendChart(path, caption); err != nil {
				log.LogWarn("Failed to send chart to Telegram", zap.Error(err))
			}
			return
		}
	}
}
