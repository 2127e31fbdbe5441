package main

import (
	"flag"
	"os"
	"time"

	"github.com/Mtasiu0/GET-305-Data-Analysis/config"
	"github.com/Mtasiu0/GET-305-Data-Analysis/ingest"
	"github.com/Mtasiu0/GET-305-Data-Analysis/models"
	"github.com/Mtasiu0/GET-305-Data-Analysis/report"
	"github.com/Mtasiu0/GET-305-Data-Analysis/services"
	"github.com/Mtasiu0/GET-305-Data-Analysis/storage"
	"github.com/Mtasiu0/GET-305-Data-Analysis/utils"
)

func main() {
	setup := flag.Bool("setup", false, "ingest the CSV, clean it and load PostgreSQL")
	dashboard := flag.Bool("dashboard", false, "generate the HTML dashboard from stored data")
	pdfReport := flag.Bool("report", false, "generate the PDF summary report from stored data")
	excel := flag.Bool("excel", false, "generate the Excel stats workbook from stored data")
	profile := flag.Bool("profile", false, "generate the HTML profiling report from stored data")
	flag.Parse()

	logger := utils.NewLogger()
	cfg := config.Load()

	logger.Info("=== NYC 311 Analysis Pipeline starting ===")
	logger.Info("Config: csv=%s output=%s top-n=%d concurrency=%d",
		cfg.CSVPath, cfg.OutputDir, cfg.TopN, cfg.MaxConcurrency)

	store := connectStore(cfg, logger)
	defer store.Close()

	// No specific flag runs the full pipeline, like the original workflow.
	all := !*setup && !*dashboard && !*pdfReport && !*excel && !*profile

	var excluded *int
	if all || *setup {
		n := runSetup(cfg, store, logger)
		excluded = &n
	}

	if all || *dashboard || *pdfReport || *excel || *profile {
		records, err := store.FetchAll()
		if err != nil {
			logger.Error("Failed to fetch records: %v", err)
			os.Exit(1)
		}
		if len(records) == 0 {
			logger.Error("No stored records. Run with -setup first.")
			os.Exit(1)
		}

		aggregator := services.NewAggregator(logger)
		stats := aggregator.Aggregate(records, cfg.TopN)
		stats.ExcludedRecords = excluded

		if all || *dashboard {
			d := report.NewDashboard(cfg.ScatterSampleSize, logger)
			if err := d.Render(stats, records, cfg.OutputPath("nyc311_dashboard.html")); err != nil {
				logger.Error("Dashboard failed: %v", err)
			}
		}
		if all || *pdfReport {
			p := report.NewPDFReport(logger)
			if err := p.Render(stats, cfg.OutputPath("Report.pdf")); err != nil {
				logger.Error("PDF report failed: %v", err)
			}
		}
		if all || *excel {
			x := report.NewExcelExport(logger)
			if err := x.Render(stats, cfg.OutputPath("nyc311_stats.xlsx")); err != nil {
				logger.Error("Excel export failed: %v", err)
			}
		}
		if all || *profile {
			pr := report.NewProfiler(cfg.ProfileSampleSize, logger)
			if err := pr.Render(records, cfg.OutputPath("nyc311_profile.html")); err != nil {
				logger.Error("Profiling report failed: %v", err)
			}
		}
	}

	logger.Info("=== Pipeline complete. Outputs in %s ===", cfg.OutputDir)
}

func connectStore(cfg *config.Config, logger *utils.Logger) *storage.PostgresStore {
	retry := &utils.RetryConfig{
		MaxAttempts: cfg.MaxRetries,
		BaseDelay:   2 * time.Second,
		Logger:      logger,
	}

	var store *storage.PostgresStore
	err := retry.Do("postgres connect", func() error {
		var err error
		store, err = storage.NewPostgresStore(cfg.DSN())
		return err
	})
	if err != nil {
		logger.Error("Failed to connect to PostgreSQL: %v", err)
		logger.Error("Make sure the database is running: docker compose up -d")
		os.Exit(1)
	}
	return store
}

// runSetup ingests the CSV, runs the cleaning pipeline and loads the store.
// Returns how many structurally broken rows were excluded.
func runSetup(cfg *config.Config, store *storage.PostgresStore, logger *utils.Logger) int {
	reader := ingest.NewReader(logger)
	result, err := reader.ReadFile(cfg.CSVPath)
	if err != nil {
		logger.Error("Ingest failed: %v", err)
		logger.Error("Download the 311 export from NYC Open Data and set CSV_PATH.")
		os.Exit(1)
	}
	if len(result.Records) == 0 {
		logger.Error("CSV contained no records. Exiting.")
		os.Exit(1)
	}
	if result.RepeatedKeys > 0 {
		logger.Warn("Export contains %d repeated unique keys; all rows kept for duplicate counting",
			result.RepeatedKeys)
	}

	normalizer := services.NewNormalizer(services.DefaultBoroughAliases(), logger)
	pipeline := services.NewPipeline(normalizer, cfg.MaxConcurrency, logger)
	derived, excluded := pipeline.Run(result.Records)
	excluded += result.SkippedRows

	if len(derived) == 0 {
		logger.Error("All records were excluded during cleaning. Exiting.")
		os.Exit(1)
	}

	if err := store.Write(derived); err != nil {
		logger.Error("PostgreSQL write failed: %v", err)
		os.Exit(1)
	}
	logger.Info("Stored %d derived records (table: service_requests)", len(derived))

	writeAudit(cfg, derived, logger)
	return excluded
}

// writeAudit exports the cleaned records as CSV next to the other outputs.
func writeAudit(cfg *config.Config, derived []*models.DerivedRecord, logger *utils.Logger) {
	auditWriter, err := storage.NewCSVWriter(cfg.OutputPath("cleaned_records.csv"))
	if err != nil {
		logger.Error("Failed to create audit CSV: %v", err)
		return
	}
	defer auditWriter.Close()

	if err := auditWriter.WriteRecords(derived); err != nil {
		logger.Error("Audit CSV write failed: %v", err)
		return
	}
	logger.Info("Cleaned records exported to %s", cfg.OutputPath("cleaned_records.csv"))
}
