package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/rshade/ecofocus/internal/config"
	"github.com/rshade/ecofocus/internal/engine"
	"github.com/rshade/ecofocus/internal/engine/cache"
	"github.com/rshade/ecofocus/internal/greenops"
	"github.com/rshade/ecofocus/internal/predictor"
)

// defaultPredictConcurrency is the number of goroutines used for batch predictions.
const defaultPredictConcurrency = 4

// metricsRow is one variant's metrics in a flat form for ndjson.
type metricsRow struct {
	Variant predictor.Variant `json:"variant"`
	predictor.Metrics
}

func newModelTrainCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "train",
		Short: "Train every model variant on synthetic data",
		Long: `Generates the synthetic training set, fits every model variant and prints
held-out and cross-validated metrics. The report is cached for 'model report'.`,
		Example: `  ecofocus model train
  ecofocus model train --output json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := outputFormat(cmd)
			if err != nil {
				return err
			}
			cfg := config.GetGlobalConfig()
			eng, err := newEngine(nil, cfg, 0)
			if err != nil {
				return err
			}
			report, err := eng.Train(cmd.Context())
			if err != nil {
				return fmt.Errorf("training models: %w", err)
			}
			if err = cacheReport(cfg, report); err != nil {
				logger.Warn().Ctx(cmd.Context()).Err(err).Msg("could not cache model report")
			}
			return renderTrainReport(cmd.OutOrStdout(), format, report, nil)
		},
	}
}

func newModelReportCmd() *cobra.Command {
	var refresh bool

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Show the last training report",
		Long: `Shows the cached training report, training first when no fresh report is
cached. The cache lifetime is model.report_ttl.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := outputFormat(cmd)
			if err != nil {
				return err
			}
			cfg := config.GetGlobalConfig()
			store, err := cache.NewFileStore(cfg.Storage.CacheDir, cfg.ReportTTL())
			if err != nil {
				return err
			}
			key := reportCacheKey(cfg)

			if !refresh {
				report, entry, loadErr := cache.LoadJSON[predictor.Report](store, key)
				if loadErr == nil {
					return renderTrainReport(cmd.OutOrStdout(), format, report, entry)
				}
				logger.Debug().Ctx(cmd.Context()).Err(loadErr).Msg("model report cache miss")
			}

			eng, err := newEngine(nil, cfg, 0)
			if err != nil {
				return err
			}
			report, err := eng.Train(cmd.Context())
			if err != nil {
				return fmt.Errorf("training models: %w", err)
			}
			if err = cache.SaveJSON(store, key, report); err != nil {
				logger.Warn().Ctx(cmd.Context()).Err(err).Msg("could not cache model report")
			}
			return renderTrainReport(cmd.OutOrStdout(), format, report, nil)
		},
	}

	cmd.Flags().BoolVar(&refresh, "refresh", false, "retrain even when a cached report is fresh")
	return cmd
}

// reportCacheKey identifies a report by the settings that shape it.
func reportCacheKey(cfg *config.Config) string {
	return cache.Key(
		"model-report",
		strconv.FormatUint(cfg.Model.Seed, 10),
		strconv.Itoa(cfg.Model.TrainingRows),
		strconv.Itoa(cfg.Model.Estimators),
		strconv.Itoa(cfg.Model.CVFolds),
	)
}

func cacheReport(cfg *config.Config, report predictor.Report) error {
	store, err := cache.NewFileStore(cfg.Storage.CacheDir, cfg.ReportTTL())
	if err != nil {
		return err
	}
	return cache.SaveJSON(store, reportCacheKey(cfg), report)
}

func renderTrainReport(w io.Writer, format string, report predictor.Report, cached *cache.Entry) error {
	variants := make([]predictor.Variant, 0, len(report.Variants))
	for v := range report.Variants {
		variants = append(variants, v)
	}
	slices.Sort(variants)
	rows := make([]metricsRow, 0, len(variants))
	for _, v := range variants {
		rows = append(rows, metricsRow{Variant: v, Metrics: report.Variants[v]})
	}

	if handled, err := renderStructured(w, format, report, rows); handled {
		return err
	}

	writeSection(w, "MODEL TRAINING REPORT")
	fmt.Fprintf(w, "Bundle: %s\n", report.BundleID)
	fmt.Fprintf(w, "Trained: %s\n", report.TrainedAt.Format(time.RFC3339))
	fmt.Fprintf(w, "Rows: %d (train %d, test %d)\n", report.Rows, report.TrainRows, report.TestRows)
	if cached != nil {
		fmt.Fprintf(w, "Cached: %s ago (expires %s)\n",
			cache.FormatDuration(cached.Age(time.Now()).Round(time.Second)),
			cached.ExpiresAt.Format(time.RFC3339))
	}
	fmt.Fprintln(w)

	tw := newTable(w)
	fmt.Fprintln(tw, "VARIANT\tRMSE\tMSE\tR2\tCV R2")
	fmt.Fprintln(tw, "-------\t----\t---\t--\t-----")
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%.4f\t%.4f ± %.4f (%d folds)\n",
			r.Variant,
			greenops.FormatFloat(r.RMSE, 1),
			greenops.FormatFloat(r.MSE, 0),
			r.R2, r.CVMean, r.CVStd, r.CVFolds)
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("flushing table writer: %w", err)
	}
	return nil
}

func newModelPredictCmd() *cobra.Command {
	var (
		file        string
		variant     string
		concurrency int
	)

	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Predict annual footprints from household profiles",
		Long: `Predicts the annual carbon footprint (kg CO2/year) of one profile or a list
of profiles read from a YAML or JSON file ("-" reads YAML/JSON from stdin).
Models are trained on first use.`,
		Example: `  # Single profile
  ecofocus model predict --file profile.yaml

  # Many profiles with a specific model
  ecofocus model predict --file households.json --variant random_forest`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := outputFormat(cmd)
			if err != nil {
				return err
			}
			v, err := parseVariantFlag(variant)
			if err != nil {
				return err
			}
			profiles, err := readProfiles(cmd.InOrStdin(), file)
			if err != nil {
				return err
			}

			eng, err := newEngine(nil, config.GetGlobalConfig(), 0)
			if err != nil {
				return err
			}
			var preds []engine.Prediction
			if len(profiles) == 1 {
				p, predErr := eng.Predict(cmd.Context(), profiles[0], v)
				if predErr != nil {
					return predErr
				}
				preds = []engine.Prediction{p}
			} else {
				preds, err = eng.PredictAll(cmd.Context(), profiles, v, concurrency)
				if err != nil {
					return err
				}
			}
			return renderPredictions(cmd.OutOrStdout(), format, preds)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "YAML or JSON profile file, or - for stdin (required)")
	cmd.Flags().StringVar(&variant, "variant", "", "model variant (default from config)")
	cmd.Flags().IntVar(&concurrency, "concurrency", defaultPredictConcurrency, "parallel workers for lists")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

// parseVariantFlag validates a --variant value. Empty stays empty so the
// engine falls back to model.variant.
func parseVariantFlag(s string) (predictor.Variant, error) {
	if s == "" {
		return "", nil
	}
	return predictor.ParseVariant(s)
}

// readProfiles decodes a list of feature vectors or a single one.
func readProfiles(stdin io.Reader, path string) ([]predictor.FeatureVector, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("reading profiles: %w", err)
	}

	decode := yaml.Unmarshal
	if strings.EqualFold(filepath.Ext(path), ".json") {
		decode = json.Unmarshal
	}

	var list []predictor.FeatureVector
	if err = decode(data, &list); err == nil {
		if len(list) == 0 {
			return nil, errors.New("no profiles in input")
		}
		return list, nil
	}
	var single predictor.FeatureVector
	if err = decode(data, &single); err != nil {
		return nil, fmt.Errorf("parsing profiles: %w", err)
	}
	return []predictor.FeatureVector{single}, nil
}

func renderPredictions(w io.Writer, format string, preds []engine.Prediction) error {
	if handled, err := renderStructured(w, format, preds, preds); handled {
		return err
	}

	tw := newTable(w)
	fmt.Fprintln(tw, "#\tVARIANT\tANNUAL FOOTPRINT\tLEVEL")
	fmt.Fprintln(tw, "-\t-------\t----------------\t-----")
	for i, p := range preds {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n",
			i+1, p.Variant, greenops.FormatEmissions(p.Value), greenops.EmissionLevel(p.Value/greenops.DaysPerYear))
	}
	return tw.Flush()
}

func newModelImportanceCmd() *cobra.Command {
	var (
		variant string
		top     int
	)

	cmd := &cobra.Command{
		Use:   "importance",
		Short: "Show which features drive predictions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := outputFormat(cmd)
			if err != nil {
				return err
			}
			v, err := parseVariantFlag(variant)
			if err != nil {
				return err
			}
			eng, err := newEngine(nil, config.GetGlobalConfig(), 0)
			if err != nil {
				return err
			}
			if v == "" {
				v = eng.Config().Variant
			}
			imps, err := eng.FeatureImportance(cmd.Context(), v)
			if err != nil {
				return err
			}
			if top > 0 && top < len(imps) {
				imps = imps[:top]
			}

			w := cmd.OutOrStdout()
			if handled, err := renderStructured(w, format, imps, imps); handled {
				return err
			}
			writeSection(w, "FEATURE IMPORTANCE ("+string(v)+")")
			tw := newTable(w)
			fmt.Fprintln(tw, "FEATURE\tIMPORTANCE")
			fmt.Fprintln(tw, "-------\t----------")
			for _, imp := range imps {
				fmt.Fprintf(tw, "%s\t%.4f\n", imp.Feature, imp.Importance)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().StringVar(&variant, "variant", "", "model variant (default from config)")
	cmd.Flags().IntVar(&top, "top", 0, "show only the N most important features")
	return cmd
}
