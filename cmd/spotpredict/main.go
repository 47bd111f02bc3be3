package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"spotpredict/internal/config"
	"spotpredict/internal/logging"
	"spotpredict/internal/predict"
	"spotpredict/internal/rtable"
	"spotpredict/internal/xtal"
)

var (
	flagExperiment string
	flagDmin       float64
	flagHKL        string
	flagStills     bool
	flagOut        string
	flagWorkers    int
	flagVerbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "spotpredict",
	Short: "Predict diffraction spot positions on a detector",
	Long: `spotpredict computes where Bragg reflections land on a detector,
either for a rotation sweep (scan-static) or a still exposure.
Experiment geometry is read from a YAML file.`,
	SilenceUsage: true,
}

var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Run spot prediction and write a CSV reflection table",
	RunE:  runPredict,
}

func init() {
	predictCmd.Flags().StringVarP(&flagExperiment, "experiment", "e", "", "experiment YAML file (required)")
	predictCmd.Flags().Float64Var(&flagDmin, "dmin", 0, "resolution limit in angstroms for full enumeration")
	predictCmd.Flags().StringVar(&flagHKL, "hkl", "", "file with one 'h k l' triple per line; overrides --dmin")
	predictCmd.Flags().BoolVar(&flagStills, "stills", false, "treat the experiment as a still exposure")
	predictCmd.Flags().StringVarP(&flagOut, "out", "o", "predictions.csv", "output CSV path, '-' for stdout")
	predictCmd.Flags().IntVar(&flagWorkers, "workers", 0, "worker goroutines, 0 = all CPUs")
	_ = predictCmd.MarkFlagRequired("experiment")

	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "debug logging")
	rootCmd.AddCommand(predictCmd)
}

func runPredict(cmd *cobra.Command, args []string) error {
	log, err := logging.New(flagVerbose)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	exp, err := config.Load(flagExperiment)
	if err != nil {
		return err
	}
	models, err := exp.Build()
	if err != nil {
		return err
	}

	opts := []predict.Option{predict.WithLogger(log)}
	if flagWorkers > 0 {
		opts = append(opts, predict.WithWorkers(flagWorkers))
	}

	var hs []xtal.Miller
	if flagHKL != "" {
		if hs, err = loadHKL(flagHKL); err != nil {
			return err
		}
		log.Debug("loaded index list", zap.String("path", flagHKL), zap.Int("indices", len(hs)))
	}

	var table *rtable.Table
	switch {
	case flagStills:
		if hs == nil {
			return fmt.Errorf("stills prediction needs --hkl: there is no sweep to enumerate")
		}
		p, err := predict.NewStillsPredictor(models.Beam, models.Detector, models.Crystal, opts...)
		if err != nil {
			return err
		}
		table, err = p.Observed(hs)
		if err != nil {
			return err
		}
	default:
		if models.Goniometer == nil || models.Scan == nil {
			return fmt.Errorf("experiment %s has no goniometer/scan; use --stills", flagExperiment)
		}
		p, err := predict.NewScanStaticPredictor(models.Beam, models.Detector, models.Goniometer, models.Scan, models.Crystal, opts...)
		if err != nil {
			return err
		}
		if hs != nil {
			table, err = p.Observed(hs)
		} else {
			if flagDmin <= 0 {
				return fmt.Errorf("either --hkl or a positive --dmin is required")
			}
			table, err = p.AllObservable(flagDmin)
		}
		if err != nil {
			return err
		}
	}

	rows, err := table.Rows()
	if err != nil {
		return err
	}
	if flagOut == "-" {
		if err := table.WriteCSV(os.Stdout); err != nil {
			return err
		}
	} else {
		if err := table.SaveCSV(flagOut); err != nil {
			return err
		}
		log.Info("wrote predictions", zap.String("path", flagOut), zap.Int("rows", rows))
	}
	return nil
}

// loadHKL reads one whitespace-separated h k l triple per line.
// Blank lines and lines starting with '#' are skipped.
func loadHKL(path string) ([]xtal.Miller, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("hkl open: %w", err)
	}
	defer f.Close()

	var hs []xtal.Miller
	sc := bufio.NewScanner(f)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.Fields(text)
		if len(fields) != 3 {
			return nil, fmt.Errorf("hkl %s:%d: want 3 integers, got %q", path, line, text)
		}
		var v [3]int
		for i, fld := range fields {
			n, err := strconv.Atoi(fld)
			if err != nil {
				return nil, fmt.Errorf("hkl %s:%d: %w", path, line, err)
			}
			v[i] = n
		}
		hs = append(hs, xtal.Miller{H: v[0], K: v[1], L: v[2]})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("hkl read: %w", err)
	}
	return hs, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
