package main

import (
	"context"
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"medscreen/asthmarisk/predictor"
)

type cliOptions struct {
	configPath string
	inputPath  string
	outputPath string
	stdout     bool
}

func main() {
	opts, err := parseFlags()
	if err != nil {
		log.Fatalf("asthmarisk-cli: %v", err)
	}
	if err := run(opts); err != nil {
		log.Fatalf("asthmarisk-cli: %v", err)
	}
}

func parseFlags() (cliOptions, error) {
	var opts cliOptions
	flag.StringVar(&opts.configPath, "config", "", "Path to config.json (default: ./config.json)")
	flag.StringVar(&opts.inputPath, "input", "", "CSV/TSV file containing answer rows")
	flag.StringVar(&opts.outputPath, "output", "", "CSV file to write assessments (default: assessments_<timestamp>.csv)")
	flag.BoolVar(&opts.stdout, "stdout", false, "Print a per-row summary to STDOUT")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s --input FILE [options]\n\n", filepath.Base(os.Args[0]))
		flag.PrintDefaults()
	}
	flag.Parse()

	opts.configPath = strings.TrimSpace(opts.configPath)
	opts.inputPath = strings.TrimSpace(opts.inputPath)
	opts.outputPath = strings.TrimSpace(opts.outputPath)

	if opts.inputPath == "" {
		flag.Usage()
		return opts, errors.New("missing required --input file")
	}
	return opts, nil
}

func run(opts cliOptions) error {
	// The .env file may relocate artifacts, so it loads before the config.
	_ = godotenv.Load()

	cfg, err := predictor.LoadConfig(opts.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger := predictor.NewLogger(cfg)
	svc, err := predictor.SharedService(cfg, logger)
	if err != nil {
		return fmt.Errorf("init pipeline: %w", err)
	}
	defer svc.Close()

	answers, err := predictor.ParseAnswersFile(opts.inputPath)
	if err != nil {
		return fmt.Errorf("read answers: %w", err)
	}

	ctx := context.Background()
	assessments := make([]predictor.Assessment, 0, len(answers))
	for i, a := range answers {
		assessment, err := svc.Predict(ctx, a)
		if err != nil {
			return fmt.Errorf("score row %d: %w", i+1, err)
		}
		assessments = append(assessments, assessment)
	}

	outputPath, err := resolveOutputPath(opts.outputPath)
	if err != nil {
		return err
	}
	if err := writeAssessmentCSV(outputPath, assessments); err != nil {
		return err
	}
	fmt.Printf("Wrote %d assessments to %s\n", len(assessments), outputPath)

	if opts.stdout {
		printSummary(assessments)
	}
	return nil
}

func resolveOutputPath(path string) (string, error) {
	if path == "" {
		path = fmt.Sprintf("assessments_%s.csv", time.Now().Format("20060102150405"))
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve output path: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(absPath), 0o755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}
	return absPath, nil
}

func writeAssessmentCSV(path string, assessments []predictor.Assessment) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create result file: %w", err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	header := []string{"id", "probability", "risk_level", "schema_version", "assessed_at"}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, a := range assessments {
		row := []string{
			a.ID.String(),
			fmt.Sprintf("%.4f", a.Probability),
			string(a.Level),
			string(a.SchemaVersion),
			a.AssessedAt.Format(time.RFC3339),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush result: %w", err)
	}
	return nil
}

func printSummary(assessments []predictor.Assessment) {
	fmt.Println()
	fmt.Println("==== Assessment summary ====")
	counts := make(map[predictor.RiskLevel]int)
	for i, a := range assessments {
		counts[a.Level]++
		fmt.Printf("%d. %s (%.2f)\n", i+1, a.Level, a.Probability)
	}
	fmt.Printf("Totals: %d no risk, %d low risk, %d high risk\n",
		counts[predictor.RiskNone], counts[predictor.RiskLow], counts[predictor.RiskHigh])
}
