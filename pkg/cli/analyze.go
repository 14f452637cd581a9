package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/medrec-lab/asclepius/pkg/cli/config"
	"github.com/medrec-lab/asclepius/pkg/domain/interfaces"
	"github.com/medrec-lab/asclepius/pkg/domain/model"
	"github.com/medrec-lab/asclepius/pkg/domain/types"
	"github.com/medrec-lab/asclepius/pkg/service/extract"
	"github.com/medrec-lab/asclepius/pkg/service/knowledge"
	"github.com/medrec-lab/asclepius/pkg/usecase"
	"github.com/medrec-lab/asclepius/pkg/utils/logging"
)

func cmdAnalyze() *cli.Command {
	var recordType string
	var catalogCfg config.Catalog
	var geminiCfg config.Gemini

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "record-type",
			Usage:       "Record type label (e.g. 'Lab Report', 'Visit Note')",
			Sources:     cli.EnvVars("ASCLEPIUS_RECORD_TYPE"),
			Destination: &recordType,
		},
	}
	flags = append(flags, catalogCfg.Flags()...)
	flags = append(flags, geminiCfg.Flags()...)

	return &cli.Command{
		Name:      "analyze",
		Aliases:   []string{"a"},
		Usage:     "Analyze a single clinical record from a file or stdin",
		ArgsUsage: "[file]",
		Flags:     flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := logging.Default()

			content, err := readRecord(c.Args().First())
			if err != nil {
				return err
			}
			if strings.TrimSpace(content) == "" {
				return goerr.New("no record content provided")
			}

			cat, err := catalogCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to load clinical catalog")
			}

			pipeline, err := extract.New(cat)
			if err != nil {
				return goerr.Wrap(err, "failed to build extraction pipeline")
			}

			var embedder interfaces.EmbeddingClient
			client, err := geminiCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize Gemini client")
			}
			if client != nil {
				embedder = client
			} else {
				logger.Warn("Gemini project not configured, running in rule-based mode")
			}

			kb := knowledge.Build(ctx, embedder, cat.Categories)

			ucOpts := []usecase.Option{}
			if embedder != nil {
				ucOpts = append(ucOpts, usecase.WithEmbedder(embedder))
			}
			uc := usecase.New(nil, kb, pipeline, ucOpts...)

			rt := types.RecordType(recordType)
			summary := uc.Summarize(ctx, content, rt)
			extraction := uc.Extract(ctx, content)
			risk := uc.AssessRisk(ctx, content)

			printReport(os.Stdout, summary.RecordType, summary, extraction, risk)
			return nil
		},
	}
}

func readRecord(path string) (string, error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", goerr.Wrap(err, "failed to read record from stdin")
		}
		return string(data), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", goerr.Wrap(err, "failed to read record file", goerr.V("path", path))
	}
	return string(data), nil
}

var (
	titleColor = color.New(color.FgCyan, color.Bold).SprintFunc()
	labelColor = color.New(color.Bold).SprintFunc()
	dimColor   = color.New(color.Faint).SprintFunc()
)

func riskColor(level types.RiskLevel) func(a ...interface{}) string {
	switch level {
	case types.RiskLevelHigh:
		return color.New(color.FgRed, color.Bold).SprintFunc()
	case types.RiskLevelMedium:
		return color.New(color.FgYellow, color.Bold).SprintFunc()
	case types.RiskLevelLow:
		return color.New(color.FgGreen, color.Bold).SprintFunc()
	default:
		return color.New(color.FgWhite).SprintFunc()
	}
}

func printReport(w io.Writer, recordType types.RecordType, summary *model.Summary, extraction *model.ExtractionResult, risk *model.RiskAssessment) {
	fmt.Fprintln(w, titleColor("=== Clinical Record Analysis ==="))
	fmt.Fprintf(w, "%s %s\n", labelColor("Record Type:"), recordType)
	fmt.Fprintf(w, "%s %s %s\n\n", labelColor("Mode:"), summary.Mode, dimColor(fmt.Sprintf("(confidence %.2f)", summary.Confidence)))

	fmt.Fprintln(w, titleColor("Summary"))
	fmt.Fprintf(w, "  %s\n", summary.Text)
	if summary.PrimaryMatch != "" {
		fmt.Fprintf(w, "  %s %s\n", labelColor("Primary match:"), summary.PrimaryMatch)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, titleColor("Extracted Information"))
	facts := &extraction.Facts
	if facts.IsEmpty() {
		fmt.Fprintf(w, "  %s\n", dimColor("(nothing extracted)"))
	}
	for _, m := range facts.Medications {
		fmt.Fprintf(w, "  %s %s %s\n", labelColor("Medication:"), m.Name, m.Dosage)
	}
	for _, cond := range facts.Conditions {
		fmt.Fprintf(w, "  %s %s\n", labelColor("Condition:"), cond)
	}
	if facts.VitalSigns.BloodPressure != "" {
		fmt.Fprintf(w, "  %s %s\n", labelColor("Blood Pressure:"), facts.VitalSigns.BloodPressure)
	}
	if facts.VitalSigns.Temperature != "" {
		fmt.Fprintf(w, "  %s %s\n", labelColor("Temperature:"), facts.VitalSigns.Temperature)
	}
	for _, lab := range facts.LabInterpretations {
		fmt.Fprintf(w, "  %s %s\n", labelColor("Lab:"), lab)
	}
	for _, d := range facts.Dates {
		fmt.Fprintf(w, "  %s %s\n", labelColor("Date:"), d)
	}
	for _, instr := range facts.Instructions {
		fmt.Fprintf(w, "  %s %s\n", labelColor("Instruction:"), instr)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, titleColor("Risk Assessment"))
	paint := riskColor(risk.Level)
	fmt.Fprintf(w, "  %s %s %s\n", labelColor("Level:"), paint(string(risk.Level)), dimColor(fmt.Sprintf("(confidence %.2f)", risk.Confidence)))
	fmt.Fprintf(w, "  %s\n", risk.Explanation)
	for _, level := range types.AllRiskLevels() {
		if score, ok := risk.TierScores[string(level)]; ok {
			fmt.Fprintf(w, "  %s\n", dimColor(fmt.Sprintf("%s: %.3f", level, score)))
		}
	}
}
