// mirror-verify runs the response verification suite against a configured
// provider and reports per-case scores.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/scrollkeeper/mirrorgate/internal/config"
	"github.com/scrollkeeper/mirrorgate/internal/inference"
	"github.com/scrollkeeper/mirrorgate/internal/provider"
	"github.com/scrollkeeper/mirrorgate/internal/verify"
)

var (
	configPath   string
	casesPath    string
	providerName string
	modelName    string
	delayMS      int
	jsonOutput   bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "mirror-verify",
		Short:        "Run the mirror response verification suite",
		Long:         "mirror-verify generates a live response for each fixture case and scores it against the case's indicator lists.",
		SilenceUsage: true,
		RunE:         run,
	}

	rootCmd.Flags().StringVar(&configPath, "config", "mirrorgate.yaml", "path to config file")
	rootCmd.Flags().StringVar(&casesPath, "cases", "", "path to a YAML cases file (default: config, then built-in suite)")
	rootCmd.Flags().StringVar(&providerName, "provider", "", "provider name from config (default: default_provider)")
	rootCmd.Flags().StringVar(&modelName, "model", "", "model to request from the provider")
	rootCmd.Flags().IntVar(&delayMS, "delay-ms", -1, "delay between cases in milliseconds (default: config)")
	rootCmd.Flags().BoolVar(&jsonOutput, "json", false, "print the full report as JSON")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	name := providerName
	if name == "" {
		name = cfg.DefaultProvider
	}
	pc, ok := cfg.Providers[name]
	if !ok {
		return fmt.Errorf("provider %q not found in config", name)
	}
	prov, err := provider.FromConfig(name, pc)
	if err != nil {
		return err
	}

	path := casesPath
	if path == "" {
		path = cfg.Verification.CasesPath
	}
	cases, err := verify.LoadCases(path)
	if err != nil {
		return err
	}

	delay := cfg.Verification.DelayMS
	if delayMS >= 0 {
		delay = delayMS
	}

	runner := verify.NewRunner(&providerGenerator{prov: prov, model: modelName}, time.Duration(delay)*time.Millisecond)
	report, err := runner.Run(cmd.Context(), cases)
	if err != nil {
		return err
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return err
		}
	} else {
		printReport(report, cases)
	}

	if report.PassCount < len(report.Outcomes) {
		return fmt.Errorf("%d of %d cases failed", len(report.Outcomes)-report.PassCount, len(report.Outcomes))
	}
	return nil
}

func printReport(report verify.SuiteReport, cases []verify.Case) {
	names := make(map[string]string, len(cases))
	for _, c := range cases {
		names[c.ID] = c.Name
	}

	for _, o := range report.Outcomes {
		status := "FAIL"
		if o.Passed {
			status = "PASS"
		}
		fmt.Printf("%-4s  %-20s  score=%3d  %s\n", status, o.CaseID, o.Score, names[o.CaseID])
		if o.Error != "" {
			fmt.Printf("      error: %s\n", o.Error)
		}
	}
	fmt.Printf("\n%d/%d passed, average score %.1f\n", report.PassCount, len(report.Outcomes), report.AverageScore)
}

// providerGenerator adapts a chat provider to the verify.Generator interface.
type providerGenerator struct {
	prov  provider.Provider
	model string
}

func (g *providerGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.prov.ChatCompletion(ctx, &inference.Request{
		Model:    g.model,
		Messages: []inference.Message{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return "", err
	}
	return resp.Message.Content, nil
}
