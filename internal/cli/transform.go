package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"schema-flattener/internal/app"
	"schema-flattener/internal/types"
)

type transformOptions struct {
	Input          string
	Output         string
	ValidateURLs   bool
	HTTPTimeoutSec int
	CheckRate      float64
	Encoding       string
	InlineClasses  []string
	PrefixOverlays []string
	Report         string
	MetricsFile    string
}

func newTransformCommand() *cobra.Command {
	opts := transformOptions{}
	cmd := &cobra.Command{
		Use:   "transform",
		Short: "Flatten an expanded schema into the processed artifact",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTransform(cmd.Context(), cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Input, "input", "", "Expanded schema path (JSON or YAML)")
	cmd.Flags().StringVar(&opts.Output, "output", "", "Artifact path (default <name>.processed.json next to the input)")
	cmd.Flags().BoolVar(&opts.ValidateURLs, "validate-urls", false, "Check that every used namespace base URL is reachable")
	cmd.Flags().IntVar(&opts.HTTPTimeoutSec, "http-timeout", 5, "Timeout in seconds for one reachability check")
	cmd.Flags().Float64Var(&opts.CheckRate, "check-rate", 5, "Reachability checks per second (negative disables pacing)")
	cmd.Flags().StringVar(&opts.Encoding, "encoding", string(types.AttributeEncodingRefs), "Class attribute encoding: refs or inline")
	cmd.Flags().StringSliceVar(&opts.InlineClasses, "inline-class", nil, "Class name patterns encoded inline (Name, Prefix*, *)")
	cmd.Flags().StringSliceVar(&opts.PrefixOverlays, "prefix-overlay", nil, "YAML prefix overlay files applied in order")
	cmd.Flags().StringVar(&opts.Report, "report", "", "Write a YAML run report to this path")
	cmd.Flags().StringVar(&opts.MetricsFile, "metrics-file", "", "Write Prometheus textfile metrics to this path")

	_ = viper.BindPFlag("input", cmd.Flags().Lookup("input"))
	_ = viper.BindPFlag("output", cmd.Flags().Lookup("output"))
	_ = viper.BindPFlag("validate_urls", cmd.Flags().Lookup("validate-urls"))
	_ = viper.BindPFlag("http_timeout", cmd.Flags().Lookup("http-timeout"))
	_ = viper.BindPFlag("check_rate", cmd.Flags().Lookup("check-rate"))
	_ = viper.BindPFlag("encoding", cmd.Flags().Lookup("encoding"))
	_ = viper.BindPFlag("inline_classes", cmd.Flags().Lookup("inline-class"))
	_ = viper.BindPFlag("prefix_overlays", cmd.Flags().Lookup("prefix-overlay"))
	_ = viper.BindPFlag("report", cmd.Flags().Lookup("report"))
	_ = viper.BindPFlag("metrics_file", cmd.Flags().Lookup("metrics-file"))

	return cmd
}

func runTransform(ctx context.Context, cmd *cobra.Command, opts transformOptions) error {
	service := newAppService()
	validateURLs := resolveBool(cmd, opts.ValidateURLs, "validate_urls", "validate-urls")
	req := app.TransformRequest{
		InputPath:      resolveString(cmd, opts.Input, "input", "input"),
		OutputPath:     resolveString(cmd, opts.Output, "output", "output"),
		ValidateURLs:   validateURLs,
		Encoding:       resolveString(cmd, opts.Encoding, "encoding", "encoding"),
		InlineClasses:  resolveStrings(cmd, opts.InlineClasses, "inline_classes", "inline-class"),
		PrefixOverlays: resolveStrings(cmd, opts.PrefixOverlays, "prefix_overlays", "prefix-overlay"),
		ReportPath:     resolveString(cmd, opts.Report, "report", "report"),
		MetricsPath:    resolveString(cmd, opts.MetricsFile, "metrics_file", "metrics-file"),
	}
	// Timeout and pacing are forwarded only when probing or set explicitly.
	if validateURLs || flagChanged(cmd, "http-timeout") {
		req.HTTPTimeoutSec = resolveInt(cmd, opts.HTTPTimeoutSec, "http_timeout", "http-timeout")
	}
	if validateURLs || flagChanged(cmd, "check-rate") {
		req.ChecksPerSecond = resolveFloat(cmd, opts.CheckRate, "check_rate", "check-rate")
	}

	result, err := service.Transform(ctx, req)
	if err != nil {
		return err
	}
	printTransformSummary(result)
	return nil
}

func printTransformSummary(result app.TransformResult) {
	summary := result.Summary
	fmt.Printf("wrote %s (%s)\n", result.OutputPath, result.SchemaName)
	fmt.Printf("classes: %d\n", summary.Classes)
	fmt.Printf("fields: %d base, %d override\n", summary.BaseFields, summary.OverrideFields)
	fmt.Printf("enums: %d\n", summary.Enums)
	fmt.Printf("types: %d kept, %d dropped\n", summary.TypesKept, summary.TypesDropped)
	fmt.Printf("size: %d -> %d bytes (%.1f%% smaller)\n", summary.InputBytes, summary.OutputBytes, summary.SizeReductionPct)
	printDiagnostics(result.Diagnostics)
}

func printDiagnostics(diag types.Diagnostics) {
	if diag.Count() == 0 {
		return
	}
	fmt.Printf("diagnostics: %d\n", diag.Count())
	printList("invalid namespaces", diag.InvalidNamespaces)
	printList("unreachable namespaces", diag.FailedNamespaces())
	printList("dangling overrides", diag.DanglingOverrides)
	printList("orphan overrides", diag.OrphanOverrides)
	printList("field conflicts", diag.FieldConflicts)
	if diag.InvalidVersion != "" {
		fmt.Printf("- invalid version: %s\n", diag.InvalidVersion)
	}
}

func printList(label string, values []string) {
	if len(values) == 0 {
		return
	}
	fmt.Printf("- %s: %v\n", label, values)
}
