package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"schema-flattener/internal/app"
	"schema-flattener/internal/types"
)

type validateOptions struct {
	Input          string
	Encoding       string
	InlineClasses  []string
	PrefixOverlays []string
}

func newValidateCommand() *cobra.Command {
	opts := validateOptions{}
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check an expanded schema without writing an artifact",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runValidate(cmd.Context(), cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.Input, "input", "", "Expanded schema path (JSON or YAML)")
	cmd.Flags().StringVar(&opts.Encoding, "encoding", string(types.AttributeEncodingRefs), "Class attribute encoding: refs or inline")
	cmd.Flags().StringSliceVar(&opts.InlineClasses, "inline-class", nil, "Class name patterns encoded inline (Name, Prefix*, *)")
	cmd.Flags().StringSliceVar(&opts.PrefixOverlays, "prefix-overlay", nil, "YAML prefix overlay files applied in order")
	_ = viper.BindPFlag("input", cmd.Flags().Lookup("input"))
	_ = viper.BindPFlag("encoding", cmd.Flags().Lookup("encoding"))
	_ = viper.BindPFlag("inline_classes", cmd.Flags().Lookup("inline-class"))
	_ = viper.BindPFlag("prefix_overlays", cmd.Flags().Lookup("prefix-overlay"))
	return cmd
}

func runValidate(ctx context.Context, cmd *cobra.Command, opts validateOptions) error {
	service := newAppService()
	result, err := service.Validate(ctx, app.ValidateRequest{
		InputPath:      resolveString(cmd, opts.Input, "input", "input"),
		Encoding:       resolveString(cmd, opts.Encoding, "encoding", "encoding"),
		InlineClasses:  resolveStrings(cmd, opts.InlineClasses, "inline_classes", "inline-class"),
		PrefixOverlays: resolveStrings(cmd, opts.PrefixOverlays, "prefix_overlays", "prefix-overlay"),
	})
	if err != nil {
		return err
	}
	fmt.Printf("validated: %s (%d classes, %d override fields)\n", result.SchemaName, result.Summary.Classes, result.Summary.OverrideFields)
	printDiagnostics(result.Diagnostics)
	return nil
}

func resolveString(cmd *cobra.Command, value string, key string, flagName string) string {
	if cmd == nil {
		if value != "" {
			return value
		}
		return viper.GetString(key)
	}
	if flagChanged(cmd, flagName) {
		return value
	}
	return viper.GetString(key)
}

func resolveStrings(cmd *cobra.Command, values []string, key string, flagName string) []string {
	if cmd == nil {
		if len(values) > 0 {
			return values
		}
		return viper.GetStringSlice(key)
	}
	if flagChanged(cmd, flagName) {
		return values
	}
	return viper.GetStringSlice(key)
}

func resolveBool(cmd *cobra.Command, value bool, key string, flagName string) bool {
	if cmd == nil {
		return value
	}
	if flagChanged(cmd, flagName) {
		return value
	}
	return viper.GetBool(key)
}

func resolveInt(cmd *cobra.Command, value int, key string, flagName string) int {
	if cmd == nil {
		return value
	}
	if flagChanged(cmd, flagName) {
		return value
	}
	return viper.GetInt(key)
}

func resolveFloat(cmd *cobra.Command, value float64, key string, flagName string) float64 {
	if cmd == nil {
		return value
	}
	if flagChanged(cmd, flagName) {
		return value
	}
	return viper.GetFloat64(key)
}

func flagChanged(cmd *cobra.Command, name string) bool {
	if cmd == nil || strings.TrimSpace(name) == "" {
		return false
	}
	if flag := cmd.Flags().Lookup(name); flag != nil {
		return flag.Changed
	}
	if flag := cmd.PersistentFlags().Lookup(name); flag != nil {
		return flag.Changed
	}
	return false
}
