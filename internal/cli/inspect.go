package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"schema-flattener/internal/app"
)

type inspectOptions struct {
	Artifact string
}

func newInspectCommand() *cobra.Command {
	opts := inspectOptions{}
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Summarize a processed artifact",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInspect(cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.Artifact, "artifact", "", "Processed artifact path")
	_ = viper.BindPFlag("artifact", cmd.Flags().Lookup("artifact"))
	return cmd
}

func runInspect(cmd *cobra.Command, opts inspectOptions) error {
	service := newAppService()
	result, err := service.Inspect(app.InspectRequest{
		ArtifactPath: resolveString(cmd, opts.Artifact, "artifact", "artifact"),
	})
	if err != nil {
		return err
	}

	name := result.SchemaName
	if result.Version != "" {
		name += " " + result.Version
	}
	fmt.Printf("schema: %s\n", name)
	fmt.Printf("prefixes: %d\n", result.Prefixes)
	fmt.Printf("classes: %d (%d abstract)\n", result.Classes, result.AbstractClasses)
	fmt.Printf("fields: %d base (%d global), %d override\n", result.BaseFields, result.GlobalFields, result.OverrideFields)
	fmt.Printf("enums: %d\n", result.Enums)
	fmt.Printf("types: %d\n", result.Types)
	if len(result.Overrides) > 0 {
		fmt.Println("overrides:")
		for _, summary := range result.Overrides {
			fmt.Printf("- %s: %s\n", summary.Field, strings.Join(summary.Classes, ", "))
		}
	}
	return nil
}
