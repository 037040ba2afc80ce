package core

import (
	"math"

	"schema-flattener/internal/types"
)

// Summarize counts what a processed schema contains.
func Summarize(schema types.ProcessedSchema, typesDropped int) types.RunSummary {
	summary := types.RunSummary{
		Classes:      schema.Classes.Len(),
		Enums:        schema.Enums.Len(),
		TypesKept:    schema.Types.Len(),
		TypesDropped: typesDropped,
	}
	for _, id := range schema.Fields.Keys {
		if schema.Fields.Values[id].Overrides != "" {
			summary.OverrideFields++
			continue
		}
		summary.BaseFields++
	}
	return summary
}

// WithSizes records input and output sizes and the reduction between them
// as a percentage rounded to one decimal.
func WithSizes(summary types.RunSummary, inputBytes int64, outputBytes int64) types.RunSummary {
	summary.InputBytes = inputBytes
	summary.OutputBytes = outputBytes
	summary.SizeReductionPct = 0
	if inputBytes > 0 {
		pct := float64(inputBytes-outputBytes) / float64(inputBytes) * 100
		summary.SizeReductionPct = math.Round(pct*10) / 10
	}
	return summary
}
