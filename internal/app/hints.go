package app

import (
	"fmt"
	"os"

	"schema-flattener/internal/policies"
	"schema-flattener/internal/types"
)

// transformHints returns hints for flags that have no effect with the
// rest of the request.
func transformHints(req TransformRequest) []string {
	checks := []struct {
		flag     string
		provided bool
		reason   string
	}{
		{
			flag:     "--http-timeout",
			provided: req.HTTPTimeoutSec > 0 && !req.ValidateURLs,
			reason:   "URL validation is off (--validate-urls)",
		},
		{
			flag:     "--check-rate",
			provided: req.ChecksPerSecond != 0 && !req.ValidateURLs,
			reason:   "URL validation is off (--validate-urls)",
		},
		{
			flag:     "--inline-class",
			provided: len(req.InlineClasses) > 0 && isInlineEncoding(req.Encoding),
			reason:   "every class is already inline (--encoding inline)",
		},
	}

	var hints []string
	for _, c := range checks {
		if c.provided {
			hints = append(hints, fmt.Sprintf("hint: %s has no effect because %s", c.flag, c.reason))
		}
	}
	return hints
}

func isInlineEncoding(name string) bool {
	encoding, err := policies.ParseEncoding(name)
	return err == nil && encoding == types.AttributeEncodingInline
}

// emitHints writes hint messages to stderr.
func emitHints(hints []string) {
	for _, h := range hints {
		fmt.Fprintln(os.Stderr, h)
	}
}
