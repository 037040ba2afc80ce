package policies

import (
	"fmt"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"schema-flattener/internal/types"
)

// EncodingPolicy decides how each processed class lists its attributes.
// The default applies to every class unless one of the inline patterns
// matches the class name. A pattern is an exact name, a prefix ending in
// "*", or "*" alone.
type EncodingPolicy struct {
	Default    types.AttributeEncoding
	exact      map[string]struct{}
	prefixes   []string
	inlineAll  bool
	hasInlines bool
}

// NewEncodingPolicy validates the configured encoding name and compiles the
// inline class patterns. An empty name selects refs.
func NewEncodingPolicy(name string, inlineClasses []string) (EncodingPolicy, error) {
	encoding, err := ParseEncoding(name)
	if err != nil {
		return EncodingPolicy{}, err
	}
	policy := EncodingPolicy{Default: encoding}
	policy.compile(inlineClasses)
	return policy, nil
}

// ParseEncoding maps a user supplied encoding name to its canonical value.
func ParseEncoding(name string) (types.AttributeEncoding, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "refs", "slots", "b":
		return types.AttributeEncodingRefs, nil
	case "inline", "attributes", "a":
		return types.AttributeEncodingInline, nil
	default:
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("unsupported attribute encoding %q (want refs or inline)", name))
	}
}

func (p EncodingPolicy) ResolveEncoding(className string) types.AttributeEncoding {
	if p.hasInlines && p.matchesInline(className) {
		return types.AttributeEncodingInline
	}
	if p.Default == "" {
		return types.AttributeEncodingRefs
	}
	return p.Default
}

func (p EncodingPolicy) matchesInline(className string) bool {
	if p.inlineAll {
		return true
	}
	if _, ok := p.exact[className]; ok {
		return true
	}
	for _, prefix := range p.prefixes {
		if strings.HasPrefix(className, prefix) {
			return true
		}
	}
	return false
}

func (p *EncodingPolicy) compile(patterns []string) {
	p.exact = map[string]struct{}{}
	for _, raw := range patterns {
		pattern := strings.TrimSpace(raw)
		switch {
		case pattern == "":
			continue
		case pattern == "*":
			p.inlineAll = true
		case strings.HasSuffix(pattern, "*"):
			p.prefixes = append(p.prefixes, strings.TrimSuffix(pattern, "*"))
		default:
			p.exact[pattern] = struct{}{}
		}
		p.hasInlines = true
	}
}
