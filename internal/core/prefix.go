package core

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"schema-flattener/internal/ports"
	"schema-flattener/internal/types"
)

const curieSeparator = ":"

// DefaultCheckTimeout bounds a single namespace reachability check.
const DefaultCheckTimeout = 5 * time.Second

// Expander turns a namespaced identifier into a URL. ok is false when the
// identifier could not be expanded.
type Expander func(ctx context.Context, identifier string) (url string, ok bool)

// PrefixResolver expands namespace:code identifiers against one schema's
// prefix table. It belongs to a single run: the namespaces it could not
// resolve and the reachability verdicts it cached are that run's
// diagnostics.
type PrefixResolver struct {
	prefixes  types.PrefixMap
	checker   ports.ReachabilityPort
	timeout   time.Duration
	invalid   map[string]struct{}
	validated map[string]types.NamespaceCheck
}

func NewPrefixResolver(prefixes types.PrefixMap, checker ports.ReachabilityPort, timeout time.Duration) *PrefixResolver {
	if timeout <= 0 {
		timeout = DefaultCheckTimeout
	}
	return &PrefixResolver{
		prefixes:  prefixes,
		checker:   checker,
		timeout:   timeout,
		invalid:   map[string]struct{}{},
		validated: map[string]types.NamespaceCheck{},
	}
}

// Expand returns base_url + code for identifier.
//
// With validate set, the first URL produced for a namespace is checked for
// reachability and the verdict is cached for the namespace. Later codes in
// the same namespace are never checked individually, and a failed check
// does not prevent expansion.
func (r *PrefixResolver) Expand(ctx context.Context, identifier string, validate bool) (string, bool) {
	namespace, code, ok := splitCurie(identifier)
	if !ok {
		r.markInvalid(namespace)
		return "", false
	}
	def, found := r.prefixes.Get(namespace)
	if !found || strings.TrimSpace(def.Reference) == "" {
		r.markInvalid(namespace)
		return "", false
	}
	url := def.Reference + code
	if validate {
		r.validate(ctx, namespace, url)
	}
	return url, true
}

// Expander binds the validate flag so callers only pass identifiers.
func (r *PrefixResolver) Expander(validate bool) Expander {
	return func(ctx context.Context, identifier string) (string, bool) {
		return r.Expand(ctx, identifier, validate)
	}
}

// InvalidNamespaces lists every namespace seen without a usable base URL.
func (r *PrefixResolver) InvalidNamespaces() []string {
	out := make([]string, 0, len(r.invalid))
	for namespace := range r.invalid {
		out = append(out, namespace)
	}
	sort.Strings(out)
	return out
}

// NamespaceChecks returns a copy of the cached verdicts.
func (r *PrefixResolver) NamespaceChecks() map[string]types.NamespaceCheck {
	if len(r.validated) == 0 {
		return nil
	}
	out := make(map[string]types.NamespaceCheck, len(r.validated))
	for namespace, check := range r.validated {
		out[namespace] = check
	}
	return out
}

func (r *PrefixResolver) validate(ctx context.Context, namespace string, url string) {
	if _, seen := r.validated[namespace]; seen {
		return
	}
	reachable := false
	if r.checker != nil {
		reachable = r.checker.Check(ctx, url, r.timeout)
	}
	r.validated[namespace] = types.NamespaceCheck{URL: url, Reachable: reachable}
	event := log.Ctx(ctx).Debug()
	if !reachable {
		event = log.Ctx(ctx).Warn()
	}
	event.Str("namespace", namespace).Str("url", url).Bool("reachable", reachable).Msg("namespace checked")
}

func (r *PrefixResolver) markInvalid(namespace string) {
	if _, seen := r.invalid[namespace]; seen {
		return
	}
	r.invalid[namespace] = struct{}{}
}

// splitCurie requires exactly one separator. On failure the namespace is
// the text before the first separator, or the whole identifier.
func splitCurie(identifier string) (string, string, bool) {
	namespace, code, found := strings.Cut(identifier, curieSeparator)
	if !found {
		return identifier, "", false
	}
	if strings.Contains(code, curieSeparator) {
		return namespace, code, false
	}
	return namespace, code, true
}

// MergePrefixes layers overlay on top of the schema's own prefixes. An
// overlay entry replaces a schema entry for the same namespace in place;
// new namespaces are appended.
func MergePrefixes(schema types.PrefixMap, overlay types.PrefixMap) types.PrefixMap {
	merged := types.NewOrdered[types.PrefixDef]()
	for _, namespace := range schema.Keys {
		merged.Set(namespace, schema.Values[namespace])
	}
	for _, namespace := range overlay.Keys {
		merged.Set(namespace, overlay.Values[namespace])
	}
	return merged
}
