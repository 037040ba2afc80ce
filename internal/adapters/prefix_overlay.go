package adapters

import (
	"os"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"schema-flattener/internal/ports"
	"schema-flattener/internal/types"
)

// PrefixOverlayAdapter reads namespace tables from YAML files of the form
//
//	prefixes:
//	  obo: http://purl.obolibrary.org/obo/
//
// Each entry accepts the same spellings as the schema's own prefixes.
type PrefixOverlayAdapter struct{}

type prefixOverlayFile struct {
	Prefixes types.PrefixMap `yaml:"prefixes"`
}

func NewPrefixOverlayAdapter() PrefixOverlayAdapter {
	return PrefixOverlayAdapter{}
}

// LoadOverlays merges the files in order; a later file overrides an
// earlier one per namespace.
func (a PrefixOverlayAdapter) LoadOverlays(paths []string) (types.PrefixMap, error) {
	merged := types.NewOrdered[types.PrefixDef]()
	for _, raw := range paths {
		path := strings.TrimSpace(raw)
		if path == "" {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return types.PrefixMap{}, errbuilder.New().
				WithCode(errbuilder.CodeNotFound).
				WithMsg("failed to read prefix overlay: " + path).
				WithCause(err)
		}
		var file prefixOverlayFile
		if err := yaml.Unmarshal(data, &file); err != nil {
			return types.PrefixMap{}, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("failed to parse prefix overlay: " + path).
				WithCause(err)
		}
		for _, namespace := range file.Prefixes.Keys {
			def := file.Prefixes.Values[namespace]
			if strings.TrimSpace(def.Reference) == "" {
				return types.PrefixMap{}, errbuilder.New().
					WithCode(errbuilder.CodeInvalidArgument).
					WithMsg("prefix overlay namespace '" + namespace + "' has empty base url in " + path)
			}
			if merged.Has(namespace) {
				log.Debug().
					Str("namespace", namespace).
					Str("layer", path).
					Msg("prefix overridden by later overlay")
			}
			merged.Set(namespace, def)
		}
		log.Debug().
			Str("path", path).
			Int("prefixes", file.Prefixes.Len()).
			Int("total", merged.Len()).
			Msg("prefix overlay loaded")
	}
	return merged, nil
}

var _ ports.PrefixOverlayPort = PrefixOverlayAdapter{}
