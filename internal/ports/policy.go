package ports

import "schema-flattener/internal/types"

type EncodingPolicyPort interface {
	ResolveEncoding(className string) types.AttributeEncoding
}
