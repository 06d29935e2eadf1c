/*
Package content embeds the default exercise catalog shipped with the binary.

The catalog is a YAML document in the same format read by the file catalog adapter,
so it doubles as a reference for authors writing their own.
*/
package content

import (
	_ "embed"
	"fmt"

	"github.com/aretw0/workshop/pkg/adapters/file"
	"github.com/aretw0/workshop/pkg/adapters/memory"
)

//go:embed catalog.yaml
var catalogYAML []byte

// Source returns the raw embedded catalog.
func Source() []byte {
	return append([]byte(nil), catalogYAML...)
}

// Default decodes the embedded catalog into an in-memory loader.
func Default() (*memory.Catalog, error) {
	exercises, err := file.DecodeCatalog(catalogYAML, ".yaml")
	if err != nil {
		return nil, fmt.Errorf("embedded catalog: %w", err)
	}
	return memory.NewCatalog(exercises...)
}
