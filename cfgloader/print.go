package cfgloader

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"

	"github.com/rise-and-shine/catalog/mask"
)

// printConfig writes the config as flat YAML with `mask:"true"` fields redacted.
func printConfig(w io.Writer, path string, config any) {
	out, err := yaml.Marshal(mask.StructToOrdMap(config))
	if err != nil {
		fmt.Fprintf(w, "[cfgloader]: failed to print config: %v\n", err)
		return
	}
	fmt.Fprintf(w, "%s %s\n%s", color.New(color.FgCyan, color.Bold).Sprint("Loaded config"), path, out)
}
