package surface

import (
	"encoding/json"
	"io"

	"github.com/shopscope/shopscope/pkg/scoring"
)

// JSONRenderer marshals the analysis result to indented JSON.
type JSONRenderer struct{}

func (r *JSONRenderer) Render(w io.Writer, result *scoring.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}
