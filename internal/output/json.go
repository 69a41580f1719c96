package output

import (
	"encoding/json"
	"io"
	"sync"

	"github.com/ramkansal/linkscope/pkg/plugin"
)

// JSONWriter collects results and writes them as one indented JSON array
// on Finalize.
type JSONWriter struct {
	out     io.Writer
	results []*plugin.Result
	mu      sync.Mutex
}

func NewJSONWriter(out io.Writer) *JSONWriter {
	return &JSONWriter{out: out, results: []*plugin.Result{}}
}

func (w *JSONWriter) Name() string { return "json" }

func (w *JSONWriter) WriteResult(result *plugin.Result) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.results = append(w.results, result)
	return nil
}

func (w *JSONWriter) Finalize() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	enc := json.NewEncoder(w.out)
	enc.SetIndent("", "  ")
	return enc.Encode(w.results)
}
