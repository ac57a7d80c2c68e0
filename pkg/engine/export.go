package engine

import (
	"github.com/orreryworks/orrery/pkg/export"
)

// ExportGraph serializes the current connection graph in the requested
// format.
//
// threshold of 0 exports at the graph's own edge floor; a higher value
// thins the edge set. Unsupported formats fail with
// export.ErrUnsupportedFormat naming the requested value.
func (e *Engine) ExportGraph(format export.Format, threshold float64) ([]byte, error) {
	e.mu.RLock()
	if threshold <= 0 {
		threshold = e.conn.Threshold()
	}
	titles := make(map[string]string, len(e.projects))
	for _, p := range e.projects {
		titles[p.ID] = p.Title
	}
	normalized := export.FromConnectionGraph(e.conn, e.profiles, titles, threshold)
	e.mu.RUnlock()

	return export.Marshal(normalized, format)
}
