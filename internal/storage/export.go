package storage

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"

	"github.com/san-kum/particlelife/internal/life"
)

// ExportData is the JSON document written by ExportJSON.
type ExportData struct {
	Run       RunMetadata          `json:"run"`
	Times     []float64            `json:"times"`
	Series    map[string][]float64 `json:"series"`
	Particles life.Snapshot        `json:"particles"`
}

// ExportJSON writes a run record together with a population snapshot.
func ExportJSON(w io.Writer, meta RunMetadata, times []float64, series map[string][]float64, snap life.Snapshot) error {
	data := ExportData{
		Run:       meta,
		Times:     times,
		Series:    series,
		Particles: snap,
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// ExportSnapshotCSV writes one row per particle.
func ExportSnapshotCSV(w io.Writer, snap life.Snapshot) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"id", "color", "x", "y", "vx", "vy", "radius"}); err != nil {
		return err
	}

	f := func(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }
	for _, p := range snap {
		row := []string{strconv.Itoa(p.ID), strconv.Itoa(p.Color), f(p.X), f(p.Y), f(p.VX), f(p.VY), f(p.Radius)}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
