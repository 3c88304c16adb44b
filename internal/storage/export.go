package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/telesim/internal/array"
	"github.com/san-kum/telesim/internal/tod"
)

type ExportData struct {
	Instrument  string                 `json:"instrument"`
	ScanPattern string                 `json:"scan_pattern"`
	Site        string                 `json:"site"`
	Generator   string                 `json:"generator"`
	Abscal      float64                `json:"abscal"`
	Times       []float64              `json:"times"`
	Az          [][]float64            `json:"az"`
	El          [][]float64            `json:"el"`
	Data        map[string][][]float64 `json:"data"`
	Dets        array.Detectors        `json:"dets"`
	Metrics     map[string]float64     `json:"metrics"`
}

// NewExportData flattens a TOD and its run description for JSON output.
// Detector coordinates are given in az/el.
func NewExportData(meta RunMetadata, t *tod.TOD) ExportData {
	az, el := t.Coords.AzEl()
	return ExportData{
		Instrument:  meta.Instrument,
		ScanPattern: meta.ScanPattern,
		Site:        meta.Site,
		Generator:   meta.Generator,
		Abscal:      t.Abscal,
		Times:       t.Coords.Time,
		Az:          az,
		El:          el,
		Data:        t.Data,
		Dets:        t.Dets,
		Metrics:     meta.Metrics,
	}
}

func ExportJSON(path string, meta RunMetadata, t *tod.TOD) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return EncodeJSON(file, meta, t)
}

func EncodeJSON(w io.Writer, meta RunMetadata, t *tod.TOD) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(NewExportData(meta, t))
}
