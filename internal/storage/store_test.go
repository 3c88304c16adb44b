package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/telesim/internal/array"
	"github.com/san-kum/telesim/internal/coords"
	"github.com/san-kum/telesim/internal/tod"
)

func testTOD(t *testing.T) *tod.TOD {
	t.Helper()
	c, err := coords.New(
		[]float64{1.7e9, 1.7e9 + 0.05},
		[][]float64{{1, 1.1}, {2, 2.1}},
		[][]float64{{0.5, 0.6}, {0.7, 0.8}},
		coords.EarthLocation{Latitude: -23, Longitude: -67.7},
		coords.FrameAzEl,
	)
	if err != nil {
		t.Fatal(err)
	}
	dets := array.Detectors{
		{Band: "f090", BandCenter: 90, BandWidth: 20, OffsetX: 1e-3},
		{Band: "f150", BandCenter: 150, BandWidth: 30, OffsetY: -1e-3},
	}
	out, err := tod.New(map[string][][]float64{
		"point_source": {{0.125, 1}, {1e-9, 0}},
	}, dets, c, 1.25)
	if err != nil {
		t.Fatal(err)
	}
	return out
}

func TestStoreSaveLoad(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	data := testTOD(t)
	runID, err := st.Save(RunMetadata{
		Instrument: "ACT",
		Generator:  "point_source",
		Seed:       42,
		Metrics:    map[string]float64{"point_source.peak": 1.25},
	}, data)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if runID == "" {
		t.Error("expected non-empty run id")
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if meta.Instrument != "ACT" || meta.Seed != 42 {
		t.Errorf("unexpected metadata: %+v", meta)
	}
	if meta.NDets != 2 || meta.NSamples != 2 || meta.Abscal != 1.25 {
		t.Errorf("shape not recorded: %+v", meta)
	}
	if meta.Metrics["point_source.peak"] != 1.25 {
		t.Errorf("expected peak 1.25, got %f", meta.Metrics["point_source.peak"])
	}
	if len(meta.Dets) != 2 || meta.Dets[1].Band != "f150" || meta.Dets[0].OffsetX != 1e-3 {
		t.Errorf("detector table not stored: %+v", meta.Dets)
	}

	rows, times, err := st.LoadSignal(runID, "point_source")
	if err != nil {
		t.Fatalf("load signal failed: %v", err)
	}
	if len(times) != 2 || times[1]-times[0] < 0.049 || times[1]-times[0] > 0.051 {
		t.Errorf("unexpected times %v", times)
	}
	if len(rows) != 2 || rows[0][0] != 0.125 || rows[1][0] != 1e-9 {
		t.Errorf("unexpected rows %v", rows)
	}

	if _, _, err := st.LoadSignal(runID, "cmb"); !errors.Is(err, ErrUnknownSignal) {
		t.Errorf("expected ErrUnknownSignal, got %v", err)
	}
}

func TestStoreList(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected 0 runs, got %d", len(runs))
	}

	for i := 0; i < 2; i++ {
		if _, err := st.Save(RunMetadata{Instrument: "default"}, testTOD(t)); err != nil {
			t.Fatalf("save failed: %v", err)
		}
	}
	// stray directories are skipped
	if err := os.Mkdir(filepath.Join(tmpDir, "junk"), 0755); err != nil {
		t.Fatal(err)
	}

	runs, err = st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 2 {
		t.Errorf("expected 2 runs, got %d", len(runs))
	}
	if len(runs) == 2 && runs[0].ID == runs[1].ID {
		t.Error("run ids should be unique")
	}
}

func TestStoreFileStructure(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	runID, err := st.Save(RunMetadata{Instrument: "default"}, testTOD(t))
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	runDir := filepath.Join(tmpDir, runID)
	for _, name := range []string{"metadata.json", "point_source.csv"} {
		if _, err := os.Stat(filepath.Join(runDir, name)); os.IsNotExist(err) {
			t.Errorf("%s not created", name)
		}
	}
}

func TestEncodeJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := EncodeJSON(&buf, RunMetadata{Instrument: "ALMA"}, testTOD(t)); err != nil {
		t.Fatal(err)
	}

	var got ExportData
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if got.Instrument != "ALMA" || got.Abscal != 1.25 {
		t.Errorf("unexpected export header: %+v", got)
	}
	if len(got.Az) != 2 || got.Az[1][0] != 2 {
		t.Errorf("unexpected az: %v", got.Az)
	}
	if got.Data["point_source"][0][1] != 1 {
		t.Errorf("unexpected data: %v", got.Data)
	}
}
