package table

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"battle-features/internal/features"

	json "github.com/goccy/go-json"
)

func sampleRecords() []*features.Record {
	a := features.NewRecord()
	a.Set("battle_id", features.Str("b1"))
	a.Set("hp_last_advantage", features.Bool(true))
	a.Set("starmie_snorlax", features.Int(2))

	b := features.NewRecord()
	b.Set("battle_id", features.Str("b2"))
	b.Set("hp_last_advantage", features.Bool(false))
	b.Set("gengar_chansey", features.Num(1.5))
	return []*features.Record{a, b}
}

// TestMaterialize_UnionAndZeroFill tests column alignment across sparse records
func TestMaterialize_UnionAndZeroFill(t *testing.T) {
	tbl := Materialize(sampleRecords())

	want := []string{"battle_id", "hp_last_advantage", "starmie_snorlax", "gengar_chansey"}
	if strings.Join(tbl.Columns, ",") != strings.Join(want, ",") {
		t.Fatalf("Columns = %v, want %v", tbl.Columns, want)
	}
	if tbl.Column("gengar_chansey") != 3 || tbl.Column("missing") != -1 {
		t.Error("Column lookup mismatch")
	}
	if got := tbl.Rows[0][tbl.Column("gengar_chansey")]; got.Float() != 0 || got.String() != "0" {
		t.Errorf("Absent cell should be 0, got %v", got)
	}
	if got := tbl.Rows[1][tbl.Column("starmie_snorlax")]; got.String() != "0" {
		t.Errorf("Absent cell should be 0, got %v", got)
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := Materialize(sampleRecords()).WriteCSV(&buf); err != nil {
		t.Fatal(err)
	}

	want := "battle_id,hp_last_advantage,starmie_snorlax,gengar_chansey\n" +
		"b1,1,2,0\n" +
		"b2,0,0,1.5\n"
	if buf.String() != want {
		t.Errorf("CSV mismatch:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestWriteJSON_DenseRows(t *testing.T) {
	var buf bytes.Buffer
	if err := Materialize(sampleRecords()).WriteJSON(&buf); err != nil {
		t.Fatal(err)
	}

	var rows []map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rows); err != nil {
		t.Fatalf("Invalid JSON: %v", err)
	}
	if len(rows) != 2 || len(rows[0]) != 4 || len(rows[1]) != 4 {
		t.Fatalf("Expected 2 dense rows of 4 columns, got %v", rows)
	}
	if rows[1]["starmie_snorlax"] != float64(0) {
		t.Errorf("Expected zero fill in JSON, got %v", rows[1]["starmie_snorlax"])
	}
}

// TestExport_ByteIdentical tests that exporting the same records twice yields identical files
func TestExport_ByteIdentical(t *testing.T) {
	dirA, dirB := t.TempDir(), t.TempDir()

	mA, err := Export(dirA, "default", "run-a", Materialize(sampleRecords()))
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	mB, err := Export(dirB, "default", "run-b", Materialize(sampleRecords()))
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	for _, name := range []string{CSVFile, JSONFile} {
		a, _ := os.ReadFile(filepath.Join(dirA, name))
		b, _ := os.ReadFile(filepath.Join(dirB, name))
		if len(a) == 0 || !bytes.Equal(a, b) {
			t.Errorf("%s differs between runs", name)
		}
	}
	if mA.SHA256 != mB.SHA256 || len(mA.SHA256) != 64 {
		t.Errorf("Expected matching sha256, got %s and %s", mA.SHA256, mB.SHA256)
	}
	if mA.Rows != 2 || mA.Columns != 4 || mA.Preset != "default" {
		t.Errorf("Unexpected manifest %+v", mA)
	}

	raw, err := os.ReadFile(filepath.Join(dirA, ManifestFile))
	if err != nil {
		t.Fatal(err)
	}
	var onDisk Manifest
	if err := json.Unmarshal(raw, &onDisk); err != nil || onDisk.RunID != "run-a" {
		t.Errorf("manifest.json mismatch: %+v (%v)", onDisk, err)
	}
}

func TestTableRecord(t *testing.T) {
	tbl := Materialize(sampleRecords())
	rec := tbl.Record(1)
	if rec.Len() != 4 {
		t.Fatalf("Expected dense record of 4, got %d", rec.Len())
	}
	if v, _ := rec.Get("battle_id"); v.String() != "b2" {
		t.Errorf("Expected b2, got %s", v.String())
	}
}
