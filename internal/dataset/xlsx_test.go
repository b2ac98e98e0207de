package dataset

import (
	"archive/zip"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
)

// writeXLSXFixture builds a minimal workbook whose "Members" sheet holds
// rows. Numbers become <v> cells, text goes through shared strings and
// empty cells are omitted.
func writeXLSXFixture(t *testing.T, rows [][]string) string {
	t.Helper()
	var shared []string
	sharedIdx := map[string]int{}
	var sheet strings.Builder
	sheet.WriteString(`<?xml version="1.0" encoding="UTF-8"?><worksheet xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main"><sheetData>`)
	for i, row := range rows {
		sheet.WriteString(fmt.Sprintf(`<row r="%d">`, i+1))
		for j, cell := range row {
			if cell == "" {
				continue
			}
			ref := fmt.Sprintf("%c%d", 'A'+j, i+1)
			if _, err := strconv.ParseFloat(cell, 64); err == nil {
				sheet.WriteString(fmt.Sprintf(`<c r="%s"><v>%s</v></c>`, ref, cell))
				continue
			}
			idx, ok := sharedIdx[cell]
			if !ok {
				idx = len(shared)
				shared = append(shared, cell)
				sharedIdx[cell] = idx
			}
			sheet.WriteString(fmt.Sprintf(`<c r="%s" t="s"><v>%d</v></c>`, ref, idx))
		}
		sheet.WriteString(`</row>`)
	}
	sheet.WriteString(`</sheetData></worksheet>`)

	var sst strings.Builder
	sst.WriteString(`<?xml version="1.0" encoding="UTF-8"?><sst xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main">`)
	for _, s := range shared {
		sst.WriteString(`<si><t>` + s + `</t></si>`)
	}
	sst.WriteString(`</sst>`)

	parts := map[string]string{
		"xl/workbook.xml": `<?xml version="1.0" encoding="UTF-8"?><workbook xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships">` +
			`<sheets><sheet name="Notes" sheetId="1" r:id="rId1"/><sheet name="Members" sheetId="2" r:id="rId2"/></sheets></workbook>`,
		"xl/_rels/workbook.xml.rels": `<?xml version="1.0" encoding="UTF-8"?><Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
			`<Relationship Id="rId1" Type="worksheet" Target="worksheets/sheet1.xml"/>` +
			`<Relationship Id="rId2" Type="worksheet" Target="/xl/worksheets/sheet2.xml"/></Relationships>`,
		"xl/sharedStrings.xml":     sst.String(),
		"xl/worksheets/sheet1.xml": `<?xml version="1.0" encoding="UTF-8"?><worksheet><sheetData></sheetData></worksheet>`,
		"xl/worksheets/sheet2.xml": sheet.String(),
	}
	p := filepath.Join(t.TempDir(), "gym.xlsx")
	f, err := os.Create(p)
	if err != nil {
		t.Fatalf("create xlsx: %v", err)
	}
	zw := zip.NewWriter(f)
	for name, body := range parts {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("zip create %s: %v", name, err)
		}
		if _, err := w.Write([]byte(body)); err != nil {
			t.Fatalf("zip write %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("zip close: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close xlsx: %v", err)
	}
	return p
}

func splitRows(rows []string) [][]string {
	out := make([][]string, len(rows))
	for i, r := range rows {
		out[i] = strings.Split(r, ",")
	}
	return out
}

func TestLoadXLSXMatchesCSV(t *testing.T) {
	p := writeXLSXFixture(t, splitRows(gymRows))
	tbl, err := Load(p, LoadOptions{SheetName: "members"})
	if err != nil {
		t.Fatalf("Load xlsx: %v", err)
	}
	fromXLSX, _, err := Prepare(tbl, DefaultOptions())
	if err != nil {
		t.Fatalf("Prepare xlsx: %v", err)
	}
	fromCSV, _ := prepareRows(t, gymRows, DefaultOptions())
	if fromXLSX.Rows() != fromCSV.Rows() {
		t.Fatalf("rows = %d, want %d", fromXLSX.Rows(), fromCSV.Rows())
	}
	for _, c := range fromCSV.Columns() {
		cx := mustColumn(t, fromXLSX, c.Name())
		if cx.Kind() != c.Kind() {
			t.Fatalf("%s kind = %s, want %s", c.Name(), cx.Kind(), c.Kind())
		}
		for i := 0; i < fromCSV.Rows(); i++ {
			if cx.Value(i) != c.Value(i) {
				t.Fatalf("%s[%d] = %q, want %q", c.Name(), i, cx.Value(i), c.Value(i))
			}
		}
	}
}

func TestLoadXLSXSheetSelection(t *testing.T) {
	p := writeXLSXFixture(t, splitRows(gymRows))
	tbl, err := Load(p, LoadOptions{SheetIndex: 2})
	if err != nil {
		t.Fatalf("Load by index: %v", err)
	}
	if len(tbl.Rows) != 5 {
		t.Fatalf("rows = %d, want 5", len(tbl.Rows))
	}

	// Sheet 1 is empty.
	_, err = Load(p, LoadOptions{})
	var de *DataLoadError
	if !errors.As(err, &de) {
		t.Fatalf("empty sheet err = %v, want DataLoadError", err)
	}

	_, err = Load(p, LoadOptions{SheetName: "Missing"})
	if !errors.As(err, &de) || !strings.Contains(err.Error(), "Members") {
		t.Fatalf("unknown sheet err = %v", err)
	}
}

func TestColIndexFromRef(t *testing.T) {
	cases := map[string]int{"A1": 0, "C12": 2, "Z3": 25, "AA7": 26, "": -1}
	for ref, want := range cases {
		if got := colIndexFromRef(ref); got != want {
			t.Fatalf("colIndexFromRef(%q) = %d, want %d", ref, got, want)
		}
	}
}
