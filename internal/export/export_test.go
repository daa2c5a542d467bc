package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/John-Robertt/extname/internal/config"
	"github.com/John-Robertt/extname/internal/domain"
	"github.com/John-Robertt/extname/internal/infra/fsx"
)

func sampleBatch() *domain.Batch {
	b := domain.NewBatch(3)
	b.Set("zzz", domain.Resolution{Name: "Zebra", Store: domain.StoreChrome})
	b.Set("aaa", domain.NotFound())
	b.Set("mmm", domain.Resolution{Name: "Mango, \"the\" extension", Store: domain.StoreEdge})
	return b
}

func TestEncodeCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, EncodeCSV(&buf, sampleBatch()))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"Extension ID", "Extension Name", "Browser"},
		{"zzz", "Zebra", "Chrome"},
		{"aaa", "Extension name not found", ""},
		{"mmm", "Mango, \"the\" extension", "Edge"},
	}, rows)
}

func TestEncodeJSON_KeyOrderAndIndent(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, EncodeJSON(&buf, sampleBatch()))
	out := buf.String()

	var decoded map[string]map[string]string
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, map[string]string{"Extension Name": "Zebra", "Browser": "Chrome"}, decoded["zzz"])
	assert.Equal(t, map[string]string{"Extension Name": "Extension name not found", "Browser": ""}, decoded["aaa"])

	// key 必须按插入顺序出现，而不是字典序。
	iz, ia, im := strings.Index(out, `"zzz"`), strings.Index(out, `"aaa"`), strings.Index(out, `"mmm"`)
	assert.True(t, iz < ia && ia < im, "unexpected key order:\n%s", out)

	assert.Contains(t, out, "\n    \"zzz\": {\n        \"Extension Name\": \"Zebra\",")
	assert.True(t, strings.HasSuffix(out, "}\n"))
}

func TestEncodeJSON_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, EncodeJSON(&buf, domain.NewBatch(0)))
	assert.Equal(t, "{}\n", buf.String())
}

func TestEncodeJSON_NonASCIIKeptAsUTF8(t *testing.T) {
	b := domain.NewBatch(1)
	b.Set("x", domain.Resolution{Name: "沉浸式翻译 <beta>", Store: domain.StoreChrome})

	var buf bytes.Buffer
	require.NoError(t, EncodeJSON(&buf, b))
	assert.Contains(t, buf.String(), "沉浸式翻译 <beta>")
}

func TestWriteExcel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.xlsx")
	require.NoError(t, WriteExcel(sampleBatch(), path))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetName}, f.GetSheetList())
	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, Header, rows[0])
	assert.Equal(t, []string{"zzz", "Zebra", "Chrome"}, rows[1])
	require.GreaterOrEqual(t, len(rows[2]), 2)
	assert.Equal(t, []string{"aaa", "Extension name not found"}, rows[2][:2])

	var filter string
	for _, dn := range f.GetDefinedName() {
		if dn.Name == "_xlnm._FilterDatabase" {
			filter = dn.RefersTo
		}
	}
	assert.Contains(t, filter, "$A$1:$C$4")
}

func TestWrite_AllFormatsContainSingleEntry(t *testing.T) {
	dir := t.TempDir()
	out := config.Outputs{
		CSV:   filepath.Join(dir, "r.csv"),
		Excel: filepath.Join(dir, "r.xlsx"),
		JSON:  filepath.Join(dir, "r.json"),
	}
	b := domain.NewBatch(1)
	b.Set("x", domain.Resolution{Name: "Name", Store: domain.StoreChrome})

	written, err := Write(b, out)
	require.NoError(t, err)
	assert.Equal(t, []Written{
		{Format: FormatCSV, Path: out.CSV},
		{Format: FormatExcel, Path: out.Excel},
		{Format: FormatJSON, Path: out.JSON},
	}, written)

	csvBytes, err := os.ReadFile(out.CSV)
	require.NoError(t, err)
	assert.Equal(t, "Extension ID,Extension Name,Browser\nx,Name,Chrome\n", string(csvBytes))

	jsonBytes, err := os.ReadFile(out.JSON)
	require.NoError(t, err)
	var decoded map[string]map[string]string
	require.NoError(t, json.Unmarshal(jsonBytes, &decoded))
	assert.Equal(t, map[string]map[string]string{"x": {"Extension Name": "Name", "Browser": "Chrome"}}, decoded)

	f, err := excelize.OpenFile(out.Excel)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	assert.Equal(t, [][]string{Header, {"x", "Name", "Chrome"}}, rows)
}

func TestWrite_NothingRequested(t *testing.T) {
	written, err := Write(sampleBatch(), config.Outputs{})
	require.NoError(t, err)
	assert.Empty(t, written)
}

func TestWrite_StopsAtFirstFailure(t *testing.T) {
	dir := t.TempDir()
	conflict := filepath.Join(dir, "taken")
	require.NoError(t, os.Mkdir(conflict, 0o755))

	out := config.Outputs{
		CSV:  filepath.Join(dir, "ok.csv"),
		JSON: conflict,
	}
	written, err := Write(sampleBatch(), out)
	require.Error(t, err)

	var xerr *Error
	require.ErrorAs(t, err, &xerr)
	assert.Equal(t, FormatJSON, xerr.Format)
	assert.True(t, fsx.IsPathTypeConflict(err))
	assert.Equal(t, []Written{{Format: FormatCSV, Path: out.CSV}}, written)
}
