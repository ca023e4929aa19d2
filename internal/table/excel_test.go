package table

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestLoadExcel(t *testing.T) {
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]any{"Product", "Quantity"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]any{"Widget", 10}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A3", &[]any{"Gadget", "n/a"}))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	require.NoError(t, f.Close())

	tbl, err := LoadExcel(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)

	assert.Equal(t, []string{"Product", "Quantity"}, tbl.Columns)
	require.Equal(t, 2, tbl.Len())
	assert.Equal(t, Number(10), tbl.Cell(0, "Quantity"))
	assert.Equal(t, Text("n/a"), tbl.Cell(1, "Quantity"))
}

func TestLoadExcelEmptySheet(t *testing.T) {
	f := excelize.NewFile()
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	require.NoError(t, f.Close())

	_, err = LoadExcel(bytes.NewReader(buf.Bytes()))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "header row required")
}
