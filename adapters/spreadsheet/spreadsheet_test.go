package spreadsheet

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"multicloud-cost/core/determinism"
	"multicloud-cost/core/types"
	"multicloud-cost/internal/errors"
)

// buildSheet writes rows to the first sheet of a new workbook
func buildSheet(t *testing.T, rows ...[]interface{}) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		r := row
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &r))
	}
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	return buf.Bytes()
}

var header = []interface{}{
	"Sl No", "Site", "Category", "Workload Type", "Application Name", "Softwares", "OS Name", "CPU Name",
	"Physical Cores", "Total Threads", "RAM (GB)", "Boot Space GB", "Data Space GB", "File Storage GB",
	"Load Balanced", "HA Required",
}

func TestNormalizeSheet(t *testing.T) {
	data := buildSheet(t,
		header,
		[]interface{}{1, "DC", "Prod", "Web", "Billing Portal", "nginx", "Windows Server 2019", "m5.xlarge", 2, 4, 16, 50, 100, 0, "Yes", "No"},
		[]interface{}{2, "DR", "Prod", "DB", "Billing DB", "postgres", "RHEL 8", "", 4, 0, 32, 100, 500, 200, "No", "Yes"},
		[]interface{}{0, "", "", "", "notes row", "", "", "", 0, 0, 0, 0, 0, 0, "", ""},
	)

	n := NewNormalizer(determinism.NewSequenceGenerator(), nil)
	resources, err := n.Normalize(context.Background(), data)
	require.NoError(t, err)
	require.Len(t, resources, 3)

	web := resources[0]
	assert.Equal(t, "sheet-1", web.ID)
	assert.Equal(t, "Billing Portal", web.Name)
	assert.Equal(t, types.TypeInstance, web.Type)
	assert.Equal(t, types.ServiceCompute, web.Service)
	assert.Equal(t, types.ProviderMultiCloud, web.Provider)
	assert.Equal(t, "DC", web.Location)
	vcpus, _ := web.DetailFloat(types.DetailVCPUs)
	storage, _ := web.DetailFloat(types.DetailStorage)
	assert.Equal(t, 4.0, vcpus)
	assert.Equal(t, 150.0, storage)
	assert.Equal(t, "m5.xlarge", web.DetailString(types.DetailInstanceType))

	lb := resources[1]
	assert.Equal(t, "sheet-lb-1", lb.ID)
	assert.Equal(t, types.TypeLoadBalancer, lb.Type)
	assert.Equal(t, types.ServiceNetworking, lb.Service)

	db := resources[2]
	assert.Equal(t, types.TypeDatabase, db.Type)
	assert.Equal(t, types.ServiceDatabase, db.Service)
	vcpus, _ = db.DetailFloat(types.DetailVCPUs)
	assert.Equal(t, 4.0, vcpus, "physical cores back up missing threads")
	assert.True(t, db.DetailBool(types.DetailHARequired))
	fs, _ := db.DetailFloat(types.DetailFileStorage)
	assert.Equal(t, 200.0, fs)
}

func TestReadWorkloads(t *testing.T) {
	data := buildSheet(t,
		header,
		[]interface{}{"1", "DC", "Prod", "App", "api", "", "Ubuntu", "", "8", "16", "64", "40", "0", "0", "yes", "yes"},
	)
	workloads, err := ReadWorkloads(bytes.NewReader(data))
	require.NoError(t, err)
	require.Len(t, workloads, 1)

	w := workloads[0]
	assert.Equal(t, 1, w.SlNo)
	assert.Equal(t, 16.0, w.VCPUs())
	assert.Equal(t, 64.0, w.RAMGB)
	assert.True(t, w.LoadBalanced)
	assert.True(t, w.HARequired)
	assert.False(t, w.IsDatabase())
}

func TestMissingRequiredColumns(t *testing.T) {
	data := buildSheet(t,
		[]interface{}{"Sl No", "Site", "Application Name"},
		[]interface{}{1, "DC", "api"},
	)
	_, err := NewNormalizer(nil, nil).Normalize(context.Background(), data)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.TypeInput))
	assert.Contains(t, err.Error(), "Workload Type")
	assert.Contains(t, err.Error(), "Physical Cores")
	assert.Contains(t, err.Error(), "RAM GB")
}

func TestNoDataRows(t *testing.T) {
	data := buildSheet(t, header, []interface{}{0, "DC"})
	_, err := NewNormalizer(nil, nil).Normalize(context.Background(), data)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no data rows")
}

func TestUnreadableFile(t *testing.T) {
	_, err := NewNormalizer(nil, nil).Normalize(context.Background(), []byte("not a workbook"))
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.TypeInput))
}

func TestTemplateRoundTrip(t *testing.T) {
	data, err := TemplateBytes()
	require.NoError(t, err)

	workloads, err := ReadWorkloads(bytes.NewReader(data))
	require.NoError(t, err)
	require.Len(t, workloads, 1)
	assert.Equal(t, "billing-api", workloads[0].ApplicationName)
	assert.Equal(t, 4.0, workloads[0].VCPUs())
}

func TestInvalidNumericCells(t *testing.T) {
	data := buildSheet(t,
		header,
		[]interface{}{1, "DC", "Prod", "App", "api", "", "Ubuntu", "", "four", 8, 16, 40, 0, 0, "No", "No"},
		[]interface{}{2, "DC", "Prod", "App", "worker", "", "Ubuntu", "", 2, 4, -8, 40, "1,024", 0, "No", "No"},
		[]interface{}{"n/a", "", "", "", "notes", "", "", "", "tbd", "", "", "", "", "", "", ""},
	)
	_, err := ReadWorkloads(bytes.NewReader(data))
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.TypeInput))
	assert.Contains(t, err.Error(), `row 2, column "Physical Cores"`)
	assert.Contains(t, err.Error(), `row 3, column "RAM GB"`)
	assert.NotContains(t, err.Error(), "Data Space GB", "thousands separators are accepted")
	assert.NotContains(t, err.Error(), "row 4", "skipped rows are not checked")
}
