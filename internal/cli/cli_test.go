package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/yieldwise/internal/modules/settings"
	testingpkg "github.com/aristath/yieldwise/internal/testing"
)

var boothStreet = []string{
	"analyze",
	"--address", "2412 N Booth St",
	"--price", "200000",
	"--rent", "1800",
	"--beds", "3",
	"--baths", "2",
	"--sqft", "1500",
	"--zip", "53202",
	"--tax-rate", "1.5",
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := NewRootCommand(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "$0.00"},
		{858.914, "$858.91"},
		{1234.5, "$1,234.50"},
		{200000, "$200,000.00"},
		{-255, "-$255.00"},
		{1234567.891, "$1,234,567.89"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatMoney(tt.in))
	}
}

func TestAnalyzeCommand(t *testing.T) {
	out, err := run(t, boothStreet...)
	require.NoError(t, err)

	assert.Contains(t, out, "2412 N Booth St")
	assert.Contains(t, out, "$858.91")
	assert.Contains(t, out, "$337.75")
	assert.Contains(t, out, "7.18%")
	assert.Contains(t, out, "8.81%")
	assert.Contains(t, out, "Rent (user)")
	assert.Contains(t, out, "Recommendation: Strong Buy")
	assert.Contains(t, out, "No comparables")
}

func TestAnalyzeCommand_JSONWithSales(t *testing.T) {
	args := append(append([]string{}, boothStreet...), "--sales", testingpkg.WriteSalesCSV(t, testingpkg.SalesCSV), "--hold", "10", "--json")
	out, err := run(t, args...)
	require.NoError(t, err)

	var report map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &report))

	rec := report["recommendation"].(map[string]interface{})
	assert.Equal(t, "Strong Buy", rec["verdict"])

	comps := report["comparables"].(map[string]interface{})
	assert.Equal(t, "found", comps["status"])
	assert.GreaterOrEqual(t, comps["matched"], 1.0)

	projection := report["projection"].(map[string]interface{})
	assert.Len(t, projection["years"], 10)
}

func TestAnalyzeCommand_PropertyTypeIsCaseInsensitive(t *testing.T) {
	args := append(append([]string{}, boothStreet...), "--type", "land", "--sales", testingpkg.WriteSalesCSV(t, testingpkg.SalesCSV), "--json")
	out, err := run(t, args...)
	require.NoError(t, err)

	var report map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &report))

	property := report["property"].(map[string]interface{})
	assert.Equal(t, "Land", property["property_type"])
	assert.NotNil(t, report["feasibility"])
}

func TestAnalyzeCommand_Rejected(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "missing price", args: []string{"analyze", "--rent", "1500"}},
		{name: "invalid price", args: []string{"analyze", "--price", "-5"}},
		{name: "down payment out of range", args: []string{"analyze", "--price", "100000", "--down", "120"}},
		{name: "sales and db together", args: []string{"analyze", "--price", "100000", "--sales", "a.csv", "--db", "b.db"}},
		{name: "missing sales file", args: []string{"analyze", "--price", "100000", "--sales", "does-not-exist.csv"}},
		{name: "unknown property type", args: []string{"analyze", "--address", "1 Main St", "--price", "100000", "--type", "Castle"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.args...)
			assert.Error(t, err)
		})
	}
}

func TestImportThenAnalyzeFromDatabase(t *testing.T) {
	dataDir := t.TempDir()
	t.Setenv("YIELDWISE_DATA_DIR", dataDir)

	out, err := run(t, "import", testingpkg.WriteSalesCSV(t, testingpkg.SalesCSV))
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 3 of 3 rows")
	assert.Contains(t, out, "$203,333.33")

	args := append(append([]string{}, boothStreet...), "--db", filepath.Join(dataDir, "comparables.db"), "--json")
	out, err = run(t, args...)
	require.NoError(t, err)

	var report map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	comps := report["comparables"].(map[string]interface{})
	assert.Equal(t, "found", comps["status"])
}

func TestImportCommand_NoSource(t *testing.T) {
	t.Setenv("YIELDWISE_DATA_DIR", t.TempDir())
	t.Setenv("COMPARABLES_SOURCE", "")

	_, err := run(t, "import")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "COMPARABLES_SOURCE")
}

func TestAmortizeCommand(t *testing.T) {
	out, err := run(t, "amortize", "--principal", "160000", "--rate", "5", "--term", "30")
	require.NoError(t, err)
	assert.Contains(t, out, "Monthly payment: $858.91")
	assert.Contains(t, out, "30 ")

	_, err = run(t, "amortize", "--principal", "160000", "--term", "0")
	assert.Error(t, err)
}

func TestProfileCommand_RoundTrips(t *testing.T) {
	out, err := run(t, "profile")
	require.NoError(t, err)

	decoded, err := settings.Decode(out)
	require.NoError(t, err)
	assert.Equal(t, settings.DefaultProfile(), decoded)
}

func TestProfileCommand_CustomProfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.toml")
	require.NoError(t, os.WriteFile(path, []byte("[recommendation]\npolicy = \"simple\"\n"), 0644))

	out, err := run(t, "--profile", path, "profile")
	require.NoError(t, err)
	assert.Contains(t, out, `policy = "simple"`)
}
