package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append(args, "--env-file", filepath.Join(t.TempDir(), "none.env")))
	err := rootCmd.Execute()
	return out.String(), err
}

func TestCalc_YAMLBundle(t *testing.T) {
	// GIVEN the bundled standard week scenario
	path := filepath.Join("..", "..", "api", "scenarios", "standard-week.yaml")

	// WHEN
	out, err := runRoot(t, "calc", "-f", path)

	// THEN
	require.NoError(t, err, out)
	var got calcOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.True(t, got.Result.TotalPay.Equal(decimal.RequireFromString("1175")), got.Result.TotalPay.String())
	assert.Empty(t, got.Gaps)
}

func TestCalc_StrictGaps(t *testing.T) {
	// GIVEN a bundle whose only rule has an unusable parameter
	bundle := `{
	  "employee_id": "E1",
	  "period": {"start": "2025-04-07", "end": "2025-04-07"},
	  "attendance": [[7, "09:00", "12:00", "13:00", "18:00"]],
	  "salary_info": {"base_salary": "100"},
	  "salary_rules": {"rules": [{"rule_id": 15, "param1": "lots"}]},
	  "shift": {"mode": "normal", "normal": {"start_am": "09:00", "end_am": "12:00", "start_pm": "13:00", "end_pm": "18:00"}}
	}`
	path := filepath.Join(t.TempDir(), "bundle.json")
	require.NoError(t, os.WriteFile(path, []byte(bundle), 0o600))

	// WHEN run leniently the gap is reported
	out, err := runRoot(t, "calc", "-f", path, "--strict=false")
	require.NoError(t, err, out)
	var got calcOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Len(t, got.Gaps, 1)

	// WHEN run strictly it fails
	_, err = runRoot(t, "calc", "-f", path, "--strict")
	assert.Error(t, err)
}

func TestCalc_MissingFile(t *testing.T) {
	_, err := runRoot(t, "calc", "-f", filepath.Join(t.TempDir(), "missing.json"), "--strict=false")
	assert.Error(t, err)
}
