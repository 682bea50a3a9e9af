package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jengzang/lastmile-backend-go/internal/config"
)

const reportCSV = `Order_ID,Agent_Age,Agent_Rating,Order_Date,Weather,Traffic,Vehicle,Area,Delivery_Time,Category
a,25,4.8,2022-03-01,Sunny,Low,motorcycle,Urban,40,Toys
b,25,4.6,2022-03-02,Sunny,High,scooter,Urban,60,Grocery
c,35,4.0,2022-03-03,Stormy,Jam,van,Metropolitian,150,Toys
d,35,4.2,2022-03-04,Fog,Low,van,Semi-Urban,1250,Electronics
`

func TestFilterFlags(t *testing.T) {
	var ff filterFlags
	cmd := &cobra.Command{Use: "x"}
	ff.register(cmd)
	require.NoError(t, cmd.ParseFlags([]string{"--start", "2022-03-01", "--weather", "Sunny,Fog", "--vehicle="}))

	f, err := ff.build(cmd)
	require.NoError(t, err)
	assert.Equal(t, 2022, f.StartDate.Year())
	assert.True(t, f.EndDate.IsZero())
	assert.Equal(t, []string{"Sunny", "Fog"}, f.Weather)
	assert.NotNil(t, f.Vehicle)
	assert.Empty(t, f.Vehicle)
	assert.Nil(t, f.Traffic)
}

func TestFilterFlagsInvalidDate(t *testing.T) {
	var ff filterFlags
	cmd := &cobra.Command{Use: "x"}
	ff.register(cmd)
	require.NoError(t, cmd.ParseFlags([]string{"--end", "March"}))

	_, err := ff.build(cmd)
	assert.Error(t, err)
}

func runCLI(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() { rootCmd.SetArgs(nil) })
	require.NoError(t, rootCmd.Execute(), out.String())
	return out.String()
}

func TestReportCommand(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "deliveries.csv")
	require.NoError(t, os.WriteFile(path, []byte(reportCSV), 0644))

	out := runCLI(t, "report", "--config", filepath.Join(dir, "none.yaml"), "--data", path)

	assert.Contains(t, out, "Key Performance Indicators")
	// thousands separators come from the printer
	assert.Contains(t, out, "1,250.00")
	assert.Contains(t, out, "Stormy")
	assert.Contains(t, out, "[WARNING] Fog conditions cause the longest delays")
	assert.Contains(t, out, "Map data not available")
}

func TestMigrateAndExportCommands(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "deliveries.csv")
	require.NoError(t, os.WriteFile(path, []byte(reportCSV), 0644))
	t.Setenv("DB_PATH", filepath.Join(dir, "lastmile.db"))

	out := runCLI(t, "migrate", "--config", filepath.Join(dir, "none.yaml"), "--data", path)
	assert.Contains(t, out, "Applied 2 migration(s)")

	exportDir := filepath.Join(dir, "out")
	out = runCLI(t, "export", "--config", filepath.Join(dir, "none.yaml"), "--data", path,
		"--no-history", "--dir", exportDir, "--weather", "Sunny")
	assert.Contains(t, out, "Wrote 2 rows")

	entries, err := os.ReadDir(exportDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Regexp(t, `^filtered_delivery_data_\d{8}\.csv$`, entries[0].Name())
}

func TestNewRateLimiter(t *testing.T) {
	prev := cfg
	t.Cleanup(func() { cfg = prev })

	cfg = config.Default()
	cfg.Server.RateLimit = 0
	assert.Nil(t, newRateLimiter())

	cfg.Server.RateLimit = 3
	rl := newRateLimiter()
	require.NotNil(t, rl)
	defer rl.Stop()
	assert.True(t, rl.Allow("10.0.0.1"))
}

func TestTokenCommand(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("JWT_SECRET", "cli-secret")

	out := runCLI(t, "token", "--config", filepath.Join(dir, "none.yaml"), "--subject", "ops")
	assert.Len(t, bytes.Split(bytes.TrimSpace([]byte(out)), []byte(".")), 3)
}
