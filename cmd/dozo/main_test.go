package main

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/remendec/Dozo-diet-planner-2.0/internal/server"
)

// execute runs the root command in a scratch directory. Flag values persist
// between runs, so tests pass every flag they depend on.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("DATABASE_PATH", filepath.Join(dir, "dozo.db"))
	t.Setenv("LOG_LEVEL", "error")

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestPlanCommand(t *testing.T) {
	args := []string{"plan", "--location", "santiago", "--days", "2", "--meals", "lunch,firstSnack", "--seed", "7", "--html=false", "--shopping=false"}

	first, err := execute(t, args...)
	require.NoError(t, err)
	second, err := execute(t, args...)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	var body struct {
		Plans       []map[string]json.RawMessage `json:"plans"`
		CatalogUsed map[string]any               `json:"catalog_used"`
	}
	require.NoError(t, json.Unmarshal([]byte(first), &body))
	require.Len(t, body.Plans, 2)
	assert.Contains(t, body.Plans[0], "lunch")
	assert.Contains(t, body.Plans[0], "firstSnack")
	assert.NotEmpty(t, body.CatalogUsed)
}

func TestPlanCommandShopping(t *testing.T) {
	out, err := execute(t, "plan", "--location", "santiago", "--days", "1", "--meals", "firstSnack", "--seed", "5", "--html=false", "--shopping")
	require.NoError(t, err)

	var body struct {
		Shopping struct {
			Items []struct {
				Category string `json:"category"`
				Servings int    `json:"servings"`
			} `json:"items"`
		} `json:"shopping"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &body))
	require.Len(t, body.Shopping.Items, 1)
	assert.Equal(t, "snacks", body.Shopping.Items[0].Category)
	assert.Equal(t, 1, body.Shopping.Items[0].Servings)
}

func TestPlanCommandDays(t *testing.T) {
	out, err := execute(t, "plan", "--location", "santiago", "--days", "45", "--meals", "lunch", "--seed", "2", "--html=false", "--shopping=false")
	require.NoError(t, err)

	var body struct {
		Plans []json.RawMessage `json:"plans"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &body))
	assert.Len(t, body.Plans, 30)

	_, err = execute(t, "plan", "--location", "santiago", "--days", "0", "--meals", "lunch", "--html=false", "--shopping=false")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "days must be between")
}

func TestPlanCommandHTML(t *testing.T) {
	out, err := execute(t, "plan", "--location", "santiago", "--days", "1", "--meals", "breakfast", "--seed", "3", "--html", "--name", "Ana")
	require.NoError(t, err)
	assert.Contains(t, out, "<html")
	assert.Contains(t, out, "Ana")
}

func TestPlanCommandUnknownLocation(t *testing.T) {
	_, err := execute(t, "plan", "--location", "atlantis", "--days", "1", "--meals", "lunch", "--html=false", "--shopping=false")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "atlantis")
}

func TestTokenCommand(t *testing.T) {
	t.Run("Issues", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "cli-secret")
		out, err := execute(t, "token", "--subject", "nutri-app", "--ttl", "1h")
		require.NoError(t, err)

		claims, err := server.NewJWTService("cli-secret").ValidateToken(strings.TrimSpace(out))
		require.NoError(t, err)
		assert.Equal(t, "nutri-app", claims.Subject)
	})

	t.Run("MissingSecret", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "")
		_, err := execute(t, "token", "--subject", "nutri-app", "--ttl", "1h")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "JWT_SECRET environment variable not set")
	})
}

func TestLocationsCommand(t *testing.T) {
	out, err := execute(t, "locations")
	require.NoError(t, err)
	assert.Contains(t, out, "santiago")
}

func TestMetricsCleanupCommand(t *testing.T) {
	out, err := execute(t, "metrics-cleanup", "--days", "30")
	require.NoError(t, err)
	assert.Equal(t, "deleted 0 rows\n", out)

	_, err = execute(t, "metrics-cleanup", "--days", "0")
	require.Error(t, err)
}
