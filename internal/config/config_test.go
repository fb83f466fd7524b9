package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/sales-master/internal/aggregator"
	"github.com/ginjaninja78/sales-master/internal/types"
)

const minimalYAML = `
branches:
  - name: Downtown
    source: https://docs.google.com/spreadsheets/d/abc123/edit
  - name: " Airport "
    source: ./sheets/airport.xlsx
`

func TestParseAppliesDefaults(t *testing.T) {
	cfg, err := Parse([]byte(minimalYAML))
	require.NoError(t, err)

	assert.Equal(t, "./data/master_db.csv", cfg.SnapshotPath)
	assert.Equal(t, "./data/archive", cfg.ArchiveDir)
	require.NotNil(t, cfg.ArchiveRetention)
	assert.Equal(t, 720*time.Hour, *cfg.ArchiveRetention)
	assert.False(t, cfg.ArchiveSubdirs)
	assert.Equal(t, "./logs", cfg.SummaryDir)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "console", cfg.LogFormat)
	assert.Equal(t, "stderr", cfg.LogFile)
	assert.Equal(t, "credentials.json", cfg.CredentialsFile)
	require.NotNil(t, cfg.TabDelay)
	assert.Equal(t, time.Second, *cfg.TabDelay)
	assert.Equal(t, 1, cfg.Concurrency)
	assert.Equal(t, "CUSTOMER", cfg.HeaderAnchor)
	assert.Equal(t, "search", cfg.HeaderStrategy)
	assert.Equal(t, "first_wins", cfg.DedupPolicy)

	require.Len(t, cfg.Branches, 2)
	assert.Equal(t, "Downtown", cfg.Branches[0].Name)
	assert.Equal(t, "Airport", cfg.Branches[1].Name)
}

func TestParseExplicitValues(t *testing.T) {
	doc := `
snapshot_path: /tmp/master.csv
tab_delay: 0s
archive_retention: 0s
archive_subdirs: true
concurrency: 4
dedup_policy: last_wins
exempt_empty_imei: true
header_strategy: fixed
column_aliases:
  IMEI: ["IMEI", "SERIAL NO"]
branches:
  - name: North
    source: ./north
`
	cfg, err := Parse([]byte(doc))
	require.NoError(t, err)

	assert.Equal(t, "/tmp/master.csv", cfg.SnapshotPath)
	assert.Equal(t, time.Duration(0), *cfg.TabDelay)
	assert.Equal(t, time.Duration(0), *cfg.ArchiveRetention)
	assert.True(t, cfg.ArchiveSubdirs)
	assert.Equal(t, 4, cfg.Concurrency)
	assert.Equal(t, aggregator.Options{Policy: aggregator.LastWins, ExemptEmptyIMEI: true}, cfg.AggregatorOptions())
	assert.Equal(t, []string{"SERIAL NUMBER / IMEI", "IMEI", "SERIAL NO"}, cfg.Aliases()[types.FieldIMEI])
	assert.NotNil(t, cfg.Normalizer())
}

func TestParseValidation(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{
			name: "no branches",
			doc:  `snapshot_path: x.csv`,
			want: "at least one branch",
		},
		{
			name: "duplicate branch",
			doc: `
branches:
  - {name: A, source: a}
  - {name: A, source: b}
`,
			want: "duplicate name",
		},
		{
			name: "missing source",
			doc: `
branches:
  - {name: A}
`,
			want: "source is required",
		},
		{
			name: "bad policy",
			doc: `
dedup_policy: newest
branches:
  - {name: A, source: a}
`,
			want: "dedup_policy",
		},
		{
			name: "bad strategy",
			doc: `
header_strategy: guess
branches:
  - {name: A, source: a}
`,
			want: "header_strategy",
		},
		{
			name: "alias for stamped field",
			doc: `
column_aliases:
  Date: ["DAY"]
branches:
  - {name: A, source: a}
`,
			want: "column_aliases",
		},
		{
			name: "negative retention",
			doc: `
archive_retention: -1h
branches:
  - {name: A, source: a}
`,
			want: "archive_retention",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadMainConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(minimalYAML), 0o644))

	cfg, err := LoadMainConfig(path)
	require.NoError(t, err)
	assert.Len(t, cfg.Branches, 2)

	_, err = LoadMainConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestExampleConfigIsValid(t *testing.T) {
	cfg, err := LoadMainConfig(filepath.Join("..", "..", "config.example.yaml"))
	require.NoError(t, err)

	assert.Len(t, cfg.Branches, 3)
	assert.Equal(t, time.Second, *cfg.TabDelay)
	assert.Equal(t, []string{"IMEI", "SERIAL NO"}, cfg.Aliases()[types.FieldIMEI][1:])
}
