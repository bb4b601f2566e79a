package columns

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"fjacquet/statement-report/cmd/root"
	"fjacquet/statement-report/internal/config"
	"fjacquet/statement-report/internal/container"
	"fjacquet/statement-report/internal/logging"
	"fjacquet/statement-report/internal/models"
	"fjacquet/statement-report/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const statement = "Empfänger;Datum;Betrag;;Verwendungszweck\r\n" +
	"Bob;15.01.2024;100,50;;Rent\r\n" +
	"Alice;20.01.2024;20;;Lunch\r\n"

func setup(t *testing.T, hasHeaders bool) *store.MockRolesStore {
	t.Helper()
	cfg := &config.Config{}
	cfg.Statement.Delimiter = ";"
	cfg.Statement.RowSeparator = "\r\n"
	cfg.Statement.HasHeaders = hasHeaders

	c, err := container.NewContainerWithLogger(cfg, logging.NewMockLogger())
	require.NoError(t, err)
	repo := &store.MockRolesStore{}

	path := filepath.Join(t.TempDir(), "statement.csv")
	require.NoError(t, os.WriteFile(path, []byte(statement), 0644))

	originalConfig, originalContainer, originalFlags := root.AppConfig, root.AppContainer, root.SharedFlags
	t.Cleanup(func() {
		root.AppConfig, root.AppContainer, root.SharedFlags = originalConfig, originalContainer, originalFlags
		save = false
	})
	root.AppConfig = cfg
	root.AppContainer = c.WithStore(repo)
	root.SharedFlags = root.CommonFlags{Input: path}
	return repo
}

func TestPrintColumns(t *testing.T) {
	table := models.Table{
		Headers: map[int]string{0: "Name", 2: "Betrag"},
		Columns: []models.RawColumn{
			{Index: 0, Cells: []models.Cell{{Row: 0, Value: "Bob"}, {Row: 1, Value: ""}, {Row: 2, Value: "Eve"}}},
			{Index: 2, Cells: []models.Cell{{Row: 0, Value: "1"}, {Row: 1, Value: "2"}, {Row: 2, Value: "3"}, {Row: 3, Value: "4"}}},
		},
		RowCount: 4,
	}
	suggestions := map[int]models.ColumnRole{0: models.PaymentRecipient()}

	var buf bytes.Buffer
	require.NoError(t, PrintColumns(&buf, table, suggestions))

	out := buf.String()
	assert.Contains(t, out, "SUGGESTED ROLE")
	assert.Contains(t, out, "Bob, Eve")
	assert.Contains(t, out, "1, 2, 3")
	assert.NotContains(t, out, "3, 4")
	assert.Contains(t, out, "recipient")
	assert.Contains(t, out, "4 rows, 2 columns")
}

func TestRun_PrintsSuggestions(t *testing.T) {
	repo := setup(t, true)

	var buf bytes.Buffer
	Cmd.SetOut(&buf)
	require.NoError(t, run(Cmd, nil))

	out := buf.String()
	assert.Contains(t, out, "Empfänger")
	assert.Contains(t, out, "recipient")
	assert.Contains(t, out, "date")
	assert.Contains(t, out, "amount")
	assert.Contains(t, out, "info(Verwendungszweck)")
	assert.Empty(t, repo.Saved)
}

func TestRun_SavesSuggestions(t *testing.T) {
	repo := setup(t, true)
	save = true

	Cmd.SetOut(&bytes.Buffer{})
	require.NoError(t, run(Cmd, nil))

	require.Len(t, repo.Saved, 1)
	profile := repo.Saved[0]
	assert.True(t, profile.HasHeaders)
	roles := profile.Roles()
	assert.Equal(t, models.RolePaymentRecipient, roles[0].Kind)
	assert.Equal(t, models.RolePaymentDate, roles[1].Kind)
	assert.Equal(t, models.RolePaymentAmount, roles[2].Kind)
	assert.Equal(t, models.CommonInfo("Verwendungszweck"), roles[4])
}

func TestRun_SaveWithoutHeadersFails(t *testing.T) {
	repo := setup(t, false)
	save = true

	Cmd.SetOut(&bytes.Buffer{})
	err := run(Cmd, nil)
	assert.ErrorContains(t, err, "no suggestions to save")
	assert.Empty(t, repo.Saved)
}

func TestRun_NotInitialized(t *testing.T) {
	original := root.AppContainer
	root.AppContainer = nil
	defer func() { root.AppContainer = original }()

	assert.Error(t, run(Cmd, nil))
}
