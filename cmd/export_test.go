package cmd

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"partner-portal/internal/store"
	"partner-portal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportRange(t *testing.T) {
	amman, err := time.LoadLocation("Asia/Amman")
	require.NoError(t, err)

	r, err := exportRange(&exportOptions{from: "2024-03-01", to: "2024-03-31"}, amman)
	require.NoError(t, err)
	assert.True(t, r.From.Equal(time.Date(2024, 3, 1, 0, 0, 0, 0, amman)))
	assert.True(t, r.To.Equal(time.Date(2024, 3, 31, 23, 59, 59, 999000000, amman)))

	r, err = exportRange(&exportOptions{}, amman)
	require.NoError(t, err)
	assert.True(t, r.From.IsZero())
	assert.True(t, r.To.IsZero())

	_, err = exportRange(&exportOptions{from: "1/3/2024"}, amman)
	assert.Error(t, err)
}

func TestExportCommand_Flags(t *testing.T) {
	command := newExportCommand(&portal{})

	assert.Equal(t, "export [sales|analytics|summary|payments]", command.Use)
	assert.NotNil(t, command.Flags().Lookup("partner"))
	days, err := command.Flags().GetInt("days")
	require.NoError(t, err)
	assert.Equal(t, 30, days)
}

func TestExportCommand_RejectsUnknownReport(t *testing.T) {
	command := newExportCommand(&portal{})

	assert.NoError(t, command.Args(command, []string{"sales"}))
	assert.NoError(t, command.Args(command, []string{"payments"}))
	assert.Error(t, command.Args(command, []string{"invoices"}))
	assert.Error(t, command.Args(command, []string{"sales", "summary"}))
}

func TestExportCommand_UnknownReportKeepsOutputFile(t *testing.T) {
	out := filepath.Join(t.TempDir(), "existing.csv")
	require.NoError(t, os.WriteFile(out, []byte("keep me"), 0o600))

	command := newExportCommand(&portal{})
	command.SetArgs([]string{"invoices", "--partner", "p1", "-o", out})
	command.SetOut(io.Discard)
	command.SetErr(io.Discard)

	assert.Error(t, command.Execute())

	content, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "keep me", string(content))
}

func TestExportRenderer_UnknownReport(t *testing.T) {
	render, err := exportRenderer(context.Background(), &portal{}, "invoices", models.PartnerSession{PartnerID: "p1"}, store.Range{}, &exportOptions{})

	assert.EqualError(t, err, `unknown report "invoices"`)
	assert.Nil(t, render)
}
