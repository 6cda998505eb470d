package export

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func timetableDataset() Dataset {
	return Dataset{
		Headers: []string{"Data", "Início", "Fim"},
		Rows: [][]string{
			{"2026-09-10", "09:00", "10:30"},
			{"2026-09-11", "14:00", "16:00"},
		},
	}
}

func TestCSVRenderPositionalRows(t *testing.T) {
	content, err := NewCSVExporter().Render(timetableDataset())
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Data,Início,Fim", lines[0])
	assert.Equal(t, "2026-09-10,09:00,10:30", lines[1])
	assert.Equal(t, "2026-09-11,14:00,16:00", lines[2])
}

func TestCSVRenderPadsShortRows(t *testing.T) {
	data := timetableDataset()
	data.Rows = append(data.Rows, []string{"2026-09-12"})

	content, err := NewCSVExporter().Render(data)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	assert.Equal(t, "2026-09-12,,", lines[3])
}

func TestCSVRenderRequiresHeaders(t *testing.T) {
	_, err := NewCSVExporter().Render(Dataset{})
	require.Error(t, err)
}

func TestPDFRenderPositionalRows(t *testing.T) {
	content, err := NewPDFExporter().Render(timetableDataset(), "Horário")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(content), "%PDF"))
}

func TestPDFRenderRequiresHeaders(t *testing.T) {
	_, err := NewPDFExporter().Render(Dataset{}, "")
	require.Error(t, err)
}
