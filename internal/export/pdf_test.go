package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rollcall/internal/attendance"
)

func TestWritePDF_Records(t *testing.T) {
	var buf bytes.Buffer
	err := WritePDF(&buf, fixtureRecords(), time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
	assert.Greater(t, buf.Len(), 500)
}

func TestWritePDF_Empty(t *testing.T) {
	var buf bytes.Buffer
	err := WritePDF(&buf, nil, time.Now())
	require.NoError(t, err, "empty record sets must not fail")
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
}

func TestWritePDF_ManyRecordsPaginate(t *testing.T) {
	var records []attendance.Record
	base := time.Date(2026, 3, 14, 8, 0, 0, 0, time.UTC)
	for i := 0; i < 120; i++ {
		records = append(records, attendance.Record{
			ID:          "rec",
			Name:        "Student",
			MatricNo:    "U" + string(rune('0'+i%10)),
			Course:      "CS101",
			SubmittedAt: base,
			Active:      true,
		})
	}

	var one, many bytes.Buffer
	require.NoError(t, WritePDF(&one, records[:1], base))
	require.NoError(t, WritePDF(&many, records, base))
	assert.Greater(t, many.Len(), one.Len())
}
