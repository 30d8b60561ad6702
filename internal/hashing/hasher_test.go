package hashing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRecord() Record {
	return Record{
		MeterID:   "m1",
		Timestamp: 1640995200000,
		KwhDelta:  1.234,
		Nonce:     "a1a1a1a1a1a1a1a1a1a1a1a1a1a1a1a1",
	}
}

func TestRecordHash_Deterministic(t *testing.T) {
	r := sampleRecord()

	h1, err := RecordHash(r)
	require.NoError(t, err)
	h2, err := RecordHash(r)
	require.NoError(t, err)

	assert.Equal(t, h1, h2)
	assert.Len(t, h1, 64)
}

func TestRecordHash_Lowercase(t *testing.T) {
	h, err := RecordHash(sampleRecord())
	require.NoError(t, err)

	for _, c := range h {
		assert.False(t, c >= 'A' && c <= 'F', "record hash must be lowercase hex")
	}
}

func TestSigHash_Deterministic(t *testing.T) {
	r := sampleRecord()

	h1, err := SigHash(r)
	require.NoError(t, err)
	h2, err := SigHash(r)
	require.NoError(t, err)

	assert.Equal(t, h1, h2)
}

func TestSigHash_RecordHash_DifferByContent(t *testing.T) {
	a := sampleRecord()
	b := sampleRecord()
	b.KwhDelta = 9.99

	ha, err := RecordHash(a)
	require.NoError(t, err)
	hb, err := RecordHash(b)
	require.NoError(t, err)

	assert.NotEqual(t, ha, hb)

	sa, err := SigHash(a)
	require.NoError(t, err)
	sb, err := SigHash(b)
	require.NoError(t, err)

	assert.NotEqual(t, sa, sb)
}
