package capture

import (
	"bytes"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordAndRead(t *testing.T) {
	var buf bytes.Buffer
	rec := NewRecorder(&buf)
	rec.now = func() time.Time { return time.Unix(1513785744, 0) }

	require.NoError(t, rec.Record(Outbound, []byte(`{"action":"subscribe","service":"event","worlds":["1"]}`)))
	require.NoError(t, rec.Record(Inbound, []byte("{\n  \"connected\": \"true\"\n}")))
	require.NoError(t, rec.Record(Inbound, []byte(`not json`)))
	require.NoError(t, rec.Close())

	r := NewReader(&buf)
	records, err := r.All()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, Outbound, records[0].Direction)
	assert.JSONEq(t, `{"action":"subscribe","service":"event","worlds":["1"]}`, string(records[0].Bytes()))
	assert.True(t, time.Unix(1513785744, 0).Equal(records[0].Time()))

	assert.Equal(t, Inbound, records[1].Direction)
	assert.Equal(t, `{"connected":"true"}`, string(records[1].Bytes()))

	assert.Equal(t, "not json", string(records[2].Bytes()))
	assert.Empty(t, records[2].Frame)

	_, err = r.Next()
	assert.ErrorIs(t, err, io.EOF)
}

func TestCreateOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.br")

	rec, err := Create(path)
	require.NoError(t, err)
	require.NoError(t, rec.Record(Inbound, []byte(`{"online":"true","detail":"EventServerEndpoint_Connery_1"}`)))
	require.NoError(t, rec.Close())

	r, err := Open(path)
	require.NoError(t, err)
	defer r.Close()

	got, err := r.Next()
	require.NoError(t, err)
	assert.JSONEq(t, `{"online":"true","detail":"EventServerEndpoint_Connery_1"}`, string(got.Frame))
}

func TestReaderRejectsGarbage(t *testing.T) {
	var buf bytes.Buffer
	rec := NewRecorder(&buf)
	_, err := rec.bw.Write([]byte("{broken\n"))
	require.NoError(t, err)
	require.NoError(t, rec.Close())

	_, err = NewReader(&buf).Next()
	assert.Error(t, err)
}
