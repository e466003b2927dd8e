package pkg

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingWriter struct{}

func (fw failingWriter) Write(p []byte) (int, error) {
	return 0, errors.New("broken pipe")
}

func TestCombinedWriter_WritesToAll(t *testing.T) {
	var buf1, buf2 bytes.Buffer
	cw := NewCombinedWriter(&buf1, &buf2)

	n, err := cw.Write([]byte("treino"))
	require.NoError(t, err)
	assert.Equal(t, 12, n) // 6 bytes written twice
	assert.Equal(t, "treino", buf1.String())
	assert.Equal(t, "treino", buf2.String())
}

func TestCombinedWriter_KeepsWritingOnError(t *testing.T) {
	var buf bytes.Buffer
	cw := NewCombinedWriter(failingWriter{}, &buf)

	_, err := cw.Write([]byte("treino"))
	require.Error(t, err)
	assert.Equal(t, "treino", buf.String())
}
