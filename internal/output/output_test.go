package output

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompressionFor(t *testing.T) {
	tests := map[string]Compression{
		"graph.yaml":     None,
		"graph.yaml.gz":  Gzip,
		"graph.yaml.GZ":  Gzip,
		"graph.yaml.zst": Zstd,
		"graph.zstd":     Zstd,
		"graph":          None,
	}
	for path, want := range tests {
		assert.Equal(t, want, CompressionFor(path), path)
	}
}

func TestEncodeDecode(t *testing.T) {
	body := []byte(strings.Repeat("_defs:\n  - User_b8c1|User|class\n", 50))

	for _, c := range []Compression{None, Gzip, Zstd} {
		t.Run(c.String(), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, Encode(&buf, c, body))
			if c != None {
				assert.Less(t, buf.Len(), len(body))
			}

			got, err := Decode(&buf, c)
			require.NoError(t, err)
			assert.Equal(t, body, got)
		})
	}
}

func TestWriteReadFile(t *testing.T) {
	dir := t.TempDir()
	body := []byte("_meta:\n  name: ycg-v1.3\n")

	for _, name := range []string{"out/plain.yaml", "out/packed.yaml.gz", "out/packed.yaml.zst"} {
		path := filepath.Join(dir, name)
		require.NoError(t, WriteFile(path, body))

		_, err := os.Stat(path + ".tmp")
		assert.True(t, os.IsNotExist(err), "temporary file left behind")

		got, err := ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, body, got, name)
	}
}

func TestReadFile_Missing(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
