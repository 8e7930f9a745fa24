package artifact_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexfrei/mcx/pkg/artifact"
	"github.com/lexfrei/mcx/pkg/loader"
)

func TestValidateURL(t *testing.T) {
	t.Run("accepts valid HTTPS URL", func(t *testing.T) {
		require.NoError(t, artifact.ValidateURL("https://piston-data.mojang.com/v1/objects/abc/server.jar"))
	})

	t.Run("accepts HTTP URL", func(t *testing.T) {
		require.NoError(t, artifact.ValidateURL("http://127.0.0.1:8080/server.jar"))
	})

	t.Run("rejects empty URL", func(t *testing.T) {
		err := artifact.ValidateURL("")
		require.ErrorIs(t, err, loader.ErrInvalidMetadata)
		assert.Contains(t, err.Error(), "missing")
	})

	t.Run("rejects other schemes", func(t *testing.T) {
		err := artifact.ValidateURL("ftp://example.com/server.jar")
		require.ErrorIs(t, err, loader.ErrInvalidMetadata)
	})

	t.Run("rejects URL without host", func(t *testing.T) {
		err := artifact.ValidateURL("https:///server.jar")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "host")
	})

	t.Run("rejects malformed URL", func(t *testing.T) {
		require.Error(t, artifact.ValidateURL("://not-a-url"))
	})
}

func TestDescriptorValidate(t *testing.T) {
	valid := artifact.Descriptor{URL: "https://example.com/server.jar", FileName: "server.jar"}

	require.NoError(t, valid.Validate())

	for name, d := range map[string]artifact.Descriptor{
		"path traversal":  {URL: valid.URL, FileName: "../server.jar"},
		"empty file name": {URL: valid.URL},
		"short sha1":      {URL: valid.URL, FileName: "server.jar", SHA1: "abc"},
		"non hex sha256":  {URL: valid.URL, FileName: "server.jar", SHA256: strings.Repeat("z", 64)},
		"negative size":   {URL: valid.URL, FileName: "server.jar", Size: -1},
		"missing url":     {FileName: "server.jar"},
	} {
		t.Run(name, func(t *testing.T) {
			assert.ErrorIs(t, d.Validate(), loader.ErrInvalidMetadata)
		})
	}
}

func TestParseSHA1(t *testing.T) {
	sum := strings.Repeat("a1", 20)

	got, err := artifact.ParseSHA1([]byte(sum + "\n"))
	require.NoError(t, err)
	assert.Equal(t, sum, got)

	got, err = artifact.ParseSHA1([]byte(strings.ToUpper(sum) + "  neoforge-installer.jar\n"))
	require.NoError(t, err)
	assert.Equal(t, sum, got)

	_, err = artifact.ParseSHA1([]byte("   "))
	require.ErrorIs(t, err, loader.ErrInvalidMetadata)

	_, err = artifact.ParseSHA1([]byte("<html>not found</html>"))
	require.ErrorIs(t, err, loader.ErrInvalidMetadata)
}
