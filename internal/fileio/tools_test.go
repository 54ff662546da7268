package fileio

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/agentfs/fileio-mcp/internal/protocol"
	"github.com/agentfs/fileio-mcp/internal/registry"
)

func TestCatalogRegisters(t *testing.T) {
	reg, err := registry.New(zap.NewNop(), Tools()...)
	require.NoError(t, err)
	assert.Equal(t, 27, reg.Len())
}

func TestCatalogDangerousAnnotations(t *testing.T) {
	reg, err := registry.New(zap.NewNop(), Tools()...)
	require.NoError(t, err)

	dangerous := map[string]bool{
		"fileio_remove":           true,
		"fileio_remove_directory": true,
		"fileio_change_ownership": true,
	}
	for _, info := range reg.List() {
		if dangerous[info.Name] {
			require.NotNil(t, info.Annotations, "%s must carry annotations", info.Name)
			assert.True(t, info.Annotations.Dangerous, "%s must be tagged dangerous", info.Name)
		} else {
			assert.Nil(t, info.Annotations, "%s must not be tagged dangerous", info.Name)
		}
	}
}

func TestPathListAcceptsStringOrArray(t *testing.T) {
	var single PathList
	require.NoError(t, json.Unmarshal([]byte(`"/tmp/a"`), &single))
	assert.Equal(t, PathList{"/tmp/a"}, single)

	var many PathList
	require.NoError(t, json.Unmarshal([]byte(`["/tmp/a","/tmp/b"]`), &many))
	assert.Equal(t, PathList{"/tmp/a", "/tmp/b"}, many)

	var bad PathList
	require.Error(t, json.Unmarshal([]byte(`42`), &bad))
}

func TestDispatchCountLinesPartialFailure(t *testing.T) {
	reg, err := registry.New(zap.NewNop(), Tools()...)
	require.NoError(t, err)

	dir := t.TempDir()
	path := writeTestFile(t, dir, "ten.txt", "1\n2\n3\n4\n5\n6\n7\n8\n9\n10\n")
	missing := filepath.Join(dir, "missing.txt")

	args, err := json.Marshal(map[string]any{"path": []string{path, missing}})
	require.NoError(t, err)

	result, perr := reg.Dispatch(context.Background(), "fileio_count_lines", args)
	require.Nil(t, perr)
	require.Len(t, result.Content, 1)

	records, ok := result.Content[0].Value.([]LineCountResult)
	require.True(t, ok, "unexpected content value %T", result.Content[0].Value)
	require.Len(t, records, 2)

	assert.Equal(t, StatusOK, records[0].Status)
	require.NotNil(t, records[0].Lines)
	assert.EqualValues(t, 10, *records[0].Lines)
	assert.True(t, records[0].Exists)

	assert.Contains(t, records[1].Status, "error")
	assert.Nil(t, records[1].Lines)
	assert.False(t, records[1].Exists)
}

func TestDispatchRejectsSchemaViolation(t *testing.T) {
	reg, err := registry.New(zap.NewNop(), Tools()...)
	require.NoError(t, err)

	// path is required
	_, perr := reg.Dispatch(context.Background(), "fileio_count_lines", json.RawMessage(`{}`))
	require.NotNil(t, perr)
	assert.Equal(t, protocol.CodeInvalidParams, perr.Code)

	// mode must be a string
	_, perr = reg.Dispatch(context.Background(), "fileio_set_permissions",
		json.RawMessage(`{"path":"/tmp/x","mode":755}`))
	require.NotNil(t, perr)
	assert.Equal(t, protocol.CodeInvalidParams, perr.Code)
}

func TestDispatchUnknownToolNotFound(t *testing.T) {
	reg, err := registry.New(zap.NewNop(), Tools()...)
	require.NoError(t, err)

	_, perr := reg.Dispatch(context.Background(), "fileio_format_disk", nil)
	require.NotNil(t, perr)
	assert.Equal(t, protocol.CodeMethodNotFound, perr.Code)
}

func TestDispatchCurrentDirectory(t *testing.T) {
	reg, err := registry.New(zap.NewNop(), Tools()...)
	require.NoError(t, err)

	result, perr := reg.Dispatch(context.Background(), "fileio_get_current_directory", nil)
	require.Nil(t, perr)
	require.Len(t, result.Content, 1)
	assert.True(t, filepath.IsAbs(result.Content[0].Text))
}

func TestDispatchTemporaryRoundTrip(t *testing.T) {
	reg, err := registry.New(zap.NewNop(), Tools()...)
	require.NoError(t, err)

	base := t.TempDir()
	args := json.RawMessage(fmt.Sprintf(`{"type":"file","template":%q}`, base))

	result, perr := reg.Dispatch(context.Background(), "fileio_create_temporary", args)
	require.Nil(t, perr)
	require.Len(t, result.Content, 1)
	assert.FileExists(t, result.Content[0].Text)
}
