package apk

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestWriteNetworkSecurityConfig 测试注入内容逐字节固定
func TestWriteNetworkSecurityConfig(t *testing.T) {
	dir := t.TempDir()

	path, err := WriteNetworkSecurityConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "res", "xml", "network_security_config.xml"), path)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, NetworkSecurityConfig, string(content))
	assert.Contains(t, string(content), `<certificates src="user" />`)
}

// TestWriteNetworkSecurityConfig_Overwrite 测试同名文件被无条件覆盖
func TestWriteNetworkSecurityConfig_Overwrite(t *testing.T) {
	dir := t.TempDir()
	xmlDir := filepath.Join(dir, "res", "xml")
	require.NoError(t, os.MkdirAll(xmlDir, 0755))
	stale := filepath.Join(xmlDir, "network_security_config.xml")
	require.NoError(t, os.WriteFile(stale, []byte("<old/>"), 0644))

	_, err := WriteNetworkSecurityConfig(dir)
	require.NoError(t, err)

	content, err := os.ReadFile(stale)
	require.NoError(t, err)
	assert.Equal(t, NetworkSecurityConfig, string(content))
}

// TestWriteNetworkSecurityConfig_Idempotent 测试重复执行结果一致
func TestWriteNetworkSecurityConfig_Idempotent(t *testing.T) {
	dir := t.TempDir()

	first, err := WriteNetworkSecurityConfig(dir)
	require.NoError(t, err)
	firstContent, err := os.ReadFile(first)
	require.NoError(t, err)

	second, err := WriteNetworkSecurityConfig(dir)
	require.NoError(t, err)
	secondContent, err := os.ReadFile(second)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, firstContent, secondContent)
}
