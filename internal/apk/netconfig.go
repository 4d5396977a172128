package apk

import (
	"os"
	"path/filepath"
)

// NetworkSecurityConfigFile 注入的资源文件名
const NetworkSecurityConfigFile = "network_security_config.xml"

// NetworkSecurityConfig 注入的信任配置，逐字节固定：
// base-config 同时信任系统和用户安装的 CA，debug-overrides 信任用户 CA，
// 代理抓包工具的证书因此会被接受
const NetworkSecurityConfig = `<?xml version="1.0" encoding="utf-8"?>
<network-security-config>
    <base-config>
        <trust-anchors>
            <certificates src="system" />
            <certificates src="user" />
        </trust-anchors>
    </base-config>
    <debug-overrides>
        <trust-anchors>
            <certificates src="user" />
        </trust-anchors>
    </debug-overrides>
</network-security-config>`

// WriteNetworkSecurityConfig 把信任配置写入 res/xml/network_security_config.xml
// 目录不存在则递归创建，同名文件无条件覆盖
func WriteNetworkSecurityConfig(extractionDir string) (string, error) {
	xmlDir := filepath.Join(extractionDir, "res", "xml")
	if err := os.MkdirAll(xmlDir, 0755); err != nil {
		return "", err
	}

	configPath := filepath.Join(xmlDir, NetworkSecurityConfigFile)
	if err := os.WriteFile(configPath, []byte(NetworkSecurityConfig), 0644); err != nil {
		return "", err
	}
	return configPath, nil
}
