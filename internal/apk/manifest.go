package apk

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/beevik/etree"
	"github.com/sirupsen/logrus"
)

var (
	// ErrManifestNotFound 解包目录中没有 AndroidManifest.xml
	ErrManifestNotFound = errors.New("AndroidManifest.xml not found")
	// ErrMalformedManifest manifest 不是合法 XML 或缺少 application 元素
	ErrMalformedManifest = errors.New("malformed AndroidManifest.xml")
)

// DefaultCompileSDK manifest 缺失或无法解析时的兜底版本
const DefaultCompileSDK = 30

const (
	networkSecurityConfigAttr  = "android:networkSecurityConfig"
	networkSecurityConfigValue = "@xml/network_security_config"
	compileSDKAttr             = "android:compileSdkVersion"
	xmlDeclaration             = `version="1.0" encoding="utf-8" standalone="no"`
)

// SetNetworkSecurityConfig 在 application 元素上指向注入的信任配置资源
// 对单个属性做读-改-写，其余 manifest 内容结构保持不变
func SetNetworkSecurityConfig(manifestPath string) error {
	if _, err := os.Stat(manifestPath); err != nil {
		return fmt.Errorf("%w: %s", ErrManifestNotFound, manifestPath)
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromFile(manifestPath); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedManifest, err)
	}

	root := doc.Root()
	if root == nil {
		return fmt.Errorf("%w: no root element", ErrMalformedManifest)
	}

	application := root.SelectElement("application")
	if application == nil {
		return fmt.Errorf("%w: application element not found", ErrMalformedManifest)
	}

	application.CreateAttr(networkSecurityConfigAttr, networkSecurityConfigValue)

	// 回写时统一加固定 XML 声明，android: 前缀原样保留
	out := etree.NewDocument()
	out.CreateProcInst("xml", xmlDeclaration)
	out.AddChild(root.Copy())
	return out.WriteToFile(manifestPath)
}

// DetectCompileSDK 从 manifest 根元素读 compileSdkVersion
// 缺失、非数字或任何解析错误都回落到 30，从不让流水线失败
func DetectCompileSDK(manifestPath string, logger *logrus.Logger) int {
	doc := etree.NewDocument()
	if err := doc.ReadFromFile(manifestPath); err != nil {
		logger.WithError(err).Warnf("Failed to parse manifest, defaulting to SDK %d", DefaultCompileSDK)
		return DefaultCompileSDK
	}

	root := doc.Root()
	if root == nil {
		logger.Warnf("Manifest has no root element, defaulting to SDK %d", DefaultCompileSDK)
		return DefaultCompileSDK
	}

	raw := root.SelectAttrValue(compileSDKAttr, "")
	if raw == "" {
		logger.Warnf("compileSdkVersion not found in manifest, defaulting to SDK %d", DefaultCompileSDK)
		return DefaultCompileSDK
	}

	sdk, err := strconv.Atoi(raw)
	if err != nil {
		logger.WithField("value", raw).Warnf("compileSdkVersion is not numeric, defaulting to SDK %d", DefaultCompileSDK)
		return DefaultCompileSDK
	}

	logger.WithField("compile_sdk", sdk).Info("Detected Android SDK version")
	return sdk
}
