package signer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/apk-analysis/apk-intercept-go/internal/config"
)

// TestSelectStrategy 测试签名策略按 SDK 版本的分界，30 含在现代侧
func TestSelectStrategy(t *testing.T) {
	tests := []struct {
		name       string
		compileSDK int
		expected   Strategy
	}{
		{"legacy sdk 21", 21, StrategyLegacy},
		{"boundary below 29", 29, StrategyLegacy},
		{"boundary exact 30", 30, StrategyModern},
		{"modern sdk 34", 34, StrategyModern},
		{"default fallback 30", 30, StrategyModern},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SelectStrategy(tt.compileSDK))
		})
	}
}

// TestJarsignCommand 测试 jarsigner 参数向量与参考工具链逐项一致
func TestJarsignCommand(t *testing.T) {
	tools := config.ToolPaths{Jarsigner: "jarsigner", Keystore: "debug.keystore"}

	argv := JarsignCommand(tools, "/work/app_patched.apk")

	assert.Equal(t, []string{
		"jarsigner",
		"-verbose",
		"-keystore", "debug.keystore",
		"-keypass", "android",
		"-storepass", "android",
		"-sigalg", "SHA1withRSA",
		"-digestalg", "SHA1",
		"/work/app_patched.apk",
		"androiddebugkey",
	}, argv)
}

// TestApksignCommand 测试 apksigner 参数向量
func TestApksignCommand(t *testing.T) {
	tools := config.ToolPaths{Apksigner: "/sdk/apksigner", Keystore: "/keys/debug.keystore"}

	argv := ApksignCommand(tools, "/work/app_patched_zipaligned.apk")

	assert.Equal(t, []string{
		"/sdk/apksigner", "sign",
		"--ks", "/keys/debug.keystore",
		"--ks-key-alias", "androiddebugkey",
		"--ks-pass", "pass:android",
		"/work/app_patched_zipaligned.apk",
	}, argv)
}

// TestZipalignCommand 测试 zipalign 参数向量（4 字节对齐，强制覆盖）
func TestZipalignCommand(t *testing.T) {
	tools := config.ToolPaths{Zipalign: "zipalign"}

	argv := ZipalignCommand(tools, "in.apk", "out.apk")

	assert.Equal(t, []string{"zipalign", "-p", "-f", "4", "in.apk", "out.apk"}, argv)
}
