package signer

import "github.com/apk-analysis/apk-intercept-go/internal/config"

// 调试签名固定凭据（与 Android SDK 自带 debug.keystore 一致，非用户可配）
const (
	KeyAlias      = "androiddebugkey"
	KeyPassword   = "android"
	StorePassword = "android"
	SigAlg        = "SHA1withRSA"
	DigestAlg     = "SHA1"
)

// Strategy 签名策略：签名和对齐的先后顺序由声明的 SDK 版本决定
type Strategy int

const (
	// StrategyLegacy SDK < 30：先 jarsigner 签名，再 zipalign 对齐
	StrategyLegacy Strategy = iota
	// StrategyModern SDK >= 30：先 zipalign 对齐，再 apksigner 签名
	// apksigner 要求目标包已对齐，v2 签名覆盖整个文件
	StrategyModern
)

func (s Strategy) String() string {
	if s == StrategyModern {
		return "zipalign+apksigner"
	}
	return "jarsigner+zipalign"
}

// ModernSDKFloor 现代签名策略的版本下界
const ModernSDKFloor = 30

// SelectStrategy 按检测到的编译 SDK 版本选择策略，30 含在现代侧
func SelectStrategy(compileSDK int) Strategy {
	if compileSDK >= ModernSDKFloor {
		return StrategyModern
	}
	return StrategyLegacy
}

// JarsignCommand jarsigner 调用参数（SDK < 30 路径，对中间包签名）
func JarsignCommand(tools config.ToolPaths, apkPath string) []string {
	return []string{
		tools.Jarsigner,
		"-verbose",
		"-keystore", tools.Keystore,
		"-keypass", KeyPassword,
		"-storepass", StorePassword,
		"-sigalg", SigAlg,
		"-digestalg", DigestAlg,
		apkPath,
		KeyAlias,
	}
}

// ApksignCommand apksigner 调用参数（SDK >= 30 路径，对已对齐包签名）
func ApksignCommand(tools config.ToolPaths, apkPath string) []string {
	return []string{
		tools.Apksigner, "sign",
		"--ks", tools.Keystore,
		"--ks-key-alias", KeyAlias,
		"--ks-pass", "pass:" + StorePassword,
		apkPath,
	}
}

// ZipalignCommand zipalign 调用参数，4 字节边界对齐
func ZipalignCommand(tools config.ToolPaths, inPath, outPath string) []string {
	return []string{
		tools.Zipalign,
		"-p", "-f", "4",
		inPath,
		outPath,
	}
}
