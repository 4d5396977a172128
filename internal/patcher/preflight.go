package patcher

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/apk-analysis/apk-intercept-go/internal/config"
)

// CheckDependencies 运行前检查外部工具是否可用
// 只告警不中止：用户可能通过 --tools 覆盖，也可能只跑到用不上
// 缺失工具的阶段
func CheckDependencies(tools config.ToolPaths, logger *logrus.Logger) {
	// apktool jar 和 keystore 是文件，不走 PATH
	if _, err := os.Stat(tools.Apktool); err != nil {
		logger.WithField("path", tools.Apktool).Warn("apktool jar not found")
	}
	if _, err := os.Stat(tools.Keystore); err != nil {
		logger.WithField("path", tools.Keystore).Warn("keystore not found")
	}

	var missing []string
	commands := map[string]string{
		"java":      tools.Java,
		"zipalign":  tools.Zipalign,
		"jarsigner": tools.Jarsigner,
		"apksigner": tools.Apksigner,
	}
	for name, path := range commands {
		if filepath.IsAbs(path) {
			if _, err := os.Stat(path); err != nil {
				missing = append(missing, name+" at "+path)
			}
			continue
		}
		if _, err := exec.LookPath(path); err != nil {
			missing = append(missing, name)
		}
	}

	if len(missing) > 0 {
		logger.WithField("tools", strings.Join(missing, ", ")).
			Warn("Some tools were not found, custom paths can be set with --tools")
	}

	logger.WithFields(logrus.Fields{
		"apktool":   tools.Apktool,
		"keystore":  tools.Keystore,
		"java":      tools.Java,
		"zipalign":  tools.Zipalign,
		"jarsigner": tools.Jarsigner,
		"apksigner": tools.Apksigner,
	}).Debug("Tool paths")
}
