package config

import (
	"bytes"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// 内置工具默认值（与 apktool 2.11.0 发行版对应）
const (
	DefaultApktoolJar = "apktool_2.11.0.jar"
	DefaultKeystore   = "debug.keystore"
	DefaultJava       = "java"
	DefaultZipalign   = "zipalign"
	DefaultJarsigner  = "jarsigner"
	DefaultApksigner  = "apksigner"
)

// ToolPaths 外部工具路径表（六个固定键，加载后不可变）
type ToolPaths struct {
	Apktool   string `mapstructure:"apktool"`
	Keystore  string `mapstructure:"keystore"`
	Java      string `mapstructure:"java"`
	Zipalign  string `mapstructure:"zipalign"`
	Jarsigner string `mapstructure:"jarsigner"`
	Apksigner string `mapstructure:"apksigner"`
}

// Config 单次运行的完整配置
type Config struct {
	Tools     ToolPaths
	Verbose   bool
	KeepFiles bool
	Log       LogConfig
}

type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // json, text
}

// DefaultToolPaths 返回内置默认工具表
func DefaultToolPaths() ToolPaths {
	return ToolPaths{
		Apktool:   DefaultApktoolJar,
		Keystore:  DefaultKeystore,
		Java:      DefaultJava,
		Zipalign:  DefaultZipalign,
		Jarsigner: DefaultJarsigner,
		Apksigner: DefaultApksigner,
	}
}

// LoadToolPaths 加载工具表：内置默认值 + 用户覆盖
// override 可以是内联 JSON 字符串，也可以是 JSON 文件路径
// 覆盖内容非法时退回默认值并告警，不算硬错误
func LoadToolPaths(override string, logger *logrus.Logger) ToolPaths {
	v := viper.New()
	v.SetConfigType("json")
	v.SetDefault("apktool", DefaultApktoolJar)
	v.SetDefault("keystore", DefaultKeystore)
	v.SetDefault("java", DefaultJava)
	v.SetDefault("zipalign", DefaultZipalign)
	v.SetDefault("jarsigner", DefaultJarsigner)
	v.SetDefault("apksigner", DefaultApksigner)

	if override != "" {
		data := []byte(override)
		// 文件路径优先，不是文件再按内联 JSON 处理
		if info, err := os.Stat(override); err == nil && info.Mode().IsRegular() {
			content, err := os.ReadFile(override)
			if err != nil {
				logger.WithError(err).WithField("path", override).
					Warn("Failed to read tools config file, using default tool paths")
				data = nil
			} else {
				data = content
			}
		}
		if data != nil {
			if err := v.ReadConfig(bytes.NewReader(data)); err != nil {
				logger.WithError(err).Warn("Failed to parse tools JSON, using default tool paths")
			}
		}
	}

	var tools ToolPaths
	if err := v.Unmarshal(&tools); err != nil {
		logger.WithError(err).Warn("Failed to decode tool paths, using default tool paths")
		return DefaultToolPaths()
	}
	return tools
}
