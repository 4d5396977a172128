package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/docopt/docopt-go"

	"github.com/apk-analysis/apk-intercept-go/internal/apk"
	"github.com/apk-analysis/apk-intercept-go/internal/config"
	"github.com/apk-analysis/apk-intercept-go/internal/patcher"
)

var (
	Version   = "1.1.0"
	BuildTime = "unknown"
)

const usage = `interceptor - Patch Android APKs to enable proxy interception

Adds a network security configuration trusting user-installed certificate
authorities, then repackages, re-signs and realigns the APK so HTTPS traffic
can be inspected with tools like Burp Suite or mitmproxy.

Usage:
  interceptor --apk=<path> [--verbose] [--keep-files] [--tools=<json>]
  interceptor -h | --help
  interceptor --version

Options:
  --apk=<path>    Path to the APK file to patch
  --verbose       Enable verbose output
  --keep-files    Keep intermediate files after patching
  --tools=<json>  Custom tool paths as inline JSON or a path to a JSON file
                  (keys: apktool, keystore, java, zipalign, jarsigner, apksigner)
  -h --help       Show this help message
  --version       Show version

Examples:
  interceptor --apk=path/to/app.apk
  interceptor --apk=app.apk --verbose --keep-files
  interceptor --apk=app.apk --tools='{"zipalign":"/opt/sdk/build-tools/34.0.0/zipalign"}'
`

func main() {
	os.Exit(run())
}

func run() int {
	opts, err := docopt.ParseArgs(usage, os.Args[1:], Version)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing arguments: %v\n", err)
		return 1
	}

	apkPath, _ := opts.String("--apk")
	verbose, _ := opts.Bool("--verbose")
	keepFiles, _ := opts.Bool("--keep-files")
	toolsJSON, _ := opts.String("--tools")

	logLevel := "info"
	if verbose {
		logLevel = "debug"
	}
	logger := config.InitLogger(&config.LogConfig{Level: logLevel, Format: "text"})

	logger.Infof("APK Interceptor v%s (build %s)", Version, BuildTime)

	// 展开 ~ 前缀
	apkPath = expandHome(apkPath)

	bundle, err := apk.NewBundle(apkPath)
	if err != nil {
		logger.WithError(err).Error("APK file not found")
		return 1
	}

	cfg := &config.Config{
		Tools:     config.LoadToolPaths(toolsJSON, logger),
		Verbose:   verbose,
		KeepFiles: keepFiles,
	}

	patcher.CheckDependencies(cfg.Tools, logger)

	finalAPK, err := patcher.New(bundle, cfg, logger).Run(context.Background())
	if err != nil {
		logger.WithError(err).Error("Failed to patch the APK")
		if verbose {
			logger.Debugf("Error chain: %+v", err)
		}
		return 1
	}

	logger.WithField("output", finalAPK).
		Info("The APK has been patched to allow proxy interception")
	return 0
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}
