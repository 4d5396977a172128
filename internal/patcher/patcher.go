package patcher

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/apk-analysis/apk-intercept-go/internal/apk"
	"github.com/apk-analysis/apk-intercept-go/internal/config"
	"github.com/apk-analysis/apk-intercept-go/internal/runner"
	"github.com/apk-analysis/apk-intercept-go/internal/signer"
)

// Patcher 五阶段流水线编排器：
// 解包 -> 注入信任配置/改 manifest -> 探测 SDK -> 重打包 -> 签名/对齐
// 严格顺序执行，任一阶段失败立即中止，不回滚、不重试
type Patcher struct {
	bundle    *apk.Bundle
	tools     config.ToolPaths
	runner    *runner.Runner
	logger    *logrus.Logger
	keepFiles bool
}

func New(bundle *apk.Bundle, cfg *config.Config, logger *logrus.Logger) *Patcher {
	return &Patcher{
		bundle:    bundle,
		tools:     cfg.Tools,
		runner:    runner.New(logger, cfg.Verbose),
		logger:    logger,
		keepFiles: cfg.KeepFiles,
	}
}

// Run 执行完整流水线，返回最终产物路径
func (p *Patcher) Run(ctx context.Context) (string, error) {
	runLog := p.logger.WithFields(logrus.Fields{
		"run_id": uuid.NewString(),
		"apk":    p.bundle.BaseName,
	})
	runLog.Infof("Starting patch pipeline, original size %.2f MB", p.bundle.SizeMB())

	// STEP 1/5 解包
	if err := p.decompile(ctx); err != nil {
		return "", err
	}

	// STEP 2/5 注入信任配置并改写 manifest
	configPath, err := apk.WriteNetworkSecurityConfig(p.bundle.ExtractionDir)
	if err != nil {
		return "", fmt.Errorf("failed to write network security config: %w", err)
	}
	runLog.WithField("path", configPath).Info("Created network security config")

	if err := apk.SetNetworkSecurityConfig(p.bundle.ManifestPath()); err != nil {
		return "", err
	}
	runLog.Info("Updated AndroidManifest.xml with network security config attribute")

	// STEP 3/5 探测编译 SDK 版本（失败时内部兜底为 30，不中止）
	compileSDK := apk.DetectCompileSDK(p.bundle.ManifestPath(), p.logger)

	// STEP 4/5 重打包
	if err := p.repackage(ctx); err != nil {
		return "", err
	}

	// STEP 5/5 按策略签名 + 对齐
	strategy := signer.SelectStrategy(compileSDK)
	runLog.WithFields(logrus.Fields{
		"compile_sdk": compileSDK,
		"strategy":    strategy.String(),
	}).Info("Selected signing strategy")

	switch strategy {
	case signer.StrategyModern:
		if err := p.zipalign(ctx); err != nil {
			return "", err
		}
		if err := p.apksign(ctx); err != nil {
			return "", err
		}
	default:
		if err := p.jarsign(ctx); err != nil {
			return "", err
		}
		if err := p.zipalign(ctx); err != nil {
			return "", err
		}
	}

	// 后置校验：不管哪个分支，交付的都是对齐后的包
	if _, err := os.Stat(p.bundle.AlignedAPK); err != nil {
		return "", fmt.Errorf("%w: %s", ErrOutputMissing, p.bundle.AlignedAPK)
	}

	if !p.keepFiles {
		p.cleanup()
	}

	runLog.WithField("output", p.bundle.AlignedAPK).
		Infof("Patch pipeline completed, final size %.2f MB", fileSizeMB(p.bundle.AlignedAPK))
	return p.bundle.AlignedAPK, nil
}

// decompile 解包 APK，先清掉上次运行残留的解包目录
func (p *Patcher) decompile(ctx context.Context) error {
	if _, err := os.Stat(p.bundle.ExtractionDir); err == nil {
		p.logger.WithField("dir", p.bundle.ExtractionDir).Debug("Removing existing extraction directory")
		if err := os.RemoveAll(p.bundle.ExtractionDir); err != nil {
			return fmt.Errorf("failed to clear extraction directory: %w", err)
		}
	}

	argv := []string{
		p.tools.Java, "-jar", p.tools.Apktool,
		"-f", "d", p.bundle.Path,
		"-o", p.bundle.ExtractionDir,
	}
	_, err := p.runner.Run(ctx, fmt.Sprintf("STEP 1/5: Decompiling APK (%.2f MB)", p.bundle.SizeMB()), argv)
	return err
}

// repackage 重打包并校验中间 APK 确实生成
func (p *Patcher) repackage(ctx context.Context) error {
	argv := []string{
		p.tools.Java, "-jar", p.tools.Apktool,
		"-f", "b", p.bundle.ExtractionDir,
		"-o", p.bundle.PatchedAPK,
		"--use-aapt2",
	}
	if _, err := p.runner.Run(ctx, "STEP 4/5: Repackaging APK", argv); err != nil {
		return err
	}

	if _, err := os.Stat(p.bundle.PatchedAPK); err != nil {
		return fmt.Errorf("%w: %s", ErrRepackageFailed, p.bundle.PatchedAPK)
	}
	return nil
}

func (p *Patcher) jarsign(ctx context.Context) error {
	desc := fmt.Sprintf("STEP 5/5: Signing APK with jarsigner (%.2f MB)", fileSizeMB(p.bundle.PatchedAPK))
	_, err := p.runner.Run(ctx, desc, signer.JarsignCommand(p.tools, p.bundle.PatchedAPK))
	return err
}

func (p *Patcher) apksign(ctx context.Context) error {
	desc := fmt.Sprintf("STEP 5/5: Signing APK with apksigner (%.2f MB)", fileSizeMB(p.bundle.AlignedAPK))
	_, err := p.runner.Run(ctx, desc, signer.ApksignCommand(p.tools, p.bundle.AlignedAPK))
	return err
}

// zipalign 对齐并校验产物存在
func (p *Patcher) zipalign(ctx context.Context) error {
	desc := fmt.Sprintf("STEP 5/5: Aligning APK (%.2f MB)", fileSizeMB(p.bundle.PatchedAPK))
	argv := signer.ZipalignCommand(p.tools, p.bundle.PatchedAPK, p.bundle.AlignedAPK)
	if _, err := p.runner.Run(ctx, desc, argv); err != nil {
		return err
	}

	if _, err := os.Stat(p.bundle.AlignedAPK); err != nil {
		return fmt.Errorf("%w: %s", ErrAlignmentFailed, p.bundle.AlignedAPK)
	}
	return nil
}

// cleanup 尽力而为地移除中间产物，失败只告警不影响结果
func (p *Patcher) cleanup() {
	p.logger.Info("Cleaning up temporary files")

	if _, err := os.Stat(p.bundle.ExtractionDir); err == nil {
		p.logger.WithField("dir", p.bundle.ExtractionDir).Debug("Removing extraction directory")
		if err := os.RemoveAll(p.bundle.ExtractionDir); err != nil {
			p.logger.WithError(err).Warn("Could not remove extraction directory")
		}
	}

	if p.bundle.PatchedAPK != p.bundle.AlignedAPK {
		if _, err := os.Stat(p.bundle.PatchedAPK); err == nil {
			p.logger.WithField("file", p.bundle.PatchedAPK).Debug("Removing intermediate APK")
			if err := os.Remove(p.bundle.PatchedAPK); err != nil {
				p.logger.WithError(err).Warn("Could not remove intermediate APK")
			}
		}
	}
}

func fileSizeMB(path string) float64 {
	info, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return float64(info.Size()) / (1024 * 1024)
}
