package patcher

import "errors"

// 流水线级错误分类。外部命令自身的失败由
// runner.CommandError / runner.LaunchError 表达，这里只定义
// 后置条件与阶段检查的失败种类，调用方可用 errors.Is 穷举分支
var (
	// ErrRepackageFailed 重打包命令成功返回但中间 APK 不存在
	ErrRepackageFailed = errors.New("failed to create patched apk")
	// ErrAlignmentFailed 对齐命令成功返回但对齐后 APK 不存在
	ErrAlignmentFailed = errors.New("failed to create aligned apk")
	// ErrOutputMissing 所有命令都成功但最终产物缺失
	ErrOutputMissing = errors.New("final apk missing")
)
