package runner

import "fmt"

// LaunchError 外部程序无法启动（二进制不存在、无执行权限等）
type LaunchError struct {
	Tool string
	Err  error
}

func (e *LaunchError) Error() string {
	return fmt.Sprintf("failed to launch %s: %v", e.Tool, e.Err)
}

func (e *LaunchError) Unwrap() error { return e.Err }

// CommandError 外部程序已运行但以非零状态退出
type CommandError struct {
	Description string
	ExitCode    int
	Stderr      string
}

func (e *CommandError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("%s failed with exit code %d: %s", e.Description, e.ExitCode, e.Stderr)
	}
	return fmt.Sprintf("%s failed with exit code %d", e.Description, e.ExitCode)
}
