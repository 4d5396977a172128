package runner

import (
	"bufio"
	"context"
	"errors"
	"os/exec"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

// Result 外部命令执行结果
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// Runner 外部命令执行器：逐行捕获输出，阻塞到进程退出
type Runner struct {
	logger  *logrus.Logger
	verbose bool
}

func New(logger *logrus.Logger, verbose bool) *Runner {
	return &Runner{
		logger:  logger,
		verbose: verbose,
	}
}

// Run 执行命令并要求成功：非零退出码转换为 *CommandError
func (r *Runner) Run(ctx context.Context, description string, argv []string) (*Result, error) {
	result, err := r.RunUnchecked(ctx, description, argv)
	if err != nil {
		return nil, err
	}
	if result.ExitCode != 0 {
		r.logger.WithFields(logrus.Fields{
			"description": description,
			"exit_code":   result.ExitCode,
		}).Error("External command failed")
		return nil, &CommandError{
			Description: description,
			ExitCode:    result.ExitCode,
			Stderr:      strings.TrimSpace(result.Stderr),
		}
	}
	return result, nil
}

// RunUnchecked 执行命令但不检查退出码，只在启动失败时返回错误
func (r *Runner) RunUnchecked(ctx context.Context, description string, argv []string) (*Result, error) {
	r.logger.WithField("tool", argv[0]).Infof("[+] %s", description)
	if r.verbose {
		r.logger.Debugf("    Command: %s", strings.Join(argv, " "))
	}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)

	stdoutPipe, err := cmd.StdoutPipe()
	if err != nil {
		return nil, &LaunchError{Tool: argv[0], Err: err}
	}
	stderrPipe, err := cmd.StderrPipe()
	if err != nil {
		return nil, &LaunchError{Tool: argv[0], Err: err}
	}

	if err := cmd.Start(); err != nil {
		return nil, &LaunchError{Tool: argv[0], Err: err}
	}

	// 两条流各自一个 goroutine 逐行消费，进程退出前必须排空
	var stdout, stderr strings.Builder
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		scanner := bufio.NewScanner(stdoutPipe)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			line := scanner.Text()
			stdout.WriteString(line)
			stdout.WriteByte('\n')
			if r.verbose {
				r.logger.Infof("    %s", line)
			} else {
				r.logger.Debugf("    %s", line)
			}
		}
	}()

	go func() {
		defer wg.Done()
		scanner := bufio.NewScanner(stderrPipe)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			line := scanner.Text()
			stderr.WriteString(line)
			stderr.WriteByte('\n')
			if r.verbose {
				r.logger.Infof("    [stderr] %s", line)
			} else {
				r.logger.Debugf("    [stderr] %s", line)
			}
		}
	}()

	wg.Wait()

	err = cmd.Wait()
	result := &Result{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
			return result, nil
		}
		return nil, &LaunchError{Tool: argv[0], Err: err}
	}
	result.ExitCode = cmd.ProcessState.ExitCode()
	return result, nil
}
