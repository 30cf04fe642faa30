package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/lk2023060901/giftdraw/app/giftdraw/internal/model"
	"github.com/lk2023060901/giftdraw/pkg/app"
	"github.com/lk2023060901/giftdraw/pkg/logger"
	"github.com/spf13/pflag"
)

// 退出码
const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run 解析参数并执行一条命令，返回退出码
func run(args []string, stdout, stderr io.Writer) int {
	var g globalFlags
	fs := newFlagSet(&g)
	fs.SetOutput(stderr)
	fs.Usage = func() { printUsage(stderr, fs) }

	if err := fs.Parse(args); err != nil {
		return exitUsage
	}
	if g.help {
		printUsage(stdout, fs)
		return exitOK
	}

	cmd, cmdArgs, err := lookupCommand(fs.Args())
	if err != nil {
		fmt.Fprintf(stderr, "%v\n\n", err)
		printUsage(stderr, fs)
		return exitUsage
	}
	if cmd.needsOperator && g.operator == "" {
		fmt.Fprintf(stderr, "command %q requires --as <username>\n", cmd.name)
		return exitUsage
	}

	// 1. 加载配置
	var cfg Config
	if _, err := app.LoadConfig(&cfg, app.LoadOptions{
		ConfigPath: g.configPath,
		Defaults:   defaultSettings(),
		Flags:      fs,
		Bindings:   flagBindings,
	}); err != nil {
		fmt.Fprintf(stderr, "failed to load config: %v\n", err)
		return exitError
	}

	// 2. 初始化主日志，标准输出只留给命令结果
	root, err := logger.New(&cfg.Log, logger.WithConsoleWriter(stderr))
	if err != nil {
		fmt.Fprintf(stderr, "failed to create logger: %v\n", err)
		return exitError
	}

	// 3. 通过 Wire 初始化组件
	rt, cleanup, err := InitApp(&cfg, root)
	if err != nil {
		root.Error("failed to initialize application", "error", err)
		_ = root.Sync()
		return exitError
	}
	defer cleanup()

	// 4. 执行命令
	sess := newSession(rt, g.operator, stdout)
	err = rt.App.Run(func(ctx context.Context) error {
		if g.operator != "" {
			ctx = logger.WithOperator(ctx, g.operator)
		}
		err := cmd.run(ctx, sess, cmdArgs)
		rt.Metrics.RecordOperation(cmd.name, err)
		logResult(ctx, rt.Logger, cmd.name, err)
		return err
	})

	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, errUsage):
		fmt.Fprintf(stderr, "%v\nusage: %s %s\n", err, app.AppName, cmd.usage)
		return exitUsage
	default:
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitError
	}
}

// logResult 参数与鉴权失败属于调用方问题，记为 warn；其余记为 error
func logResult(ctx context.Context, l logger.Logger, name string, err error) {
	switch {
	case err == nil, errors.Is(err, errUsage):
	case model.IsValidationError(err):
		l.WarnContext(ctx, "command rejected", "command", name, "error", err)
	case model.IsPermissionError(err):
		l.WarnContext(ctx, "permission denied", "command", name, "error", err)
	default:
		l.ErrorContext(ctx, "command failed", "command", name, "error", err)
	}
}

func printUsage(w io.Writer, fs *pflag.FlagSet) {
	fmt.Fprintf(w, "usage: %s [flags] <command> [args]\n\ncommands:\n", app.AppName)
	for _, c := range commands {
		fmt.Fprintf(w, "  %-42s %s\n", c.usage, c.help)
	}
	fmt.Fprintf(w, "\nflags:\n%s", fs.FlagUsages())
}
