package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/lk2023060901/giftdraw/app/giftdraw/internal/model"
	"github.com/lk2023060901/giftdraw/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cli struct {
	t   *testing.T
	dir string
}

func newCLI(t *testing.T) *cli {
	return &cli{t: t, dir: t.TempDir()}
}

func (c *cli) run(args ...string) (int, string, string) {
	c.t.Helper()
	var stdout, stderr bytes.Buffer
	full := append([]string{"--data-dir", c.dir, "--log.level", "error"}, args...)
	code := run(full, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func (c *cli) mustRun(args ...string) string {
	c.t.Helper()
	code, out, errOut := c.run(args...)
	require.Equal(c.t, exitOK, code, "args %v stderr %s", args, errOut)
	return out
}

func TestLookupCommand(t *testing.T) {
	tests := []struct {
		args    []string
		name    string
		rest    []string
		wantErr bool
	}{
		{args: []string{"draw"}, name: "draw", rest: []string{}},
		{args: []string{"user", "add", "a", "normal"}, name: "user add", rest: []string{"a", "normal"}},
		{args: []string{"gift", "add", "level1", "level1", "pen"}, name: "gift add", rest: []string{"level1", "level1", "pen"}},
		{args: []string{"gift", "add", "level1", "level1"}, wantErr: true},
		{args: []string{"user"}, wantErr: true},
		{args: []string{"draw", "extra"}, wantErr: true},
		{args: []string{}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(strings.Join(tt.args, "_"), func(t *testing.T) {
			cmd, rest, err := lookupCommand(tt.args)
			if tt.wantErr {
				assert.ErrorIs(t, err, errUsage)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.name, cmd.name)
			assert.Equal(t, tt.rest, rest)
		})
	}
}

func TestUsageErrors(t *testing.T) {
	c := newCLI(t)

	code, _, _ := c.run("bogus")
	assert.Equal(t, exitUsage, code)

	code, _, errOut := c.run("draw")
	assert.Equal(t, exitUsage, code)
	assert.Contains(t, errOut, "--as")

	code, _, _ = c.run("--no-such-flag", "draw")
	assert.Equal(t, exitUsage, code)

	c.mustRun("init", "root")
	code, _, _ = c.run("--as", "root", "gift", "set", "level1", "level1", "pen", "many")
	assert.Equal(t, exitUsage, code)

	code, out, _ := c.run("--help")
	assert.Equal(t, exitOK, code)
	assert.Contains(t, out, "gift add <first> <second> <name> [count]")
}

func TestInit(t *testing.T) {
	c := newCLI(t)

	out := c.mustRun("init", "root")
	assert.Contains(t, out, "admin root created")

	code, _, errOut := c.run("init", "other")
	assert.Equal(t, exitError, code)
	assert.Contains(t, errOut, "init refused")

	assert.FileExists(t, filepath.Join(c.dir, "user.json"))
	assert.FileExists(t, filepath.Join(c.dir, "gift.json"))
}

func TestAdminAndDrawFlow(t *testing.T) {
	c := newCLI(t)
	c.mustRun("init", "root")

	assert.Contains(t, c.mustRun("--as", "root", "user", "add", "pengli", "normal"), "user pengli created")
	assert.Contains(t, c.mustRun("--as", "root", "gift", "add", "level1", "level1", "pen", "3"), "now has 3")
	assert.Contains(t, c.mustRun("--as", "root", "gift", "add", "level1", "level1", "pen"), "now has 4")
	assert.Contains(t, c.mustRun("--as", "root", "gift", "set", "level1", "level1", "pen", "9"), "set to 9")
	assert.Contains(t, c.mustRun("--as", "root", "gift", "set", "level1", "level1", "ghost", "9"), "not found")
	assert.Contains(t, c.mustRun("--as", "root", "gift", "list"), "level1/level1\tpen\t9")

	code, _, errOut := c.run("--as", "root", "gift", "set", "level1", "level1", "pen", "0")
	assert.Equal(t, exitError, code)
	assert.Contains(t, errOut, "invalid gift count")

	code, _, _ = c.run("--as", "root", "gift", "add", "level9", "level1", "pen")
	assert.Equal(t, exitError, code)

	// 管理员不能抽奖，普通用户不能管理
	code, _, errOut = c.run("--as", "root", "draw")
	assert.Equal(t, exitError, code)
	assert.Contains(t, errOut, "permission denied")
	code, _, _ = c.run("--as", "pengli", "user", "list")
	assert.Equal(t, exitError, code)
	code, _, errOut = c.run("--as", "ghost", "draw")
	assert.Equal(t, exitError, code)
	assert.Contains(t, errOut, "user not found")

	out := c.mustRun("--as", "pengli", "draw")
	assert.True(t, strings.Contains(out, "no prize") || strings.Contains(out, "you won pen"), out)

	assert.Equal(t, "pen\n", c.mustRun("--as", "pengli", "gifts"))
	assert.Contains(t, c.mustRun("--as", "pengli", "me"), "username: pengli")

	assert.Contains(t, c.mustRun("--as", "root", "user", "toggle", "pengli"), "active toggled")
	code, _, errOut = c.run("--as", "pengli", "draw")
	assert.Equal(t, exitError, code)
	assert.Contains(t, errOut, "user inactive")

	assert.Contains(t, c.mustRun("--as", "root", "user", "role", "pengli", "admin"), "role changed to admin")
	assert.Contains(t, c.mustRun("--as", "root", "user", "list"), "pengli\trole=admin\tactive=false")
	assert.Contains(t, c.mustRun("--as", "root", "gift", "delete", "level1", "level1", "pen"), "count was")
	assert.Contains(t, c.mustRun("--as", "root", "gift", "delete", "level1", "level1", "pen"), "not found")
}

func TestConfigFileAndMetrics(t *testing.T) {
	dir := t.TempDir()
	prom := filepath.Join(dir, "giftdraw.prom")
	cfgPath := filepath.Join(dir, "config.yaml")
	content := "storage:\n  driver: bolt\n  data_dir: " + dir + "\nmetrics:\n  textfile: " + prom + "\nlog:\n  level: error\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(content), 0o644))

	var stdout, stderr bytes.Buffer
	code := run([]string{"-c", cfgPath, "init", "root"}, &stdout, &stderr)
	require.Equal(t, exitOK, code, stderr.String())

	assert.FileExists(t, filepath.Join(dir, "giftdraw.db"))
	assert.NoFileExists(t, filepath.Join(dir, "user.json"))

	data, err := os.ReadFile(prom)
	require.NoError(t, err)
	assert.Contains(t, string(data), `giftdraw_operations_total{command="init",result="ok"} 1`)
}

func TestLogResultLevels(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		level string
		msg   string
	}{
		{name: "validation", err: errors.Wrap(model.ErrInvalidCount, "count 0"), level: `"level":"warn"`, msg: "command rejected"},
		{name: "permission", err: errors.Wrap(model.ErrForbidden, "pengli"), level: `"level":"warn"`, msg: "permission denied"},
		{name: "storage", err: errors.New("disk full"), level: `"level":"error"`, msg: "command failed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			l, err := logger.New(&logger.Config{Level: logger.InfoLevel, Format: logger.JSONFormat}, logger.WithConsoleWriter(&buf))
			require.NoError(t, err)

			logResult(context.Background(), l, "gift set", tt.err)
			assert.Contains(t, buf.String(), tt.level)
			assert.Contains(t, buf.String(), tt.msg)
		})
	}

	var buf bytes.Buffer
	l, err := logger.New(&logger.Config{Format: logger.JSONFormat}, logger.WithConsoleWriter(&buf))
	require.NoError(t, err)
	logResult(context.Background(), l, "draw", nil)
	logResult(context.Background(), l, "draw", errors.Wrap(errUsage, "extra"))
	assert.Empty(t, buf.String())
}
