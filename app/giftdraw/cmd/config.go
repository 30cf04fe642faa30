package main

import (
	"github.com/lk2023060901/giftdraw/app/giftdraw/internal/dao"
	"github.com/lk2023060901/giftdraw/app/giftdraw/internal/metrics"
	"github.com/lk2023060901/giftdraw/pkg/app"
	"github.com/lk2023060901/giftdraw/pkg/logger"
	"github.com/spf13/pflag"
)

// Config 定义 giftdraw 的完整配置结构
type Config struct {
	Log logger.Config `mapstructure:"log"`

	// 存储配置
	Storage dao.Config `mapstructure:"storage"`

	// 指标配置
	Metrics metrics.Config `mapstructure:"metrics"`
}

// defaultSettings 所有配置键的默认值，环境变量只能覆盖这里出现过的键
func defaultSettings() map[string]any {
	logCfg := logger.DefaultConfig()
	storageCfg := dao.DefaultConfig()
	metricsCfg := metrics.DefaultConfig()

	return map[string]any{
		"log.level":          string(logCfg.Level),
		"log.format":         string(logCfg.Format),
		"log.enable_console": logCfg.EnableConsole,
		"log.enable_file":    logCfg.EnableFile,
		"log.output_path":    logCfg.OutputPath,
		"log.development":    logCfg.Development,

		"storage.driver":    string(storageCfg.Driver),
		"storage.data_dir":  storageCfg.DataDir,
		"storage.user_file": storageCfg.UserFile,
		"storage.gift_file": storageCfg.GiftFile,
		"storage.bolt_file": storageCfg.BoltFile,

		"metrics.namespace": metricsCfg.Namespace,
		"metrics.textfile":  metricsCfg.Textfile,
	}
}

// flagBindings 命令行参数对应的配置键
var flagBindings = []app.FlagBinding{
	{Flag: "data-dir", Key: "storage.data_dir"},
	{Flag: "driver", Key: "storage.driver"},
	{Flag: "log.level", Key: "log.level"},
	{Flag: "metrics.textfile", Key: "metrics.textfile"},
}

// globalFlags 全局参数
type globalFlags struct {
	configPath string
	operator   string
	help       bool
}

func newFlagSet(g *globalFlags) *pflag.FlagSet {
	fs := pflag.NewFlagSet(app.AppName, pflag.ContinueOnError)
	// 子命令之后的参数原样交给子命令
	fs.SetInterspersed(false)

	fs.StringVarP(&g.configPath, "config", "c", "", "config file path (yaml)")
	fs.StringVar(&g.operator, "as", "", "operator username")
	fs.BoolVarP(&g.help, "help", "h", false, "show usage")
	fs.String("data-dir", "", "storage directory")
	fs.String("driver", "", "storage driver: json | bolt")
	fs.String("log.level", "", "log level: debug | info | warn | error")
	fs.String("metrics.textfile", "", "write counters in prometheus text format to this file on exit")
	return fs
}
