package metrics

import (
	"github.com/cockroachdb/errors"
	"github.com/lk2023060901/giftdraw/pkg/config"
	"github.com/prometheus/client_golang/prometheus"
)

// Config 指标配置
type Config struct {
	// Namespace 指标命名空间
	Namespace string `mapstructure:"namespace" json:"namespace" yaml:"namespace"`
	// Textfile 不为空时，退出前以 Prometheus 文本格式写入该文件
	Textfile string `mapstructure:"textfile" json:"textfile" yaml:"textfile"`
}

// DefaultConfig 默认配置
func DefaultConfig() *Config {
	return &Config{
		Namespace: "giftdraw",
	}
}

// 操作结果标签
const (
	ResultOK    = "ok"
	ResultError = "error"
)

// Metrics 命令行一次运行内的计数
type Metrics struct {
	config   *Config
	registry *prometheus.Registry

	OperationTotal *prometheus.CounterVec // 命令执行次数（按命令、结果）
	DrawTotal      *prometheus.CounterVec // 抽奖结果（按结果、一级奖池）
}

// New 创建指标，使用独立的 Registry
func New(cfg *Config) (*Metrics, error) {
	newCfg, err := config.MergeConfig(DefaultConfig(), cfg)
	if err != nil {
		return nil, errors.Wrap(err, "merge metrics config")
	}

	m := &Metrics{
		config:   newCfg,
		registry: prometheus.NewRegistry(),
		OperationTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: newCfg.Namespace,
				Name:      "operations_total",
				Help:      "Total number of executed commands",
			},
			[]string{"command", "result"},
		),
		DrawTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: newCfg.Namespace,
				Name:      "draws_total",
				Help:      "Total number of draws by outcome",
			},
			[]string{"outcome", "first"},
		),
	}

	for _, c := range []prometheus.Collector{m.OperationTotal, m.DrawTotal} {
		if err := m.registry.Register(c); err != nil {
			return nil, errors.Wrap(err, "register collector")
		}
	}
	return m, nil
}

// GetConfig 获取配置
func (m *Metrics) GetConfig() *Config {
	return m.config
}

// Registry 获取 Registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordOperation 记录一次命令执行
func (m *Metrics) RecordOperation(command string, err error) {
	if m == nil {
		return
	}
	result := ResultOK
	if err != nil {
		result = ResultError
	}
	m.OperationTotal.WithLabelValues(command, result).Inc()
}

// RecordDraw 记录一次抽奖结果
func (m *Metrics) RecordDraw(outcome, first string) {
	if m == nil {
		return
	}
	m.DrawTotal.WithLabelValues(outcome, first).Inc()
}

// Close 配置了 Textfile 时写出全部指标
func (m *Metrics) Close() error {
	if m.config.Textfile == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(m.config.Textfile, m.registry); err != nil {
		return errors.Wrapf(err, "write metrics to %s", m.config.Textfile)
	}
	return nil
}
