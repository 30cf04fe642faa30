package config

// Option 配置选项函数
type Option func(*manager)

// WithDefaults 设置默认配置值，环境变量只能覆盖这里出现过的键
func WithDefaults(defaults map[string]any) Option {
	return func(m *manager) {
		for key, value := range defaults {
			m.v.SetDefault(key, value)
		}
	}
}
