package app

import (
	"fmt"
	"os"

	"github.com/lk2023060901/giftdraw/pkg/config"
	"github.com/spf13/pflag"
)

// EnvPrefix 环境变量前缀，例如 GIFTDRAW_STORAGE_DATA_DIR -> storage.data_dir
const EnvPrefix = "GIFTDRAW"

// FlagBinding 命令行参数到配置键的映射
type FlagBinding struct {
	Flag string
	Key  string
}

// LoadOptions LoadConfig 的输入
type LoadOptions struct {
	// ConfigPath 配置文件路径，为空时尝试 GIFTDRAW_CONFIG；都为空则只用默认值和环境变量
	ConfigPath string
	// Defaults 最低优先级的默认值，同时让环境变量能覆盖这些键
	Defaults map[string]any
	// Flags 已解析的命令行参数
	Flags *pflag.FlagSet
	// Bindings 只有被显式设置的 flag 才会覆盖
	Bindings []FlagBinding
}

// LoadConfig 统一加载配置
// 优先级：1. 命令行显式参数 > 2. 环境变量 > 3. 配置文件 > 4. 默认值
// 返回实际使用的配置文件路径（可能为空）
func LoadConfig(target any, lo LoadOptions) (string, error) {
	mgr := config.NewManager(config.WithDefaults(lo.Defaults))
	mgr.BindEnv(EnvPrefix)

	path := lo.ConfigPath
	if path == "" {
		path = os.Getenv(EnvPrefix + "_CONFIG")
	}
	if path != "" {
		if err := mgr.LoadFile(path); err != nil {
			return "", err
		}
	}

	if lo.Flags != nil {
		for _, b := range lo.Bindings {
			f := lo.Flags.Lookup(b.Flag)
			if f == nil || !f.Changed {
				continue
			}
			mgr.Set(b.Key, f.Value.String())
		}
	}

	if err := mgr.Unmarshal(target); err != nil {
		return "", fmt.Errorf("failed to load config: %w", err)
	}

	if err := config.NewValidator().Validate(target); err != nil {
		return "", err
	}

	return path, nil
}
