package dao

import (
	"context"

	"github.com/cespare/xxhash/v2"
	"github.com/cockroachdb/errors"
	json "github.com/goccy/go-json"
	"github.com/lk2023060901/giftdraw/app/giftdraw/internal/model"
	"github.com/lk2023060901/giftdraw/pkg/logger"
)

// Driver 存储驱动
type Driver string

const (
	DriverJSON Driver = "json"
	DriverBolt Driver = "bolt"
)

// Config 存储配置
type Config struct {
	Driver   Driver `mapstructure:"driver" validate:"required,oneof=json bolt"`
	DataDir  string `mapstructure:"data_dir" validate:"required"`
	UserFile string `mapstructure:"user_file" validate:"required"`
	GiftFile string `mapstructure:"gift_file" validate:"required"`
	BoltFile string `mapstructure:"bolt_file"`
}

// DefaultConfig 默认配置
func DefaultConfig() *Config {
	return &Config{
		Driver:   DriverJSON,
		DataDir:  "storage",
		UserFile: "user.json",
		GiftFile: "gift.json",
		BoltFile: "giftdraw.db",
	}
}

// Store 用户表与奖品库存两份文档的整体读写
// 每次读取都返回完整文档，每次写入都整体覆盖
type Store interface {
	LoadUsers(ctx context.Context) (model.Users, error)
	SaveUsers(ctx context.Context, users model.Users) error
	LoadInventory(ctx context.Context) (model.Inventory, error)
	SaveInventory(ctx context.Context, inv model.Inventory) error
	Close() error
}

// New 按驱动创建存储
func New(cfg *Config, l logger.Logger) (Store, error) {
	switch cfg.Driver {
	case DriverJSON, "":
		return NewFileStore(cfg, l)
	case DriverBolt:
		return NewBoltStore(cfg, l)
	default:
		return nil, errors.Newf("unsupported storage driver %q", cfg.Driver)
	}
}

// emptyDocument 空 JSON 对象
var emptyDocument = []byte("{}")

func encodeDocument(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, errors.Wrap(err, "encode document")
	}
	return data, nil
}

func decodeUsers(data []byte) (model.Users, error) {
	users := make(model.Users)
	if len(data) == 0 {
		return users, nil
	}
	if err := json.Unmarshal(data, &users); err != nil {
		return nil, errors.Wrap(err, "decode users")
	}
	for name, u := range users {
		if u == nil {
			delete(users, name)
			continue
		}
		if u.Gift == nil {
			u.Gift = []string{}
		}
	}
	return users, nil
}

func decodeInventory(data []byte) (model.Inventory, error) {
	inv := make(model.Inventory)
	if len(data) == 0 {
		return inv, nil
	}
	if err := json.Unmarshal(data, &inv); err != nil {
		return nil, errors.Wrap(err, "decode gifts")
	}
	for _, seconds := range inv {
		for _, bucket := range seconds {
			for name, gift := range bucket {
				if gift == nil {
					delete(bucket, name)
				}
			}
		}
	}
	return inv, nil
}

// fingerprint 文档摘要，仅用于日志定位
func fingerprint(data []byte) uint64 {
	return xxhash.Sum64(data)
}
