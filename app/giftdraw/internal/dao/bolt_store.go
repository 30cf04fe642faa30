package dao

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/lk2023060901/giftdraw/app/giftdraw/internal/model"
	"github.com/lk2023060901/giftdraw/pkg/logger"
	bolt "go.etcd.io/bbolt"
)

var _ Store = (*BoltStore)(nil)

var (
	bucketName = []byte("giftdraw")
	usersKey   = []byte("users")
	giftsKey   = []byte("gifts")
)

// BoltStore 把两份文档作为值保存在同一个 bbolt 文件中
// 文档格式与 FileStore 相同，单次写入在一个事务内完成
type BoltStore struct {
	db     *bolt.DB
	path   string
	logger logger.Logger
}

// NewBoltStore 打开（或创建）bbolt 文件并初始化两份文档
func NewBoltStore(cfg *Config, l logger.Logger) (*BoltStore, error) {
	name := cfg.BoltFile
	if name == "" {
		name = DefaultConfig().BoltFile
	}
	path := filepath.Join(cfg.DataDir, name)

	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return nil, errors.Wrapf(err, "create dir %s", cfg.DataDir)
	}

	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, errors.Wrapf(err, "open bolt %s", path)
	}

	s := &BoltStore{db: db, path: path, logger: l.Named("dao.bolt")}
	if err := s.init(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *BoltStore) init() error {
	skeleton, err := encodeDocument(model.NewInventory())
	if err != nil {
		return err
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(bucketName)
		if err != nil {
			return err
		}
		if len(b.Get(usersKey)) == 0 {
			if err := b.Put(usersKey, emptyDocument); err != nil {
				return err
			}
		}
		if gifts := b.Get(giftsKey); len(gifts) == 0 || string(gifts) == string(emptyDocument) {
			if err := b.Put(giftsKey, skeleton); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *BoltStore) LoadUsers(ctx context.Context) (model.Users, error) {
	data, err := s.get(ctx, usersKey)
	if err != nil {
		return nil, err
	}
	return decodeUsers(data)
}

func (s *BoltStore) SaveUsers(ctx context.Context, users model.Users) error {
	return s.put(ctx, usersKey, users)
}

func (s *BoltStore) LoadInventory(ctx context.Context) (model.Inventory, error) {
	data, err := s.get(ctx, giftsKey)
	if err != nil {
		return nil, err
	}
	return decodeInventory(data)
}

func (s *BoltStore) SaveInventory(ctx context.Context, inv model.Inventory) error {
	return s.put(ctx, giftsKey, inv)
}

// Close 关闭 bbolt 文件
func (s *BoltStore) Close() error {
	return s.db.Close()
}

func (s *BoltStore) get(ctx context.Context, key []byte) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var data []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketName)
		if b == nil {
			return nil
		}
		// bbolt 返回的切片只在事务内有效
		if v := b.Get(key); v != nil {
			data = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "bolt get %s", key)
	}
	return data, nil
}

func (s *BoltStore) put(ctx context.Context, key []byte, v any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := encodeDocument(v)
	if err != nil {
		return err
	}
	err = s.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(bucketName)
		if err != nil {
			return err
		}
		return b.Put(key, data)
	})
	if err != nil {
		return errors.Wrapf(err, "bolt put %s", key)
	}
	s.logger.DebugContext(ctx, "document saved", "path", s.path, "key", string(key), "bytes", len(data), "xxhash", fingerprint(data))
	return nil
}
