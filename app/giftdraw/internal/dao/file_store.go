package dao

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/lk2023060901/giftdraw/app/giftdraw/internal/model"
	"github.com/lk2023060901/giftdraw/pkg/logger"
)

var _ Store = (*FileStore)(nil)

// FileStore 以 user.json / gift.json 两个文件保存数据
type FileStore struct {
	userPath string
	giftPath string
	logger   logger.Logger
}

// NewFileStore 创建文件存储，并初始化缺失或为空的文件
func NewFileStore(cfg *Config, l logger.Logger) (*FileStore, error) {
	s := &FileStore{
		userPath: filepath.Join(cfg.DataDir, cfg.UserFile),
		giftPath: filepath.Join(cfg.DataDir, cfg.GiftFile),
		logger:   l.Named("dao.file"),
	}

	for _, path := range []string{s.userPath, s.giftPath} {
		if err := checkFile(path); err != nil {
			return nil, err
		}
	}

	if err := s.initGifts(); err != nil {
		return nil, err
	}
	return s, nil
}

// checkFile 校验路径：必须是 .json 文件；不存在或为空时写入 {}
func checkFile(path string) error {
	if !strings.EqualFold(filepath.Ext(path), ".json") {
		return errors.Wrapf(model.ErrNotJSON, "%s", path)
	}

	info, err := os.Stat(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return errors.Wrapf(err, "create dir for %s", path)
		}
		return writeFile(path, emptyDocument)
	case err != nil:
		return errors.Wrapf(err, "stat %s", path)
	case info.IsDir():
		return errors.Wrapf(model.ErrNotFile, "%s", path)
	case info.Size() == 0:
		return writeFile(path, emptyDocument)
	}
	return nil
}

// initGifts 奖品文件为空时写入 4x3 骨架
func (s *FileStore) initGifts() error {
	inv, err := s.LoadInventory(context.Background())
	if err != nil {
		return err
	}
	if len(inv) != 0 {
		return nil
	}
	return s.SaveInventory(context.Background(), model.NewInventory())
}

func (s *FileStore) LoadUsers(ctx context.Context) (model.Users, error) {
	data, err := s.read(ctx, s.userPath)
	if err != nil {
		return nil, err
	}
	return decodeUsers(data)
}

func (s *FileStore) SaveUsers(ctx context.Context, users model.Users) error {
	return s.write(ctx, s.userPath, users)
}

func (s *FileStore) LoadInventory(ctx context.Context) (model.Inventory, error) {
	data, err := s.read(ctx, s.giftPath)
	if err != nil {
		return nil, err
	}
	return decodeInventory(data)
}

func (s *FileStore) SaveInventory(ctx context.Context, inv model.Inventory) error {
	return s.write(ctx, s.giftPath, inv)
}

// Close 文件存储无需释放资源
func (s *FileStore) Close() error {
	return nil
}

// UserPath 用户文件路径
func (s *FileStore) UserPath() string { return s.userPath }

// GiftPath 奖品文件路径
func (s *FileStore) GiftPath() string { return s.giftPath }

func (s *FileStore) read(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", path)
	}
	return data, nil
}

func (s *FileStore) write(ctx context.Context, path string, v any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := encodeDocument(v)
	if err != nil {
		return err
	}
	if err := writeFile(path, data); err != nil {
		return err
	}
	s.logger.DebugContext(ctx, "document saved", "path", path, "bytes", len(data), "xxhash", fingerprint(data))
	return nil
}

// writeFile 整体覆盖写入（非原子）
func writeFile(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrapf(err, "write %s", path)
	}
	return nil
}
