// Package store содержит файловое хранилище состояния киоска.
package store

import (
	"encoding/json"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/mmeshcher/washpoint-kiosk/internal/model"
)

const (
	keyClaimedRewards  = "claimedRewards"
	keyRedeemedHistory = "redeemedHistory"

	schemaVersion = 1
)

// envelope оборачивает коллекцию номером схемы, чтобы будущие версии
// могли мигрировать данные вместо молчаливой потери.
type envelope struct {
	Schema int             `json:"schema"`
	Items  json.RawMessage `json:"items"`
}

// FileStore хранит коллекции наград в JSON-файлах каталога dir.
// Загрузка никогда не завершается ошибкой: отсутствующий, нечитаемый
// или повреждённый файл равнозначен пустой коллекции. Ошибки записи
// проглатываются — состояние в памяти остаётся авторитетным до конца
// сессии, а сама ошибка уходит в лог.
type FileStore struct {
	dir    string
	logger *zap.Logger
}

// NewFileStore создаёт хранилище в указанном каталоге, создавая его при необходимости.
func NewFileStore(dir string, logger *zap.Logger) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FileStore{dir: dir, logger: logger}, nil
}

// LoadClaimed возвращает сохранённую коллекцию полученных наград.
func (s *FileStore) LoadClaimed() []model.ClaimedReward {
	var items []model.ClaimedReward
	s.load(keyClaimedRewards, &items)
	if items == nil {
		items = []model.ClaimedReward{}
	}
	return items
}

// SaveClaimed перезаписывает коллекцию полученных наград целиком.
func (s *FileStore) SaveClaimed(items []model.ClaimedReward) {
	s.save(keyClaimedRewards, items)
}

// LoadHistory возвращает сохранённую историю обменов.
func (s *FileStore) LoadHistory() []model.RedemptionRecord {
	var items []model.RedemptionRecord
	s.load(keyRedeemedHistory, &items)
	if items == nil {
		items = []model.RedemptionRecord{}
	}
	return items
}

// SaveHistory перезаписывает историю обменов целиком.
func (s *FileStore) SaveHistory(items []model.RedemptionRecord) {
	s.save(keyRedeemedHistory, items)
}

func (s *FileStore) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}

func (s *FileStore) load(key string, out any) {
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn("store read failed", zap.String("key", key), zap.Error(err))
		}
		return
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		s.logger.Warn("store payload corrupt", zap.String("key", key), zap.Error(err))
		return
	}
	if env.Schema != schemaVersion {
		s.logger.Warn("store schema mismatch",
			zap.String("key", key), zap.Int("schema", env.Schema))
		return
	}

	if err := json.Unmarshal(env.Items, out); err != nil {
		s.logger.Warn("store items corrupt", zap.String("key", key), zap.Error(err))
	}
}

// save пишет во временный файл и переименовывает его, чтобы читатель
// никогда не увидел частичную запись.
func (s *FileStore) save(key string, items any) {
	raw, err := json.Marshal(items)
	if err != nil {
		s.logger.Warn("store marshal failed", zap.String("key", key), zap.Error(err))
		return
	}

	data, err := json.Marshal(envelope{Schema: schemaVersion, Items: raw})
	if err != nil {
		s.logger.Warn("store marshal failed", zap.String("key", key), zap.Error(err))
		return
	}

	tmp, err := os.CreateTemp(s.dir, key+"-*.tmp")
	if err != nil {
		s.logger.Warn("store write failed", zap.String("key", key), zap.Error(err))
		return
	}

	_, werr := tmp.Write(data)
	cerr := tmp.Close()
	if werr != nil || cerr != nil {
		os.Remove(tmp.Name())
		s.logger.Warn("store write failed", zap.String("key", key),
			zap.NamedError("write", werr), zap.NamedError("close", cerr))
		return
	}

	if err := os.Rename(tmp.Name(), s.path(key)); err != nil {
		os.Remove(tmp.Name())
		s.logger.Warn("store rename failed", zap.String("key", key), zap.Error(err))
	}
}
