// Package localdb - файловый вариант персистентного хранилища: каталог
// JSON-документов, по документу на запись. Это дефолтный драйвер для
// локального (офлайн-первого) режима работы приложения.
package localdb

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/collo670/NAPANGA-APP/internal/core/domain"
)

// dirStore - общая механика каталога документов: ленивое идемпотентное
// открытие и атомарная запись через временный файл с переименованием.
type dirStore struct {
	dir string

	mu     sync.Mutex
	opened bool
}

// ensureOpen лениво создает каталог. Повторные вызовы безопасны и не
// трогают уже открытое хранилище.
func (s *dirStore) ensureOpen() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.opened {
		return nil
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	s.opened = true
	return nil
}

// writeAtomic пишет документ через temp-файл и rename, чтобы читатель
// никогда не увидел наполовину записанный JSON.
func (s *dirStore) writeAtomic(path string, data []byte) error {
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmpPath, path)
}

// safeFilename превращает произвольный ключ в имя файла. Простые ключи
// остаются читабельными, все остальное уходит в sha256.
func safeFilename(key string) string {
	for _, r := range key {
		safe := r == '-' || r == '_' || r == '.' ||
			(r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
		if !safe {
			sum := sha256.Sum256([]byte(key))
			return hex.EncodeToString(sum[:])
		}
	}
	return key
}

func (s *dirStore) path(key string) string {
	return filepath.Join(s.dir, safeFilename(key)+".json")
}
