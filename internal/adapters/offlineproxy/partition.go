package offlineproxy

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/collo670/NAPANGA-APP/internal/core/domain"
)

// cachedResponse - сериализованный HTTP-ответ, сохраненный в партиции
type cachedResponse struct {
	Status   int         `json:"status"`
	Header   http.Header `json:"header"`
	Body     []byte      `json:"body"`
	StoredAt time.Time   `json:"storedAt"`
}

// PartitionStore хранит именованные партиции кэшированных ответов
// на диске. Каждая партиция - это каталог, каждый ответ - файл,
// имя которого выводится из URL запроса.
type PartitionStore struct {
	baseDir string
	mu      sync.Mutex
}

func NewPartitionStore(baseDir string) *PartitionStore {
	return &PartitionStore{baseDir: baseDir}
}

func (ps *PartitionStore) partitionDir(partition string) string {
	return filepath.Join(ps.baseDir, safePartitionName(partition))
}

func (ps *PartitionStore) entryFile(partition, key string) string {
	sum := sha256.Sum256([]byte(key))
	return filepath.Join(ps.partitionDir(partition), hex.EncodeToString(sum[:])+".json")
}

// Put сохраняет ответ в партиции. Запись атомарна: сначала во
// временный файл, затем rename.
func (ps *PartitionStore) Put(partition, key string, resp *cachedResponse) error {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	dir := ps.partitionDir(partition)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}

	data, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("failed to marshal cached response: %w", err)
	}

	target := ps.entryFile(partition, key)
	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	if err := os.Rename(tmpName, target); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	return nil
}

// Match возвращает сохраненный ответ или nil, если его нет.
func (ps *PartitionStore) Match(partition, key string) (*cachedResponse, error) {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	data, err := os.ReadFile(ps.entryFile(partition, key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}

	var resp cachedResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		// Поврежденная запись эквивалентна промаху
		return nil, nil
	}
	return &resp, nil
}

// ListPartitions возвращает имена существующих партиций.
func (ps *PartitionStore) ListPartitions() ([]string, error) {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	entries, err := os.ReadDir(ps.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	return names, nil
}

// DeleteOthers удаляет все партиции, кроме перечисленных. Вызывается
// при активации новой версии, чтобы убрать кэши старых версий.
func (ps *PartitionStore) DeleteOthers(keep []string) error {
	names, err := ps.ListPartitions()
	if err != nil {
		return err
	}

	keepSet := make(map[string]struct{}, len(keep))
	for _, name := range keep {
		keepSet[safePartitionName(name)] = struct{}{}
	}

	ps.mu.Lock()
	defer ps.mu.Unlock()
	for _, name := range names {
		if _, ok := keepSet[name]; ok {
			continue
		}
		if err := os.RemoveAll(filepath.Join(ps.baseDir, name)); err != nil {
			return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
		}
	}
	return nil
}

// ClearAll удаляет все партиции целиком.
func (ps *PartitionStore) ClearAll() error {
	names, err := ps.ListPartitions()
	if err != nil {
		return err
	}

	ps.mu.Lock()
	defer ps.mu.Unlock()
	for _, name := range names {
		if err := os.RemoveAll(filepath.Join(ps.baseDir, name)); err != nil {
			return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
		}
	}
	return nil
}

func safePartitionName(name string) string {
	safe := make([]rune, 0, len(name))
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			safe = append(safe, r)
		default:
			safe = append(safe, '_')
		}
	}
	return string(safe)
}
