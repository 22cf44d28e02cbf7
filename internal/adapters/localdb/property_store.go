package localdb

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/collo670/NAPANGA-APP/internal/core/domain"
	"github.com/collo670/NAPANGA-APP/internal/core/port"
)

// PropertyStoreAdapter реализует PropertyStoragePort поверх каталога
// JSON-документов: <dir>/<id>.json.
type PropertyStoreAdapter struct {
	dirStore
	logger port.LoggerPort
}

func NewPropertyStoreAdapter(dir string, logger port.LoggerPort) *PropertyStoreAdapter {
	return &PropertyStoreAdapter{
		dirStore: dirStore{dir: dir},
		logger:   logger.WithFields(port.Fields{"component": "localdb_property_store"}),
	}
}

// Add отклоняет запись с уже существующим id.
func (a *PropertyStoreAdapter) Add(ctx context.Context, record domain.Property) error {
	if err := a.ensureOpen(); err != nil {
		return err
	}

	path := a.path(record.ID)
	if _, err := os.Stat(path); err == nil {
		// Дубликат ключа - жесткая ошибка, без ретраев
		return fmt.Errorf("%w: id %s already exists", domain.ErrWriteConflict, record.ID)
	}

	return a.write(record)
}

// Put перезаписывает запись безусловно.
func (a *PropertyStoreAdapter) Put(ctx context.Context, record domain.Property) error {
	if err := a.ensureOpen(); err != nil {
		return err
	}
	return a.write(record)
}

func (a *PropertyStoreAdapter) write(record domain.Property) error {
	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrWriteConflict, err)
	}
	if err := a.writeAtomic(a.path(record.ID), data); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrWriteConflict, err)
	}
	return nil
}

// Get возвращает (nil, nil), если записи нет.
func (a *PropertyStoreAdapter) Get(ctx context.Context, id string) (*domain.Property, error) {
	if err := a.ensureOpen(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(a.path(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read property %s: %w", id, err)
	}

	var record domain.Property
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("decode property %s: %w", id, err)
	}
	return &record, nil
}

// GetAll делает полный проход по каталогу. Порядок - по дате создания,
// то есть фактически порядок вставки.
func (a *PropertyStoreAdapter) GetAll(ctx context.Context) ([]domain.Property, error) {
	if err := a.ensureOpen(); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(a.dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}

	records := make([]domain.Property, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(a.dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("read property file %s: %w", entry.Name(), err)
		}
		var record domain.Property
		if err := json.Unmarshal(data, &record); err != nil {
			// Битый документ не валит весь скан - логируем и пропускаем
			a.logger.Warn("Skipping corrupt property document", port.Fields{"file": entry.Name(), "error": err.Error()})
			continue
		}
		records = append(records, record)
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].CreatedAt.Before(records[j].CreatedAt)
	})
	return records, nil
}

func (a *PropertyStoreAdapter) Delete(ctx context.Context, id string) error {
	if err := a.ensureOpen(); err != nil {
		return err
	}
	if err := os.Remove(a.path(id)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("%w: %v", domain.ErrWriteConflict, err)
	}
	return nil
}
