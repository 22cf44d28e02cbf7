package usecase_test

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/collo670/NAPANGA-APP/internal/core/domain"
	"github.com/collo670/NAPANGA-APP/internal/core/port"
)

// fakePropertyStorage - хранилище в памяти для тестов use case
type fakePropertyStorage struct {
	records map[string]domain.Property

	failAll bool // эмулирует недоступность хранилища
}

func newFakePropertyStorage() *fakePropertyStorage {
	return &fakePropertyStorage{records: make(map[string]domain.Property)}
}

func (s *fakePropertyStorage) Add(ctx context.Context, record domain.Property) error {
	if s.failAll {
		return domain.ErrStoreUnavailable
	}
	if _, exists := s.records[record.ID]; exists {
		return fmt.Errorf("%w: id %s already exists", domain.ErrWriteConflict, record.ID)
	}
	s.records[record.ID] = record
	return nil
}

func (s *fakePropertyStorage) Put(ctx context.Context, record domain.Property) error {
	if s.failAll {
		return domain.ErrStoreUnavailable
	}
	s.records[record.ID] = record
	return nil
}

func (s *fakePropertyStorage) Get(ctx context.Context, id string) (*domain.Property, error) {
	if s.failAll {
		return nil, domain.ErrStoreUnavailable
	}
	record, exists := s.records[id]
	if !exists {
		return nil, nil
	}
	return &record, nil
}

func (s *fakePropertyStorage) GetAll(ctx context.Context) ([]domain.Property, error) {
	if s.failAll {
		return nil, domain.ErrStoreUnavailable
	}
	all := make([]domain.Property, 0, len(s.records))
	for _, record := range s.records {
		all = append(all, record)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.Before(all[j].CreatedAt) })
	return all, nil
}

func (s *fakePropertyStorage) Delete(ctx context.Context, id string) error {
	if s.failAll {
		return domain.ErrStoreUnavailable
	}
	delete(s.records, id)
	return nil
}

// fakeCacheStorage повторяет семантику дискового кэша, но живет в памяти
type fakeCacheStorage struct {
	entries map[string][]byte

	failPut  bool
	putCalls int
}

func newFakeCacheStorage() *fakeCacheStorage {
	return &fakeCacheStorage{entries: make(map[string][]byte)}
}

func (c *fakeCacheStorage) Put(ctx context.Context, key string, data interface{}) error {
	c.putCalls++
	if c.failPut {
		return domain.ErrStoreUnavailable
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return err
	}
	c.entries[key] = raw
	return nil
}

func (c *fakeCacheStorage) Get(ctx context.Context, key string) ([]byte, error) {
	data, exists := c.entries[key]
	if !exists {
		return nil, nil
	}
	return data, nil
}

func (c *fakeCacheStorage) RemoveID(ctx context.Context, key, id string) error {
	data, exists := c.entries[key]
	if !exists {
		return nil
	}
	var items []map[string]interface{}
	if err := json.Unmarshal(data, &items); err != nil {
		return nil
	}
	filtered := make([]map[string]interface{}, 0, len(items))
	for _, item := range items {
		if itemID, ok := item["id"].(string); ok && itemID == id {
			continue
		}
		filtered = append(filtered, item)
	}
	return c.Put(ctx, key, filtered)
}

// fakeNotifier запоминает все отправленные уведомления
type fakeNotifier struct {
	notifications []port.PushNotification
}

func (n *fakeNotifier) Notify(ctx context.Context, notification port.PushNotification) {
	n.notifications = append(n.notifications, notification)
}
