package account

import (
	"time"

	"github.com/conicapps/launcher-core/internal/conicerr"
)

// OfflineStore is pure CRUD; no network calls ever touch it, per
// spec.md §4.7.2.
type OfflineStore struct {
	store *jsonStore[OfflineAccount]
}

// NewOfflineStore opens (without loading) the offline account store at path.
func NewOfflineStore(path string) *OfflineStore {
	return &OfflineStore{store: newJSONStore[OfflineAccount](path)}
}

// Create synthesises a uuid from the current nanosecond epoch, per
// spec.md §4.7.2, and persists a new offline account under it.
func (s *OfflineStore) Create(displayName string, nowNano func() int64) (OfflineAccount, error) {
	acc := OfflineAccount{
		UUID:        offlineUUIDFromNano(nowNano()),
		DisplayName: displayName,
		CreatedAt:   time.Now(),
	}
	err := s.store.mutate(func(items []OfflineAccount) []OfflineAccount {
		return append(items, acc)
	})
	if err != nil {
		return OfflineAccount{}, err
	}
	return acc, nil
}

func (s *OfflineStore) List() ([]OfflineAccount, error) {
	return s.store.list()
}

func (s *OfflineStore) Get(uuid string) (OfflineAccount, error) {
	items, err := s.store.list()
	if err != nil {
		return OfflineAccount{}, err
	}
	for _, a := range items {
		if a.UUID == uuid {
			return a, nil
		}
	}
	return OfflineAccount{}, conicerr.AccountNotFound(uuid)
}

func (s *OfflineStore) Delete(uuid string) error {
	return s.store.mutate(func(items []OfflineAccount) []OfflineAccount {
		out := items[:0]
		for _, a := range items {
			if a.UUID != uuid {
				out = append(out, a)
			}
		}
		return out
	})
}

// Resolve returns the launch-time identity for an offline account, per
// spec.md §4.8 step 1: no token authority exists, so the sentinel is used.
func (s *OfflineStore) Resolve(uuid string) (ResolvedIdentity, error) {
	acc, err := s.Get(uuid)
	if err != nil {
		return ResolvedIdentity{}, err
	}
	return ResolvedIdentity{
		AccessToken: OfflineSentinelToken,
		DisplayName: acc.DisplayName,
		UUID:        acc.UUID,
	}, nil
}

// offlineUUIDFromNano turns a nanosecond epoch into a UUID-shaped
// string, the same synthesis spec.md §4.7.2 calls for.
func offlineUUIDFromNano(nano int64) string {
	return formatNanoAsUUID(nano)
}
