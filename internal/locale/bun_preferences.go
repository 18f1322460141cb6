package locale

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-content-sync/internal/identity"
	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	cache "github.com/goliatone/go-repository-cache/cache"
	repositorycache "github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// ErrVisitorRequired is returned when a preference is saved without a key.
var ErrVisitorRequired = errors.New("locale: visitor id is required")

const preferenceNamespace = "locale_preference"

// Preference is the persisted locale choice of one visitor.
type Preference struct {
	bun.BaseModel `bun:"table:locale_preferences,alias:lp"`

	ID        uuid.UUID `bun:",pk,type:uuid" json:"id"`
	VisitorID string    `bun:"visitor_id,notnull,unique" json:"visitor_id"`
	Locale    string    `bun:"locale,notnull" json:"locale"`
	UpdatedAt time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

// NewPreferenceRepository creates the bun repository for preferences, keyed
// by visitor id.
func NewPreferenceRepository(db *bun.DB) repository.Repository[*Preference] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Preference]{
		NewRecord:          func() *Preference { return &Preference{} },
		GetID:              func(p *Preference) uuid.UUID { return p.ID },
		SetID:              func(p *Preference, id uuid.UUID) { p.ID = id },
		GetIdentifier:      func() string { return "visitor_id" },
		GetIdentifierValue: func(p *Preference) string { return p.VisitorID },
	})
}

// EnsurePreferenceSchema creates the preferences table when missing.
func EnsurePreferenceSchema(ctx context.Context, db *bun.DB) error {
	if _, err := db.NewCreateTable().Model((*Preference)(nil)).IfNotExists().Exec(ctx); err != nil {
		return fmt.Errorf("locale: create preferences table: %w", err)
	}
	return nil
}

// BunPreferenceStore persists preferences through go-repository-bun with an
// optional read-through cache.
type BunPreferenceStore struct {
	repo         repository.Repository[*Preference]
	cacheService cache.CacheService
	cachePrefix  string
	now          func() time.Time
}

// NewBunPreferenceStore creates a store without caching.
func NewBunPreferenceStore(db *bun.DB) *BunPreferenceStore {
	return NewBunPreferenceStoreWithCache(db, nil, nil)
}

// NewBunPreferenceStoreWithCache creates a store whose reads go through the
// given cache service.
func NewBunPreferenceStoreWithCache(db *bun.DB, cacheService cache.CacheService, serializer cache.KeySerializer) *BunPreferenceStore {
	base := NewPreferenceRepository(db)
	var svc cache.CacheService
	if cacheService != nil && serializer != nil {
		base = repositorycache.New(base, cacheService, serializer)
		svc = cacheService
	}
	prefix := ""
	if svc != nil {
		prefix = preferenceNamespace + cache.KeySeparator
	}
	return &BunPreferenceStore{
		repo:         base,
		cacheService: svc,
		cachePrefix:  prefix,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// Load returns the stored locale or an empty string when the visitor has no
// record.
func (s *BunPreferenceStore) Load(ctx context.Context, visitorID string) (string, error) {
	record, err := s.find(ctx, visitorID)
	if err != nil || record == nil {
		return "", err
	}
	return record.Locale, nil
}

// Save inserts or updates the visitor preference.
func (s *BunPreferenceStore) Save(ctx context.Context, visitorID, locale string) error {
	visitorID = strings.TrimSpace(visitorID)
	if visitorID == "" {
		return ErrVisitorRequired
	}
	existing, err := s.find(ctx, visitorID)
	if err != nil {
		return err
	}

	if existing == nil {
		_, err = s.repo.Create(ctx, &Preference{
			ID:        identity.PreferenceUUID(visitorID),
			VisitorID: visitorID,
			Locale:    locale,
			UpdatedAt: s.now(),
		})
	} else {
		existing.Locale = locale
		existing.UpdatedAt = s.now()
		_, err = s.repo.Update(ctx, existing,
			repository.UpdateByID(existing.ID.String()),
			repository.UpdateColumns("locale", "updated_at"),
		)
	}
	if err != nil {
		return fmt.Errorf("locale: save preference: %w", err)
	}
	return s.InvalidateCache(ctx)
}

// InvalidateCache drops cached preference reads.
func (s *BunPreferenceStore) InvalidateCache(ctx context.Context) error {
	if s.cacheService == nil || s.cachePrefix == "" {
		return nil
	}
	return s.cacheService.DeleteByPrefix(ctx, s.cachePrefix)
}

func (s *BunPreferenceStore) find(ctx context.Context, visitorID string) (*Preference, error) {
	visitorID = strings.TrimSpace(visitorID)
	if visitorID == "" {
		return nil, nil
	}
	record, err := s.repo.GetByIdentifier(ctx, visitorID)
	if err != nil {
		if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("locale: load preference: %w", err)
	}
	return record, nil
}
