package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/fakhrymubarak/weather-dashboard/internal/favorites"
)

// Keys under which the dashboard stores its preferences.
const (
	KeyLastCity  = "lastCity"
	KeyFavorites = "favorites"
)

// ErrCorrupt is returned when a stored favorites value is not a JSON string array.
var ErrCorrupt = errors.New("corrupt stored value")

// Preferences reads and writes the last searched city and the favorites list.
type Preferences struct {
	store Store
}

func NewPreferences(store Store) *Preferences {
	return &Preferences{store: store}
}

// LastCity returns "" when no city was ever stored.
func (p *Preferences) LastCity(ctx context.Context) (string, error) {
	city, err := p.store.Get(ctx, KeyLastCity)
	if errors.Is(err, ErrNotFound) {
		return "", nil
	}
	return city, err
}

func (p *Preferences) SetLastCity(ctx context.Context, city string) error {
	return p.store.Set(ctx, KeyLastCity, city)
}

// Favorites returns an empty, non-nil list when nothing is stored. A corrupt
// value also yields an empty list, together with an error wrapping ErrCorrupt.
func (p *Preferences) Favorites(ctx context.Context) ([]string, error) {
	raw, err := p.store.Get(ctx, KeyFavorites)
	if errors.Is(err, ErrNotFound) {
		return []string{}, nil
	}
	if err != nil {
		return []string{}, err
	}

	var list []string
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		return []string{}, fmt.Errorf("%w: %s: %v", ErrCorrupt, KeyFavorites, err)
	}
	if list == nil {
		return []string{}, nil
	}
	return favorites.Dedupe(list), nil
}

// SetFavorites stores the whole list as a JSON array.
func (p *Preferences) SetFavorites(ctx context.Context, list []string) error {
	if list == nil {
		list = []string{}
	}
	b, err := json.Marshal(list)
	if err != nil {
		return err
	}
	return p.store.Set(ctx, KeyFavorites, string(b))
}
