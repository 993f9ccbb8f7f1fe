package syncer

import "github.com/mesh-intelligence/appdeck/pkg/types"

// SeedDemo fills an empty store with three showcase apps and a handful of
// catalog items so first launch without a reachable server is not a blank
// screen. IDs and share codes are fixed so repeated seeding is stable.
func (s *Syncer) SeedDemo() {
	now := s.Now()

	apps := []types.App{
		{
			ID:          "demo-1",
			Name:        "Product Catalog",
			Description: "Browse and manage product inventory",
			Icon:        "🛒",
			IconType:    types.IconTypeEmoji,
			AppType:     types.AppTypeData,
			Config:      map[string]any{},
			IsPublished: true,
			ShareCode:   "catalog123",
			CreatedAt:   now,
			UpdatedAt:   now,
		},
		{
			ID:          "demo-2",
			Name:        "Contact Form",
			Description: "Collect contact requests from visitors",
			Icon:        "📧",
			IconType:    types.IconTypeEmoji,
			AppType:     types.AppTypeForm,
			Config:      map[string]any{},
			IsPublished: true,
			ShareCode:   "contact456",
			CreatedAt:   now,
			UpdatedAt:   now,
		},
		{
			ID:          "demo-3",
			Name:        "Company Website",
			Description: "Public company information page",
			Icon:        "🌐",
			IconType:    types.IconTypeEmoji,
			AppType:     types.AppTypeWebsite,
			Config:      map[string]any{},
			IsPublished: true,
			ShareCode:   "website789",
			CreatedAt:   now,
			UpdatedAt:   now,
		},
	}

	items := []types.DataItem{
		{
			ID:           "item-1",
			AppID:        "demo-1",
			Data:         map[string]any{"name": "Product A", "price": 29.99, "category": "Electronics", "stock": 150},
			IsFavorite:   true,
			DisplayOrder: 0,
			CreatedAt:    now,
			UpdatedAt:    now,
		},
		{
			ID:           "item-2",
			AppID:        "demo-1",
			Data:         map[string]any{"name": "Product B", "price": 49.99, "category": "Clothing", "stock": 75},
			IsFavorite:   false,
			DisplayOrder: 1,
			CreatedAt:    now,
			UpdatedAt:    now,
		},
		{
			ID:           "item-3",
			AppID:        "demo-1",
			Data:         map[string]any{"name": "Product C", "price": 19.99, "category": "Books", "stock": 200},
			IsFavorite:   true,
			DisplayOrder: 2,
			CreatedAt:    now,
			UpdatedAt:    now,
		},
	}

	s.Store.SetApps(apps)
	s.Store.SetItems(items)
	s.Store.SetLastRefresh(now)
}
