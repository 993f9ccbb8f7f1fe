package types

import "time"

// DataItem is one schema-free user record belonging to a data-type app.
type DataItem struct {
	ID           string         `json:"id"`
	AppID        string         `json:"appId"`
	Data         map[string]any `json:"data"`
	IsFavorite   bool           `json:"isFavorite"`
	DisplayOrder int            `json:"displayOrder"`
	DataSourceID string         `json:"dataSourceId,omitempty"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
}

// NewDataItem holds the caller-supplied fields for item creation. The store
// assigns ID, timestamps, and DisplayOrder (the count of the app's items at
// creation time).
type NewDataItem struct {
	AppID        string         `json:"appId"`
	Data         map[string]any `json:"data"`
	IsFavorite   bool           `json:"isFavorite"`
	DataSourceID string         `json:"dataSourceId"`
}

// DataItemPatch is a partial update. Nil fields are left untouched.
type DataItemPatch struct {
	Data         *map[string]any `json:"data"`
	IsFavorite   *bool           `json:"isFavorite"`
	DisplayOrder *int            `json:"displayOrder"`
}

// Apply merges the non-nil patch fields into the item and bumps UpdatedAt.
func (p DataItemPatch) Apply(it *DataItem, now time.Time) {
	if p.Data != nil {
		it.Data = *p.Data
	}
	if p.IsFavorite != nil {
		it.IsFavorite = *p.IsFavorite
	}
	if p.DisplayOrder != nil {
		it.DisplayOrder = *p.DisplayOrder
	}
	it.UpdatedAt = now
}

// DisplayName probes common field name variants for a human-readable label.
// Items are schema-free, so renderers fall back through name/title spellings
// before giving up and using the item ID.
func (it *DataItem) DisplayName() string {
	for _, key := range []string{"name", "Name", "title", "Title"} {
		if v, ok := it.Data[key]; ok {
			if s, ok := v.(string); ok && s != "" {
				return s
			}
		}
	}
	return it.ID
}
