package sheets

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"
)

// fakeValues is an in-memory ValuesClient. Each tab is a slice of rows with
// row 1 being the header, matching the layout the backend expects.
type fakeValues struct {
	mu   sync.Mutex
	tabs map[string][][]string
	fail error
}

func newFakeValues() *fakeValues {
	return &fakeValues{
		tabs: map[string][][]string{
			tabApps:    {{"id", "name", "description", "icon", "iconType", "appType", "config", "isPublished", "shareCode", "createdAt", "updatedAt"}},
			tabData:    {{"id", "appId", "data", "isFavorite", "displayOrder", "dataSourceId", "createdAt", "updatedAt"}},
			tabForms:   {{"id", "appId", "name", "description", "fields", "submitText", "successMsg", "isPublished", "createdAt", "updatedAt"}},
			tabEntries: {{"id", "formId", "data", "createdAt"}},
			tabLinks:   {{"id", "appId", "title", "url", "icon", "displayOrder"}},
		},
	}
}

// splitRange decomposes "Tab!A5:H5" into the tab name and row number. A
// column-only range like "Tab!A:H" yields row 0.
func splitRange(rng string) (string, int) {
	tab, ref, _ := strings.Cut(rng, "!")
	start, _, _ := strings.Cut(ref, ":")
	digits := strings.TrimLeft(start, "ABCDEFGHIJKLMNOPQRSTUVWXYZ")
	if digits == "" {
		return tab, 0
	}
	n, _ := strconv.Atoi(digits)
	return tab, n
}

func (f *fakeValues) GetRange(_ context.Context, rng string) ([][]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail != nil {
		return nil, f.fail
	}
	tab, _ := splitRange(rng)
	rows := f.tabs[tab]
	out := make([][]string, len(rows))
	for i, row := range rows {
		out[i] = append([]string(nil), row...)
	}
	return out, nil
}

func (f *fakeValues) Append(_ context.Context, rng string, row []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail != nil {
		return f.fail
	}
	tab, _ := splitRange(rng)
	f.tabs[tab] = append(f.tabs[tab], append([]string(nil), row...))
	return nil
}

func (f *fakeValues) Update(_ context.Context, rng string, row []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail != nil {
		return f.fail
	}
	tab, num := splitRange(rng)
	if num < 1 || num > len(f.tabs[tab]) {
		return errors.New("row out of range")
	}
	f.tabs[tab][num-1] = append([]string(nil), row...)
	return nil
}

func (f *fakeValues) Clear(_ context.Context, rng string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail != nil {
		return f.fail
	}
	tab, num := splitRange(rng)
	if num < 1 || num > len(f.tabs[tab]) {
		return nil
	}
	f.tabs[tab][num-1] = []string{}
	return nil
}

// addRow writes raw cells into a tab, bypassing the backend. Used to seed
// rows with controlled timestamps or malformed cells.
func (f *fakeValues) addRow(tab string, row []string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tabs[tab] = append(f.tabs[tab], row)
}
