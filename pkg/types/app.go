package types

import "time"

// App types. Each app is one of these four kinds; the kind selects the
// renderer on the public share page.
const (
	AppTypeData    = "data"
	AppTypeForm    = "form"
	AppTypeWebsite = "website"
	AppTypeEmbed   = "embed"
)

// validAppTypes is the set of recognized app type values.
var validAppTypes = map[string]bool{
	AppTypeData:    true,
	AppTypeForm:    true,
	AppTypeWebsite: true,
	AppTypeEmbed:   true,
}

// Icon types.
const (
	IconTypeDefault  = "default"
	IconTypeUploaded = "uploaded"
	IconTypeEmoji    = "emoji"
)

// Defaults applied when an app is created without the field set.
const (
	DefaultAppIcon = "/icons/default-app.svg"

	// ShareCodeLength is the length of the public share token.
	ShareCodeLength = 8
)

// App represents a user-defined mini-application reachable via its ShareCode.
type App struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Icon        string         `json:"icon"`
	IconType    string         `json:"iconType"`
	AppType     string         `json:"appType"`
	Config      map[string]any `json:"config"`
	IsPublished bool           `json:"isPublished"`
	ShareCode   string         `json:"shareCode"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

// ValidAppType reports whether t is a recognized app type.
func ValidAppType(t string) bool {
	return validAppTypes[t]
}

// NewApp holds the caller-supplied fields for app creation. The store
// assigns ID, ShareCode, IsPublished (true) and timestamps, and fills
// unset Icon/IconType/AppType with defaults.
type NewApp struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Icon        string         `json:"icon"`
	IconType    string         `json:"iconType"`
	AppType     string         `json:"appType"`
	Config      map[string]any `json:"config"`
}

// AppPatch is a partial update. Nil fields are left untouched.
type AppPatch struct {
	Name        *string         `json:"name"`
	Description *string         `json:"description"`
	Icon        *string         `json:"icon"`
	IconType    *string         `json:"iconType"`
	AppType     *string         `json:"appType"`
	Config      *map[string]any `json:"config"`
	IsPublished *bool           `json:"isPublished"`
}

// Apply merges the non-nil patch fields into the app and bumps UpdatedAt.
func (p AppPatch) Apply(a *App, now time.Time) {
	if p.Name != nil {
		a.Name = *p.Name
	}
	if p.Description != nil {
		a.Description = *p.Description
	}
	if p.Icon != nil {
		a.Icon = *p.Icon
	}
	if p.IconType != nil {
		a.IconType = *p.IconType
	}
	if p.AppType != nil {
		a.AppType = *p.AppType
	}
	if p.Config != nil {
		a.Config = *p.Config
	}
	if p.IsPublished != nil {
		a.IsPublished = *p.IsPublished
	}
	a.UpdatedAt = now
}

// SharedApp is an app as exposed through the public share endpoint: the app
// itself plus its data items and the published subset of its forms.
type SharedApp struct {
	App
	DataItems []DataItem `json:"dataItems"`
	Forms     []Form     `json:"forms"`
}
