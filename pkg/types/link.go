package types

// DefaultLinkIcon is used when a link is created without an icon.
const DefaultLinkIcon = "🔗"

// Link is one navigable entry in an embed-type app's sidebar.
type Link struct {
	ID           string `json:"id"`
	AppID        string `json:"appId"`
	Title        string `json:"title"`
	URL          string `json:"url"`
	Icon         string `json:"icon"`
	DisplayOrder int    `json:"displayOrder"`
}

// NewLink holds the caller-supplied fields for link creation. The store
// assigns ID and DisplayOrder.
type NewLink struct {
	AppID string `json:"appId"`
	Title string `json:"title"`
	URL   string `json:"url"`
	Icon  string `json:"icon"`
}
