package types

// Role is the access level granted after a passphrase match.
type Role string

const (
	RoleNone    Role = "NONE"
	RoleStudent Role = "STUDENT"
	RoleAdmin   Role = "ADMIN"
)

// ResourceType is the closed set of content kinds a resource may have.
type ResourceType string

const (
	ResourceDocument     ResourceType = "DOCUMENT"
	ResourceVideo        ResourceType = "VIDEO"
	ResourceAnnouncement ResourceType = "ANNOUNCEMENT"
	ResourceTimetable    ResourceType = "TIMETABLE"
)

func (t ResourceType) Valid() bool {
	switch t {
	case ResourceDocument, ResourceVideo, ResourceAnnouncement, ResourceTimetable:
		return true
	}
	return false
}

// Resource is a single posted item. CreatedAt is epoch milliseconds.
// Resources are created and deleted, never edited.
type Resource struct {
	Id          string       `json:"id"`
	Type        ResourceType `json:"type"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Url         string       `json:"url,omitempty"`
	CreatedAt   int64        `json:"createdAt"`
}

// Class is a named content channel within a hub. Resources are ordered
// newest first.
type Class struct {
	Id        string     `json:"id"`
	Name      string     `json:"name"`
	Teacher   string     `json:"teacher"`
	Resources []Resource `json:"resources"`
}

// Hub is the top-level container. The two passphrases are shared secrets
// stored as-is; the persisted field names are the snapshot schema and
// must not change.
type Hub struct {
	Id              string  `json:"id"`
	Name            string  `json:"name"`
	Description     string  `json:"description"`
	LogoUrl         string  `json:"logoUrl,omitempty"`
	StudentPassword string  `json:"studentPassword"`
	AdminPassword   string  `json:"adminPassword"`
	Classes         []Class `json:"classes"`
}

// Session is the transient record of which hub a caller has entered and
// under what role. It is never persisted.
type Session struct {
	HubId string `json:"hub_id"`
	Role  Role   `json:"role"`
}
