package models

// Folder groups document ids by reference. It never owns documents:
// deleting a document leaves a dangling id that readers filter out.
type Folder struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	ParentID  string   `json:"parentId,omitempty"`
	Documents []string `json:"documents"`
	CreatedAt int64    `json:"createdAt"`
}

// Collections is the whole organization overlay, persisted as a single
// .collections.json file.
type Collections struct {
	Folders        []Folder `json:"folders"`
	Pinned         []string `json:"pinned"`
	Starred        []string `json:"starred"`
	RecentlyViewed []string `json:"recentlyViewed"`
}
