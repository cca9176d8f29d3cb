package models

// AuthUser is the authenticated user record returned by the vendor cloud.
// It lists the systems visible to the account and drives discovery.
type AuthUser struct {
	Users []AuthUserEntry `json:"u"`
}

// AuthUserEntry is one user within the auth record.
type AuthUserEntry struct {
	ID               string           `json:"_id"`
	Name             string           `json:"n,omitempty"`
	BroadcastChannel string           `json:"mbc,omitempty"`
	Systems          []AuthUserSystem `json:"system"`
}

// AuthUserSystem is a system reference within the auth record.
type AuthUserSystem struct {
	PanelID  int64  `json:"panid"`
	Nickname string `json:"sn,omitempty"`
	Admin    bool   `json:"ad,omitempty"`
}
