package models

// GroupRef is the entry kept on the user document's groupList array.
type GroupRef struct {
	GroupID   string `json:"groupId"`
	GroupName string `json:"groupName"`
	Timestamp string `json:"timestamp,omitempty"`
}

// GroupSummary joins a GroupRef with the group document's display data for
// the groups list screen.
type GroupSummary struct {
	GroupID     string   `json:"groupId"`
	GroupName   string   `json:"groupName"`
	GroupImage  string   `json:"groupImage,omitempty"`
	LastMessage string   `json:"lastMessage"`
	Timestamp   string   `json:"timestamp,omitempty"`
	CreatedBy   string   `json:"createdBy"`
	Members     []string `json:"members"`
}
