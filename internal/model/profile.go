package model

// Profile is the device-local profile blob: display name, the user's main
// goal, and a free-text progress figure. It is not a synced collection;
// the whole struct is written and read as one value.
type Profile struct {
	Name     string `json:"name"`
	Goal     string `json:"goal"`
	Progress string `json:"progress"`
}
