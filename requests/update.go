package requests

// Update - request an update
type Update struct{}

// Repo - query repo
type Repo struct{}
