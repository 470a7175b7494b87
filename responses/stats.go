package responses

type Stats struct {
	NumberOfFlows     int `json:"numberOfFlows"`
	NumberOfItems     int `json:"numberOfItems"`
	NumberOfLocations int `json:"numberOfLocations"`
	// seconds
	RepoRuntime float64 `json:"repoRuntime"`
	// seconds
	OwnRuntime float64 `json:"ownRuntime"`
}
