package models

// RankedTechnician is one row of the "top rated technicians" list.
type RankedTechnician struct {
	UID              string   `json:"uid"`
	Name             string   `json:"name,omitempty"`
	Rating           float64  `json:"rating"`
	CompletedRepairs int      `json:"completedRepairs"`
	ShopName         string   `json:"shopName"`
	Categories       []string `json:"categories"`
	AvatarURL        string   `json:"avatarUrl,omitempty"`

	// Distance is in kilometres and only present when the viewer has a location.
	Distance *float64 `json:"distance,omitempty"`
	// DistanceEstimated is set when the technician has no stored location and
	// Distance was computed against a jittered default point. Such values are
	// not stable between calls.
	DistanceEstimated bool `json:"distanceEstimated,omitempty"`
}
