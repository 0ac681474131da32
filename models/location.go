package models

// Location 代表路線上的一個地點
// Location is one end of a route at country/state/city granularity.
type Location struct {
	Country string `json:"country"`
	State   string `json:"state"`
	City    string `json:"city"`
}
