package models

type Category struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	HSCode      string `json:"hs_code"`
	GroupTag    string `json:"group_tag"`
}
