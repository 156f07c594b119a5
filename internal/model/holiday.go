package model

type Holiday struct {
	ID                   string `json:"id"`
	Date                 string `json:"date"`
	Name                 string `json:"name"`
	AffectsPresentations bool   `json:"affects_presentations"`
}
