package models

// Court is a bookable court listed by a house owner.
type Court struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Sport        string  `json:"sport"`
	Address      string  `json:"address"`
	City         string  `json:"city"`
	PricePerHour float64 `json:"pricePerHour"`
	OwnerID      string  `json:"ownerId"`
	Active       bool    `json:"active"`
}

// CourtFilter narrows GET /courts.
type CourtFilter struct {
	City  string
	Sport string
}
