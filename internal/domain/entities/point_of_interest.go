package entities

import "strings"

// POI categories
const (
	CategoryPharmacie  = "PHARMACIE"
	CategoryHopital    = "HOPITAL"
	CategoryEcole      = "ECOLE"
	CategoryMairie     = "MAIRIE"
	CategoryPolice     = "POLICE"
	CategoryMarche     = "MARCHE"
	CategoryBanque     = "BANQUE"
	CategoryTransport  = "TRANSPORT"
	CategoryHotel      = "HOTEL"
	CategoryRestaurant = "RESTAURANT"
	CategoryLieuCulte  = "LIEU_CULTE"
	CategoryAutre      = "AUTRE"
)

// POI statuses
const (
	POIStatusActive   = "ACTIF"
	POIStatusInactive = "INACTIF"
)

// PointOfInterest is a named municipal place shown on the public map.
type PointOfInterest struct {
	ID          string   `json:"id" db:"id"`
	Name        string   `json:"name" db:"name"`
	Category    string   `json:"category" db:"category"`
	Address     string   `json:"address" db:"address"`
	Phone       string   `json:"phone" db:"phone"`
	Description string   `json:"description" db:"description"`
	Latitude    *float64 `json:"latitude" db:"latitude"`
	Longitude   *float64 `json:"longitude" db:"longitude"`
	Status      string   `json:"status" db:"status"`
	Source      string   `json:"source,omitempty" db:"source"`
	ExternalID  string   `json:"external_id,omitempty" db:"external_id"`
}

// IsActive reports whether the POI is published.
func (p *PointOfInterest) IsActive() bool {
	return strings.EqualFold(p.Status, POIStatusActive)
}
