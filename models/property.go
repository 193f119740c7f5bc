package models

// Property categories, listing kinds and lifecycle states. The category
// drives which validation rules apply to a payload.
const (
	TypeIndustrial  = "industrial"
	TypeCommercial  = "commercial"
	TypeResidential = "residential"

	ListingSale = "sale"
	ListingRent = "rent"

	StatusActive   = "active"
	StatusInactive = "inactive"
	StatusSold     = "sold"
	StatusRented   = "rented"
)

type Property struct {
	ID             int64    `db:"id" json:"id"`
	Type           string   `db:"type" json:"type"`
	ListingType    string   `db:"listing_type" json:"listing_type"`
	Name           string   `db:"name" json:"name"`
	Location       string   `db:"location" json:"location"`
	PropertyType   string   `db:"property_type" json:"property_type"`
	Price          float64  `db:"price" json:"price"`
	Surface        float64  `db:"surface" json:"surface"`
	Construction   *float64 `db:"construction" json:"construction"`
	Description    string   `db:"description" json:"description"`
	TechnicalSheet *string  `db:"technical_sheet" json:"technical_sheet"`
	Latitude       float64  `db:"latitude" json:"latitude"`
	Longitude      float64  `db:"longitude" json:"longitude"`
	Status         string   `db:"status" json:"status"`
	CreatedAt      int64    `db:"created_at" json:"created_at"`
	UpdatedAt      int64    `db:"updated_at" json:"updated_at"`

	Images []PropertyImage `db:"-" json:"images"`
}

type PropertyImage struct {
	ID         int64  `db:"id" json:"id"`
	PropertyID int64  `db:"property_id" json:"property_id"`
	URL        string `db:"url" json:"url"`
	IsMain     bool   `db:"is_main" json:"is_main"`
	CreatedAt  int64  `db:"created_at" json:"created_at"`
	UpdatedAt  *int64 `db:"updated_at" json:"updated_at"`
}

// PropertyInput is the write payload for create and update. LocalSize is
// validated for commercial properties but not persisted; it describes the
// retail unit in the listing form only.
type PropertyInput struct {
	Type           string   `json:"type"`
	ListingType    string   `json:"listing_type"`
	Name           string   `json:"name"`
	Location       string   `json:"location"`
	PropertyType   string   `json:"property_type"`
	Price          float64  `json:"price"`
	Surface        float64  `json:"surface"`
	Construction   *float64 `json:"construction"`
	LocalSize      string   `json:"local_size"`
	Description    string   `json:"description"`
	TechnicalSheet *string  `json:"technical_sheet"`
	Latitude       float64  `json:"latitude"`
	Longitude      float64  `json:"longitude"`
	Status         string   `json:"status"`
}

// PropertyPatch is the update payload. Every field is a pointer so the
// handler can tell an omitted field from a supplied zero value; omitted
// fields keep their stored value.
type PropertyPatch struct {
	Type           *string  `json:"type"`
	ListingType    *string  `json:"listing_type"`
	Name           *string  `json:"name"`
	Location       *string  `json:"location"`
	PropertyType   *string  `json:"property_type"`
	Price          *float64 `json:"price"`
	Surface        *float64 `json:"surface"`
	Construction   *float64 `json:"construction"`
	LocalSize      *string  `json:"local_size"`
	Description    *string  `json:"description"`
	TechnicalSheet *string  `json:"technical_sheet"`
	Latitude       *float64 `json:"latitude"`
	Longitude      *float64 `json:"longitude"`
	Status         *string  `json:"status"`
}

// Input converts a stored row back into a write payload, the base the
// patch is merged over.
func (p *Property) Input() PropertyInput {
	return PropertyInput{
		Type:           p.Type,
		ListingType:    p.ListingType,
		Name:           p.Name,
		Location:       p.Location,
		PropertyType:   p.PropertyType,
		Price:          p.Price,
		Surface:        p.Surface,
		Construction:   p.Construction,
		Description:    p.Description,
		TechnicalSheet: p.TechnicalSheet,
		Latitude:       p.Latitude,
		Longitude:      p.Longitude,
		Status:         p.Status,
	}
}

// Apply overwrites in with the patch's supplied fields.
func (patch *PropertyPatch) Apply(in *PropertyInput) {
	if patch.Type != nil {
		in.Type = *patch.Type
	}
	if patch.ListingType != nil {
		in.ListingType = *patch.ListingType
	}
	if patch.Name != nil {
		in.Name = *patch.Name
	}
	if patch.Location != nil {
		in.Location = *patch.Location
	}
	if patch.PropertyType != nil {
		in.PropertyType = *patch.PropertyType
	}
	if patch.Price != nil {
		in.Price = *patch.Price
	}
	if patch.Surface != nil {
		in.Surface = *patch.Surface
	}
	if patch.Construction != nil {
		in.Construction = patch.Construction
	}
	if patch.LocalSize != nil {
		in.LocalSize = *patch.LocalSize
	}
	if patch.Description != nil {
		in.Description = *patch.Description
	}
	if patch.TechnicalSheet != nil {
		in.TechnicalSheet = patch.TechnicalSheet
	}
	if patch.Latitude != nil {
		in.Latitude = *patch.Latitude
	}
	if patch.Longitude != nil {
		in.Longitude = *patch.Longitude
	}
	if patch.Status != nil {
		in.Status = *patch.Status
	}
}

// PropertyFilter narrows the public listing query. Zero values mean the
// dimension is not filtered.
type PropertyFilter struct {
	Type        string
	ListingType string
	Status      string
	MinPrice    float64
	MaxPrice    float64
}
