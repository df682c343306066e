package domain

import "database/sql"

type Shop struct {
	ID              string          `db:"id"`
	OwnerID         string          `db:"owner_id"`
	Name            string          `db:"name"`
	BusinessName    string          `db:"business_name"`
	Location        string          `db:"location"`
	Phone           string          `db:"phone"`
	Hours           string          `db:"hours"`
	SpecialtiesJSON string          `db:"specialties_json"`
	Rating          sql.NullFloat64 `db:"rating"`
	ReviewCount     int             `db:"review_count"`
	ImageURL        string          `db:"image_url"`
	CreatedAt       string          `db:"created_at"`
	UpdatedAt       string          `db:"updated_at"`
}

type Dress struct {
	ID          string          `db:"id"`
	ShopID      string          `db:"shop_id"`
	Name        string          `db:"name"`
	Price       sql.NullFloat64 `db:"price"`
	Stock       sql.NullInt64   `db:"stock"` // NULL = untracked
	Size        string          `db:"size"`
	Color       string          `db:"color"`
	Category    string          `db:"category"`
	ImageURL    string          `db:"image_url"`
	Description string          `db:"description"`
	Material    string          `db:"material"`
	Brand       string          `db:"brand"`
	Active      bool            `db:"active"`
	CreatedAt   string          `db:"created_at"`
	UpdatedAt   string          `db:"updated_at"`
}

// DressListing is a dress row joined with its shop's display fields,
// the shape the suggestion index and search pages consume.
type DressListing struct {
	Dress
	ShopName     string `db:"shop_name"`
	ShopLocation string `db:"shop_location"`
}

type Availability struct {
	Status string `json:"status"` // IN_STOCK | LOW_STOCK | OUT_OF_STOCK | UNTRACKED
	Qty    int    `json:"qty,omitempty"`
}

type CustomerProfile struct {
	ID        string `db:"id"` // same value as users.id
	FullName  string `db:"full_name"`
	Phone     string `db:"phone"`
	AvatarURL string `db:"avatar_url"`
	CreatedAt string `db:"created_at"`
	UpdatedAt string `db:"updated_at"`
}

type Address struct {
	ID         string `db:"id"`
	CustomerID string `db:"customer_id"`
	Label      string `db:"label"`
	Line1      string `db:"line1"`
	Line2      string `db:"line2"`
	City       string `db:"city"`
	Region     string `db:"region"`
	PostalCode string `db:"postal_code"`
	IsDefault  bool   `db:"is_default"`
	CreatedAt  string `db:"created_at"`
}

// Preferences are stored one row per customer; list fields are JSON text.
type Preferences struct {
	CustomerID     string `db:"customer_id"`
	SizesJSON      string `db:"sizes_json"`
	ColorsJSON     string `db:"colors_json"`
	CategoriesJSON string `db:"categories_json"`
	UpdatedAt      string `db:"updated_at"`
}
