package business

import (
	"fmt"
	"strings"
	"time"

	"github.com/thikabizhub/bizhub-backend/internal/pkg/pagination"
	"github.com/thikabizhub/bizhub-backend/internal/pkg/validator"
)

type CreateBusinessRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	County      string   `json:"county"`
	Town        string   `json:"town"`
	Address     string   `json:"address"`
	Latitude    *float64 `json:"latitude,omitempty"`
	Longitude   *float64 `json:"longitude,omitempty"`
	Phone       string   `json:"phone"`
	Email       string   `json:"email"`
	WhatsApp    string   `json:"whatsapp"`
	Website     string   `json:"website"`
}

func (r *CreateBusinessRequest) Validate() error {
	var errs validator.ValidationErrors

	r.Name = strings.TrimSpace(r.Name)
	r.County = strings.TrimSpace(r.County)
	r.Email = validator.NormalizeEmail(r.Email)

	if validator.IsEmpty(r.Name) {
		errs.Add("name", "name is required")
	} else if len(r.Name) > 120 {
		errs.Add("name", "name must not exceed 120 characters")
	}
	if validator.IsEmpty(r.Description) {
		errs.Add("description", "description is required")
	} else if len(r.Description) > 2000 {
		errs.Add("description", "description must not exceed 2000 characters")
	}
	if !validator.IsInSlice(r.Category, Categories) {
		errs.Add("category", "category must be one of: "+strings.Join(Categories, ", "))
	}
	if validator.IsEmpty(r.County) {
		errs.Add("county", "county is required")
	}

	if (r.Latitude == nil) != (r.Longitude == nil) {
		errs.Add("latitude", "latitude and longitude must be given together")
	} else if r.Latitude != nil {
		if *r.Latitude < -90 || *r.Latitude > 90 {
			errs.Add("latitude", "latitude must be between -90 and 90")
		}
		if *r.Longitude < -180 || *r.Longitude > 180 {
			errs.Add("longitude", "longitude must be between -180 and 180")
		}
	}

	if r.Phone == "" && r.WhatsApp == "" {
		errs.Add("phone", "phone or whatsapp is required")
	}
	if r.Phone != "" && !validator.IsValidPhoneNumber(r.Phone) {
		errs.Add("phone", "phone must be a valid Kenyan phone number")
	}
	if r.WhatsApp != "" && !validator.IsValidPhoneNumber(r.WhatsApp) {
		errs.Add("whatsapp", "whatsapp must be a valid Kenyan phone number")
	}
	if r.Email != "" && !validator.IsValidEmail(r.Email) {
		errs.Add("email", "email must be a valid email address")
	}
	if r.Website != "" && !validator.IsValidURL(r.Website) {
		errs.Add("website", "website must be an http or https URL")
	}

	return errs.Err()
}

// ListBusinessesRequest is the public directory query. Category and County
// accept "all" as no filter.
type ListBusinessesRequest struct {
	Category string
	County   string
	Search   string
	Page     pagination.Request
}

func (r ListBusinessesRequest) Filters() []pagination.Filter {
	filters := []pagination.Filter{pagination.Eq("is_approved", true)}
	if r.Category != "" && r.Category != "all" {
		filters = append(filters, pagination.Eq("category", r.Category))
	}
	if r.County != "" && r.County != "all" {
		filters = append(filters, pagination.Eq("county", r.County))
	}
	return filters
}

const (
	DefaultNearbyRadiusKm = 5.0
	MaxNearbyRadiusKm     = 50.0
	DefaultNearbyLimit    = 20
	MaxNearbyLimit        = 100
)

// NearbyRequest finds approved businesses around a point. Zero RadiusKm and
// Limit take the defaults.
type NearbyRequest struct {
	Latitude  float64
	Longitude float64
	RadiusKm  float64
	Limit     int
}

func (r *NearbyRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Latitude < -90 || r.Latitude > 90 {
		errs.Add("lat", "lat must be between -90 and 90")
	}
	if r.Longitude < -180 || r.Longitude > 180 {
		errs.Add("lng", "lng must be between -180 and 180")
	}

	if r.RadiusKm == 0 {
		r.RadiusKm = DefaultNearbyRadiusKm
	}
	if r.RadiusKm < 0 || r.RadiusKm > MaxNearbyRadiusKm {
		errs.Add("radius_km", fmt.Sprintf("radius_km must be between 0 and %g", MaxNearbyRadiusKm))
	}

	if r.Limit == 0 {
		r.Limit = DefaultNearbyLimit
	}
	if r.Limit < 0 {
		errs.Add("limit", "limit must be a positive integer")
	} else if r.Limit > MaxNearbyLimit {
		r.Limit = MaxNearbyLimit
	}

	return errs.Err()
}

type BusinessResponse struct {
	ID          string     `json:"id"`
	OwnerID     string     `json:"owner_id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Category    string     `json:"category"`
	County      string     `json:"county"`
	Town        string     `json:"town,omitempty"`
	Address     string     `json:"address,omitempty"`
	Latitude    *float64   `json:"latitude,omitempty"`
	Longitude   *float64   `json:"longitude,omitempty"`
	Phone       string     `json:"phone,omitempty"`
	Email       string     `json:"email,omitempty"`
	WhatsApp    string     `json:"whatsapp,omitempty"`
	Website     string     `json:"website,omitempty"`
	Images      []string   `json:"images"`
	IsApproved  bool       `json:"is_approved"`
	IsPremium   bool       `json:"is_premium"`
	Views       int        `json:"views"`
	Rating      float64    `json:"rating"`
	ReviewCount int        `json:"review_count"`
	ApprovedAt  *time.Time `json:"approved_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

func NewBusinessResponse(b Business) BusinessResponse {
	images := b.Images
	if images == nil {
		images = []string{}
	}
	return BusinessResponse{
		ID:          b.ID,
		OwnerID:     b.OwnerID,
		Name:        b.Name,
		Description: b.Description,
		Category:    b.Category,
		County:      b.County,
		Town:        b.Town,
		Address:     b.Address,
		Latitude:    b.Latitude,
		Longitude:   b.Longitude,
		Phone:       b.Phone,
		Email:       b.Email,
		WhatsApp:    b.WhatsApp,
		Website:     b.Website,
		Images:      images,
		IsApproved:  b.IsApproved,
		IsPremium:   b.IsPremium,
		Views:       b.Views,
		Rating:      b.Rating,
		ReviewCount: b.ReviewCount,
		ApprovedAt:  b.ApprovedAt,
		CreatedAt:   b.CreatedAt,
	}
}

func NewBusinessResponses(bs []Business) []BusinessResponse {
	out := make([]BusinessResponse, len(bs))
	for i, b := range bs {
		out[i] = NewBusinessResponse(b)
	}
	return out
}

type NearbyBusinessResponse struct {
	BusinessResponse
	DistanceKm float64 `json:"distance_km"`
}

type FavoriteResponse struct {
	BusinessID string `json:"business_id"`
	Favorite   bool   `json:"favorite"`
}

// Actor is the authenticated caller of an owner-or-admin operation.
type Actor struct {
	UserID  string
	IsAdmin bool
}
