package business

import "time"

// Categories offered by the submission form.
var Categories = []string{"Salon", "Cybercafe", "Food Joint", "Boda Rider", "Tutor", "Other"}

const MaxImages = 10

type Business struct {
	ID          string
	OwnerID     string
	Name        string
	Description string
	Category    string
	County      string
	Town        string
	Address     string
	Latitude    *float64
	Longitude   *float64
	Phone       string
	Email       string
	WhatsApp    string
	Website     string
	Images      []string
	IsApproved  bool
	IsPremium   bool
	Views       int
	Rating      float64
	ReviewCount int
	ApprovedAt  *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (b *Business) OwnedBy(userID string) bool {
	return b.OwnerID == userID
}
