package services

import (
	"database/sql"
	"encoding/json"

	"dressmarket/internal/domain"
	"dressmarket/internal/repos"

	"github.com/google/uuid"
)

type ProfileService struct {
	Profiles *repos.ProfileRepo
}

func NewProfileService(p *repos.ProfileRepo) *ProfileService { return &ProfileService{Profiles: p} }

// Get returns the profile, creating an empty view for customers who have
// never saved one.
func (s *ProfileService) Get(customerID string) (domain.CustomerProfile, error) {
	p, err := s.Profiles.Get(customerID)
	if err == sql.ErrNoRows {
		return domain.CustomerProfile{ID: customerID}, nil
	}
	return p, err
}

func (s *ProfileService) Save(customerID, fullName, phone string) error {
	return s.Profiles.Upsert(customerID, fullName, phone)
}

func (s *ProfileService) Addresses(customerID string) ([]domain.Address, error) {
	return s.Profiles.Addresses(customerID)
}

func (s *ProfileService) AddAddress(customerID, label, line1, line2, city, region, postal string, isDefault bool) error {
	return s.Profiles.AddAddress(domain.Address{
		ID:         uuid.NewString(),
		CustomerID: customerID,
		Label:      label,
		Line1:      line1,
		Line2:      line2,
		City:       city,
		Region:     region,
		PostalCode: postal,
		IsDefault:  isDefault,
	})
}

func (s *ProfileService) DeleteAddress(customerID, addressID string) error {
	return s.Profiles.DeleteAddress(customerID, addressID)
}

// PreferenceView is the decoded form of the stored JSON lists.
type PreferenceView struct {
	Sizes      []string
	Colors     []string
	Categories []string
}

func (s *ProfileService) Preferences(customerID string) (PreferenceView, error) {
	p, err := s.Profiles.Preferences(customerID)
	if err == sql.ErrNoRows {
		return PreferenceView{}, nil
	}
	if err != nil {
		return PreferenceView{}, err
	}
	var v PreferenceView
	_ = json.Unmarshal([]byte(p.SizesJSON), &v.Sizes)
	_ = json.Unmarshal([]byte(p.ColorsJSON), &v.Colors)
	_ = json.Unmarshal([]byte(p.CategoriesJSON), &v.Categories)
	return v, nil
}

func (s *ProfileService) SavePreferences(customerID string, v PreferenceView) error {
	enc := func(ss []string) string {
		if ss == nil {
			ss = []string{}
		}
		b, _ := json.Marshal(ss)
		return string(b)
	}
	return s.Profiles.SavePreferences(customerID, enc(v.Sizes), enc(v.Colors), enc(v.Categories))
}
