package repos

import (
	"dressmarket/internal/domain"

	"github.com/jmoiron/sqlx"
)

type ShopRepo struct{ db *sqlx.DB }

func NewShopRepo(db *sqlx.DB) *ShopRepo { return &ShopRepo{db: db} }

const shopCols = `
  id, owner_id, name, business_name, location, phone, hours,
  specialties_json, rating, review_count, image_url,
  created_at, COALESCE(updated_at,'') AS updated_at`

func (r *ShopRepo) List() ([]domain.Shop, error) {
	var out []domain.Shop
	err := r.db.Select(&out, `SELECT `+shopCols+` FROM shops ORDER BY name`)
	return out, err
}

func (r *ShopRepo) Get(id string) (domain.Shop, error) {
	var s domain.Shop
	err := r.db.Get(&s, `SELECT `+shopCols+` FROM shops WHERE id = ?`, id)
	return s, err
}

func (r *ShopRepo) ByOwner(ownerID string) ([]domain.Shop, error) {
	var out []domain.Shop
	err := r.db.Select(&out, `SELECT `+shopCols+` FROM shops WHERE owner_id = ? ORDER BY name`, ownerID)
	return out, err
}

func (r *ShopRepo) UpdateProfile(id, name, businessName, location, phone, hours, specialtiesJSON string) error {
	_, err := r.db.Exec(`
		UPDATE shops
		SET name=?, business_name=?, location=?, phone=?, hours=?, specialties_json=?,
		    updated_at=CURRENT_TIMESTAMP
		WHERE id=?
	`, name, businessName, location, phone, hours, specialtiesJSON, id)
	return err
}

func (r *ShopRepo) SetImage(id, imageURL string) error {
	_, err := r.db.Exec(`UPDATE shops SET image_url=?, updated_at=CURRENT_TIMESTAMP WHERE id=?`, imageURL, id)
	return err
}
