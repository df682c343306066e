package repos

import (
	"dressmarket/internal/domain"

	"github.com/jmoiron/sqlx"
)

type ProfileRepo struct{ db *sqlx.DB }

func NewProfileRepo(db *sqlx.DB) *ProfileRepo { return &ProfileRepo{db: db} }

func (r *ProfileRepo) Get(customerID string) (domain.CustomerProfile, error) {
	var p domain.CustomerProfile
	err := r.db.Get(&p, `
	  SELECT id, full_name, phone, avatar_url, created_at, COALESCE(updated_at,'') AS updated_at
	  FROM customers WHERE id = ?
	`, customerID)
	return p, err
}

func (r *ProfileRepo) Upsert(customerID, fullName, phone string) error {
	_, err := r.db.Exec(`
	  INSERT INTO customers(id, full_name, phone)
	  VALUES(?,?,?)
	  ON CONFLICT(id) DO UPDATE SET full_name=excluded.full_name, phone=excluded.phone,
	    updated_at=CURRENT_TIMESTAMP
	`, customerID, fullName, phone)
	return err
}

func (r *ProfileRepo) SetAvatar(customerID, avatarURL string) error {
	_, err := r.db.Exec(`
	  INSERT INTO customers(id, avatar_url) VALUES(?,?)
	  ON CONFLICT(id) DO UPDATE SET avatar_url=excluded.avatar_url, updated_at=CURRENT_TIMESTAMP
	`, customerID, avatarURL)
	return err
}

func (r *ProfileRepo) Addresses(customerID string) ([]domain.Address, error) {
	var out []domain.Address
	err := r.db.Select(&out, `
	  SELECT id, customer_id, label, line1, line2, city, region, postal_code, is_default, created_at
	  FROM customer_addresses
	  WHERE customer_id = ?
	  ORDER BY is_default DESC, created_at
	`, customerID)
	return out, err
}

// AddAddress inserts an address; marking it default demotes any previous
// default inside the same transaction (at most one default per customer).
func (r *ProfileRepo) AddAddress(a domain.Address) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if a.IsDefault {
		if _, err := tx.Exec(`UPDATE customer_addresses SET is_default=0 WHERE customer_id=?`, a.CustomerID); err != nil {
			return err
		}
	}
	if _, err := tx.Exec(`
	  INSERT INTO customer_addresses(id, customer_id, label, line1, line2, city, region, postal_code, is_default)
	  VALUES(?,?,?,?,?,?,?,?,?)
	`, a.ID, a.CustomerID, a.Label, a.Line1, a.Line2, a.City, a.Region, a.PostalCode, a.IsDefault); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *ProfileRepo) DeleteAddress(customerID, addressID string) error {
	_, err := r.db.Exec(`DELETE FROM customer_addresses WHERE id=? AND customer_id=?`, addressID, customerID)
	return err
}

func (r *ProfileRepo) Preferences(customerID string) (domain.Preferences, error) {
	var p domain.Preferences
	err := r.db.Get(&p, `
	  SELECT customer_id, sizes_json, colors_json, categories_json, COALESCE(updated_at,'') AS updated_at
	  FROM customer_preferences WHERE customer_id = ?
	`, customerID)
	return p, err
}

func (r *ProfileRepo) SavePreferences(customerID, sizesJSON, colorsJSON, categoriesJSON string) error {
	_, err := r.db.Exec(`
	  INSERT INTO customer_preferences(customer_id, sizes_json, colors_json, categories_json, updated_at)
	  VALUES(?,?,?,?,CURRENT_TIMESTAMP)
	  ON CONFLICT(customer_id) DO UPDATE SET
	    sizes_json=excluded.sizes_json, colors_json=excluded.colors_json,
	    categories_json=excluded.categories_json, updated_at=CURRENT_TIMESTAMP
	`, customerID, sizesJSON, colorsJSON, categoriesJSON)
	return err
}
