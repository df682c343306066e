package repos

import (
	"database/sql"

	"dressmarket/internal/domain"

	"github.com/jmoiron/sqlx"
)

type DressRepo struct{ db *sqlx.DB }

func NewDressRepo(db *sqlx.DB) *DressRepo { return &DressRepo{db: db} }

const dressCols = `
  d.id, d.shop_id, d.name, d.price, d.stock, d.size, d.color, d.category,
  d.image_url, d.description, d.material, d.brand, d.active,
  d.created_at, COALESCE(d.updated_at,'') AS updated_at`

const listingCols = dressCols + `, s.name AS shop_name, s.location AS shop_location`

func (r *DressRepo) Get(id string) (domain.Dress, error) {
	var d domain.Dress
	err := r.db.Get(&d, `SELECT `+dressCols+` FROM dresses d WHERE d.id = ?`, id)
	return d, err
}

func (r *DressRepo) ListByShop(shopID string, limit, offset int) ([]domain.Dress, error) {
	var out []domain.Dress
	err := r.db.Select(&out, `
	  SELECT `+dressCols+`
	  FROM dresses d
	  WHERE d.shop_id = ? AND d.active = 1
	  ORDER BY d.created_at DESC
	  LIMIT ? OFFSET ?
	`, shopID, limit, offset)
	return out, err
}

// ListAll returns every active dress joined with shop display fields.
// The suggestion index is rebuilt from this result set.
func (r *DressRepo) ListAll() ([]domain.DressListing, error) {
	var out []domain.DressListing
	err := r.db.Select(&out, `
	  SELECT `+listingCols+`
	  FROM dresses d JOIN shops s ON s.id = d.shop_id
	  WHERE d.active = 1
	  ORDER BY d.created_at DESC
	`)
	return out, err
}

func (r *DressRepo) Search(q, category, size, color string, limit, offset int) ([]domain.DressListing, error) {
	where := `d.active = 1`
	args := []any{}
	if q != "" {
		where += ` AND (LOWER(d.name) LIKE ? OR LOWER(d.brand) LIKE ? OR LOWER(d.description) LIKE ?)`
		pat := "%" + q + "%"
		args = append(args, pat, pat, pat)
	}
	if category != "" {
		where += ` AND d.category = ?`
		args = append(args, category)
	}
	if size != "" {
		where += ` AND d.size = ?`
		args = append(args, size)
	}
	if color != "" {
		where += ` AND LOWER(d.color) = LOWER(?)`
		args = append(args, color)
	}

	query := `
	  SELECT ` + listingCols + `
	  FROM dresses d JOIN shops s ON s.id = d.shop_id
	  WHERE ` + where + `
	  ORDER BY d.created_at DESC
	  LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	var out []domain.DressListing
	err := r.db.Select(&out, query, args...)
	return out, err
}

// Stock reads the current stock column. A NULL column scans as
// (valid=false), meaning the shop does not track stock for this dress.
func (r *DressRepo) Stock(id string) (sql.NullInt64, error) {
	var st sql.NullInt64
	err := r.db.Get(&st, `SELECT stock FROM dresses WHERE id = ?`, id)
	return st, err
}

func (r *DressRepo) UpsertStock(id string, stock *int) error {
	_, err := r.db.Exec(`UPDATE dresses SET stock=?, updated_at=CURRENT_TIMESTAMP WHERE id=?`, stock, id)
	return err
}

func (r *DressRepo) Create(d domain.Dress) error {
	_, err := r.db.Exec(`
	  INSERT INTO dresses(id,shop_id,name,price,stock,size,color,category,image_url,description,material,brand,active)
	  VALUES(?,?,?,?,?,?,?,?,?,?,?,?,1)
	`, d.ID, d.ShopID, d.Name, d.Price, d.Stock, d.Size, d.Color, d.Category, d.ImageURL, d.Description, d.Material, d.Brand)
	return err
}

func (r *DressRepo) Update(d domain.Dress) error {
	_, err := r.db.Exec(`
	  UPDATE dresses
	  SET name=?, price=?, stock=?, size=?, color=?, category=?, image_url=?,
	      description=?, material=?, brand=?, active=?, updated_at=CURRENT_TIMESTAMP
	  WHERE id=? AND shop_id=?
	`, d.Name, d.Price, d.Stock, d.Size, d.Color, d.Category, d.ImageURL,
		d.Description, d.Material, d.Brand, d.Active, d.ID, d.ShopID)
	return err
}

func (r *DressRepo) Deactivate(id, shopID string) error {
	_, err := r.db.Exec(`UPDATE dresses SET active=0, updated_at=CURRENT_TIMESTAMP WHERE id=? AND shop_id=?`, id, shopID)
	return err
}
