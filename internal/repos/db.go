package repos

import (
	"encoding/json"
	"log"
	"os"

	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
	_ "modernc.org/sqlite"
)

func OpenDB(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err = db.Ping(); err != nil {
		return nil, err
	}

	if err := ensureSchema(db); err != nil {
		return nil, err
	}
	// Seed baseline catalog if DB is empty (shops/dresses)
	if err := seedIfEmpty(db); err != nil {
		return nil, err
	}
	// Ensure users exist (idempotent; safe to run every start)
	if err := seedUsers(db); err != nil {
		return nil, err
	}

	return db, nil
}

func ensureSchema(db *sqlx.DB) error {
	schema := `
PRAGMA foreign_keys = ON;

-- Users & Sessions
CREATE TABLE IF NOT EXISTS users(
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL,
  password_hash TEXT NOT NULL,
  role TEXT NOT NULL CHECK (role IN ('CUSTOMER','OWNER')),
  email_confirmed INTEGER NOT NULL DEFAULT 0,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email ON users(LOWER(email));

CREATE TABLE IF NOT EXISTS sessions(
  id TEXT PRIMARY KEY,               -- same value as the 'sid' cookie
  user_id TEXT NULL REFERENCES users(id) ON DELETE SET NULL,
  last_search_query TEXT NOT NULL DEFAULT '',
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  last_seen  TEXT
);
CREATE INDEX IF NOT EXISTS idx_sessions_user ON sessions(user_id);

-- Shops
CREATE TABLE IF NOT EXISTS shops(
  id TEXT PRIMARY KEY,
  owner_id TEXT NOT NULL REFERENCES users(id) ON DELETE RESTRICT,
  name TEXT NOT NULL,
  business_name TEXT NOT NULL DEFAULT '',
  location TEXT NOT NULL DEFAULT '',
  phone TEXT NOT NULL DEFAULT '',
  hours TEXT NOT NULL DEFAULT '',
  specialties_json TEXT NOT NULL DEFAULT '[]',
  rating NUMERIC NULL CHECK (rating IS NULL OR (rating >= 0 AND rating <= 5)),
  review_count INTEGER NOT NULL DEFAULT 0,
  image_url TEXT NOT NULL DEFAULT '',
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);
CREATE INDEX IF NOT EXISTS idx_shops_owner ON shops(owner_id);
CREATE INDEX IF NOT EXISTS idx_shops_name  ON shops(LOWER(name));

-- Dresses
CREATE TABLE IF NOT EXISTS dresses(
  id TEXT PRIMARY KEY,
  shop_id TEXT NOT NULL REFERENCES shops(id) ON DELETE CASCADE,
  name TEXT NOT NULL,
  price NUMERIC NULL CHECK (price IS NULL OR price >= 0),
  stock INTEGER NULL CHECK (stock IS NULL OR stock >= 0),
  size TEXT NOT NULL DEFAULT '',
  color TEXT NOT NULL DEFAULT '',
  category TEXT NOT NULL DEFAULT '',
  image_url TEXT NOT NULL DEFAULT '',
  description TEXT NOT NULL DEFAULT '',
  material TEXT NOT NULL DEFAULT '',
  brand TEXT NOT NULL DEFAULT '',
  active INTEGER NOT NULL DEFAULT 1,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);
CREATE INDEX IF NOT EXISTS idx_dresses_shop     ON dresses(shop_id);
CREATE INDEX IF NOT EXISTS idx_dresses_name     ON dresses(LOWER(name));
CREATE INDEX IF NOT EXISTS idx_dresses_category ON dresses(category);
CREATE INDEX IF NOT EXISTS idx_dresses_created  ON dresses(created_at);

-- Customer profiles
CREATE TABLE IF NOT EXISTS customers(
  id TEXT PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
  full_name TEXT NOT NULL DEFAULT '',
  phone TEXT NOT NULL DEFAULT '',
  avatar_url TEXT NOT NULL DEFAULT '',
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);

CREATE TABLE IF NOT EXISTS customer_addresses(
  id TEXT PRIMARY KEY,
  customer_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
  label TEXT NOT NULL DEFAULT '',
  line1 TEXT NOT NULL,
  line2 TEXT NOT NULL DEFAULT '',
  city TEXT NOT NULL DEFAULT '',
  region TEXT NOT NULL DEFAULT '',
  postal_code TEXT NOT NULL DEFAULT '',
  is_default INTEGER NOT NULL DEFAULT 0,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_addresses_customer ON customer_addresses(customer_id);

CREATE TABLE IF NOT EXISTS customer_preferences(
  customer_id TEXT PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
  sizes_json TEXT NOT NULL DEFAULT '[]',
  colors_json TEXT NOT NULL DEFAULT '[]',
  categories_json TEXT NOT NULL DEFAULT '[]',
  updated_at TEXT
);

-- Carts
CREATE TABLE IF NOT EXISTS carts(
  id TEXT PRIMARY KEY,
  session_id TEXT UNIQUE NOT NULL,
  user_id TEXT NULL REFERENCES users(id) ON DELETE SET NULL,
  updated_at TEXT
);

CREATE TABLE IF NOT EXISTS cart_items(
  cart_id  TEXT NOT NULL REFERENCES carts(id) ON DELETE CASCADE,
  dress_id TEXT NOT NULL REFERENCES dresses(id) ON DELETE RESTRICT,
  qty INTEGER NOT NULL CHECK (qty >= 1),
  price_at_add NUMERIC NOT NULL,
  created_at TEXT,
  updated_at TEXT,
  PRIMARY KEY (cart_id, dress_id)
);
`
	_, err := db.Exec(schema)
	return err
}

func seedIfEmpty(db *sqlx.DB) error {
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM shops`); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	log.Println("[seed] inserting demo shops/dresses")

	tx := db.MustBegin()
	tx.MustExec(`INSERT INTO users(id,email,name,password_hash,role,email_confirmed) VALUES
	  ('u-meera','meera@dressmarket.test','Meera','*seed*','OWNER',1),
	  ('u-rosa','rosa@dressmarket.test','Rosa','*seed*','OWNER',1)
	  ON CONFLICT(email) DO NOTHING`)

	tx.MustExec(`INSERT INTO shops(id,owner_id,name,business_name,location,phone,hours,specialties_json,rating,review_count,image_url) VALUES
	  ('shop-meera','u-meera','Meera Boutique','Meera Fashion House LLC','Jubilee Hills, Hyderabad','+91 40 5550 1212','10:00-21:00','["Bridal Wear","Party Wear"]',4.6,182,'shop_images/shop-meera.jpg'),
	  ('shop-rosa','u-rosa','Rosa Threads','','Banjara Hills, Hyderabad','+91 40 5550 3434','11:00-20:00','[]',4.1,57,'shop_images/shop-rosa.jpg')`)

	tx.MustExec(`INSERT INTO dresses(id,shop_id,name,price,stock,size,color,category,image_url,description,material,brand) VALUES
	  ('drs-001','shop-meera','Elegant Gown',149.99,8,'M','Red','Party Wear','dress_images/drs-001.jpg','Floor-length evening gown','Silk','Zara'),
	  ('drs-002','shop-meera','Party Wear Skirt',59.50,3,'S','Blue','Party Wear','dress_images/drs-002.jpg','Flared knee-length skirt','Cotton','H&M'),
	  ('drs-003','shop-rosa','Classic Saree',89.00,0,'FREE','Red','Traditional','dress_images/drs-003.jpg','Handwoven saree with zari border','Silk','FabIndia'),
	  ('drs-004','shop-rosa','Summer Midi',39.99,NULL,'L','Yellow','Casual','dress_images/drs-004.jpg','Light everyday midi dress','Linen','')`)

	return tx.Commit()
}

// seedUsers ensures demo customers and owners exist (idempotent).
func seedUsers(db *sqlx.DB) error {
	type u struct {
		ID, Email, Name, Role, Hash string
		Confirmed                   bool
	}
	mk := func(id, email, name, role, raw string, confirmed bool) u {
		h, _ := bcrypt.GenerateFromPassword([]byte(raw), 12)
		return u{ID: id, Email: email, Name: name, Role: role, Hash: string(h), Confirmed: confirmed}
	}

	users := []u{
		mk("u-asha", "asha@dressmarket.test", "Asha", "CUSTOMER", "Passw0rd!", true),
		mk("u-ben", "ben@dressmarket.test", "Ben", "CUSTOMER", "Passw0rd!", false),
		mk("u-meera", "meera@dressmarket.test", "Meera", "OWNER", "Passw0rd!", true),
		mk("u-rosa", "rosa@dressmarket.test", "Rosa", "OWNER", "Passw0rd!", true),
	}

	tx := db.MustBegin()
	defer func() { _ = tx.Rollback() }()

	for _, x := range users {
		if _, err := tx.Exec(`
			INSERT INTO users(id,email,name,password_hash,role,email_confirmed)
			VALUES(?,?,?,?,?,?)
			ON CONFLICT(email) DO UPDATE SET password_hash=excluded.password_hash
		`, x.ID, x.Email, x.Name, x.Hash, x.Role, x.Confirmed); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// ---------- YAML catalog seed ----------

type seedShop struct {
	ID           string     `yaml:"id"`
	OwnerID      string     `yaml:"owner_id"`
	Name         string     `yaml:"name"`
	BusinessName string     `yaml:"business_name"`
	Location     string     `yaml:"location"`
	Phone        string     `yaml:"phone"`
	Hours        string     `yaml:"hours"`
	Specialties  []string   `yaml:"specialties"`
	Rating       *float64   `yaml:"rating"`
	ImageURL     string     `yaml:"image_url"`
	Dresses      []seedItem `yaml:"dresses"`
}

type seedItem struct {
	ID          string   `yaml:"id"`
	Name        string   `yaml:"name"`
	Price       *float64 `yaml:"price"`
	Stock       *int     `yaml:"stock"`
	Size        string   `yaml:"size"`
	Color       string   `yaml:"color"`
	Category    string   `yaml:"category"`
	ImageURL    string   `yaml:"image_url"`
	Description string   `yaml:"description"`
	Material    string   `yaml:"material"`
	Brand       string   `yaml:"brand"`
}

type seedFile struct {
	Shops []seedShop `yaml:"shops"`
}

func jsonList(ss []string) string {
	b, err := json.Marshal(ss)
	if err != nil {
		return "[]"
	}
	return string(b)
}

// SeedFromYAML upserts shops and dresses from a catalog file. Specialty lists
// are re-encoded as the JSON text the suggestion index reads.
func SeedFromYAML(db *sqlx.DB, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var sf seedFile
	if err := yaml.Unmarshal(raw, &sf); err != nil {
		return err
	}

	tx, err := db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, s := range sf.Shops {
		spec := "[]"
		if len(s.Specialties) > 0 {
			spec = jsonList(s.Specialties)
		}
		if _, err := tx.Exec(`
			INSERT INTO shops(id,owner_id,name,business_name,location,phone,hours,specialties_json,rating,image_url)
			VALUES(?,?,?,?,?,?,?,?,?,?)
			ON CONFLICT(id) DO UPDATE SET
			  name=excluded.name, business_name=excluded.business_name,
			  location=excluded.location, phone=excluded.phone, hours=excluded.hours,
			  specialties_json=excluded.specialties_json, rating=excluded.rating,
			  image_url=excluded.image_url, updated_at=CURRENT_TIMESTAMP
		`, s.ID, s.OwnerID, s.Name, s.BusinessName, s.Location, s.Phone, s.Hours, spec, s.Rating, s.ImageURL); err != nil {
			return err
		}
		for _, d := range s.Dresses {
			if _, err := tx.Exec(`
				INSERT INTO dresses(id,shop_id,name,price,stock,size,color,category,image_url,description,material,brand)
				VALUES(?,?,?,?,?,?,?,?,?,?,?,?)
				ON CONFLICT(id) DO UPDATE SET
				  name=excluded.name, price=excluded.price, stock=excluded.stock,
				  size=excluded.size, color=excluded.color, category=excluded.category,
				  image_url=excluded.image_url, description=excluded.description,
				  material=excluded.material, brand=excluded.brand, updated_at=CURRENT_TIMESTAMP
			`, d.ID, s.ID, d.Name, d.Price, d.Stock, d.Size, d.Color, d.Category, d.ImageURL, d.Description, d.Material, d.Brand); err != nil {
				return err
			}
		}
	}

	return tx.Commit()
}
