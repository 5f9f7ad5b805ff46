package repos

import (
	"log"

	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
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
	// Reference data and platform admin (idempotent; safe to run every start)
	if err := seedCountries(db); err != nil {
		return nil, err
	}
	if err := seedAttributes(db); err != nil {
		return nil, err
	}
	if err := seedAdmin(db); err != nil {
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
  role TEXT NOT NULL CHECK (role IN ('ADMIN','OWNER','USER')),
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email ON users(LOWER(email));

CREATE TABLE IF NOT EXISTS sessions(
  id TEXT PRIMARY KEY,               -- same value as the 'sid' cookie
  user_id TEXT NULL REFERENCES users(id) ON DELETE SET NULL,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  last_seen  TEXT
);
CREATE INDEX IF NOT EXISTS idx_sessions_user ON sessions(user_id);

-- Countries (reference data; currency display only)
CREATE TABLE IF NOT EXISTS countries(
  id TEXT PRIMARY KEY,
  name_en TEXT NOT NULL UNIQUE,
  name_ar TEXT NOT NULL UNIQUE,
  currency_en TEXT NOT NULL DEFAULT '',
  currency_ar TEXT NOT NULL DEFAULT '',
  code TEXT NOT NULL UNIQUE
);

-- Stores (one store per owner)
CREATE TABLE IF NOT EXISTS stores(
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL UNIQUE REFERENCES users(id),
  name TEXT NOT NULL UNIQUE,
  slug TEXT NOT NULL DEFAULT '',
  email TEXT NOT NULL DEFAULT '',
  phone TEXT NOT NULL DEFAULT '',
  address TEXT NOT NULL DEFAULT '',
  description TEXT NOT NULL DEFAULT '',
  image TEXT NOT NULL,
  banner TEXT NOT NULL DEFAULT '',
  country_id TEXT NOT NULL DEFAULT '',
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_stores_name_nocase ON stores(LOWER(name));

-- Categories
CREATE TABLE IF NOT EXISTS categories(
  id TEXT PRIMARY KEY,
  store_id TEXT NOT NULL REFERENCES stores(id) ON DELETE CASCADE,
  name_en TEXT NOT NULL,
  name_ar TEXT NOT NULL,
  image TEXT NOT NULL,
  position INTEGER NOT NULL DEFAULT 0,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);
CREATE INDEX IF NOT EXISTS idx_categories_store ON categories(store_id);

-- Meals
CREATE TABLE IF NOT EXISTS meals(
  id TEXT PRIMARY KEY,
  store_id TEXT NOT NULL REFERENCES stores(id) ON DELETE CASCADE,
  category_id TEXT NOT NULL REFERENCES categories(id) ON DELETE RESTRICT,
  name_en TEXT NOT NULL,
  name_ar TEXT NOT NULL,
  description_en TEXT NOT NULL DEFAULT '',
  description_ar TEXT NOT NULL DEFAULT '',
  image TEXT NOT NULL,
  price NUMERIC NOT NULL CHECK (price >= 0),
  sale_price NUMERIC NOT NULL DEFAULT 0 CHECK (sale_price >= 0),
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);
CREATE INDEX IF NOT EXISTS idx_meals_store    ON meals(store_id);
CREATE INDEX IF NOT EXISTS idx_meals_category ON meals(category_id);

-- Attributes (variant axes, platform-wide)
CREATE TABLE IF NOT EXISTS attributes(
  id TEXT PRIMARY KEY,
  name_en TEXT NOT NULL,
  name_ar TEXT NOT NULL,
  type TEXT NOT NULL CHECK (type IN ('select','radio','checkbox')),
  is_required INTEGER NOT NULL DEFAULT 0,
  sort_order INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS attribute_values(
  id TEXT PRIMARY KEY,
  attribute_id TEXT NOT NULL REFERENCES attributes(id) ON DELETE CASCADE,
  value_en TEXT NOT NULL,
  value_ar TEXT NOT NULL,
  price_modifier NUMERIC NOT NULL DEFAULT 0,
  sort_order INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_attr_values_attr ON attribute_values(attribute_id);

-- Meal attribute selections: the join row carries the chosen value
CREATE TABLE IF NOT EXISTS meal_attributes(
  meal_id TEXT NOT NULL REFERENCES meals(id) ON DELETE CASCADE,
  attribute_id TEXT NOT NULL REFERENCES attributes(id) ON DELETE CASCADE,
  attribute_value_id TEXT NOT NULL REFERENCES attribute_values(id) ON DELETE CASCADE,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  PRIMARY KEY (meal_id, attribute_id)
);

-- Tables (qr_code empty until the artifact is generated and stored)
CREATE TABLE IF NOT EXISTS tables(
  id TEXT PRIMARY KEY,
  store_id TEXT NOT NULL REFERENCES stores(id) ON DELETE CASCADE,
  name TEXT NOT NULL,
  capacity INTEGER NOT NULL CHECK (capacity > 0),
  qr_code TEXT NOT NULL DEFAULT '',
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);
CREATE INDEX IF NOT EXISTS idx_tables_store ON tables(store_id);

-- Orders (cart_json is an immutable snapshot, not a relation)
CREATE TABLE IF NOT EXISTS orders(
  id TEXT PRIMARY KEY,
  store_id TEXT NOT NULL REFERENCES stores(id),
  user_id TEXT NOT NULL DEFAULT '',
  table_id TEXT NOT NULL DEFAULT '',
  table_label TEXT NOT NULL DEFAULT '',
  name TEXT NOT NULL DEFAULT '',
  phone TEXT NOT NULL DEFAULT '',
  address TEXT NOT NULL DEFAULT '',
  location TEXT NOT NULL DEFAULT '',
  note TEXT NOT NULL DEFAULT '',
  cart_json TEXT NOT NULL,
  total NUMERIC NOT NULL,
  status TEXT NOT NULL DEFAULT 'pending' CHECK (status IN ('pending','completed','cancelled')),
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_orders_store      ON orders(store_id);
CREATE INDEX IF NOT EXISTS idx_orders_created_at ON orders(created_at);
`
	_, err := db.Exec(schema)
	return err
}

func seedCountries(db *sqlx.DB) error {
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM countries`); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	log.Println("[seed] inserting baseline countries")

	tx := db.MustBegin()
	tx.MustExec(`INSERT INTO countries(id,name_en,name_ar,currency_en,currency_ar,code) VALUES
	  ('country-ae','United Arab Emirates','الإمارات','AED','د.إ','AE'),
	  ('country-sa','Saudi Arabia','السعودية','SAR','ر.س','SA'),
	  ('country-eg','Egypt','مصر','EGP','ج.م','EG'),
	  ('country-jo','Jordan','الأردن','JOD','د.أ','JO')`)
	return tx.Commit()
}

// seedAttributes inserts the default variant axes if missing (idempotent).
func seedAttributes(db *sqlx.DB) error {
	tx := db.MustBegin()
	defer func() { _ = tx.Rollback() }()

	_, _ = tx.Exec(`
		INSERT INTO attributes(id,name_en,name_ar,type,is_required,sort_order)
		SELECT 'attr-size','Size','الحجم','select',1,0
		WHERE NOT EXISTS (SELECT 1 FROM attributes WHERE id='attr-size')
	`)
	_, _ = tx.Exec(`
		INSERT INTO attributes(id,name_en,name_ar,type,is_required,sort_order)
		SELECT 'attr-spice','Spice Level','مستوى الحار','radio',0,1
		WHERE NOT EXISTS (SELECT 1 FROM attributes WHERE id='attr-spice')
	`)
	values := [][]any{
		{"size-small", "attr-size", "Small", "صغير", 0.0, 0},
		{"size-medium", "attr-size", "Medium", "وسط", 3.0, 1},
		{"size-large", "attr-size", "Large", "كبير", 6.0, 2},
		{"spice-mild", "attr-spice", "Mild", "خفيف", 0.0, 0},
		{"spice-hot", "attr-spice", "Hot", "حار", 0.0, 1},
	}
	for _, v := range values {
		_, _ = tx.Exec(`
			INSERT INTO attribute_values(id,attribute_id,value_en,value_ar,price_modifier,sort_order)
			SELECT ?,?,?,?,?,?
			WHERE NOT EXISTS (SELECT 1 FROM attribute_values WHERE id = ?)
		`, v[0], v[1], v[2], v[3], v[4], v[5], v[0])
	}

	return tx.Commit()
}

// seedAdmin ensures the platform admin exists (idempotent).
func seedAdmin(db *sqlx.DB) error {
	h, err := bcrypt.GenerateFromPassword([]byte("ChangeMe1!"), 12)
	if err != nil {
		return err
	}
	_, err = db.Exec(`
		INSERT INTO users(id,email,name,password_hash,role)
		VALUES('u-admin','admin@menuqr.test','Admin',?,'ADMIN')
		ON CONFLICT(email) DO NOTHING
	`, string(h))
	return err
}
