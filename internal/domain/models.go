package domain

// Order status lifecycle: pending is the only non-terminal state.
const (
	OrderPending   = "pending"
	OrderCompleted = "completed"
	OrderCancelled = "cancelled"
)

type Country struct {
	ID         string `db:"id" json:"id"`
	NameEN     string `db:"name_en" json:"name_en"`
	NameAR     string `db:"name_ar" json:"name_ar"`
	CurrencyEN string `db:"currency_en" json:"currency_en"`
	CurrencyAR string `db:"currency_ar" json:"currency_ar"`
	Code       string `db:"code" json:"code"`
}

type Store struct {
	ID          string `db:"id" json:"id"`
	UserID      string `db:"user_id" json:"user_id"`
	Name        string `db:"name" json:"name"`
	Slug        string `db:"slug" json:"slug"`
	Email       string `db:"email" json:"email"`
	Phone       string `db:"phone" json:"phone"`
	Address     string `db:"address" json:"address"`
	Description string `db:"description" json:"description"`
	Image       string `db:"image" json:"image"`
	Banner      string `db:"banner" json:"banner"`
	CountryID   string `db:"country_id" json:"country_id"`
	CreatedAt   string `db:"created_at" json:"created_at"`
}

type Category struct {
	ID        string `db:"id" json:"id"`
	StoreID   string `db:"store_id" json:"store_id"`
	NameEN    string `db:"name_en" json:"name_en"`
	NameAR    string `db:"name_ar" json:"name_ar"`
	Image     string `db:"image" json:"image"`
	Position  int    `db:"position" json:"position"`
	CreatedAt string `db:"created_at" json:"created_at"`
	UpdatedAt string `db:"updated_at" json:"updated_at"`
}

type Meal struct {
	ID            string  `db:"id" json:"id"`
	StoreID       string  `db:"store_id" json:"store_id"`
	CategoryID    string  `db:"category_id" json:"category_id"`
	NameEN        string  `db:"name_en" json:"name_en"`
	NameAR        string  `db:"name_ar" json:"name_ar"`
	DescriptionEN string  `db:"description_en" json:"description_en"`
	DescriptionAR string  `db:"description_ar" json:"description_ar"`
	Image         string  `db:"image" json:"image"`
	Price         float64 `db:"price" json:"price"`
	SalePrice     float64 `db:"sale_price" json:"sale_price"` // 0 means no sale
	CreatedAt     string  `db:"created_at" json:"created_at"`
	UpdatedAt     string  `db:"updated_at" json:"updated_at"`
}

// UnitPrice is the price a single unit sells at right now.
func (m Meal) UnitPrice() float64 {
	if m.SalePrice > 0 {
		return m.SalePrice
	}
	return m.Price
}

type Attribute struct {
	ID         string `db:"id" json:"id"`
	NameEN     string `db:"name_en" json:"name_en"`
	NameAR     string `db:"name_ar" json:"name_ar"`
	Type       string `db:"type" json:"type"` // select | radio | checkbox
	IsRequired bool   `db:"is_required" json:"is_required"`
	SortOrder  int    `db:"sort_order" json:"sort_order"`
}

type AttributeValue struct {
	ID            string  `db:"id" json:"id"`
	AttributeID   string  `db:"attribute_id" json:"attribute_id"`
	ValueEN       string  `db:"value_en" json:"value_en"`
	ValueAR       string  `db:"value_ar" json:"value_ar"`
	PriceModifier float64 `db:"price_modifier" json:"price_modifier"`
	SortOrder     int     `db:"sort_order" json:"sort_order"`
}

// MealAttribute is a join row with payload: the one value a meal pins for an
// attribute. Unique per (meal_id, attribute_id).
type MealAttribute struct {
	MealID           string `db:"meal_id" json:"meal_id"`
	AttributeID      string `db:"attribute_id" json:"attribute_id"`
	AttributeValueID string `db:"attribute_value_id" json:"attribute_value_id"`
}

// MealAttributeView joins in the display fields for menus and dashboards.
type MealAttributeView struct {
	MealID           string  `db:"meal_id" json:"meal_id"`
	AttributeID      string  `db:"attribute_id" json:"attribute_id"`
	AttributeNameEN  string  `db:"attribute_name_en" json:"attribute_name_en"`
	AttributeNameAR  string  `db:"attribute_name_ar" json:"attribute_name_ar"`
	AttributeValueID string  `db:"attribute_value_id" json:"attribute_value_id"`
	ValueEN          string  `db:"value_en" json:"value_en"`
	ValueAR          string  `db:"value_ar" json:"value_ar"`
	PriceModifier    float64 `db:"price_modifier" json:"price_modifier"`
}

type Table struct {
	ID        string `db:"id" json:"id"`
	StoreID   string `db:"store_id" json:"store_id"`
	Name      string `db:"name" json:"name"`
	Capacity  int    `db:"capacity" json:"capacity"`
	QRCode    string `db:"qr_code" json:"qr_code"` // empty while the artifact is pending
	CreatedAt string `db:"created_at" json:"created_at"`
	UpdatedAt string `db:"updated_at" json:"updated_at"`
}

// Order is a tagged union enforced in the service layer: either the table
// fields or the delivery contact fields are set, never both.
type Order struct {
	ID         string  `db:"id" json:"id"`
	StoreID    string  `db:"store_id" json:"store_id"`
	UserID     string  `db:"user_id" json:"user_id"` // empty for guests
	TableID    string  `db:"table_id" json:"table_id"`
	TableLabel string  `db:"table_label" json:"table"`
	Name       string  `db:"name" json:"name"`
	Phone      string  `db:"phone" json:"phone"`
	Address    string  `db:"address" json:"address"`
	Location   string  `db:"location" json:"location"`
	Note       string  `db:"note" json:"note"`
	CartJSON   string  `db:"cart_json" json:"-"`
	Total      float64 `db:"total" json:"total"`
	Status     string  `db:"status" json:"status"`
	CreatedAt  string  `db:"created_at" json:"created_at"`
}

func (o Order) IsTableOrder() bool { return o.TableID != "" || o.TableLabel != "" }

// CartLine is one denormalized snapshot line inside Order.CartJSON. Prices
// and names are frozen at order time; later catalog edits don't touch them.
type CartLine struct {
	ID                 string             `json:"id"`
	NameEN             string             `json:"name_en"`
	NameAR             string             `json:"name_ar"`
	Price              float64            `json:"price"`
	Quantity           int                `json:"quantity"`
	SelectedAttributes []CartLineSelected `json:"selectedAttributes,omitempty"`
}

type CartLineSelected struct {
	AttributeID      string  `json:"attribute_id"`
	AttributeValueID string  `json:"attribute_value_id"`
	ValueEN          string  `json:"value_en"`
	ValueAR          string  `json:"value_ar"`
	PriceModifier    float64 `json:"price_modifier"`
}
