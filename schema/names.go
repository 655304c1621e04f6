package schema

// Static columns carried by every table.
const (
	ID        = "id"
	UpdatedAt = "updated_at"
)

// UserNames is the name mapping of the users table.
type UserNames struct {
	Table            string
	ID               string
	Name             string
	Email            string
	RegistrationDate string
	IsActive         string
	UpdatedAt        string
}

// OrderNames is the name mapping of the orders table.
type OrderNames struct {
	Table       string
	ID          string
	UserID      string
	OrderDate   string
	TotalAmount string
	Status      string
	UpdatedAt   string
}

// PaymentNames is the name mapping of the payments table.
type PaymentNames struct {
	Table         string
	ID            string
	UserID        string
	OrderID       string
	PaymentDate   string
	PaymentMethod string
	UpdatedAt     string
}

// Users, Orders and Payments are the only place table and column names are
// spelled out. DDL rendering and statement building both read from here.
var (
	Users = UserNames{
		Table:            "users",
		ID:               ID,
		Name:             "name",
		Email:            "email",
		RegistrationDate: "registration_date",
		IsActive:         "is_active",
		UpdatedAt:        UpdatedAt,
	}
	Orders = OrderNames{
		Table:       "orders",
		ID:          ID,
		UserID:      "user_id",
		OrderDate:   "order_date",
		TotalAmount: "total_amount",
		Status:      "status",
		UpdatedAt:   UpdatedAt,
	}
	Payments = PaymentNames{
		Table:         "payments",
		ID:            ID,
		UserID:        "user_id",
		OrderID:       "order_id",
		PaymentDate:   "payment_date",
		PaymentMethod: "payment_method",
		UpdatedAt:     UpdatedAt,
	}
)
