package sqlite

import "time"

type groupModel struct {
	ID   string `gorm:"primaryKey"`
	Name string `gorm:"size:150;not null;uniqueIndex"`
}

func (groupModel) TableName() string { return "auth_groups" }

type userModel struct {
	ID           string    `gorm:"primaryKey"`
	Username     string    `gorm:"size:150;not null;uniqueIndex"`
	Email        string    `gorm:"size:254;not null;default:''"`
	FirstName    string    `gorm:"size:150;not null;default:''"`
	LastName     string    `gorm:"size:150;not null;default:''"`
	PasswordHash string    `gorm:"not null"`
	IsSuperuser  bool      `gorm:"not null"`
	IsActive     bool      `gorm:"not null"`
	DateJoined   time.Time `gorm:"not null;index"`
}

func (userModel) TableName() string { return "users" }

type userGroupModel struct {
	UserID  string `gorm:"primaryKey"`
	GroupID string `gorm:"primaryKey;index"`
}

func (userGroupModel) TableName() string { return "user_groups" }

type customerModel struct {
	ID        string  `gorm:"primaryKey"`
	UserID    *string `gorm:"index"`
	Name      string  `gorm:"size:128;not null;index"`
	Email     string  `gorm:"size:128;not null"`
	ImageURL  *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (customerModel) TableName() string { return "customers" }

type supplierModel struct {
	ID        string  `gorm:"primaryKey"`
	UserID    *string `gorm:"index"`
	ImageURL  *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (supplierModel) TableName() string { return "suppliers" }

// invoiceModel guarda Amount como texto para no perder precisión decimal;
// las sumas se calculan con shopspring/decimal.
type invoiceModel struct {
	ID         string    `gorm:"primaryKey"`
	CustomerID *string   `gorm:"index;check:invoices_one_party,(customer_id IS NULL) <> (supplier_id IS NULL)"`
	SupplierID *string   `gorm:"index"`
	Amount     string    `gorm:"not null"`
	Date       time.Time `gorm:"not null;index"`
	Status     string    `gorm:"size:16;not null;default:pending;check:invoices_status_check,status IN ('pending','paid')"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (invoiceModel) TableName() string { return "invoices" }
