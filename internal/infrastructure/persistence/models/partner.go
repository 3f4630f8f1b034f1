package models

// ClientModel is an invoiced client
type ClientModel struct {
	BaseModel
	FirstName string  `gorm:"type:varchar(100);not null"`
	LastName  string  `gorm:"type:varchar(100)"`
	TaxID     *string `gorm:"type:varchar(30);index"`
	Email     *string `gorm:"type:varchar(200)"`
}

// TableName returns the table name for GORM
func (ClientModel) TableName() string {
	return "clients"
}

// SupplierModel is a hotel supplier
type SupplierModel struct {
	BaseModel
	Name  string  `gorm:"type:varchar(200);not null"`
	TaxID *string `gorm:"type:varchar(30);index"`
}

// TableName returns the table name for GORM
func (SupplierModel) TableName() string {
	return "suppliers"
}
