package entity

type CommissionConfig struct {
	BaseNoDelete
	Rate     Rate `db:"rate"`
	IsActive bool `db:"is_active"`
}
