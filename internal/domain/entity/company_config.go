package entity

// CompanyConfig is the singleton company record. Besides fiscal identity it
// carries the LOT sequence: LotNumberCurrent increases by exactly one the
// first time an order is created for a date newer than LotDate, never twice
// for the same date.
type CompanyConfig struct {
	Name             string
	CIF              string
	Address          string
	Bank             string
	BankAccount      string
	WarehouseName    string // "gestiune" printed on production sheet rows
	CashAccountCode  string
	LotNumberCurrent int
	LotDate          string // ISO date of the last LOT increment
}
