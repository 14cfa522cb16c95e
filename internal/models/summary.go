package models

import "time"

// BillSummary holds the dashboard totals for one user.
type BillSummary struct {
	TotalBills         int       `json:"total_bills"`
	BillsThisMonth     int       `json:"bills_this_month"`
	TotalAmount        float64   `json:"total_amount"`
	TotalTaxableAmount float64   `json:"total_taxable_amount"`
	TotalCGST          float64   `json:"total_cgst"`
	TotalSGST          float64   `json:"total_sgst"`
	TotalTax           float64   `json:"total_tax"`
	LastUpdated        time.Time `json:"last_updated"`
}
