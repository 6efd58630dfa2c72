package model

import "time"

// ShoppingStatus tracks an item through purchase
type ShoppingStatus string

const (
	ShoppingStatusNeed     ShoppingStatus = "need"
	ShoppingStatusOrdered  ShoppingStatus = "ordered"
	ShoppingStatusAcquired ShoppingStatus = "acquired"
)

// ShoppingItem is an entry on the household shopping list
type ShoppingItem struct {
	ID                string         `json:"id" yaml:"id"`
	Name              string         `json:"name" yaml:"name"`
	Quantity          float64        `json:"quantity" yaml:"quantity"`
	UnitPrice         float64        `json:"unit_price" yaml:"unit_price"`
	TotalCost         float64        `json:"total_cost" yaml:"total_cost"`
	Status            ShoppingStatus `json:"status" yaml:"status"`
	StatusUpdatedDate time.Time      `json:"status_updated_date" yaml:"status_updated_date"`
	TaskID            string         `json:"task_id,omitempty" yaml:"task_id,omitempty"`
	VendorID          string         `json:"vendor_id,omitempty" yaml:"vendor_id,omitempty"`
	CreatedAt         time.Time      `json:"created_at" yaml:"created_at"`
}

// ReceiptItem is one line parsed from a receipt
type ReceiptItem struct {
	Name       string  `json:"name"`
	Quantity   float64 `json:"quantity"`
	UnitPrice  float64 `json:"unit_price"`
	TotalPrice float64 `json:"total_price"`
}

// Receipt is the structured result of receipt parsing
type Receipt struct {
	Vendor string        `json:"vendor"`
	Items  []ReceiptItem `json:"items"`
}
