package model

import "time"

// Stock transaction types.
const (
	TransactionIn         = "in"
	TransactionOut        = "out"
	TransactionAdjustment = "adjustment"
)

func ValidTransactionType(t string) bool {
	return t == TransactionIn || t == TransactionOut || t == TransactionAdjustment
}

type InventoryItem struct {
	ID           string     `json:"id"`
	SKU          string     `json:"sku"`
	Barcode      *string    `json:"barcode,omitempty"`
	Name         string     `json:"name"`
	Description  *string    `json:"description,omitempty"`
	CategoryID   string     `json:"category_id"`
	WarehouseID  *string    `json:"warehouse_id,omitempty"`
	Unit         string     `json:"unit"`
	CurrentStock int        `json:"current_stock"`
	MinStock     int        `json:"min_stock"`
	MaxStock     *int       `json:"max_stock,omitempty"`
	BuyPrice     float64    `json:"buy_price"`
	SellPrice    float64    `json:"sell_price"`
	IsActive     bool       `json:"is_active"`
	CreatedBy    *string    `json:"created_by,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    *time.Time `json:"updated_at,omitempty"`
}

// StockStatus classifies an item the way the dashboard buckets it.
func (i InventoryItem) StockStatus() string {
	switch {
	case i.CurrentStock == 0:
		return "out_of_stock"
	case i.CurrentStock <= i.MinStock:
		return "low_stock"
	case i.MaxStock != nil && i.CurrentStock >= *i.MaxStock:
		return "over_stock"
	default:
		return "normal"
	}
}

func (i InventoryItem) TotalValue() float64 {
	return float64(i.CurrentStock) * i.BuyPrice
}

type Category struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description *string    `json:"description,omitempty"`
	Slug        *string    `json:"slug,omitempty"`
	ParentID    *string    `json:"parent_id,omitempty"`
	IsActive    bool       `json:"is_active"`
	SortOrder   int        `json:"sort_order"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}

type Warehouse struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Code      string     `json:"code"`
	Address   *string    `json:"address,omitempty"`
	Phone     *string    `json:"phone,omitempty"`
	IsActive  bool       `json:"is_active"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

type StockTransaction struct {
	ID              string    `json:"id"`
	TransactionCode string    `json:"transaction_code"`
	ItemID          string    `json:"item_id"`
	TransactionType string    `json:"transaction_type"`
	Quantity        int       `json:"quantity"`
	UnitPrice       float64   `json:"unit_price"`
	PreviousStock   int       `json:"previous_stock"`
	NewStock        int       `json:"new_stock"`
	Reference       *string   `json:"reference,omitempty"`
	Notes           *string   `json:"notes,omitempty"`
	CreatedBy       string    `json:"created_by"`
	CreatedAt       time.Time `json:"created_at"`
}

// InventoryFilters is the transient query state for list calls. Zero values
// mean "not filtered"; everything is passed through as query parameters.
type InventoryFilters struct {
	CategoryID  string `json:"category_id,omitempty"`
	WarehouseID string `json:"warehouse_id,omitempty"`
	MinStock    *int   `json:"min_stock,omitempty"`
	MaxStock    *int   `json:"max_stock,omitempty"`
	Search      string `json:"search,omitempty"`
	IsActive    *bool  `json:"is_active,omitempty"`
}

type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

type PaginatedItems struct {
	Items      []InventoryItem `json:"items"`
	Pagination Pagination      `json:"pagination"`
}

type InventoryValue struct {
	Value       float64 `json:"value"`
	Currency    string  `json:"currency"`
	WarehouseID *string `json:"warehouse_id,omitempty"`
}

// InventorySummary is the dashboard's headline statistics, counted over
// active items only. Items with zero stock are out-of-stock, not low-stock.
type InventorySummary struct {
	TotalItems      int               `json:"total_items"`
	TotalStock      int               `json:"total_stock"`
	TotalValue      float64           `json:"total_value"`
	LowStockItems   int               `json:"low_stock_items"`
	OutOfStockItems int               `json:"out_of_stock_items"`
	Categories      []CategorySummary `json:"categories"`
	WarehouseID     *string           `json:"warehouse_id,omitempty"`
}

type CategorySummary struct {
	Name       string  `json:"name"`
	ItemCount  int     `json:"item_count"`
	TotalStock int     `json:"total_stock"`
	TotalValue float64 `json:"total_value"`
}

type StockAdjustmentResult struct {
	Item          InventoryItem `json:"item"`
	PreviousStock int           `json:"previous_stock"`
	NewStock      int           `json:"new_stock"`
	Adjustment    int           `json:"adjustment"`
}
