package model

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Email       string  `json:"email"`
	Username    string  `json:"username"`
	Password    string  `json:"password"`
	FullName    string  `json:"full_name"`
	Role        string  `json:"role"`
	WarehouseID *string `json:"warehouse_id,omitempty"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// ItemInput is the create/update payload for inventory items. Pointer fields
// are optional on update; Validate enforces the form-level invariants before
// anything reaches the database.
type ItemInput struct {
	Name         string  `json:"name"`
	Description  *string `json:"description,omitempty"`
	Barcode      *string `json:"barcode,omitempty"`
	CategoryID   string  `json:"category_id"`
	Unit         string  `json:"unit"`
	CurrentStock int     `json:"current_stock"`
	MinStock     int     `json:"min_stock"`
	MaxStock     *int    `json:"max_stock,omitempty"`
	BuyPrice     float64 `json:"buy_price"`
	SellPrice    float64 `json:"sell_price"`
	IsActive     *bool   `json:"is_active,omitempty"`
}

type ItemUpdate struct {
	Name         *string  `json:"name,omitempty"`
	Description  *string  `json:"description,omitempty"`
	Barcode      *string  `json:"barcode,omitempty"`
	CategoryID   *string  `json:"category_id,omitempty"`
	Unit         *string  `json:"unit,omitempty"`
	CurrentStock *int     `json:"current_stock,omitempty"`
	MinStock     *int     `json:"min_stock,omitempty"`
	MaxStock     *int     `json:"max_stock,omitempty"`
	BuyPrice     *float64 `json:"buy_price,omitempty"`
	SellPrice    *float64 `json:"sell_price,omitempty"`
	IsActive     *bool    `json:"is_active,omitempty"`
}

type StockAdjustmentRequest struct {
	Quantity        int     `json:"quantity"`
	TransactionType string  `json:"transaction_type"`
	Reference       *string `json:"reference,omitempty"`
	Notes           *string `json:"notes,omitempty"`
}

type CategoryInput struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	ParentID    *string `json:"parent_id,omitempty"`
	SortOrder   int     `json:"sort_order"`
}

type WarehouseInput struct {
	Name    string  `json:"name"`
	Code    string  `json:"code"`
	Address *string `json:"address,omitempty"`
	Phone   *string `json:"phone,omitempty"`
}
