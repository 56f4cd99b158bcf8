package model

import (
	"fmt"
	"sort"
	"strings"
)

// ValidationError carries field-keyed messages from the form validation
// boundary. It never crosses the wire; callers surface it directly.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	if e == nil || len(e.Fields) == 0 {
		return "validation failed"
	}

	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Validate enforces the item form invariants. Stock levels must be
// non-negative, max_stock must not undercut min_stock, and the sell price
// must exceed the buy price.
func (in ItemInput) Validate() error {
	fields := map[string]string{}

	if strings.TrimSpace(in.Name) == "" {
		fields["name"] = "name is required"
	}
	if strings.TrimSpace(in.CategoryID) == "" {
		fields["category_id"] = "category is required"
	}
	if in.CurrentStock < 0 {
		fields["current_stock"] = "stock cannot be negative"
	}
	if in.MinStock < 0 {
		fields["min_stock"] = "minimum stock cannot be negative"
	}
	if in.MaxStock != nil && *in.MaxStock < in.MinStock {
		fields["max_stock"] = "maximum stock cannot be below minimum stock"
	}
	if in.BuyPrice <= 0 {
		fields["buy_price"] = "buy price must be positive"
	}
	if in.SellPrice <= in.BuyPrice {
		fields["sell_price"] = "sell price must exceed buy price"
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// Validate checks a partial update. Only fields that are present are checked;
// the price relation is enforced when both prices are in the payload.
func (in ItemUpdate) Validate() error {
	fields := map[string]string{}

	if in.Name != nil && strings.TrimSpace(*in.Name) == "" {
		fields["name"] = "name cannot be empty"
	}
	if in.CurrentStock != nil && *in.CurrentStock < 0 {
		fields["current_stock"] = "stock cannot be negative"
	}
	if in.MinStock != nil && *in.MinStock < 0 {
		fields["min_stock"] = "minimum stock cannot be negative"
	}
	if in.MaxStock != nil && in.MinStock != nil && *in.MaxStock < *in.MinStock {
		fields["max_stock"] = "maximum stock cannot be below minimum stock"
	}
	if in.BuyPrice != nil && *in.BuyPrice <= 0 {
		fields["buy_price"] = "buy price must be positive"
	}
	if in.BuyPrice != nil && in.SellPrice != nil && *in.SellPrice <= *in.BuyPrice {
		fields["sell_price"] = "sell price must exceed buy price"
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// Validate checks a stock adjustment payload.
func (r StockAdjustmentRequest) Validate() error {
	fields := map[string]string{}

	if r.Quantity <= 0 {
		fields["quantity"] = "quantity must be positive"
	}
	if !ValidTransactionType(r.TransactionType) {
		fields["transaction_type"] = "must be one of in, out, adjustment"
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}
