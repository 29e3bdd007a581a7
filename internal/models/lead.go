package models

import (
	"fmt"
	"strings"
	"time"
)

// Lead is the record persisted when a flow reaches its terminal stage.
// Field values are stored exactly as collected; no re-validation happens
// at persistence time.
type Lead struct {
	ID           string     `json:"id"`
	Phone        string     `json:"phone"`
	Name         string     `json:"name"`
	ContactPhone string     `json:"contactPhone"`
	Profile      string     `json:"profile"`
	Company      string     `json:"company"`
	TaxID        string     `json:"taxId"`
	Address      string     `json:"address"`
	Email        string     `json:"email"`
	Mode         Mode       `json:"mode"`
	OrderCode    string     `json:"orderCode,omitempty"`
	Items        []CartItem `json:"items,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
}

// ItemsString flattens the cart for flat-file storage.
func (l *Lead) ItemsString() string {
	if len(l.Items) == 0 {
		return "—"
	}
	parts := make([]string, 0, len(l.Items))
	for _, it := range l.Items {
		parts = append(parts, fmt.Sprintf("%s x%d", it.Product, it.Quantity))
	}
	return strings.Join(parts, "; ")
}
