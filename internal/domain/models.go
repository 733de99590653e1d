package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Beer struct {
	ID             string          `json:"id"`
	Version        int64           `json:"version"`
	Name           string          `json:"beer_name"`
	Style          Style           `json:"beer_style"`
	UPC            string          `json:"upc"`
	QuantityOnHand *int32          `json:"quantity_on_hand"`
	Price          decimal.Decimal `json:"price"`
	CreatedAt      time.Time       `json:"created_date"`
	UpdatedAt      time.Time       `json:"update_date"`
}

type Customer struct {
	ID        string    `json:"id"`
	Version   int64     `json:"version"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_date"`
	UpdatedAt time.Time `json:"update_date"`
}

// Order is the aggregate root: it owns its lines and shipment. Lines and
// shipment are persisted and deleted together with the order, never through
// their own lifecycle API.
type Order struct {
	ID            string           `json:"id"`
	Version       int64            `json:"version"`
	CustomerID    string           `json:"customer_id"`
	CustomerRef   string           `json:"customer_ref,omitempty"`
	PaymentAmount *decimal.Decimal `json:"payment_amount,omitempty"`
	Lines         []OrderLine      `json:"beer_order_lines"`
	Shipment      *Shipment        `json:"beer_order_shipment,omitempty"`
	CreatedAt     time.Time        `json:"created_date"`
	UpdatedAt     time.Time        `json:"last_modified_date"`
}

// LineByID returns a pointer into Lines, or nil when the id is not on the order.
func (o *Order) LineByID(id string) *OrderLine {
	for i := range o.Lines {
		if o.Lines[i].ID == id {
			return &o.Lines[i]
		}
	}
	return nil
}

type OrderLine struct {
	ID                string     `json:"id"`
	Version           int64      `json:"version"`
	OrderID           string     `json:"order_id"`
	BeerID            string     `json:"beer_id"`
	OrderQuantity     int32      `json:"order_quantity"`
	QuantityAllocated int32      `json:"quantity_allocated"`
	Status            LineStatus `json:"order_line_status"`
	CreatedAt         time.Time  `json:"created_date"`
	UpdatedAt         time.Time  `json:"last_modified_date"`
}

type Shipment struct {
	ID             string    `json:"id"`
	Version        int64     `json:"version"`
	OrderID        string    `json:"order_id"`
	TrackingNumber string    `json:"tracking_number"`
	CreatedAt      time.Time `json:"created_date"`
	UpdatedAt      time.Time `json:"last_modified_date"`
}

// AuditRecord is an append-only snapshot of a beer at event time. It holds no
// reference back to the live row and is never updated after insertion.
type AuditRecord struct {
	AuditID        string          `json:"audit_id"`
	BeerID         string          `json:"beer_id"`
	Version        int64           `json:"version"`
	Name           string          `json:"beer_name"`
	Style          Style           `json:"beer_style"`
	UPC            string          `json:"upc"`
	QuantityOnHand *int32          `json:"quantity_on_hand"`
	Price          decimal.Decimal `json:"price"`
	CreatedAt      time.Time       `json:"created_date"`
	UpdatedAt      time.Time       `json:"update_date"`
	EventType      string          `json:"audit_event_type"`
	Principal      string          `json:"principal_name,omitempty"`
	RecordedAt     time.Time       `json:"created_date_audit"`
}
