package orders

import (
	"context"

	"github.com/mbeecher/beerworks/internal/domain"
)

type BeerResolver interface {
	GetByID(ctx context.Context, id string) (domain.Beer, error)
}

type CustomerResolver interface {
	GetByID(ctx context.Context, id string) (domain.Customer, error)
}

type LineUpdate struct {
	ID                string `json:"id,omitempty"`
	BeerID            string `json:"beer_id"`
	OrderQuantity     int32  `json:"order_quantity"`
	QuantityAllocated int32  `json:"quantity_allocated"`
}

type ShipmentUpdate struct {
	TrackingNumber string `json:"tracking_number"`
}

type UpdateRequest struct {
	CustomerID  string          `json:"customer_id"`
	CustomerRef string          `json:"customer_ref"`
	Lines       []LineUpdate    `json:"beer_order_lines"`
	Shipment    *ShipmentUpdate `json:"beer_order_shipment,omitempty"`
}

// Reconcile merges an update request into a loaded order aggregate. The
// merge is additive and updating, never deleting: request lines with an id
// replace that line's beer, quantity and allocation in place; id-less lines
// are appended as new lines; lines on the order but absent from the request
// stay as they are. The customer reference and free-text ref are replaced
// unconditionally. Any missing referenced entity aborts the whole merge
// with ErrNotFound; nothing is partially applied by the caller because the
// result is only persisted after Reconcile returns nil.
func Reconcile(ctx context.Context, order *domain.Order, req UpdateRequest,
	customers CustomerResolver, beers BeerResolver) error {

	customer, err := customers.GetByID(ctx, req.CustomerID)
	if err != nil {
		return err
	}
	order.CustomerID = customer.ID
	order.CustomerRef = req.CustomerRef

	for _, lu := range req.Lines {
		if lu.ID != "" {
			line := order.LineByID(lu.ID)
			if line == nil {
				return domain.ErrNotFound
			}
			beer, err := beers.GetByID(ctx, lu.BeerID)
			if err != nil {
				return err
			}
			line.BeerID = beer.ID
			line.OrderQuantity = lu.OrderQuantity
			line.QuantityAllocated = lu.QuantityAllocated
			continue
		}

		beer, err := beers.GetByID(ctx, lu.BeerID)
		if err != nil {
			return err
		}
		order.Lines = append(order.Lines, domain.OrderLine{
			BeerID:            beer.ID,
			OrderQuantity:     lu.OrderQuantity,
			QuantityAllocated: lu.QuantityAllocated,
			Status:            domain.LineStatusNew,
		})
	}

	// A tracking number only ever creates a shipment; an existing shipment
	// is write-once and keeps its original tracking number. Deliberate
	// policy carried over from observed behavior, not an oversight here.
	if req.Shipment != nil && req.Shipment.TrackingNumber != "" && order.Shipment == nil {
		order.Shipment = &domain.Shipment{TrackingNumber: req.Shipment.TrackingNumber}
	}

	return nil
}
