package domain

// LineStatus tracks allocation progress of an order line. Transitions are
// driven by the allocation service; this core only stores the value.
type LineStatus string

const (
	LineStatusNew                LineStatus = "NEW"
	LineStatusAllocated          LineStatus = "ALLOCATED"
	LineStatusPartiallyAllocated LineStatus = "PARTIALLY_ALLOCATED"
	LineStatusAllocationError    LineStatus = "ALLOCATION_ERROR"
	LineStatusPickedUp           LineStatus = "PICKED_UP"
	LineStatusDelivered          LineStatus = "DELIVERED"
	LineStatusCancelled          LineStatus = "CANCELLED"
)
