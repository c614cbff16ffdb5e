package engine

// Instrument is a tradable unit. Price is the reference price supplied with
// the order that carried this descriptor; it is also the execution price for
// trades settled against the order. Immutable after creation.
type Instrument struct {
	ID    int64
	Name  string
	Price float64
}
