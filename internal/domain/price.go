package domain

import "fmt"

// PriceQuote is a fixed-point price: Price * 10^Exponent, ± Conf * 10^Exponent.
type PriceQuote struct {
	Price       int64
	Conf        uint64
	Exponent    int32
	PublishTime int64
}

func (q PriceQuote) String() string {
	return fmt.Sprintf("(%d ± %d) * 10^%d", q.Price, q.Conf, q.Exponent)
}
