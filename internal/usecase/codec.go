package usecase

import (
	"github.com/shopspring/decimal"

	"github.com/vitos/lighter_connector/internal/domain"
)

// PrecisionCodec converts decimal sizes and prices into the venue's integer
// fixed-point wire format. Encoding is floor(value * 10^decimals), truncated
// toward zero, to match the venue's canonical encoding bit-for-bit. The
// arithmetic runs on exact decimals so binary float artifacts can never push
// a value across an integer boundary.
type PrecisionCodec struct {
	directory *MarketDirectory
}

func NewPrecisionCodec(directory *MarketDirectory) *PrecisionCodec {
	return &PrecisionCodec{directory: directory}
}

// EncodeSize converts a base-asset size for the given market. The market's
// metadata must already be cached (Ensure), otherwise ErrMetadataMissing.
func (c *PrecisionCodec) EncodeSize(size float64, marketID int) (int64, error) {
	market, ok := c.directory.Market(marketID)
	if !ok {
		return 0, domain.ErrMetadataMissing
	}
	return scale(size, market.SizeDecimals), nil
}

// EncodePrice converts a quote price for the given market. Same caching
// requirement as EncodeSize.
func (c *PrecisionCodec) EncodePrice(price float64, marketID int) (int64, error) {
	market, ok := c.directory.Market(marketID)
	if !ok {
		return 0, domain.ErrMetadataMissing
	}
	return scale(price, market.PriceDecimals), nil
}

func scale(value float64, decimals int) int64 {
	// IntPart truncates toward zero, never rounds.
	return decimal.NewFromFloat(value).
		Mul(decimal.New(1, int32(decimals))).
		IntPart()
}
