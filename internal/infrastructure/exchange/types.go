package exchange

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// flexFloat parses a JSON value that the venue serializes sometimes as a
// number and sometimes as a quoted decimal string.
type flexFloat float64

func (f *flexFloat) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = 0
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if s == "" {
			*f = 0
			return nil
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return err
		}
		*f = flexFloat(v)
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*f = flexFloat(v)
	return nil
}

type accountResponse struct {
	Accounts []struct {
		AccountIndex int `json:"account_index"`
		Positions    []struct {
			MarketID              int       `json:"market_id"`
			Symbol                string    `json:"symbol"`
			Sign                  int       `json:"sign"`
			Position              flexFloat `json:"position"`
			AvgEntryPrice         flexFloat `json:"avg_entry_price"`
			UnrealizedPnL         flexFloat `json:"unrealized_pnl"`
			InitialMarginFraction flexFloat `json:"initial_margin_fraction"`
		} `json:"positions"`
	} `json:"accounts"`
}

// orderBookMeta tolerates both field spellings the venue has used for ids and
// decimal specs.
type orderBookMeta struct {
	Symbol                string     `json:"symbol"`
	MarketID              *int       `json:"market_id"`
	Index                 *int       `json:"index"`
	SupportedSizeDecimals *int       `json:"supported_size_decimals"`
	SizeDecimals          *int       `json:"size_decimals"`
	SupportedPriceDecimal *int       `json:"supported_price_decimals"`
	PriceDecimals         *int       `json:"price_decimals"`
	MinBaseAmount         *flexFloat `json:"min_base_amount"`
}

func (m *orderBookMeta) id() (int, bool) {
	if m.MarketID != nil {
		return *m.MarketID, true
	}
	if m.Index != nil {
		return *m.Index, true
	}
	return 0, false
}

func (m *orderBookMeta) sizeDecimals() *int {
	if m.SupportedSizeDecimals != nil {
		return m.SupportedSizeDecimals
	}
	return m.SizeDecimals
}

func (m *orderBookMeta) priceDecimals() *int {
	if m.SupportedPriceDecimal != nil {
		return m.SupportedPriceDecimal
	}
	return m.PriceDecimals
}

type orderBooksResponse struct {
	OrderBooks []orderBookMeta `json:"order_books"`
	Orderbooks []orderBookMeta `json:"orderbooks"`
}

type bookOrder struct {
	Price               flexFloat `json:"price"`
	RemainingBaseAmount flexFloat `json:"remaining_base_amount"`
}

type orderBookOrdersResponse struct {
	Bids []bookOrder `json:"bids"`
	Asks []bookOrder `json:"asks"`
}

type fundingRatesResponse struct {
	FundingRates []struct {
		MarketID int       `json:"market_id"`
		Exchange string    `json:"exchange"`
		Rate     flexFloat `json:"rate"`
	} `json:"funding_rates"`
}

type txResponse struct {
	Status      int    `json:"status"`
	EventInfo   string `json:"event_info"`
	BlockHeight int64  `json:"block_height"`
	ExecutedAt  int64  `json:"executed_at"`
}
