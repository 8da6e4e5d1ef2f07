package exchange

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/vitos/lighter_connector/internal/domain"
)

// LighterStream is an optional push feed of top-of-book mid prices. Order
// execution never reads from it; REST snapshots stay authoritative. Callers
// that want live prices register a callback and subscribe per market.
type LighterStream struct {
	wsURL     string
	logger    *zap.Logger
	symbolFor func(marketID int) (string, bool)

	mu        sync.Mutex
	conn      *websocket.Conn
	callbacks []func(symbol string, price float64, at time.Time)
}

var _ domain.PriceStream = (*LighterStream)(nil)

func NewLighterStream(wsURL string, symbolFor func(marketID int) (string, bool), logger *zap.Logger) *LighterStream {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LighterStream{
		wsURL:     wsURL,
		logger:    logger,
		symbolFor: symbolFor,
	}
}

func (s *LighterStream) OnPriceUpdate(callback func(symbol string, price float64, at time.Time)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.callbacks = append(s.callbacks, callback)
}

func (s *LighterStream) Subscribe(marketIDs []int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn == nil {
		c, _, err := websocket.DefaultDialer.Dial(s.wsURL, nil)
		if err != nil {
			return err
		}
		s.conn = c
		go s.readLoop(c)
	}

	for _, id := range marketIDs {
		msg := map[string]interface{}{
			"type":    "subscribe",
			"channel": fmt.Sprintf("order_book/%d", id),
		}
		if err := s.conn.WriteJSON(msg); err != nil {
			return err
		}
	}
	return nil
}

func (s *LighterStream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn == nil {
		return nil
	}
	err := s.conn.Close()
	s.conn = nil
	return err
}

type streamEvent struct {
	Channel   string `json:"channel"`
	OrderBook struct {
		Bids []bookOrder `json:"bids"`
		Asks []bookOrder `json:"asks"`
	} `json:"order_book"`
}

func (s *LighterStream) readLoop(conn *websocket.Conn) {
	defer func() {
		conn.Close()
		s.mu.Lock()
		if s.conn == conn {
			s.conn = nil
		}
		s.mu.Unlock()
	}()

	for {
		var event streamEvent
		if err := conn.ReadJSON(&event); err != nil {
			s.logger.Warn("price stream read failed", zap.Error(err))
			return
		}

		// Channel names look like "order_book:3".
		idx := strings.LastIndexByte(event.Channel, ':')
		if idx < 0 {
			continue
		}
		marketID, err := strconv.Atoi(event.Channel[idx+1:])
		if err != nil {
			continue
		}
		symbol, ok := s.symbolFor(marketID)
		if !ok {
			continue
		}

		price, ok := midPrice(event.OrderBook.Bids, event.OrderBook.Asks)
		if !ok {
			continue
		}

		now := time.Now().UTC()
		s.mu.Lock()
		callbacks := make([]func(string, float64, time.Time), len(s.callbacks))
		copy(callbacks, s.callbacks)
		s.mu.Unlock()

		for _, cb := range callbacks {
			cb(symbol, price, now)
		}
	}
}

func midPrice(bids, asks []bookOrder) (float64, bool) {
	var bid, ask float64
	if len(bids) > 0 {
		bid = float64(bids[0].Price)
	}
	if len(asks) > 0 {
		ask = float64(asks[0].Price)
	}
	switch {
	case bid > 0 && ask > 0:
		return (bid + ask) / 2, true
	case bid > 0:
		return bid, true
	case ask > 0:
		return ask, true
	}
	return 0, false
}
