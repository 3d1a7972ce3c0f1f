package queue

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"
)

const (
	EventsExchange = "dinehall.events"
	KitchenQueue   = "dinehall.kitchen"
)

// KitchenTicketEvent announces one order submission (one KOT) to the
// kitchen display consumers.
type KitchenTicketEvent struct {
	BillID    int64              `json:"billId"`
	BillNo    int64              `json:"billNo"`
	KotNo     int64              `json:"kotNo"`
	OrderType string             `json:"orderType"`
	TableID   *int64             `json:"tableId,omitempty"`
	TokenNo   *int64             `json:"tokenNo,omitempty"`
	Items     []KitchenItemEvent `json:"items"`
	PlacedAt  time.Time          `json:"placedAt"`
}

type KitchenItemEvent struct {
	ItemID   int64   `json:"itemId"`
	Quantity int32   `json:"quantity"`
	Note     *string `json:"note,omitempty"`
}

// EnsureKitchenTopology declares the exchange, the kitchen queue and the
// binding for kitchen ticket events.
func EnsureKitchenTopology(c *Client) error {
	if err := c.EnsureExchange(EventsExchange); err != nil {
		return err
	}
	if _, err := c.EnsureQueue(KitchenQueue); err != nil {
		return err
	}
	return c.BindQueue(KitchenQueue, EventsExchange, "kot.#")
}

func (c *Client) PublishKitchenTicket(ctx context.Context, event KitchenTicketEvent) error {
	return c.PublishJSON(ctx, EventsExchange, "kot.created", event)
}

// LogKitchenTicket is the built-in consumer for deployments without a
// dedicated kitchen display service. Tickets are decoded and written to
// the log so the kitchen printer tail can pick them up.
func LogKitchenTicket(logger *zap.Logger, body []byte) error {
	var event KitchenTicketEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return err
	}
	logger.Info("kitchen ticket",
		zap.Int64("billNo", event.BillNo),
		zap.Int64("kotNo", event.KotNo),
		zap.String("orderType", event.OrderType),
		zap.Int("items", len(event.Items)))
	return nil
}
