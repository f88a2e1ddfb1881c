package notification

import (
	"context"
	"fmt"
	"strings"
	"time"

	go_json "github.com/goccy/go-json"

	"github.com/KyubiGames/autoenvios-ml/internal/catalog"
	"github.com/KyubiGames/autoenvios-ml/internal/client/meli"
	"github.com/KyubiGames/autoenvios-ml/internal/storage"
	"github.com/KyubiGames/autoenvios-ml/internal/xslog"
)

// recognized order-creation topics. The marketplace emits both spellings
// depending on application version.
var orderTopics = map[string]struct{}{
	"orders":    {},
	"orders_v2": {},
}

// Notification is the strict shape of an inbound webhook body. Unknown
// fields are ignored; type mismatches fail the parse.
type Notification struct {
	Topic         string `json:"topic"`
	Resource      string `json:"resource"`
	UserID        int64  `json:"user_id"`
	ApplicationID int64  `json:"application_id"`
	Attempts      int    `json:"attempts"`
}

type TokenRefresher interface {
	Refresh(ctx context.Context) (storage.Credentials, error)
}

type Processor struct {
	refresher TokenRefresher
	orders    meli.OrderService
	messages  meli.MessageService
	catalog   *catalog.Catalog

	// targetItemID, when non-empty, restricts sends to one listing.
	targetItemID string

	// dedup is optional; nil means duplicate deliveries re-send.
	dedup    storage.DedupStore
	dedupTTL time.Duration

	sendLog storage.SendLog
}

var _ Service = (*Processor)(nil)

type ProcessorOption func(*Processor)

func WithTargetItem(itemID string) ProcessorOption {
	return func(p *Processor) { p.targetItemID = itemID }
}

func WithDedup(store storage.DedupStore, ttl time.Duration) ProcessorOption {
	return func(p *Processor) {
		p.dedup = store
		p.dedupTTL = ttl
	}
}

func WithSendLog(log storage.SendLog) ProcessorOption {
	return func(p *Processor) { p.sendLog = log }
}

func NewProcessor(
	refresher TokenRefresher,
	orders meli.OrderService,
	messages meli.MessageService,
	cat *catalog.Catalog,
	opts ...ProcessorOption,
) *Processor {
	p := &Processor{
		refresher: refresher,
		orders:    orders,
		messages:  messages,
		catalog:   cat,
		sendLog:   storage.NopSendLog{},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Processor) Process(ctx context.Context, body []byte) error {
	logger := xslog.FromContext(ctx)

	var n Notification
	if err := go_json.Unmarshal(body, &n); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedPayload, err)
	}

	if _, ok := orderTopics[n.Topic]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownTopic, n.Topic)
	}

	orderID, err := extractOrderID(n.Resource)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrMalformedResource, n.Resource)
	}

	ctx = xslog.WithAttrs(ctx, xslog.OrderID(orderID), xslog.Topic(n.Topic))
	logger = xslog.FromContext(ctx)

	if p.dedup != nil {
		seen, err := p.dedup.Seen(ctx, dedupKey(orderID))
		if err != nil {
			logger.WarnContext(ctx, "dedup lookup failed, continuing", xslog.Error(err))
		} else if seen {
			logger.InfoContext(ctx, "duplicate notification, message already dispatched")
			return nil
		}
	}

	if _, err := p.refresher.Refresh(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrCredentialRefresh, err)
	}

	order, err := p.orders.Get(ctx, orderID)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrOrderFetch, err)
	}

	item := order.OrderItems[0].Item

	if p.targetItemID != "" && item.ID != p.targetItemID {
		logger.DebugContext(ctx, "item outside target listing, skipping",
			xslog.ItemID(item.ID))
		return nil
	}

	text, err := p.catalog.Resolve(item.ID, *order.Buyer)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrNoMessageRule, err)
	}

	msg := meli.Message{
		FromUserID: order.Seller.ID,
		ToUserID:   order.Buyer.ID,
		Text:       text,
	}

	if err := p.messages.Send(ctx, msg); err != nil {
		// no inline retry: webhook latency stays bounded and an
		// ambiguous failure cannot amplify into duplicate sends
		return fmt.Errorf("%w: %w", ErrMessageSend, err)
	}

	p.afterSend(ctx, orderID, order, item)

	logger.InfoContext(ctx, "sent purchase message",
		xslog.ItemID(item.ID),
		xslog.BuyerID(order.Buyer.ID))

	return nil
}

// afterSend performs best-effort bookkeeping; failures here never fail
// the webhook.
func (p *Processor) afterSend(ctx context.Context, orderID string, order *meli.Order, item meli.Item) {
	logger := xslog.FromContext(ctx)

	if p.dedup != nil {
		if err := p.dedup.Mark(ctx, dedupKey(orderID), p.dedupTTL); err != nil {
			logger.WarnContext(ctx, "failed to mark order as dispatched", xslog.Error(err))
		}
	}

	entry := storage.SentMessage{
		OrderID: orderID,
		BuyerID: order.Buyer.ID,
		ItemID:  item.ID,
		SentAt:  time.Now(),
	}
	if err := p.sendLog.Record(ctx, entry); err != nil {
		logger.WarnContext(ctx, "failed to record sent message", xslog.Error(err))
	}
}

func dedupKey(orderID string) string { return "orders:" + orderID }

// extractOrderID pulls the order id out of a resource path shaped like
// /orders/{id}. Paths with fewer than three segments are malformed.
func extractOrderID(resource string) (string, error) {
	parts := strings.Split(resource, "/")
	if len(parts) < 3 || parts[2] == "" {
		return "", fmt.Errorf("resource path has no order id: %q", resource)
	}
	return parts[2], nil
}
