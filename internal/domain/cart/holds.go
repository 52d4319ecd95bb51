// internal/domain/cart/holds.go
package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/your-org/pos-backend/internal/config"
)

// HeldSale is a parked cart a cashier can resume later, e.g. when a
// customer steps away mid-transaction. Holds live in Redis with a TTL
// so abandoned ones expire on their own.
type HeldSale struct {
	ID        string    `json:"id"`
	Label     string    `json:"label"`
	CashierID uint      `json:"cashier_id"`
	Lines     []Line    `json:"lines"`
	CreatedAt time.Time `json:"created_at"`
}

// HoldStore parks and resumes carts in Redis
type HoldStore struct {
	redisClient *redis.Client
	config      *config.Config
}

// NewHoldStore creates a new hold store
func NewHoldStore(redisClient *redis.Client, cfg *config.Config) *HoldStore {
	return &HoldStore{
		redisClient: redisClient,
		config:      cfg,
	}
}

func holdKey(id string) string {
	return fmt.Sprintf("pos:hold:%s", id)
}

const holdIndexKey = "pos:holds"

// Hold parks the given lines under a fresh id. The cart itself is not
// cleared here; the caller decides.
func (h *HoldStore) Hold(ctx context.Context, cashierID uint, label string, lines []Line) (*HeldSale, error) {
	if len(lines) == 0 {
		return nil, fmt.Errorf("cannot hold an empty cart")
	}

	held := &HeldSale{
		ID:        uuid.NewString(),
		Label:     label,
		CashierID: cashierID,
		Lines:     lines,
		CreatedAt: time.Now().UTC(),
	}

	data, err := json.Marshal(held)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal held sale: %w", err)
	}

	ttl := h.config.Store.HeldCartTTL
	pipe := h.redisClient.Pipeline()
	pipe.Set(ctx, holdKey(held.ID), data, ttl)
	pipe.SAdd(ctx, holdIndexKey, held.ID)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("failed to store held sale: %w", err)
	}

	return held, nil
}

// Get retrieves a held sale by id
func (h *HoldStore) Get(ctx context.Context, id string) (*HeldSale, error) {
	data, err := h.redisClient.Get(ctx, holdKey(id)).Result()
	if err == redis.Nil {
		return nil, fmt.Errorf("held sale not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load held sale: %w", err)
	}

	var held HeldSale
	if err := json.Unmarshal([]byte(data), &held); err != nil {
		return nil, fmt.Errorf("failed to decode held sale: %w", err)
	}
	return &held, nil
}

// List returns all live holds, skipping ids whose entries expired
func (h *HoldStore) List(ctx context.Context) ([]HeldSale, error) {
	ids, err := h.redisClient.SMembers(ctx, holdIndexKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list held sales: %w", err)
	}

	holds := make([]HeldSale, 0, len(ids))
	for _, id := range ids {
		held, err := h.Get(ctx, id)
		if err != nil {
			// Expired entry; drop it from the index
			h.redisClient.SRem(ctx, holdIndexKey, id)
			continue
		}
		holds = append(holds, *held)
	}
	return holds, nil
}

// Resume loads a held sale into the engine (replacing its contents)
// and discards the hold.
func (h *HoldStore) Resume(ctx context.Context, id string, engine *Engine) (*HeldSale, error) {
	held, err := h.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	engine.Restore(held.Lines)

	if err := h.Discard(ctx, id); err != nil {
		return nil, err
	}
	return held, nil
}

// Discard deletes a held sale without resuming it
func (h *HoldStore) Discard(ctx context.Context, id string) error {
	pipe := h.redisClient.Pipeline()
	pipe.Del(ctx, holdKey(id))
	pipe.SRem(ctx, holdIndexKey, id)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to discard held sale: %w", err)
	}
	return nil
}
