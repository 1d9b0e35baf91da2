package cart

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

var ErrInvalidQuantity = errors.New("quantity must be at least 1")

const cartTTL = 24 * time.Hour

type Store interface {
	Add(ctx context.Context, sessionID string, productID int64, qty int) error
	Set(ctx context.Context, sessionID string, productID int64, qty int) error
	Remove(ctx context.Context, sessionID string, productID int64) error
	Get(ctx context.Context, sessionID string) ([]Line, error)
	Clear(ctx context.Context, sessionID string) error
}

type store struct {
	rdb redis.Cmdable
}

func NewStore(rdb redis.Cmdable) Store {
	return &store{rdb: rdb}
}

func cartKey(sessionID string) string {
	return "cart:" + sessionID
}

func (s *store) Add(ctx context.Context, sessionID string, productID int64, qty int) error {
	if qty < 1 {
		return ErrInvalidQuantity
	}

	key := cartKey(sessionID)
	if err := s.rdb.HIncrBy(ctx, key, strconv.FormatInt(productID, 10), int64(qty)).Err(); err != nil {
		return fmt.Errorf("failed to add cart line: %w", err)
	}
	return s.rdb.Expire(ctx, key, cartTTL).Err()
}

func (s *store) Set(ctx context.Context, sessionID string, productID int64, qty int) error {
	if qty < 1 {
		return ErrInvalidQuantity
	}

	key := cartKey(sessionID)
	if err := s.rdb.HSet(ctx, key, strconv.FormatInt(productID, 10), qty).Err(); err != nil {
		return fmt.Errorf("failed to set cart line: %w", err)
	}
	return s.rdb.Expire(ctx, key, cartTTL).Err()
}

func (s *store) Remove(ctx context.Context, sessionID string, productID int64) error {
	return s.rdb.HDel(ctx, cartKey(sessionID), strconv.FormatInt(productID, 10)).Err()
}

func (s *store) Get(ctx context.Context, sessionID string) ([]Line, error) {
	fields, err := s.rdb.HGetAll(ctx, cartKey(sessionID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read cart: %w", err)
	}
	return parseLines(fields)
}

func (s *store) Clear(ctx context.Context, sessionID string) error {
	return s.rdb.Del(ctx, cartKey(sessionID)).Err()
}

// parseLines converts a redis hash into sorted cart lines, dropping entries
// that decayed to zero or below.
func parseLines(fields map[string]string) ([]Line, error) {
	lines := make([]Line, 0, len(fields))
	for field, value := range fields {
		productID, err := strconv.ParseInt(field, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("corrupt cart field %q: %w", field, err)
		}
		qty, err := strconv.Atoi(value)
		if err != nil {
			return nil, fmt.Errorf("corrupt cart quantity %q: %w", value, err)
		}
		if qty < 1 {
			continue
		}
		lines = append(lines, Line{ProductID: productID, Quantity: qty})
	}

	sort.Slice(lines, func(i, j int) bool { return lines[i].ProductID < lines[j].ProductID })
	return lines, nil
}
