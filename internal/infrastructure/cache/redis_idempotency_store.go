package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/pos-backoffice/internal/application/order"
)

// pendingValue marca una llave reservada cuya orden aún no termina.
const pendingValue = "-"

// RedisIdempotencyStore llaves de idempotencia compartidas entre instancias (SETNX + TTL).
type RedisIdempotencyStore struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
}

// RedisConfig conexión a Redis.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// NewRedisIdempotencyStore conecta y verifica Redis.
func NewRedisIdempotencyStore(cfg RedisConfig) (*RedisIdempotencyStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("conectar a Redis: %w", err)
	}
	return NewRedisIdempotencyStoreWithClient(client, "", cfg.TTL), nil
}

// NewRedisIdempotencyStoreWithClient usa un cliente existente.
func NewRedisIdempotencyStoreWithClient(client *redis.Client, keyPrefix string, ttl time.Duration) *RedisIdempotencyStore {
	if keyPrefix == "" {
		keyPrefix = "pos:order:idempotency:"
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &RedisIdempotencyStore{client: client, keyPrefix: keyPrefix, ttl: ttl}
}

// Reserve SETNX de la llave; si existía devuelve el ID guardado.
func (s *RedisIdempotencyStore) Reserve(ctx context.Context, key string) (string, bool, error) {
	k := s.keyPrefix + key
	ok, err := s.client.SetNX(ctx, k, pendingValue, s.ttl).Result()
	if err != nil {
		return "", false, fmt.Errorf("reservar llave: %w", err)
	}
	if ok {
		return "", true, nil
	}
	v, err := s.client.Get(ctx, k).Result()
	if errors.Is(err, redis.Nil) {
		// Expiró entre SETNX y GET: se intenta una vez más.
		ok, err = s.client.SetNX(ctx, k, pendingValue, s.ttl).Result()
		if err != nil {
			return "", false, fmt.Errorf("reservar llave: %w", err)
		}
		return "", ok, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("leer llave: %w", err)
	}
	if v == pendingValue {
		return "", false, nil
	}
	return v, false, nil
}

// Complete guarda el ID de la orden conservando el TTL.
func (s *RedisIdempotencyStore) Complete(ctx context.Context, key, orderID string) error {
	if err := s.client.Set(ctx, s.keyPrefix+key, orderID, s.ttl).Err(); err != nil {
		return fmt.Errorf("completar llave: %w", err)
	}
	return nil
}

// Release borra la llave.
func (s *RedisIdempotencyStore) Release(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.keyPrefix+key).Err(); err != nil {
		return fmt.Errorf("liberar llave: %w", err)
	}
	return nil
}

// Close cierra el cliente.
func (s *RedisIdempotencyStore) Close() error {
	return s.client.Close()
}

var _ order.IdempotencyStore = (*RedisIdempotencyStore)(nil)
