package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"openform/logger"
	"openform/models"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	definitionTTL          = 5 * time.Minute
	definitionCacheTimeout = 500 * time.Millisecond
)

// FormDefinition is the public payload for one form: its metadata plus the
// ordered field list. It is what gets cached and what the public fetch
// endpoint returns.
type FormDefinition struct {
	Form   models.Form    `json:"form"`
	Fields []models.Field `json:"fields"`
}

// DefinitionCache keeps rendered form definitions in Redis so the public
// fetch endpoint does not hit Postgres on every request. Cache failures are
// logged and otherwise ignored; Redis being down never fails a request.
type DefinitionCache struct {
	client *redis.Client
}

// NewDefinitionCache wraps a Redis client. A nil client disables caching:
// every method becomes a no-op and lookups always miss.
func NewDefinitionCache(client *redis.Client) *DefinitionCache {
	return &DefinitionCache{client: client}
}

func definitionKey(formID uint) string {
	return fmt.Sprintf("form:def:%d", formID)
}

func (c *DefinitionCache) Get(formID uint) (*FormDefinition, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}
	ctx, cancel := context.WithTimeout(context.Background(), definitionCacheTimeout)
	defer cancel()

	payload, err := c.client.Get(ctx, definitionKey(formID)).Bytes()
	if err != nil {
		if err != redis.Nil {
			logger.Log.Warn("definition cache get failed", zap.Uint("formId", formID), zap.Error(err))
		}
		return nil, false
	}

	var def FormDefinition
	if err := json.Unmarshal(payload, &def); err != nil {
		logger.Log.Warn("definition cache entry corrupt", zap.Uint("formId", formID), zap.Error(err))
		return nil, false
	}
	return &def, true
}

func (c *DefinitionCache) Set(formID uint, def *FormDefinition) {
	if c == nil || c.client == nil {
		return
	}
	payload, err := json.Marshal(def)
	if err != nil {
		logger.Log.Warn("definition cache marshal failed", zap.Uint("formId", formID), zap.Error(err))
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), definitionCacheTimeout)
	defer cancel()

	if err := c.client.Set(ctx, definitionKey(formID), payload, definitionTTL).Err(); err != nil {
		logger.Log.Warn("definition cache set failed", zap.Uint("formId", formID), zap.Error(err))
	}
}

// Invalidate drops the cached definition. Called on every mutation of a form
// or its fields.
func (c *DefinitionCache) Invalidate(formID uint) {
	if c == nil || c.client == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), definitionCacheTimeout)
	defer cancel()

	if err := c.client.Del(ctx, definitionKey(formID)).Err(); err != nil {
		logger.Log.Warn("definition cache invalidate failed", zap.Uint("formId", formID), zap.Error(err))
	}
}
