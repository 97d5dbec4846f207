package service

import (
	"context"
	"strings"

	"github.com/labstack/gommon/log"

	"zapshift/internal/events"
	"zapshift/internal/model"
)

const roleCacheKeyPrefix = "user:role:"

// RoleLookup resolves the role held by an email address.
type RoleLookup interface {
	GetRole(ctx context.Context, email string) (model.Role, error)
}

// ownerPolicy guards the configured owner account.
type ownerPolicy string

func (o ownerPolicy) is(email string) bool {
	return o != "" && strings.EqualFold(string(o), strings.TrimSpace(email))
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func roleCacheKey(email string) string {
	return roleCacheKeyPrefix + normalizeEmail(email)
}

func orDefaultLogger(logger *log.Logger) *log.Logger {
	if logger != nil {
		return logger
	}
	return log.New("zapshift")
}

type nopPublisher struct{}

func (nopPublisher) Publish(events.Event) {}

func orNopPublisher(p events.Publisher) events.Publisher {
	if p != nil {
		return p
	}
	return nopPublisher{}
}
