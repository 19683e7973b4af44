package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sangkips/invowise-api/internal/domain/entity"
	"github.com/sangkips/invowise-api/internal/infrastructure/repository"
)

var fixedNow = time.Date(2024, time.March, 15, 9, 30, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

func userCtx() context.Context {
	return repository.WithSession(context.Background(), &entity.Session{UserID: uuid.New(), Email: "owner@invowise.test"})
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func ptr[T any](v T) *T { return &v }
