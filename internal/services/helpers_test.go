package services

import (
	"testing"

	"github.com/google/uuid"

	"github.com/novaluma/novaluma-backend/internal/logger"
	"github.com/novaluma/novaluma-backend/internal/types"
	"gorm.io/datatypes"
)

func testLogger(tb testing.TB) *logger.Logger {
	tb.Helper()
	log, err := logger.New("test")
	if err != nil {
		tb.Fatalf("failed to init logger: %v", err)
	}
	return log
}

func testCharacter(name string, opts func(*types.Character)) *types.Character {
	c := &types.Character{ID: uuid.New(), Name: name}
	if opts != nil {
		opts(c)
	}
	return c
}

func jsonList(items ...string) datatypes.JSON {
	return types.StringList(items)
}
