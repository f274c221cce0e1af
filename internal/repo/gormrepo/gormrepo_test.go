package gormrepo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/bookshop/internal/repo"
	"github.com/Skotchmaster/bookshop/internal/repo/repotest"
)

func TestStore(t *testing.T) {
	repotest.Run(t, func(t *testing.T) repo.Store {
		db, err := Open(context.Background(), ":memory:")
		require.NoError(t, err)
		t.Cleanup(func() { _ = Close(db) })
		return NewStore(db)
	})
}

func TestOpen_EmptyDSN(t *testing.T) {
	_, err := Open(context.Background(), "")
	require.Error(t, err)
}
