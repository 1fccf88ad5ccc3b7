package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	auditdomain "github.com/smallbiznis/tailorline/internal/audit/domain"
	"github.com/smallbiznis/tailorline/internal/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) (auditdomain.Service, *clock.FakeClock) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&auditdomain.ActivityLog{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	fake := clock.NewFakeClock(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))
	svc := New(Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Clock: fake,
	})
	return svc, fake
}

func TestRecord_RequiresAction(t *testing.T) {
	svc, _ := newTestService(t)

	err := svc.Record(context.Background(), auditdomain.Entry{Action: "  "})
	assert.ErrorIs(t, err, auditdomain.ErrInvalidAction)
}

func TestList_FilterByAction(t *testing.T) {
	svc, fake := newTestService(t)
	ctx := context.Background()

	for _, action := range []string{"order.created", "order.created", "payment.recorded"} {
		require.NoError(t, svc.Record(ctx, auditdomain.Entry{
			Action:     action,
			TargetType: "order",
			TargetID:   "1",
		}))
		fake.Advance(time.Minute)
	}

	rows, page, err := svc.List(ctx, auditdomain.ListRequest{Action: "order.created"})
	require.NoError(t, err)
	assert.Len(t, rows, 2)
	assert.Equal(t, 2, page.Count)
	assert.False(t, page.HasMore)
}

func TestList_Pagination(t *testing.T) {
	svc, fake := newTestService(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, svc.Record(ctx, auditdomain.Entry{
			Action:     "order.created",
			TargetType: "order",
			TargetID:   "1",
		}))
		fake.Advance(time.Minute)
	}

	first, page, err := svc.List(ctx, auditdomain.ListRequest{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, first, 2)
	assert.True(t, page.HasMore)

	rest, page, err := svc.List(ctx, auditdomain.ListRequest{Limit: 2, Offset: 2})
	require.NoError(t, err)
	assert.Len(t, rest, 1)
	assert.Equal(t, 2, page.Offset)
	assert.False(t, page.HasMore)
}
