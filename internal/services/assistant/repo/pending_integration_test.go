//go:build integration_pg

package repo

import (
	"context"
	"fmt"
	"io"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"golang.org/x/sync/errgroup"

	"assistify/internal/core/audit"
	"assistify/internal/core/confirm"
	"assistify/internal/platform/store"
	"assistify/internal/services/assistant/domain"
)

func openPG(t *testing.T) *store.Store {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	t.Cleanup(cancel)

	c, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: tc.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "postgres",
				"POSTGRES_PASSWORD": "postgres",
				"POSTGRES_DB":       "postgres",
			},
			WaitingFor: wait.ForAll(
				wait.ForListeningPort("5432/tcp"),
				wait.ForLog("database system is ready to accept connections"),
			).WithDeadline(2 * time.Minute),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}
	t.Cleanup(func() { _ = c.Terminate(context.Background()) })

	host, err := c.Host(ctx)
	if err != nil {
		t.Fatalf("host: %v", err)
	}
	mp, err := c.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("mapped port: %v", err)
	}

	st, err := store.Open(ctx, store.Config{
		AppName: "assistify-test",
		PG: store.PGConfig{
			Enabled:  true,
			URL:      fmt.Sprintf("postgres://postgres:postgres@%s:%s/postgres?sslmode=disable", host, mp.Port()),
			MaxConns: 16,
		},
	}, store.WithLogger(zerolog.New(io.Discard)))
	if err != nil {
		t.Fatalf("store open: %v", err)
	}
	t.Cleanup(func() { _ = st.Close(context.Background()) })

	if err := EnsureSchema(ctx, st.PG); err != nil {
		t.Fatalf("schema: %v", err)
	}
	return st
}

func TestPendingPG_Integration_ConcurrentTakeHasOneWinner(t *testing.T) {
	st := openPG(t)
	ctx := context.Background()
	s := NewPendingPG().Bind(st.PG)

	now := time.Now().UTC().Truncate(time.Millisecond)
	p := confirm.Pending{
		Token: "tok-race", AbilityID: "afw/orders/refund", Level: confirm.LevelDouble, Code: "REFUND",
		Params: map[string]any{"order_id": 1042}, UserID: "u-1", CreatedAt: now, ExpiresAt: now.Add(time.Minute),
	}
	ok, err := s.Put(ctx, p, time.Minute)
	if err != nil || !ok {
		t.Fatalf("put: ok=%v err=%v", ok, err)
	}
	if ok, _ := s.Put(ctx, p, time.Minute); ok {
		t.Fatal("second put with the same token must be rejected")
	}

	var wins atomic.Int32
	var g errgroup.Group
	for range 50 {
		g.Go(func() error {
			_, ok, err := s.Take(ctx, p.Token)
			if ok {
				wins.Add(1)
			}
			return err
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatalf("take: %v", err)
	}
	if wins.Load() != 1 {
		t.Fatalf("winners = %d, want 1", wins.Load())
	}
}

func TestAuditPG_Integration_RecordAndRecent(t *testing.T) {
	st := openPG(t)
	ctx := context.Background()
	r := NewAuditPG().Bind(st.PG)

	base := time.Now().UTC().Add(-time.Hour)
	for i, kind := range []audit.Kind{audit.KindRequested, audit.KindExecuted, audit.KindRequested} {
		ability := "afw/orders/refund"
		if i == 2 {
			ability = "afw/coupons/delete"
		}
		if err := r.Record(ctx, audit.Event{
			At: base.Add(time.Duration(i) * time.Minute), Kind: kind, AbilityID: ability, UserID: "u-1",
			Params: map[string]any{"i": i},
		}); err != nil {
			t.Fatalf("record %d: %v", i, err)
		}
	}

	rows, err := r.Recent(ctx, domain.AuditQuery{AbilityID: "afw/orders/refund", Limit: 10})
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}
	if rows[0].Kind != "executed" {
		t.Fatalf("newest first: got %q", rows[0].Kind)
	}

	rows, err = r.Recent(ctx, domain.AuditQuery{Since: base.Add(90 * time.Second), Limit: 10})
	if err != nil {
		t.Fatalf("recent since: %v", err)
	}
	if len(rows) != 1 || rows[0].AbilityID != "afw/coupons/delete" {
		t.Fatalf("since filter: %+v", rows)
	}
}
