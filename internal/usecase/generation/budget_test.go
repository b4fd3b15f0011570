package generation

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/findmyfood/internal/domain"
)

type mockBudgetStore struct {
	mu      sync.Mutex
	values  map[string]int64
	getErr  error
	incrErr error
}

func newMockBudgetStore() *mockBudgetStore {
	return &mockBudgetStore{values: make(map[string]int64)}
}

func (m *mockBudgetStore) IncrBy(_ context.Context, key string, val int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.incrErr != nil {
		return m.incrErr
	}
	m.values[key] += val
	return nil
}

func (m *mockBudgetStore) Get(_ context.Context, key string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return 0, m.getErr
	}
	return m.values[key], nil
}

func fixedClock(b *Budget, t time.Time) *time.Time {
	now := t
	b.now = func() time.Time { return now }
	b.day, b.month = startOfDay(now), startOfMonth(now)
	return &now
}

func TestBudget_RejectWhenDailyExceeded(t *testing.T) {
	b := NewBudget("gpt-4o-mini", 100, 0, BudgetActionReject, zap.NewNop())
	b.Record(100)
	if err := b.Check(context.Background()); !errors.Is(err, domain.ErrContentQuotaExceeded) {
		t.Fatalf("expected ErrContentQuotaExceeded, got %v", err)
	}
}

func TestBudget_RejectWhenMonthlyExceeded(t *testing.T) {
	b := NewBudget("gpt-4o-mini", 0, 500, BudgetActionReject, zap.NewNop())
	b.Record(499)
	if err := b.Check(context.Background()); err != nil {
		t.Fatalf("below limit: %v", err)
	}
	b.Record(1)
	if err := b.Check(context.Background()); !errors.Is(err, domain.ErrContentQuotaExceeded) {
		t.Fatalf("expected ErrContentQuotaExceeded, got %v", err)
	}
}

func TestBudget_WarnAllows(t *testing.T) {
	b := NewBudget("gpt-4o-mini", 10, 0, BudgetActionWarn, nil)
	b.Record(50)
	if err := b.Check(context.Background()); err != nil {
		t.Fatalf("warn action must allow, got %v", err)
	}
}

func TestBudget_UnlimitedSnapshot(t *testing.T) {
	b := NewBudget("m", 0, 0, BudgetActionReject, nil)
	b.Record(1_000_000)
	if err := b.Check(context.Background()); err != nil {
		t.Fatalf("unlimited budget rejected: %v", err)
	}
	snap := b.Snapshot()
	if snap.DailyRemaining != -1 || snap.MonthlyRemaining != -1 {
		t.Errorf("snapshot = %+v, want -1 remaining", snap)
	}
	if snap.DailyUsed != 1_000_000 {
		t.Errorf("DailyUsed = %d", snap.DailyUsed)
	}
}

func TestBudget_SnapshotRemaining(t *testing.T) {
	b := NewBudget("m", 1000, 10000, BudgetActionWarn, nil)
	b.Record(300)
	b.Record(0)
	b.Record(-5)
	snap := b.Snapshot()
	if snap.DailyRemaining != 700 || snap.MonthlyRemaining != 9700 {
		t.Errorf("snapshot = %+v", snap)
	}
	b.Record(5000)
	if got := b.Snapshot().DailyRemaining; got != 0 {
		t.Errorf("overspent DailyRemaining = %d, want 0", got)
	}
}

func TestBudget_DayRollover(t *testing.T) {
	b := NewBudget("m", 100, 1000, BudgetActionReject, nil)
	now := fixedClock(b, time.Date(2025, 3, 14, 23, 0, 0, 0, time.UTC))

	b.Record(100)
	if err := b.Check(context.Background()); err == nil {
		t.Fatal("expected rejection before rollover")
	}

	*now = now.Add(2 * time.Hour) // 2025-03-15
	if err := b.Check(context.Background()); err != nil {
		t.Fatalf("new day must reset daily spend: %v", err)
	}
	snap := b.Snapshot()
	if snap.DailyUsed != 0 || snap.MonthlyUsed != 100 {
		t.Errorf("snapshot after rollover = %+v", snap)
	}

	*now = time.Date(2025, 4, 1, 0, 0, 1, 0, time.UTC)
	if got := b.Snapshot().MonthlyUsed; got != 0 {
		t.Errorf("MonthlyUsed after month rollover = %d", got)
	}
}

func TestBudget_WithStoreLoadsAndPersists(t *testing.T) {
	store := newMockBudgetStore()
	b := NewBudget("gpt", 1000, 0, BudgetActionReject, nil)
	now := fixedClock(b, time.Date(2025, 1, 2, 10, 0, 0, 0, time.UTC))

	store.values[b.dailyKey(*now)] = 900
	store.values[b.monthlyKey(*now)] = 4000
	b.WithStore(context.Background(), store)

	snap := b.Snapshot()
	if snap.DailyUsed != 900 || snap.MonthlyUsed != 4000 {
		t.Fatalf("loaded snapshot = %+v", snap)
	}

	b.Record(150)
	if store.values["findmyfood:budget:gpt:daily:2025-01-02"] != 1050 {
		t.Errorf("daily key = %d", store.values["findmyfood:budget:gpt:daily:2025-01-02"])
	}
	if store.values["findmyfood:budget:gpt:monthly:2025-01"] != 4150 {
		t.Errorf("monthly key = %d", store.values["findmyfood:budget:gpt:monthly:2025-01"])
	}
	if err := b.Check(context.Background()); !errors.Is(err, domain.ErrContentQuotaExceeded) {
		t.Errorf("expected rejection, got %v", err)
	}
}

func TestBudget_StoreErrorsAreNotFatal(t *testing.T) {
	store := newMockBudgetStore()
	store.getErr = errors.New("down")
	store.incrErr = errors.New("down")

	b := NewBudget("gpt", 100, 0, BudgetActionReject, nil).WithStore(context.Background(), store)
	b.Record(10)
	if got := b.Snapshot().DailyUsed; got != 10 {
		t.Errorf("in-memory spend = %d, want 10", got)
	}
}

func TestBudget_ConcurrentRecord(t *testing.T) {
	b := NewBudget("m", 0, 0, BudgetActionWarn, nil)
	var wg sync.WaitGroup
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 50 {
				b.Record(1)
			}
		}()
	}
	wg.Wait()
	if got := b.Snapshot().DailyUsed; got != 1000 {
		t.Errorf("DailyUsed = %d, want 1000", got)
	}
}
