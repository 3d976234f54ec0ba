package service

import (
	"context"
	"errors"
	"sort"
	"testing"

	"github.com/rs/zerolog"

	"github.com/coursedesk/credits-system/internal/core/domain"
	"github.com/coursedesk/credits-system/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stub repository
// ---------------------------------------------------------------------------

type stubLedgerRepo struct {
	balances  map[string]map[string]int // userID -> courseType -> credits
	purchases []domain.PurchaseRecord
	recordErr error // if set, RecordPurchase returns this error
}

func newStubLedgerRepo() *stubLedgerRepo {
	return &stubLedgerRepo{balances: make(map[string]map[string]int)}
}

func (r *stubLedgerRepo) seed(userID, courseType string, credits int) {
	if r.balances[userID] == nil {
		r.balances[userID] = make(map[string]int)
	}
	r.balances[userID][courseType] = credits
}

func (r *stubLedgerRepo) GetBalances(_ context.Context, userID string) ([]domain.CreditBalance, error) {
	types := make([]string, 0, len(r.balances[userID]))
	for t := range r.balances[userID] {
		types = append(types, t)
	}
	sort.Strings(types)

	rows := make([]domain.CreditBalance, 0, len(types))
	for _, t := range types {
		rows = append(rows, domain.CreditBalance{
			UserID:     userID,
			CourseType: t,
			Credits:    r.balances[userID][t],
		})
	}
	return rows, nil
}

// RecordPurchase mirrors the real Mongo repo's transaction: on error neither
// the balance nor the purchase list changes.
func (r *stubLedgerRepo) RecordPurchase(_ context.Context, record *domain.PurchaseRecord) (int, error) {
	if r.recordErr != nil {
		return 0, r.recordErr
	}
	r.seed(record.UserID, record.CourseType, r.balances[record.UserID][record.CourseType]+record.Credits)
	// prepend: newest first, like the real query's sort
	r.purchases = append([]domain.PurchaseRecord{*record}, r.purchases...)
	return r.balances[record.UserID][record.CourseType], nil
}

// DeductCredits mirrors the real Mongo repo: sufficiency check first, then
// rows drained in ascending course-type order.
func (r *stubLedgerRepo) DeductCredits(_ context.Context, userID string, amount int) error {
	rows, _ := r.GetBalances(context.Background(), userID)
	total := 0
	for _, row := range rows {
		total += row.Credits
	}
	if total < amount {
		return &domain.InsufficientCreditsError{Available: total, Required: amount}
	}
	remaining := amount
	for _, row := range rows {
		take := row.Credits
		if take > remaining {
			take = remaining
		}
		r.balances[userID][row.CourseType] -= take
		remaining -= take
		if remaining == 0 {
			break
		}
	}
	return nil
}

func (r *stubLedgerRepo) ListPurchases(_ context.Context, userID string) ([]domain.PurchaseRecord, error) {
	var out []domain.PurchaseRecord
	for _, p := range r.purchases {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

var discardLogger = zerolog.Nop()

// ---------------------------------------------------------------------------
// Purchase tests
// ---------------------------------------------------------------------------

func TestLedgerService_Purchase_Success(t *testing.T) {
	repo := newStubLedgerRepo()
	repo.seed("user_1", "CPI-FA-2020", 2)
	svc := NewLedgerService(repo, discardLogger)

	result, err := svc.Purchase(context.Background(), purchaseInput("user_1", "CPI-FA-2020", 5, 250.0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.NewTotalForType != 7 {
		t.Errorf("expected new total 7, got %d", result.NewTotalForType)
	}
	if result.CreditRecordID == "" {
		t.Error("credit record id must not be empty")
	}

	// An immutable audit record with matching amount and price must exist.
	records, _ := repo.ListPurchases(context.Background(), "user_1")
	if len(records) != 1 {
		t.Fatalf("expected 1 purchase record, got %d", len(records))
	}
	if records[0].Credits != 5 || records[0].Price != 250.0 {
		t.Errorf("purchase record mismatch: credits=%d price=%v", records[0].Credits, records[0].Price)
	}
	if records[0].Status != domain.PurchaseCompleted {
		t.Errorf("expected status %q, got %q", domain.PurchaseCompleted, records[0].Status)
	}
}

func TestLedgerService_Purchase_FirstPurchaseCreatesRow(t *testing.T) {
	repo := newStubLedgerRepo()
	svc := NewLedgerService(repo, discardLogger)

	result, err := svc.Purchase(context.Background(), purchaseInput("user_1", "CPI-FA-2020", 3, 150.0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.NewTotalForType != 3 {
		t.Errorf("expected new total 3, got %d", result.NewTotalForType)
	}
}

func TestLedgerService_Purchase_RejectsNonPositiveAmounts(t *testing.T) {
	repo := newStubLedgerRepo()
	svc := NewLedgerService(repo, discardLogger)

	cases := []struct {
		name    string
		credits int
		price   float64
	}{
		{"zero credits", 0, 100},
		{"negative credits", -3, 100},
		{"zero price", 5, 0},
		{"negative price", 5, -10},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Purchase(context.Background(), purchaseInput("user_1", "CPI-FA-2020", tc.credits, tc.price))
			if !errors.Is(err, domain.ErrInvalidAmount) {
				t.Errorf("expected ErrInvalidAmount, got %v", err)
			}
		})
	}

	if len(repo.purchases) != 0 {
		t.Errorf("rejected purchases must not write records, got %d", len(repo.purchases))
	}
}

func TestLedgerService_Purchase_RepoError(t *testing.T) {
	repo := newStubLedgerRepo()
	repo.seed("user_1", "CPI-FA-2020", 2)
	repo.recordErr = errors.New("store unavailable")
	svc := NewLedgerService(repo, discardLogger)

	_, err := svc.Purchase(context.Background(), purchaseInput("user_1", "CPI-FA-2020", 5, 250.0))
	if err == nil {
		t.Fatal("expected error when repo fails, got nil")
	}
	// Balance and history move together or not at all.
	if repo.balances["user_1"]["CPI-FA-2020"] != 2 {
		t.Errorf("balance changed on failed purchase: %d", repo.balances["user_1"]["CPI-FA-2020"])
	}
	if len(repo.purchases) != 0 {
		t.Errorf("failed purchase must not leave a record, got %d", len(repo.purchases))
	}
}

// ---------------------------------------------------------------------------
// Balance tests
// ---------------------------------------------------------------------------

func TestLedgerService_GetBalance_SumsAcrossCourseTypes(t *testing.T) {
	repo := newStubLedgerRepo()
	repo.seed("user_1", "CPI-FA-2020", 5)
	repo.seed("user_1", "NVCI-2021", 3)
	svc := NewLedgerService(repo, discardLogger)

	result, err := svc.GetBalance(context.Background(), "user_1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.AvailableCredits != 8 {
		t.Errorf("expected total 8, got %d", result.AvailableCredits)
	}
	if len(result.CreditBreakdown) != 2 {
		t.Fatalf("expected 2 breakdown items, got %d", len(result.CreditBreakdown))
	}
	if result.CreditBreakdown[0].Type != "CPI-FA-2020" || result.CreditBreakdown[0].Credits != 5 {
		t.Errorf("unexpected first breakdown item: %+v", result.CreditBreakdown[0])
	}
}

func TestLedgerService_GetBalance_EmptyLedger(t *testing.T) {
	repo := newStubLedgerRepo()
	svc := NewLedgerService(repo, discardLogger)

	result, err := svc.GetBalance(context.Background(), "user_none")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.AvailableCredits != 0 || len(result.CreditBreakdown) != 0 {
		t.Errorf("expected empty balance, got %+v", result)
	}
}

// ---------------------------------------------------------------------------
// Deduct tests
// ---------------------------------------------------------------------------

func TestLedgerService_Deduct_Insufficient(t *testing.T) {
	repo := newStubLedgerRepo()
	repo.seed("user_1", "CPI-FA-2020", 2)
	svc := NewLedgerService(repo, discardLogger)

	_, err := svc.Deduct(context.Background(), "user_1", 3)

	var insufficient *domain.InsufficientCreditsError
	if !errors.As(err, &insufficient) {
		t.Fatalf("expected InsufficientCreditsError, got %v", err)
	}
	if insufficient.Available != 2 || insufficient.Required != 3 {
		t.Errorf("expected {available:2, required:3}, got %+v", insufficient)
	}
	// Balance must be untouched.
	if repo.balances["user_1"]["CPI-FA-2020"] != 2 {
		t.Errorf("balance changed on rejected deduct: %d", repo.balances["user_1"]["CPI-FA-2020"])
	}
}

func TestLedgerService_Deduct_DrainsAscendingCourseTypeOrder(t *testing.T) {
	repo := newStubLedgerRepo()
	repo.seed("user_1", "AAA", 2)
	repo.seed("user_1", "BBB", 4)
	svc := NewLedgerService(repo, discardLogger)

	result, err := svc.Deduct(context.Background(), "user_1", 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if repo.balances["user_1"]["AAA"] != 0 {
		t.Errorf("expected AAA drained to 0, got %d", repo.balances["user_1"]["AAA"])
	}
	if repo.balances["user_1"]["BBB"] != 3 {
		t.Errorf("expected BBB at 3, got %d", repo.balances["user_1"]["BBB"])
	}
	if result.AvailableCredits != 3 {
		t.Errorf("expected total 3 after deduct, got %d", result.AvailableCredits)
	}
}

func TestLedgerService_PurchaseThenDeduct_RoundTrip(t *testing.T) {
	repo := newStubLedgerRepo()
	repo.seed("user_1", "CPI-FA-2020", 4)
	svc := NewLedgerService(repo, discardLogger)

	if _, err := svc.Purchase(context.Background(), purchaseInput("user_1", "CPI-FA-2020", 6, 300.0)); err != nil {
		t.Fatalf("purchase failed: %v", err)
	}
	result, err := svc.Deduct(context.Background(), "user_1", 6)
	if err != nil {
		t.Fatalf("deduct failed: %v", err)
	}

	if result.AvailableCredits != 4 {
		t.Errorf("round trip must restore pre-purchase balance 4, got %d", result.AvailableCredits)
	}
}

func TestLedgerService_Deduct_RejectsNonPositiveAmount(t *testing.T) {
	repo := newStubLedgerRepo()
	svc := NewLedgerService(repo, discardLogger)

	if _, err := svc.Deduct(context.Background(), "user_1", 0); !errors.Is(err, domain.ErrInvalidAmount) {
		t.Errorf("expected ErrInvalidAmount, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// History tests
// ---------------------------------------------------------------------------

func TestLedgerService_PurchaseHistory_NewestFirst(t *testing.T) {
	repo := newStubLedgerRepo()
	svc := NewLedgerService(repo, discardLogger)

	_, _ = svc.Purchase(context.Background(), purchaseInput("user_1", "CPI-FA-2020", 1, 50.0))
	_, _ = svc.Purchase(context.Background(), purchaseInput("user_1", "NVCI-2021", 2, 100.0))

	records, err := svc.PurchaseHistory(context.Background(), "user_1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].CourseType != "NVCI-2021" {
		t.Errorf("expected newest purchase first, got %q", records[0].CourseType)
	}
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func purchaseInput(userID, courseType string, credits int, price float64) ports.PurchaseInput {
	return ports.PurchaseInput{
		UserID:     userID,
		UserEmail:  userID + "@example.com",
		PackageID:  "pkg_standard",
		CourseType: courseType,
		Credits:    credits,
		Price:      price,
	}
}
