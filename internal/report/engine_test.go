package report

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Karpemurli/Pocket-Planner-Management-System/internal/core"
	"github.com/Karpemurli/Pocket-Planner-Management-System/internal/ledger"
	"github.com/Karpemurli/Pocket-Planner-Management-System/internal/salary"
	"github.com/Karpemurli/Pocket-Planner-Management-System/internal/store/memory"
)

func newEngine(t *testing.T, seed map[string]string) (*Engine, *salary.Ledger, *ledger.Ledger) {
	t.Helper()
	kv := memory.New()
	if seed != nil {
		kv.Seed(seed)
	}
	salaries := salary.New(kv)
	transactions := ledger.New(kv)
	return New(salaries, transactions), salaries, transactions
}

func date(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := core.ParseDate(s)
	if err != nil {
		t.Fatalf("parse %q: %v", s, err)
	}
	return d
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestBuildReportSalaryAndExpense(t *testing.T) {
	ctx := context.Background()
	e, salaries, transactions := newEngine(t, nil)

	if err := salaries.Set(ctx, "a@x.com", 2024, 5, dec("50000"), salary.Replace); err != nil {
		t.Fatalf("set salary: %v", err)
	}
	if _, err := transactions.Append(ctx, core.Transaction{
		OwnerEmail: "a@x.com", Title: "Zero income", Amount: dec("0.00"),
		Type: "Income", Category: core.SalaryCategory, Date: "2024-05-15",
	}); err != nil {
		t.Fatalf("append: %v", err)
	}
	if _, err := transactions.Append(ctx, core.Transaction{
		OwnerEmail: "a@x.com", Title: "Groceries", Amount: dec("200.00"),
		Type: "Expense", Category: "Food", Date: "2024-05-10",
	}); err != nil {
		t.Fatalf("append: %v", err)
	}

	r, err := e.BuildReport(ctx, "a@x.com", date(t, "2024-05-01"), date(t, "2024-05-31"), "")
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	// the explicit zero-amount transaction stays in the list but is
	// not counted; only zero synthetic salary months are suppressed
	if len(r.Entries) != 3 {
		t.Fatalf("entries = %d, want 3", len(r.Entries))
	}
	if r.Totals.Count != 2 {
		t.Fatalf("count = %d, want 2", r.Totals.Count)
	}
	if !r.Totals.TotalSalary.Equal(dec("50000")) {
		t.Fatalf("totalSalary = %s", r.Totals.TotalSalary)
	}
	if !r.Totals.TotalOtherIncome.Equal(dec("0")) {
		t.Fatalf("totalOtherIncome = %s", r.Totals.TotalOtherIncome)
	}
	if !r.Totals.TotalExpenses.Equal(dec("200")) {
		t.Fatalf("totalExpenses = %s", r.Totals.TotalExpenses)
	}
	if !r.Totals.NetSavings.Equal(dec("49800")) {
		t.Fatalf("netSavings = %s", r.Totals.NetSavings)
	}
}

func TestBuildReportZeroSalaryMonthEmitsNothing(t *testing.T) {
	ctx := context.Background()
	e, salaries, _ := newEngine(t, nil)

	if err := salaries.Set(ctx, "a@x.com", 2024, 5, decimal.Zero, salary.Replace); err != nil {
		t.Fatalf("set salary: %v", err)
	}
	r, err := e.BuildReport(ctx, "a@x.com", date(t, "2024-05-01"), date(t, "2024-05-31"), "")
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if len(r.Entries) != 0 {
		t.Fatalf("zero salary month must not emit a synthetic entry: %v", r.Entries)
	}
}

func TestBuildReportAdditivity(t *testing.T) {
	ctx := context.Background()
	e, salaries, transactions := newEngine(t, nil)

	salaries.Set(ctx, "a@x.com", 2024, 4, dec("1000"), salary.Replace)
	salaries.Set(ctx, "a@x.com", 2024, 5, dec("2000"), salary.Replace)
	for _, txn := range []core.Transaction{
		{OwnerEmail: "a@x.com", Title: "Bonus", Amount: dec("300"), Type: "income", Category: "Work", Date: "2024-04-20"},
		{OwnerEmail: "a@x.com", Title: "Rent", Amount: dec("800"), Type: "expense", Category: "Housing", Date: "2024-05-01"},
		{OwnerEmail: "a@x.com", Title: "Food", Amount: dec("150"), Type: "expense", Category: "Food", Date: "2024-05-02"},
	} {
		if _, err := transactions.Append(ctx, txn); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	r, err := e.BuildReport(ctx, "a@x.com", date(t, "2024-04-01"), date(t, "2024-05-31"), "")
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if !r.Totals.TotalIncome.Equal(r.Totals.TotalSalary.Add(r.Totals.TotalOtherIncome)) {
		t.Fatalf("income %s != salary %s + other %s",
			r.Totals.TotalIncome, r.Totals.TotalSalary, r.Totals.TotalOtherIncome)
	}
	if !r.Totals.NetSavings.Equal(r.Totals.TotalIncome.Sub(r.Totals.TotalExpenses)) {
		t.Fatalf("netSavings %s inconsistent", r.Totals.NetSavings)
	}
	if !r.Totals.TotalIncome.Equal(dec("3300")) || !r.Totals.TotalExpenses.Equal(dec("950")) {
		t.Fatalf("totals: %+v", r.Totals)
	}
}

func TestBuildReportOrdering(t *testing.T) {
	ctx := context.Background()
	e, salaries, transactions := newEngine(t, nil)

	salaries.Set(ctx, "a@x.com", 2024, 5, dec("1000"), salary.Replace)
	transactions.Append(ctx, core.Transaction{
		OwnerEmail: "a@x.com", Title: "Same day as salary", Amount: dec("10"),
		Type: "expense", Category: "Food", Date: "2024-05-01",
	})
	transactions.Append(ctx, core.Transaction{
		OwnerEmail: "a@x.com", Title: "Later", Amount: dec("20"),
		Type: "expense", Category: "Food", Date: "2024-05-20",
	})

	r, err := e.BuildReport(ctx, "a@x.com", date(t, "2024-05-01"), date(t, "2024-05-31"), "")
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if len(r.Entries) != 3 {
		t.Fatalf("got %d entries", len(r.Entries))
	}
	// date descending; on the shared date the salary entry comes first
	if r.Entries[0].Title != "Later" {
		t.Fatalf("entries[0] = %q", r.Entries[0].Title)
	}
	if !r.Entries[1].IsSalary {
		t.Fatalf("entries[1] should be the salary entry, got %q", r.Entries[1].Title)
	}
	if r.Entries[2].Title != "Same day as salary" {
		t.Fatalf("entries[2] = %q", r.Entries[2].Title)
	}
}

func TestBuildReportNormalizesTypes(t *testing.T) {
	ctx := context.Background()
	kv := memory.New().Seed(map[string]string{
		"transactions": `[
			{"id":"1","userEmail":"a@x.com","title":"signed legacy","amount":"-75.00","type":"","category":"Misc","date":"2024-05-03"},
			{"id":"2","userEmail":"a@x.com","title":"shorthand","amount":"40.00","type":"IN","category":"Work","date":"2024-05-04"},
			{"id":"3","userEmail":"a@x.com","title":"garbage type","amount":"25.00","type":"wat","category":"Misc","date":"2024-05-05"}
		]`,
	})
	e := New(salary.New(kv), ledger.New(kv))

	r, err := e.BuildReport(ctx, "a@x.com", date(t, "2024-05-01"), date(t, "2024-05-31"), "")
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if r.Totals.Count != 3 {
		t.Fatalf("count = %d", r.Totals.Count)
	}
	// -75 with blank type becomes a 75 expense; "IN" and garbage-positive land as income
	if !r.Totals.TotalExpenses.Equal(dec("75")) {
		t.Fatalf("expenses = %s", r.Totals.TotalExpenses)
	}
	if !r.Totals.TotalOtherIncome.Equal(dec("65")) {
		t.Fatalf("other income = %s", r.Totals.TotalOtherIncome)
	}
	for _, entry := range r.Entries {
		if entry.Amount.IsNegative() {
			t.Fatalf("entry magnitude must be non-negative: %+v", entry)
		}
	}
}

func TestBuildReportBreakdowns(t *testing.T) {
	ctx := context.Background()
	e, salaries, transactions := newEngine(t, nil)

	salaries.Set(ctx, "a@x.com", 2024, 5, dec("1000"), salary.Replace)
	transactions.Append(ctx, core.Transaction{
		OwnerEmail: "a@x.com", Title: "Rent", Amount: dec("800"),
		Type: "expense", Category: "Housing", Date: "2024-05-02", PaymentMethod: "UPI",
	})
	transactions.Append(ctx, core.Transaction{
		OwnerEmail: "a@x.com", Title: "Tip", Amount: dec("50"),
		Type: "income", Category: "", Date: "2024-05-03",
	})

	r, err := e.BuildReport(ctx, "a@x.com", date(t, "2024-05-01"), date(t, "2024-05-31"), "")
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	// salary contributes to income-by-category under "Salary"
	if !r.ByCategory.Income["Salary"].Equal(dec("1000")) {
		t.Fatalf("income by category: %v", r.ByCategory.Income)
	}
	if !r.ByCategory.Income["Uncategorized"].Equal(dec("50")) {
		t.Fatalf("income by category: %v", r.ByCategory.Income)
	}
	if !r.ByCategory.Expense["Housing"].Equal(dec("800")) {
		t.Fatalf("expense by category: %v", r.ByCategory.Expense)
	}

	// payment methods cover transactions only
	if !r.ByPaymentMethod.Expense["UPI"].Equal(dec("800")) {
		t.Fatalf("expense by method: %v", r.ByPaymentMethod.Expense)
	}
	if !r.ByPaymentMethod.Income["Unknown"].Equal(dec("50")) {
		t.Fatalf("income by method: %v", r.ByPaymentMethod.Income)
	}
	if len(r.ByPaymentMethod.Income) != 1 {
		t.Fatalf("salary must not appear in the payment method breakdown: %v", r.ByPaymentMethod.Income)
	}
}

func TestBuildReportCategoryFilterSparesSalary(t *testing.T) {
	ctx := context.Background()
	e, salaries, transactions := newEngine(t, nil)

	salaries.Set(ctx, "a@x.com", 2024, 5, dec("1000"), salary.Replace)
	transactions.Append(ctx, core.Transaction{
		OwnerEmail: "a@x.com", Title: "Rent", Amount: dec("800"),
		Type: "expense", Category: "Housing", Date: "2024-05-02",
	})
	transactions.Append(ctx, core.Transaction{
		OwnerEmail: "a@x.com", Title: "Food", Amount: dec("100"),
		Type: "expense", Category: "Food", Date: "2024-05-03",
	})

	r, err := e.BuildReport(ctx, "a@x.com", date(t, "2024-05-01"), date(t, "2024-05-31"), "Food")
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	// the filter narrows transactions; the synthetic salary line stays
	if r.Totals.Count != 2 {
		t.Fatalf("count = %d", r.Totals.Count)
	}
	if !r.Totals.TotalExpenses.Equal(dec("100")) {
		t.Fatalf("expenses = %s", r.Totals.TotalExpenses)
	}
	if !r.Totals.TotalSalary.Equal(dec("1000")) {
		t.Fatalf("salary = %s", r.Totals.TotalSalary)
	}
}

func TestBuildReportOwnerIsolation(t *testing.T) {
	ctx := context.Background()
	kv := memory.New().Seed(map[string]string{
		"transactions": `[
			{"id":"dup","userEmail":"a@x.com","title":"mine","amount":"10.00","type":"expense","category":"Food","date":"2024-05-10"},
			{"id":"dup","userEmail":"b@x.com","title":"theirs","amount":"99.00","type":"expense","category":"Food","date":"2024-05-10"}
		]`,
	})
	e := New(salary.New(kv), ledger.New(kv))

	r, err := e.BuildReport(ctx, "a@x.com", date(t, "2024-05-01"), date(t, "2024-05-31"), "")
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if len(r.Entries) != 1 || r.Entries[0].Title != "mine" {
		t.Fatalf("got %v", r.Entries)
	}
}

func TestMonthOverview(t *testing.T) {
	ctx := context.Background()
	e, salaries, transactions := newEngine(t, nil)

	salaries.Set(ctx, "a@x.com", 2024, 5, dec("3000"), salary.Replace)
	transactions.Append(ctx, core.Transaction{
		OwnerEmail: "a@x.com", Title: "Rent", Amount: dec("800"),
		Type: "expense", Category: "Housing", Date: "2024-05-02",
	})
	transactions.Append(ctx, core.Transaction{
		OwnerEmail: "a@x.com", Title: "Food", Amount: dec("100"),
		Type: "expense", Category: "Food", Date: "2024-05-03",
	})
	transactions.Append(ctx, core.Transaction{
		OwnerEmail: "a@x.com", Title: "Bonus", Amount: dec("500"),
		Type: "income", Category: "Work", Date: "2024-05-04",
	})

	o, err := e.MonthOverview(ctx, "a@x.com", 2024, 5)
	if err != nil {
		t.Fatalf("overview: %v", err)
	}
	if !o.Salary.Equal(dec("3000")) {
		t.Fatalf("salary = %s", o.Salary)
	}
	if !o.TotalExpenses.Equal(dec("900")) {
		t.Fatalf("expenses = %s", o.TotalExpenses)
	}
	if !o.Balance.Equal(dec("2100")) {
		t.Fatalf("balance = %s", o.Balance)
	}
	// income transactions don't count here
	if o.Count != 2 {
		t.Fatalf("count = %d", o.Count)
	}
	if o.TopCategory.Name != "Housing" || !o.TopCategory.Amount.Equal(dec("800")) {
		t.Fatalf("top category = %+v", o.TopCategory)
	}
}

func TestMonthOverviewWholeYear(t *testing.T) {
	ctx := context.Background()
	e, salaries, transactions := newEngine(t, nil)

	salaries.Set(ctx, "a@x.com", 2024, 1, dec("1000"), salary.Replace)
	salaries.Set(ctx, "a@x.com", 2024, 7, dec("1500"), salary.Replace)
	transactions.Append(ctx, core.Transaction{
		OwnerEmail: "a@x.com", Title: "Jan", Amount: dec("100"),
		Type: "expense", Category: "Food", Date: "2024-01-15",
	})
	transactions.Append(ctx, core.Transaction{
		OwnerEmail: "a@x.com", Title: "Dec", Amount: dec("50"),
		Type: "expense", Category: "Food", Date: "2024-12-31",
	})
	transactions.Append(ctx, core.Transaction{
		OwnerEmail: "a@x.com", Title: "Other year", Amount: dec("999"),
		Type: "expense", Category: "Food", Date: "2023-12-31",
	})

	o, err := e.MonthOverview(ctx, "a@x.com", 2024, 0)
	if err != nil {
		t.Fatalf("overview: %v", err)
	}
	if !o.Salary.Equal(dec("2500")) {
		t.Fatalf("salary = %s", o.Salary)
	}
	if !o.TotalExpenses.Equal(dec("150")) || o.Count != 2 {
		t.Fatalf("expenses = %s count = %d", o.TotalExpenses, o.Count)
	}
}

func TestMonthOverviewNoExpenses(t *testing.T) {
	ctx := context.Background()
	e, _, _ := newEngine(t, nil)

	o, err := e.MonthOverview(ctx, "a@x.com", 2024, 5)
	if err != nil {
		t.Fatalf("overview: %v", err)
	}
	if o.TopCategory.Name != "No expenses" || !o.TopCategory.Amount.IsZero() {
		t.Fatalf("top category = %+v", o.TopCategory)
	}
}

func TestYearSummary(t *testing.T) {
	ctx := context.Background()
	e, salaries, transactions := newEngine(t, nil)

	salaries.Set(ctx, "a@x.com", 2024, 3, dec("2000"), salary.Replace)
	transactions.Append(ctx, core.Transaction{
		OwnerEmail: "a@x.com", Title: "Food", Amount: dec("300"),
		Type: "expense", Category: "Food", Date: "2024-03-10",
	})

	r, err := e.YearSummary(ctx, "a@x.com", 2024)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if !r.Totals.TotalSalary.Equal(dec("2000")) || !r.Totals.TotalExpenses.Equal(dec("300")) {
		t.Fatalf("totals: %+v", r.Totals)
	}
	if !r.Totals.NetSavings.Equal(dec("1700")) {
		t.Fatalf("netSavings = %s", r.Totals.NetSavings)
	}
}
