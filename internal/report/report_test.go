package report

import (
	"math"
	"testing"
	"time"

	"github.com/nivke/cartmate/internal/models"
)

func boughtItem(price float64, category string, createdAt time.Time) models.Item {
	return models.Item{
		ID:        "id-" + createdAt.Format(time.RFC3339),
		Name:      "item",
		Category:  category,
		Price:     price,
		Quantity:  1,
		Status:    models.StatusBought,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
}

func TestMonthlySpend(t *testing.T) {
	aug := Month("2026-08")
	inAug := time.Date(2026, 8, 10, 12, 0, 0, 0, time.UTC)
	lastOfJul := time.Date(2026, 7, 31, 23, 59, 59, 0, time.UTC)
	firstOfSep := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	active := boughtItem(99, "ירקות", inAug)
	active.Status = models.StatusActive

	tests := []struct {
		name  string
		items []models.Item
		want  float64
	}{
		{name: "empty list", items: nil, want: 0},
		{
			name: "sums bought items in month",
			items: []models.Item{
				boughtItem(10.5, "מוצרי חלב", inAug),
				boughtItem(20, "ירקות", inAug),
			},
			want: 30.5,
		},
		{
			name: "previous month excluded even when bought",
			items: []models.Item{
				boughtItem(50, "בשר", lastOfJul),
				boughtItem(5, "ירקות", inAug),
			},
			want: 5,
		},
		{
			name:  "next month excluded",
			items: []models.Item{boughtItem(7, "ניקיון", firstOfSep)},
			want:  0,
		},
		{
			name:  "active items never counted",
			items: []models.Item{active},
			want:  0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MonthlySpend(tt.items, aug); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("MonthlySpend = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBudgetProgress(t *testing.T) {
	tests := []struct {
		name        string
		spend, goal float64
		wantRaw     float64
		wantClamped float64
	}{
		{name: "under budget", spend: 500, goal: 1000, wantRaw: 50, wantClamped: 50},
		{name: "over budget clamps to 100", spend: 1500, goal: 1000, wantRaw: 150, wantClamped: 100},
		{name: "exactly on budget", spend: 1000, goal: 1000, wantRaw: 100, wantClamped: 100},
		{name: "zero goal disables", spend: 1500, goal: 0, wantRaw: 0, wantClamped: 0},
		{name: "negative goal disables", spend: 100, goal: -5, wantRaw: 0, wantClamped: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, clamped := BudgetProgress(tt.spend, tt.goal)
			if math.Abs(raw-tt.wantRaw) > 1e-9 {
				t.Errorf("raw = %v, want %v", raw, tt.wantRaw)
			}
			if math.Abs(clamped-tt.wantClamped) > 1e-9 {
				t.Errorf("clamped = %v, want %v", clamped, tt.wantClamped)
			}
		})
	}
}

func TestBuildMonthly(t *testing.T) {
	aug := Month("2026-08")
	d10 := time.Date(2026, 8, 10, 9, 0, 0, 0, time.UTC)
	d21 := time.Date(2026, 8, 21, 18, 30, 0, 0, time.UTC)

	canceled := boughtItem(40, "בשר", d21)
	canceled.Status = models.StatusCanceled

	items := []models.Item{
		boughtItem(12, "מוצרי חלב", d10),
		boughtItem(8, "מוצרי חלב", d10),
		boughtItem(30, "ירקות", d21),
		canceled,
		boughtItem(100, "ירקות", time.Date(2026, 7, 2, 0, 0, 0, 0, time.UTC)), // other month
	}

	r := BuildMonthly(items, aug)

	if r.Month != aug {
		t.Errorf("Month = %s, want %s", r.Month, aug)
	}
	if r.TotalSpent != 50 {
		t.Errorf("TotalSpent = %v, want 50", r.TotalSpent)
	}
	if r.TotalCanceled != 40 {
		t.Errorf("TotalCanceled = %v, want 40", r.TotalCanceled)
	}
	if r.ItemsCount != 3 {
		t.Errorf("ItemsCount = %d, want 3", r.ItemsCount)
	}
	if r.CategoriesBreakdown["מוצרי חלב"] != 20 {
		t.Errorf("CategoriesBreakdown[dairy] = %v, want 20", r.CategoriesBreakdown["מוצרי חלב"])
	}
	if r.CategoriesBreakdown["ירקות"] != 30 {
		t.Errorf("CategoriesBreakdown[vegetables] = %v, want 30", r.CategoriesBreakdown["ירקות"])
	}
	if r.DailyBreakdown[10] != 20 {
		t.Errorf("DailyBreakdown[10] = %v, want 20", r.DailyBreakdown[10])
	}
	if r.DailyBreakdown[21] != 30 {
		t.Errorf("DailyBreakdown[21] = %v, want 30", r.DailyBreakdown[21])
	}
}

func TestCurrentMonth(t *testing.T) {
	// 23:30 on the last day of August in UTC+3 is already September locally,
	// but months are decided in UTC.
	loc := time.FixedZone("IDT", 3*60*60)
	now := time.Date(2026, 9, 1, 1, 30, 0, 0, loc)
	if got := CurrentMonth(now); got != "2026-08" {
		t.Errorf("CurrentMonth = %s, want 2026-08", got)
	}
}
