// Package report derives dashboard and monthly-report figures from the item
// collection. Everything here is a pure function over a snapshot; nothing
// mutates state or touches storage.
package report

import (
	"time"

	"github.com/nivke/cartmate/internal/models"
)

// Month identifies a calendar month as "YYYY-MM", matching the prefix of the
// items' RFC 3339 createdAt timestamps.
type Month string

// monthLayout is the YYYY-MM form of a createdAt timestamp.
const monthLayout = "2006-01"

// CurrentMonth returns the calendar month of now in UTC.
func CurrentMonth(now time.Time) Month {
	return Month(now.UTC().Format(monthLayout))
}

// Contains reports whether t falls inside the month. Membership is decided
// by year-month prefix, so the last instant of the previous month and the
// first of the next are both excluded.
func (m Month) Contains(t time.Time) bool {
	return Month(t.UTC().Format(monthLayout)) == m
}

// MonthlySpend sums the price of items bought during the given month.
// Month membership follows createdAt, not updatedAt: an item added in July
// and marked bought in August still counts toward July.
func MonthlySpend(items []models.Item, month Month) float64 {
	var total float64
	for _, item := range items {
		if item.Status == models.StatusBought && month.Contains(item.CreatedAt) {
			total += item.Price
		}
	}
	return total
}

// BudgetProgress returns the spend as a percentage of the goal. The second
// value is clamped to [0, 100] for progress-bar width; the first is the raw
// figure (150% over budget stays 150%). A zero or negative goal disables
// budget display and yields 0, 0.
func BudgetProgress(spend, goal float64) (raw, clamped float64) {
	if goal <= 0 {
		return 0, 0
	}
	raw = spend / goal * 100
	clamped = raw
	if clamped > 100 {
		clamped = 100
	}
	if clamped < 0 {
		clamped = 0
	}
	return raw, clamped
}

// CategoryBreakdown groups the month's bought spend by category.
func CategoryBreakdown(items []models.Item, month Month) map[string]float64 {
	breakdown := make(map[string]float64)
	for _, item := range items {
		if item.Status == models.StatusBought && month.Contains(item.CreatedAt) {
			breakdown[item.Category] += item.Price
		}
	}
	return breakdown
}

// DailyBreakdown groups the month's bought spend by calendar day of month
// (1..31).
func DailyBreakdown(items []models.Item, month Month) map[int]float64 {
	breakdown := make(map[int]float64)
	for _, item := range items {
		if item.Status == models.StatusBought && month.Contains(item.CreatedAt) {
			breakdown[item.CreatedAt.UTC().Day()] += item.Price
		}
	}
	return breakdown
}

// Monthly is the aggregate the reports view renders for one month.
type Monthly struct {
	// Month is the "YYYY-MM" period the figures cover.
	Month Month `json:"month"`

	// TotalSpent is the sum of bought item prices.
	TotalSpent float64 `json:"totalSpent"`

	// TotalCanceled is the sum of canceled item prices, a measure of
	// avoided spending.
	TotalCanceled float64 `json:"totalCanceled"`

	// ItemsCount is the number of items bought.
	ItemsCount int `json:"itemsCount"`

	// CategoriesBreakdown maps category to bought spend.
	CategoriesBreakdown map[string]float64 `json:"categoriesBreakdown"`

	// DailyBreakdown maps day-of-month to bought spend.
	DailyBreakdown map[int]float64 `json:"dailyBreakdown"`
}

// BuildMonthly assembles the full report for one month in a single pass.
func BuildMonthly(items []models.Item, month Month) Monthly {
	r := Monthly{
		Month:               month,
		CategoriesBreakdown: make(map[string]float64),
		DailyBreakdown:      make(map[int]float64),
	}
	for _, item := range items {
		if !month.Contains(item.CreatedAt) {
			continue
		}
		switch item.Status {
		case models.StatusBought:
			r.TotalSpent += item.Price
			r.ItemsCount++
			r.CategoriesBreakdown[item.Category] += item.Price
			r.DailyBreakdown[item.CreatedAt.UTC().Day()] += item.Price
		case models.StatusCanceled:
			r.TotalCanceled += item.Price
		}
	}
	return r
}
