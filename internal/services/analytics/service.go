package analytics

import (
	"context"
	"errors"
	"fmt"
	"time"

	"karinderya/internal/database"
)

// ErrUnknownRange is returned for a range outside day/week/month.
var ErrUnknownRange = errors.New("unknown analytics range")

// Ranges accepted by Report.
const (
	RangeDay   = "day"
	RangeWeek  = "week"
	RangeMonth = "month"
)

// Summary aggregates order counts and revenue over the reporting window.
type Summary struct {
	TotalOrders       int     `json:"total_orders"`
	TotalRevenue      float64 `json:"total_revenue"`
	AverageOrderValue float64 `json:"average_order_value"`
	CompletedOrders   int     `json:"completed_orders"`
	VoidedOrders      int     `json:"voided_orders"`
}

// TopItem is one row of the top-selling items ranking. Only completed
// orders count toward it.
type TopItem struct {
	Name         string  `json:"name"`
	QuantitySold int     `json:"quantity_sold"`
	TotalRevenue float64 `json:"total_revenue"`
}

// HourBucket is the order count for one hour of the day.
type HourBucket struct {
	Hour       int `json:"hour"`
	OrderCount int `json:"order_count"`
}

// Report is the full analytics payload for one range.
type Report struct {
	Range    string       `json:"range"`
	Since    time.Time    `json:"since"`
	Summary  Summary      `json:"summary"`
	TopItems []TopItem    `json:"top_items"`
	ByHour   []HourBucket `json:"by_hour"`
}

const topItemsLimit = 10

// Service computes sales analytics from the orders table
type Service struct {
	db *database.DB
}

// NewService creates a new analytics service
func NewService(db *database.DB) *Service {
	return &Service{db: db}
}

// Report builds the sales report for a range of "day", "week" or "month".
func (s *Service) Report(ctx context.Context, rng string) (*Report, error) {
	since, err := rangeStart(rng, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	report := &Report{
		Range:    rng,
		Since:    since,
		TopItems: []TopItem{},
		ByHour:   []HourBucket{},
	}

	err = s.db.QueryRow(ctx, database.SalesSummarySQL, since).Scan(
		&report.Summary.TotalOrders,
		&report.Summary.TotalRevenue,
		&report.Summary.AverageOrderValue,
		&report.Summary.CompletedOrders,
		&report.Summary.VoidedOrders)
	if err != nil {
		return nil, fmt.Errorf("failed to query sales summary: %w", err)
	}

	rows, err := s.db.Query(ctx, database.TopSellingItemsSQL, since, topItemsLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to query top items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var item TopItem
		if err := rows.Scan(&item.Name, &item.QuantitySold, &item.TotalRevenue); err != nil {
			return nil, fmt.Errorf("failed to scan top item: %w", err)
		}
		report.TopItems = append(report.TopItems, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	hourRows, err := s.db.Query(ctx, database.HourlyDistributionSQL, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query hourly distribution: %w", err)
	}
	defer hourRows.Close()
	for hourRows.Next() {
		var bucket HourBucket
		if err := hourRows.Scan(&bucket.Hour, &bucket.OrderCount); err != nil {
			return nil, fmt.Errorf("failed to scan hour bucket: %w", err)
		}
		report.ByHour = append(report.ByHour, bucket)
	}
	return report, hourRows.Err()
}

// rangeStart maps a range name to the start of its reporting window.
func rangeStart(rng string, now time.Time) (time.Time, error) {
	switch rng {
	case RangeDay:
		return now.Add(-24 * time.Hour), nil
	case RangeWeek:
		return now.Add(-7 * 24 * time.Hour), nil
	case RangeMonth:
		return now.Add(-30 * 24 * time.Hour), nil
	default:
		return time.Time{}, fmt.Errorf("%w: %q", ErrUnknownRange, rng)
	}
}
