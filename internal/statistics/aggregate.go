package statistics

import (
	"sort"
	"time"

	"frota/pkg/models"
)

type Summary struct {
	TotalOrders     int     `json:"total_orders"`
	CompletedOrders int     `json:"completed_orders"`
	CompletionRatio float64 `json:"completion_ratio"`
	TotalPartsCost  float64 `json:"total_parts_cost"`
	ExternalCost    float64 `json:"external_cost"`
}

type ProblemCount struct {
	Problem   string    `json:"problem"`
	Count     int       `json:"count"`
	FirstSeen time.Time `json:"first_seen"`
}

type PartTotal struct {
	PartID    int     `json:"part_id"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	TotalCost float64 `json:"total_cost"`
}

type MonthBucket struct {
	Month     string  `json:"month"` // YYYY-MM
	Orders    int     `json:"orders"`
	PartsCost float64 `json:"parts_cost"`
}

// Summarize rolls up order and usage slices already fetched from the
// ledgers. Pure computation, no hidden reads.
func Summarize(orders []models.WorkOrder, usages []models.PartUsage) Summary {
	summary := Summary{TotalOrders: len(orders)}

	for _, order := range orders {
		if order.Status == models.OrderCompleted {
			summary.CompletedOrders++
		}
	}
	if summary.TotalOrders > 0 {
		summary.CompletionRatio = float64(summary.CompletedOrders) / float64(summary.TotalOrders)
	}

	for _, usage := range usages {
		summary.TotalPartsCost += usage.TotalCost()
	}

	return summary
}

// ExternalServicesCost totals the outsourced jobs in the window.
func ExternalServicesCost(services []models.ExternalService) float64 {
	var total float64
	for _, service := range services {
		total += service.Cost
	}
	return total
}

// TopProblems counts reported problems, most frequent first. Ties go to
// the problem seen earliest.
func TopProblems(orders []models.WorkOrder, n int) []ProblemCount {
	byProblem := make(map[string]*ProblemCount)

	for _, order := range orders {
		entry, ok := byProblem[order.ReportedProblem]
		if !ok {
			entry = &ProblemCount{Problem: order.ReportedProblem, FirstSeen: order.EntryAt}
			byProblem[order.ReportedProblem] = entry
		}
		entry.Count++
		if order.EntryAt.Before(entry.FirstSeen) {
			entry.FirstSeen = order.EntryAt
		}
	}

	counts := make([]ProblemCount, 0, len(byProblem))
	for _, entry := range byProblem {
		counts = append(counts, *entry)
	}

	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		return counts[i].FirstSeen.Before(counts[j].FirstSeen)
	})

	if n > 0 && len(counts) > n {
		counts = counts[:n]
	}
	return counts
}

// TopParts ranks parts by consumed quantity; ties go to the lowest part id.
func TopParts(usages []models.PartUsage, n int) []PartTotal {
	byPart := make(map[int]*PartTotal)

	for _, usage := range usages {
		entry, ok := byPart[usage.PartID]
		if !ok {
			entry = &PartTotal{PartID: usage.PartID, Name: usage.PartName}
			byPart[usage.PartID] = entry
		}
		entry.Quantity += usage.Quantity
		entry.TotalCost += usage.TotalCost()
	}

	totals := make([]PartTotal, 0, len(byPart))
	for _, entry := range byPart {
		totals = append(totals, *entry)
	}

	sort.Slice(totals, func(i, j int) bool {
		if totals[i].Quantity != totals[j].Quantity {
			return totals[i].Quantity > totals[j].Quantity
		}
		return totals[i].PartID < totals[j].PartID
	})

	if n > 0 && len(totals) > n {
		totals = totals[:n]
	}
	return totals
}

// MonthlySeries buckets order volume and parts cost by calendar month,
// oldest first.
func MonthlySeries(orders []models.WorkOrder, usages []models.PartUsage) []MonthBucket {
	byMonth := make(map[string]*MonthBucket)

	bucket := func(month string) *MonthBucket {
		entry, ok := byMonth[month]
		if !ok {
			entry = &MonthBucket{Month: month}
			byMonth[month] = entry
		}
		return entry
	}

	for _, order := range orders {
		bucket(order.EntryAt.Format("2006-01")).Orders++
	}
	for _, usage := range usages {
		bucket(usage.UsedAt.Format("2006-01")).PartsCost += usage.TotalCost()
	}

	series := make([]MonthBucket, 0, len(byMonth))
	for _, entry := range byMonth {
		series = append(series, *entry)
	}

	sort.Slice(series, func(i, j int) bool {
		return series[i].Month < series[j].Month
	})

	return series
}
