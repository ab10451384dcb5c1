package aggregate

import (
	"sort"
	"time"

	"github.com/okian/salesboard/internal/domain/model"
	"github.com/okian/salesboard/internal/domain/window"
)

// MonthLabelLayout renders month buckets as short month + 2-digit year.
const MonthLabelLayout = "Jan 06"

// UnknownProduct groups sales without a product.
const UnknownProduct = "Unknown"

// Series is chart data: parallel labels and values.
type Series struct {
	Labels []string  `json:"labels"`
	Data   []float64 `json:"data"`
}

// Total sums the series values.
func (s Series) Total() float64 {
	var t float64
	for _, v := range s.Data {
		t += v
	}
	return t
}

// Funnel sums deal amounts into the fixed stage buckets. Deals with any other
// stage label are left out.
func Funnel(deals []model.PipelineDeal) Series {
	idx := make(map[string]int, len(model.FunnelStages))
	s := Series{
		Labels: append([]string(nil), model.FunnelStages...),
		Data:   make([]float64, len(model.FunnelStages)),
	}
	for i, stage := range model.FunnelStages {
		idx[stage] = i
	}
	for _, d := range deals {
		if i, ok := idx[d.Stage]; ok {
			s.Data[i] += d.Amount
		}
	}
	return s
}

// DealsOf keeps the deals owned by email (normalized).
func DealsOf(deals []model.PipelineDeal, email string) []model.PipelineDeal {
	out := make([]model.PipelineDeal, 0)
	for _, d := range deals {
		if window.SameEmail(d.AgentEmail, email) {
			out = append(out, d)
		}
	}
	return out
}

// ByProduct sums revenue per product in first-seen order.
func ByProduct(sales []model.SaleRecord) Series {
	return group(sales, func(s model.SaleRecord) string {
		if s.Product == "" {
			return UnknownProduct
		}
		return s.Product
	})
}

func group(sales []model.SaleRecord, key func(model.SaleRecord) string) Series {
	idx := make(map[string]int)
	var s Series
	for _, sale := range sales {
		k := key(sale)
		i, ok := idx[k]
		if !ok {
			i = len(s.Labels)
			idx[k] = i
			s.Labels = append(s.Labels, k)
			s.Data = append(s.Data, 0)
		}
		s.Data[i] += sale.Revenue
	}
	if s.Labels == nil {
		s = Series{Labels: []string{}, Data: []float64{}}
	}
	return s
}

// ByMonth sums revenue per calendar month of loc, ordered chronologically by
// the first day of each month. Sales with invalid dates are left out.
func ByMonth(sales []model.SaleRecord, loc *time.Location) Series {
	if loc == nil {
		loc = time.Local
	}
	sums := make(map[time.Time]float64)
	for _, s := range sales {
		if s.Date.IsZero() {
			continue
		}
		sums[firstOfMonth(s.Date.In(loc))] += s.Revenue
	}
	months := make([]time.Time, 0, len(sums))
	for m := range sums {
		months = append(months, m)
	}
	sort.Slice(months, func(i, j int) bool { return months[i].Before(months[j]) })

	out := Series{Labels: make([]string, len(months)), Data: make([]float64, len(months))}
	for i, m := range months {
		out.Labels[i] = m.Format(MonthLabelLayout)
		out.Data[i] = sums[m]
	}
	return out
}

// Trend is the trailing revenue trend: one bucket per month for the last n
// months including the current one, empty months included as 0.
func Trend(sales []model.SaleRecord, w window.Windows, n int) Series {
	if n <= 0 {
		return Series{Labels: []string{}, Data: []float64{}}
	}
	start := w.MonthsBack(n - 1)
	out := Series{Labels: make([]string, n), Data: make([]float64, n)}
	idx := make(map[string]int, n)
	for i := 0; i < n; i++ {
		label := start.AddDate(0, i, 0).Format(MonthLabelLayout)
		idx[label] = i
		out.Labels[i] = label
	}

	recent := make([]model.SaleRecord, 0, len(sales))
	for _, s := range sales {
		if w.Since(start, s.Date) {
			recent = append(recent, s)
		}
	}
	months := ByMonth(recent, w.Now.Location())
	for i, label := range months.Labels {
		if j, ok := idx[label]; ok {
			out.Data[j] += months.Data[i]
		}
	}
	return out
}

func firstOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}
