package charts

import (
	"bytes"
	"errors"
	"fmt"

	"habitbot/internal/domain"
	"habitbot/internal/service"

	"github.com/wcharczuk/go-chart/v2"
)

// ErrNoData is returned when there is nothing positive to plot
var ErrNoData = errors.New("charts: no data")

const (
	pieWidth  = 960
	pieHeight = 540
)

// CategoryPie renders a PNG pie chart of category totals
func CategoryPie(categories []domain.CategoryTotal) ([]byte, error) {
	var total float64
	for _, c := range categories {
		if c.Total.IsPositive() {
			total += c.Total.InexactFloat64()
		}
	}
	if total == 0 {
		return nil, ErrNoData
	}

	values := make([]chart.Value, 0, len(categories))
	for _, c := range categories {
		if !c.Total.IsPositive() {
			continue
		}
		amount := c.Total.InexactFloat64()
		values = append(values, chart.Value{
			Label: fmt.Sprintf("%s %s (%.1f%%)", c.Category, service.FormatAmount(c.Total), amount/total*100),
			Value: amount,
		})
	}

	pie := chart.PieChart{
		Width:  pieWidth,
		Height: pieHeight,
		Values: values,
		Background: chart.Style{
			Padding: chart.Box{
				Top:    40,
				Left:   40,
				Right:  40,
				Bottom: 40,
			},
			FillColor: chart.ColorWhite,
		},
	}

	buffer := bytes.NewBuffer([]byte{})
	if err := pie.Render(chart.PNG, buffer); err != nil {
		return nil, fmt.Errorf("failed to render category pie: %w", err)
	}

	return buffer.Bytes(), nil
}
