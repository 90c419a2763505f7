// Package chart draws statistics as PNG images.
package chart

import (
	"bytes"
	"errors"
	"fmt"

	"pokerlog/internal/format"
	"pokerlog/internal/stats"

	gochart "github.com/wcharczuk/go-chart/v2"
)

// ErrNoData is returned when there is nothing positive to draw.
var ErrNoData = errors.New("no data to plot")

// PieRenderer draws the share of bank each player has won.
type PieRenderer struct {
	Width  int
	Height int
}

func NewPieRenderer() *PieRenderer {
	return &PieRenderer{Width: 800, Height: 800}
}

// BankShares renders one slice per player with a positive total.
func (r *PieRenderer) BankShares(shares []stats.BankShare) ([]byte, error) {
	values := make([]gochart.Value, 0, len(shares))
	for _, s := range shares {
		if !s.Total.IsPositive() {
			continue
		}
		v, _ := s.Total.Float64()
		values = append(values, gochart.Value{
			Value: v,
			Label: fmt.Sprintf("%s (%s)", s.Name, format.Money(s.Total)),
		})
	}
	if len(values) == 0 {
		return nil, ErrNoData
	}

	pie := gochart.PieChart{
		Title:  "Выигранные банки",
		Width:  r.Width,
		Height: r.Height,
		Values: values,
	}
	var buf bytes.Buffer
	if err := pie.Render(gochart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("failed to render pie chart: %w", err)
	}
	return buf.Bytes(), nil
}
