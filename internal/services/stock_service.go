package services

import (
	"database/sql"

	"dressmarket/internal/domain"
	"dressmarket/internal/repos"
)

const lowStockThreshold = 5

type StockService struct {
	Dresses *repos.DressRepo
}

func NewStockService(dresses *repos.DressRepo) *StockService {
	return &StockService{Dresses: dresses}
}

// CheckAvailability converts the stock column into the display status the
// dress page polls for.
func (s *StockService) CheckAvailability(dressID string) (domain.Availability, error) {
	stock, err := s.Dresses.Stock(dressID)
	if err != nil {
		if err == sql.ErrNoRows {
			return domain.Availability{Status: "OUT_OF_STOCK", Qty: 0}, nil
		}
		return domain.Availability{}, err
	}
	if !stock.Valid {
		return domain.Availability{Status: "UNTRACKED"}, nil
	}

	qty := int(stock.Int64)
	status := "OUT_OF_STOCK"
	switch {
	case qty >= lowStockThreshold:
		status = "IN_STOCK"
	case qty > 0:
		status = "LOW_STOCK"
	}
	return domain.Availability{Status: status, Qty: qty}, nil
}
