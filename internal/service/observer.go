package service

import "localshop/internal/domain"

// Observer is notified after business events are persisted
type Observer interface {
	SaleRecorded(sale *domain.Sale)
	OrderSaved(order *domain.Order, created bool)
}

// NopObserver discards every event
type NopObserver struct{}

func (NopObserver) SaleRecorded(*domain.Sale)      {}
func (NopObserver) OrderSaved(*domain.Order, bool) {}
