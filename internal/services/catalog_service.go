package services

import (
	"dressmarket/internal/domain"
	"dressmarket/internal/repos"
)

type CatalogService struct {
	Shops   *repos.ShopRepo
	Dresses *repos.DressRepo
}

func NewCatalogService(shops *repos.ShopRepo, dresses *repos.DressRepo) *CatalogService {
	return &CatalogService{Shops: shops, Dresses: dresses}
}

func (s *CatalogService) ListShops() ([]domain.Shop, error) {
	return s.Shops.List()
}

func (s *CatalogService) GetShop(id string) (domain.Shop, error) {
	return s.Shops.Get(id)
}

func (s *CatalogService) ListDressesByShop(shopID string, page, pageSize int) ([]domain.Dress, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 12
	}
	offset := (page - 1) * pageSize
	return s.Dresses.ListByShop(shopID, pageSize, offset)
}

func (s *CatalogService) GetDress(id string) (domain.Dress, error) {
	return s.Dresses.Get(id)
}

func (s *CatalogService) Search(q, category, size, color string, page, pageSize int) ([]domain.DressListing, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 12
	}
	offset := (page - 1) * pageSize
	return s.Dresses.Search(q, category, size, color, pageSize, offset)
}
