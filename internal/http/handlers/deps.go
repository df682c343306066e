package handlers

import (
	"dressmarket/internal/config"
	"dressmarket/internal/media"
	"dressmarket/internal/repos"
	"dressmarket/internal/services"

	"github.com/jmoiron/sqlx"
)

type Deps struct {
	ShopHandler    *ShopHandler
	DressHandler   *DressHandler
	SearchHandler  *SearchHandler
	SuggestHandler *SuggestHandler
	StockHandler   *StockHandler
	CartHandler    *CartHandler
	ProfileHandler *ProfileHandler
	OwnerHandler   *OwnerHandler

	Suggest *services.SuggestService
}

func NewDeps(db *sqlx.DB, cfg config.Config, auth *services.AuthService) *Deps {
	shopRepo := repos.NewShopRepo(db)
	dressRepo := repos.NewDressRepo(db)
	cartRepo := repos.NewCartRepo(db)
	userRepo := repos.NewUserRepo(db)
	profileRepo := repos.NewProfileRepo(db)

	catalogSvc := services.NewCatalogService(shopRepo, dressRepo)
	stockSvc := services.NewStockService(dressRepo)
	cartSvc := services.NewCartService(cartRepo, dressRepo)
	suggestSvc := services.NewSuggestService(shopRepo, dressRepo)
	profileSvc := services.NewProfileService(profileRepo)
	mediaStore := media.NewStore(cfg.MediaDir)

	return &Deps{
		ShopHandler:    &ShopHandler{Catalog: catalogSvc},
		DressHandler:   &DressHandler{Catalog: catalogSvc, Stock: stockSvc},
		SearchHandler:  &SearchHandler{Catalog: catalogSvc, Sessions: userRepo},
		SuggestHandler: &SuggestHandler{Suggest: suggestSvc},
		StockHandler:   &StockHandler{Stock: stockSvc, Cart: cartSvc},
		CartHandler:    &CartHandler{Cart: cartSvc},
		ProfileHandler: &ProfileHandler{Profile: profileSvc, Media: mediaStore},
		OwnerHandler: &OwnerHandler{
			Shops:   shopRepo,
			Dresses: dressRepo,
			Media:   mediaStore,
			Suggest: suggestSvc,
		},
		Suggest: suggestSvc,
	}
}
