package handlers

import (
	"github.com/jmoiron/sqlx"

	"menuqr/internal/config"
	"menuqr/internal/repos"
	"menuqr/internal/services"
	"menuqr/internal/storage"
)

type Deps struct {
	StoreRepo *repos.StoreRepo

	StoreHandler    *StoreHandler
	CategoryHandler *CategoryHandler
	MealHandler     *MealHandler
	TableHandler    *TableHandler
	OrderHandler    *OrderHandler
	MenuHandler     *MenuHandler
}

func NewDeps(db *sqlx.DB, cfg config.Config, auth *services.AuthService, files storage.Uploader) *Deps {
	userRepo := repos.NewUserRepo(db)
	storeRepo := repos.NewStoreRepo(db)
	countryRepo := repos.NewCountryRepo(db)
	catRepo := repos.NewCategoryRepo(db)
	mealRepo := repos.NewMealRepo(db)
	attrRepo := repos.NewAttributeRepo(db)
	tableRepo := repos.NewTableRepo(db)
	orderRepo := repos.NewOrderRepo(db)

	registrySvc := &services.RegistryService{
		DB:        db,
		Users:     userRepo,
		Stores:    storeRepo,
		Countries: countryRepo,
		Files:     files,
	}
	catalogSvc := &services.CatalogService{
		Cats:      catRepo,
		Meals:     mealRepo,
		Attrs:     attrRepo,
		Stores:    storeRepo,
		Countries: countryRepo,
		Tables:    tableRepo,
		Orders:    orderRepo,
		Files:     files,
	}
	tableSvc := &services.TableService{
		Tables:  tableRepo,
		Files:   files,
		BaseURL: cfg.BaseURL,
		Timeout: cfg.UploadTimeout,
	}
	orderSvc := &services.OrderService{
		Orders: orderRepo,
		Meals:  mealRepo,
		Attrs:  attrRepo,
		Stores: storeRepo,
	}

	return &Deps{
		StoreRepo:       storeRepo,
		StoreHandler:    &StoreHandler{Registry: registrySvc, Catalog: catalogSvc, Countries: countryRepo},
		CategoryHandler: &CategoryHandler{Catalog: catalogSvc},
		MealHandler:     &MealHandler{Catalog: catalogSvc},
		TableHandler:    &TableHandler{Tables: tableSvc},
		OrderHandler:    &OrderHandler{Orders: orderSvc, Auth: auth},
		MenuHandler:     &MenuHandler{Catalog: catalogSvc},
	}
}
