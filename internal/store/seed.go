// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"investpress/internal/models"
	"investpress/internal/slug"
)

// Seed fills an empty database with development content. Every record is
// saved through its store, so slugs are assigned the same way as in
// production. It does nothing when countries already exist.
func Seed(ctx context.Context, db *sql.DB, alloc *slug.Allocator) error {
	var count int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM countries`).Scan(&count); err != nil {
		return fmt.Errorf("count countries: %w", err)
	}
	if count > 0 {
		slog.Info("database already seeded, skipping", "countries", count)
		return nil
	}

	var (
		countries   = NewCountryStore(db, alloc)
		services    = NewServiceStore(db, alloc)
		categories  = NewCategoryStore(db, alloc)
		articles    = NewArticleStore(db, alloc)
		landings    = NewLandingPageStore(db, alloc)
		investments = NewInvestmentStore(db)
	)

	spain := &models.Country{
		Name:   models.Localized{"en": "Spain", "es": "España", "fr": "Espagne"},
		Active: true,
	}
	portugal := &models.Country{
		Name:   models.Localized{"en": "Portugal", "es": "Portugal", "fr": "Portugal"},
		Active: true,
	}
	for _, c := range []*models.Country{spain, portugal} {
		if err := countries.Create(ctx, c); err != nil {
			return fmt.Errorf("seed country: %w", err)
		}
	}

	residency := &models.Service{
		Title: models.Localized{
			"en": "Residency by Investment",
			"es": "Residencia por inversión",
			"fr": "Résidence par investissement",
		},
		Description: models.Localized{
			"en": "Guidance through golden visa programmes.",
			"es": "Asesoramiento en programas de visado de oro.",
		},
		Active: true,
	}
	if err := services.Create(ctx, residency); err != nil {
		return fmt.Errorf("seed service: %w", err)
	}

	market := &models.ArticleCategory{
		Name: models.Localized{"en": "Market News", "es": "Noticias del mercado", "fr": "Actualités du marché"},
	}
	if err := categories.Create(ctx, market); err != nil {
		return fmt.Errorf("seed category: %w", err)
	}

	// Two articles share a title to exercise suffixing.
	seedArticles := []*models.Article{
		{
			Title:      models.Localized{"en": "Invest in Gold", "es": "Invertir en oro", "fr": "Investir dans l'or"},
			Content:    models.Localized{"en": "Why gold still matters.", "es": "Por qué el oro sigue importando."},
			CategoryID: &market.ID,
			CountryID:  &spain.ID,
			Publish:    true,
		},
		{
			Title:      models.Localized{"en": "Invest in Gold", "es": "Invertir en oro en Portugal"},
			Content:    models.Localized{"en": "The Portuguese gold market."},
			CategoryID: &market.ID,
			CountryID:  &portugal.ID,
			Publish:    true,
		},
		{
			Title:     models.Localized{"en": "Property Prices in Lisbon", "fr": "Prix de l'immobilier à Lisbonne"},
			CountryID: &portugal.ID,
			Publish:   true,
		},
	}
	for _, a := range seedArticles {
		if err := articles.Create(ctx, a); err != nil {
			return fmt.Errorf("seed article: %w", err)
		}
	}

	landing := &models.LandingPage{
		Title: models.Localized{
			"en": "Golden Visa Consultation",
			"es": "Consulta sobre el visado de oro",
		},
		Content:   models.Localized{"en": "Book a call with our advisers."},
		ServiceID: &residency.ID,
		Publish:   true,
	}
	if err := landings.Create(ctx, landing); err != nil {
		return fmt.Errorf("seed landing page: %w", err)
	}

	price := "350000.00"
	objects := []*models.InvestmentObject{
		{
			Title:       models.Localized{"en": "Seafront Apartment in Valencia", "es": "Apartamento frente al mar en Valencia"},
			Description: models.Localized{"en": "Two bedrooms, rental licence included."},
			CountryID:   spain.ID,
			Price:       &price,
			ExpectedROI: "6.50",
			Active:      true,
			Images:      models.ImageList{"valencia-1.jpg", "valencia-2.jpg"},
		},
		{
			Title:       models.Localized{"en": "Vineyard Share in the Douro", "fr": "Part de vignoble dans le Douro"},
			CountryID:   portugal.ID,
			ExpectedROI: "4.20",
			Active:      true,
		},
	}
	for _, o := range objects {
		if err := investments.Create(ctx, o); err != nil {
			return fmt.Errorf("seed investment object: %w", err)
		}
	}

	slog.Info("database seeded",
		"countries", 2,
		"articles", len(seedArticles),
		"investment_objects", len(objects),
	)
	return nil
}
