// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "investpress/internal/slug"

// Field names shared by the records and the slug configuration table.
const (
	FieldName        = "name"
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldContent     = "content"
	FieldSlug        = "slug"
)

// Table names. They scope slug uniqueness.
const (
	TableCountries         = "countries"
	TableServices          = "services"
	TableArticleCategories = "article_categories"
	TableArticles          = "articles"
	TableLandingPages      = "landing_pages"
	TableInvestmentObjects = "investment_objects"
)

// Slug configuration of each sluggable record type. Every model derives
// its per-language slug from one source field.
var (
	// CountryModel derives country slugs from the name.
	CountryModel = slug.Model{
		Name:   "country",
		Table:  TableCountries,
		Fields: []slug.FieldPair{{Source: FieldName, Slug: FieldSlug}},
	}
	// ServiceModel derives service slugs from the title.
	ServiceModel = slug.Model{
		Name:   "service",
		Table:  TableServices,
		Fields: []slug.FieldPair{{Source: FieldTitle, Slug: FieldSlug}},
	}
	// ArticleCategoryModel derives category slugs from the name.
	ArticleCategoryModel = slug.Model{
		Name:   "article_category",
		Table:  TableArticleCategories,
		Fields: []slug.FieldPair{{Source: FieldName, Slug: FieldSlug}},
	}
	// ArticleModel derives article slugs from the title.
	ArticleModel = slug.Model{
		Name:   "article",
		Table:  TableArticles,
		Fields: []slug.FieldPair{{Source: FieldTitle, Slug: FieldSlug}},
	}
	// LandingPageModel derives landing page slugs from the title.
	LandingPageModel = slug.Model{
		Name:   "landing_page",
		Table:  TableLandingPages,
		Fields: []slug.FieldPair{{Source: FieldTitle, Slug: FieldSlug}},
	}
)

// SlugModels returns the sluggable record types in repair order.
func SlugModels() []slug.Model {
	return []slug.Model{CountryModel, ServiceModel, ArticleCategoryModel, ArticleModel, LandingPageModel}
}
