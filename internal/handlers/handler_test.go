// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides in-memory finders and a test router for the
// content handler tests.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"investpress/internal/middleware"
	"investpress/internal/models"
)

var errStoreDown = errors.New("store down")

// fakeContent holds every record type in memory. Slug lookups match the
// slug map exactly, the way the stores do.
type fakeContent struct {
	countries  []*models.Country
	services   []*models.Service
	categories []*models.ArticleCategory
	articles   []*models.Article
	landings   []*models.LandingPage
	objects    []models.InvestmentObject

	err      error
	byIDHits int
}

func findByID[E interface{ SlugOwnerID() int64 }](items []E, id int64) E {
	var zero E
	for _, e := range items {
		if e.SlugOwnerID() == id {
			return e
		}
	}
	return zero
}

func findBySlug[E interface{ FieldValue(string, string) string }](items []E, lang, value string) E {
	var zero E
	for _, e := range items {
		if e.FieldValue(models.FieldSlug, lang) == value {
			return e
		}
	}
	return zero
}

type fakeCountries struct{ *fakeContent }

func (f fakeCountries) FindByID(_ context.Context, id int64) (*models.Country, error) {
	f.byIDHits++
	return findByID(f.countries, id), f.err
}

func (f fakeCountries) FindBySlug(_ context.Context, lang, value string) (*models.Country, error) {
	c := findBySlug(f.countries, lang, value)
	if c != nil && !c.Active {
		c = nil
	}
	return c, f.err
}

func (f fakeCountries) ListActive(context.Context) ([]models.Country, error) {
	var out []models.Country
	for _, c := range f.countries {
		if c.Active {
			out = append(out, *c)
		}
	}
	return out, f.err
}

type fakeServices struct{ *fakeContent }

func (f fakeServices) FindByID(_ context.Context, id int64) (*models.Service, error) {
	return findByID(f.services, id), f.err
}

func (f fakeServices) FindBySlug(_ context.Context, lang, value string) (*models.Service, error) {
	s := findBySlug(f.services, lang, value)
	if s != nil && !s.Active {
		s = nil
	}
	return s, f.err
}

func (f fakeServices) ListActive(context.Context) ([]models.Service, error) {
	var out []models.Service
	for _, s := range f.services {
		if s.Active {
			out = append(out, *s)
		}
	}
	return out, f.err
}

type fakeCategories struct{ *fakeContent }

func (f fakeCategories) FindByID(_ context.Context, id int64) (*models.ArticleCategory, error) {
	return findByID(f.categories, id), f.err
}

func (f fakeCategories) FindBySlug(_ context.Context, lang, value string) (*models.ArticleCategory, error) {
	return findBySlug(f.categories, lang, value), f.err
}

type fakeArticles struct{ *fakeContent }

func (f fakeArticles) FindByID(_ context.Context, id int64) (*models.Article, error) {
	return findByID(f.articles, id), f.err
}

func (f fakeArticles) FindBySlug(_ context.Context, lang, value string) (*models.Article, error) {
	a := findBySlug(f.articles, lang, value)
	if a != nil && !a.Publish {
		a = nil
	}
	return a, f.err
}

func (f fakeArticles) ListPublished(_ context.Context, limit int) ([]models.Article, error) {
	var out []models.Article
	for _, a := range f.articles {
		if a.Publish && len(out) < limit {
			out = append(out, *a)
		}
	}
	return out, f.err
}

func (f fakeArticles) ListByCountry(_ context.Context, countryID int64) ([]models.Article, error) {
	var out []models.Article
	for _, a := range f.articles {
		if a.Publish && a.CountryID != nil && *a.CountryID == countryID {
			out = append(out, *a)
		}
	}
	return out, f.err
}

func (f fakeArticles) ListByCategorySlug(_ context.Context, lang, value string) ([]models.Article, error) {
	c := findBySlug(f.categories, lang, value)
	var out []models.Article
	for _, a := range f.articles {
		if c != nil && a.Publish && a.CategoryID != nil && *a.CategoryID == c.ID {
			out = append(out, *a)
		}
	}
	return out, f.err
}

func (f fakeArticles) Search(_ context.Context, lang, q string, limit int) ([]models.Article, error) {
	var out []models.Article
	for _, a := range f.articles {
		if a.Publish && strings.Contains(strings.ToLower(a.Title.Get(lang)), strings.ToLower(q)) {
			out = append(out, *a)
		}
	}
	return out, f.err
}

type fakeLandings struct{ *fakeContent }

func (f fakeLandings) FindByID(_ context.Context, id int64) (*models.LandingPage, error) {
	return findByID(f.landings, id), f.err
}

func (f fakeLandings) FindBySlug(_ context.Context, lang, value string) (*models.LandingPage, error) {
	p := findBySlug(f.landings, lang, value)
	if p != nil && !p.Publish {
		p = nil
	}
	return p, f.err
}

type fakeInvestments struct{ *fakeContent }

func (f fakeInvestments) FindByID(_ context.Context, id int64) (*models.InvestmentObject, error) {
	for i := range f.objects {
		if f.objects[i].ID == id {
			o := f.objects[i]
			return &o, f.err
		}
	}
	return nil, f.err
}

func (f fakeInvestments) ListActive(_ context.Context, limit int) ([]models.InvestmentObject, error) {
	var out []models.InvestmentObject
	for _, o := range f.objects {
		if o.Active && len(out) < limit {
			out = append(out, o)
		}
	}
	return out, f.err
}

func (f fakeInvestments) ListByCountry(_ context.Context, countryID int64) ([]models.InvestmentObject, error) {
	var out []models.InvestmentObject
	for _, o := range f.objects {
		if o.Active && o.CountryID == countryID {
			out = append(out, o)
		}
	}
	return out, f.err
}

func (f fakeInvestments) Search(_ context.Context, lang, q string, limit int) ([]models.InvestmentObject, error) {
	var out []models.InvestmentObject
	for _, o := range f.objects {
		if o.Active && strings.Contains(strings.ToLower(o.Title.Get(lang)), strings.ToLower(q)) {
			out = append(out, o)
		}
	}
	return out, f.err
}

func ptr[T any](v T) *T { return &v }

// newFakeContent returns a small multi-language site.
func newFakeContent() *fakeContent {
	return &fakeContent{
		countries: []*models.Country{
			{ID: 1, Name: models.Localized{"en": "Spain", "es": "España"}, Slug: models.Localized{"en": "spain", "es": "espana"}, Active: true},
			{ID: 2, Name: models.Localized{"en": "Atlantis"}, Slug: models.Localized{"en": "atlantis"}},
		},
		services: []*models.Service{
			{ID: 1, Title: models.Localized{"en": "Residency"}, Slug: models.Localized{"en": "residency"}, Active: true},
		},
		categories: []*models.ArticleCategory{
			{ID: 1, Name: models.Localized{"en": "News", "es": "Noticias"}, Slug: models.Localized{"en": "news", "es": "noticias"}},
		},
		articles: []*models.Article{
			{
				ID:         1,
				Title:      models.Localized{"en": "Invest in Gold", "es": "Invertir en oro"},
				Content:    models.Localized{"en": "Gold body"},
				Slug:       models.Localized{"en": "invest-in-gold", "es": "invertir-en-oro"},
				CountryID:  ptr(int64(1)),
				CategoryID: ptr(int64(1)),
				Publish:    true,
				CoverImage: ptr("articles/gold.jpg"),
			},
			{
				ID:        2,
				Title:     models.Localized{"en": "Gold Draft"},
				Slug:      models.Localized{"en": "gold-draft"},
				CountryID: ptr(int64(1)),
			},
		},
		landings: []*models.LandingPage{
			{ID: 1, Title: models.Localized{"en": "Golden Visa"}, Slug: models.Localized{"en": "golden-visa"}, ServiceID: ptr(int64(1)), Publish: true},
		},
		objects: []models.InvestmentObject{
			{
				ID:          1,
				Title:       models.Localized{"en": "Gold Bars Vault"},
				CountryID:   1,
				ExpectedROI: "3.10",
				Active:      true,
				Images:      models.ImageList{"investments/vault.jpg"},
			},
		},
	}
}

func (f *fakeContent) handler() *Content {
	return &Content{
		Countries:       fakeCountries{f},
		Services:        fakeServices{f},
		Categories:      fakeCategories{f},
		Articles:        fakeArticles{f},
		Landings:        fakeLandings{f},
		Investments:     fakeInvestments{f},
		DefaultLanguage: "en",
	}
}

// prefixMedia resolves media keys against a fixed base URL.
type prefixMedia string

func (p prefixMedia) FileURL(key string) string { return string(p) + "/" + key }

// testRouter mounts h the way the application router does.
func testRouter(h *Content) http.Handler {
	r := chi.NewRouter()
	r.Route("/{lang}", func(r chi.Router) {
		r.Use(middleware.Language([]string{"en", "es"}))
		r.Get("/", h.Home)
		r.Get("/countries", h.ListCountries)
		r.Get("/countries/{slug}", h.ShowCountry)
		r.Get("/services", h.ListServices)
		r.Get("/services/{slug}", h.ShowService)
		r.Get("/objects/{id}", h.ShowObject)
		r.Get("/articles/{slug}", h.ShowArticle)
		r.Get("/landing/{slug}", h.ShowLanding)
		r.Get("/categories/{slug}/articles", h.CategoryArticles)
		r.Get("/search", h.Search)
	})
	return r
}

// get performs a request and decodes the JSON body.
func get(t *testing.T, h http.Handler, path string) (int, map[string]any) {
	t.Helper()
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))

	var body map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("GET %s: body is not JSON: %v (%q)", path, err, rr.Body.String())
	}
	return rr.Code, body
}
