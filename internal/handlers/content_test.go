// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"net/http"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"investpress/internal/cache"
	"investpress/internal/models"
)

func TestListCountries(t *testing.T) {
	h := testRouter(newFakeContent().handler())

	code, body := get(t, h, "/es/countries")
	if code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", code)
	}
	countries := body["countries"].([]any)
	if len(countries) != 1 {
		t.Fatalf("got %d countries, want only the active one", len(countries))
	}
	spain := countries[0].(map[string]any)
	if spain["name"] != "España" || spain["slug"] != "espana" {
		t.Errorf("country: %v", spain)
	}
	alt := spain["alternates"].(map[string]any)
	if alt["en"] != "spain" || alt["es"] != "espana" {
		t.Errorf("alternates: %v", alt)
	}
}

func TestShowCountry(t *testing.T) {
	h := testRouter(newFakeContent().handler())

	code, body := get(t, h, "/en/countries/spain")
	if code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", code)
	}
	if body["country"].(map[string]any)["name"] != "Spain" {
		t.Errorf("country: %v", body["country"])
	}
	if n := len(body["articles"].([]any)); n != 1 {
		t.Errorf("articles: got %d, want only the published one", n)
	}
	if n := len(body["investment_objects"].([]any)); n != 1 {
		t.Errorf("investment_objects: got %d, want 1", n)
	}
}

func TestShowCountry_NotFound(t *testing.T) {
	h := testRouter(newFakeContent().handler())

	tests := []struct {
		name string
		path string
	}{
		{"unknown slug", "/en/countries/narnia"},
		{"inactive country", "/en/countries/atlantis"},
		{"slug from another language", "/en/countries/espana"},
		{"unsupported language", "/de/countries/spain"},
		{"overlong slug", "/en/countries/" + strings.Repeat("a", 256)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, body := get(t, h, tt.path)
			if code != http.StatusNotFound {
				t.Errorf("status: got %d, want 404", code)
			}
			if body["error"] == "" {
				t.Error("expected an error message")
			}
		})
	}
}

func TestShowArticle(t *testing.T) {
	h := testRouter(newFakeContent().handler())

	code, body := get(t, h, "/es/articles/invertir-en-oro")
	if code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", code)
	}
	a := body["article"].(map[string]any)
	if a["title"] != "Invertir en oro" {
		t.Errorf("title: got %v", a["title"])
	}
	// Spanish content is missing, so the default language is used.
	if a["content"] != "Gold body" {
		t.Errorf("content: got %v, want default-language fallback", a["content"])
	}
	if a["content_html"] != "<p>Gold body</p>\n" {
		t.Errorf("content_html: got %q", a["content_html"])
	}
	if a["cover_image"] != "articles/gold.jpg" {
		t.Errorf("cover_image without storage: got %v", a["cover_image"])
	}

	code, _ = get(t, h, "/en/articles/gold-draft")
	if code != http.StatusNotFound {
		t.Errorf("draft: got %d, want 404", code)
	}
}

func TestMediaURLs(t *testing.T) {
	h := newFakeContent().handler()
	h.Media = prefixMedia("https://cdn.example.com")
	r := testRouter(h)

	_, body := get(t, r, "/en/articles/invest-in-gold")
	if got := body["article"].(map[string]any)["cover_image"]; got != "https://cdn.example.com/articles/gold.jpg" {
		t.Errorf("cover_image: got %v", got)
	}

	_, body = get(t, r, "/en/countries/spain")
	obj := body["investment_objects"].([]any)[0].(map[string]any)
	images := obj["images"].([]any)
	if len(images) != 1 || images[0] != "https://cdn.example.com/investments/vault.jpg" {
		t.Errorf("images: got %v", images)
	}
}

func TestShowServiceAndLanding(t *testing.T) {
	h := testRouter(newFakeContent().handler())

	code, body := get(t, h, "/en/services/residency")
	if code != http.StatusOK {
		t.Fatalf("service status: got %d, want 200", code)
	}
	if body["service"].(map[string]any)["title"] != "Residency" {
		t.Errorf("service: %v", body["service"])
	}

	code, body = get(t, h, "/en/landing/golden-visa")
	if code != http.StatusOK {
		t.Fatalf("landing status: got %d, want 200", code)
	}
	if body["landing_page"].(map[string]any)["service_id"] != float64(1) {
		t.Errorf("landing: %v", body["landing_page"])
	}

	// A service has no Spanish slug, so it has no Spanish URL.
	code, _ = get(t, h, "/es/services/residency")
	if code != http.StatusNotFound {
		t.Errorf("es service: got %d, want 404", code)
	}
}

func TestCategoryArticles(t *testing.T) {
	h := testRouter(newFakeContent().handler())

	code, body := get(t, h, "/es/categories/noticias/articles")
	if code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", code)
	}
	if body["category"].(map[string]any)["name"] != "Noticias" {
		t.Errorf("category: %v", body["category"])
	}
	articles := body["articles"].([]any)
	if len(articles) != 1 || articles[0].(map[string]any)["slug"] != "invertir-en-oro" {
		t.Errorf("articles: %v", articles)
	}

	code, _ = get(t, h, "/es/categories/news/articles")
	if code != http.StatusNotFound {
		t.Errorf("english slug under es: got %d, want 404", code)
	}
}

func TestSearch(t *testing.T) {
	h := testRouter(newFakeContent().handler())

	code, body := get(t, h, "/en/search?q=gold")
	if code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", code)
	}
	if n := len(body["articles"].([]any)); n != 1 {
		t.Errorf("articles: got %d, want 1 (drafts excluded)", n)
	}
	if n := len(body["investment_objects"].([]any)); n != 1 {
		t.Errorf("investment_objects: got %d, want 1", n)
	}

	code, _ = get(t, h, "/en/search?q="+strings.Repeat("x", 101))
	if code != http.StatusBadRequest {
		t.Errorf("long query: got %d, want 400", code)
	}
}

func TestSearch_EmptyQueryMatchesNothing(t *testing.T) {
	f := newFakeContent()
	f.err = errStoreDown // the stores must not be queried
	h := testRouter(f.handler())

	for _, path := range []string{"/en/search", "/en/search?q=", "/en/search?q=%20%20"} {
		code, body := get(t, h, path)
		if code != http.StatusOK {
			t.Fatalf("%s: got %d, want 200", path, code)
		}
		if n := len(body["articles"].([]any)); n != 0 {
			t.Errorf("%s: articles = %d, want 0", path, n)
		}
		if n := len(body["investment_objects"].([]any)); n != 0 {
			t.Errorf("%s: investment_objects = %d, want 0", path, n)
		}
	}
}

func TestSearch_SingleCharacter(t *testing.T) {
	h := testRouter(newFakeContent().handler())

	code, body := get(t, h, "/en/search?q=v")
	if code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", code)
	}
	if n := len(body["investment_objects"].([]any)); n != 1 {
		t.Errorf("investment_objects: got %d, want 1", n)
	}
}

func TestHome(t *testing.T) {
	h := testRouter(newFakeContent().handler())

	code, body := get(t, h, "/es/")
	if code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", code)
	}
	if n := len(body["countries"].([]any)); n != 1 {
		t.Errorf("countries: got %d, want the active one", n)
	}
	if n := len(body["featured_objects"].([]any)); n != 1 {
		t.Errorf("featured_objects: got %d, want 1", n)
	}
	latest := body["latest_articles"].([]any)
	if len(latest) != 1 || latest[0].(map[string]any)["slug"] != "invertir-en-oro" {
		t.Errorf("latest_articles: %v", latest)
	}
}

func TestHome_Limits(t *testing.T) {
	f := newFakeContent()
	for i := range 10 {
		f.articles = append(f.articles, &models.Article{ID: int64(10 + i), Title: models.Localized{"en": "Bulletin"}, Publish: true})
		f.objects = append(f.objects, models.InvestmentObject{ID: int64(10 + i), Title: models.Localized{"en": "Plot"}, Active: true})
	}
	h := testRouter(f.handler())

	_, body := get(t, h, "/en/")
	if n := len(body["featured_objects"].([]any)); n != homeObjects {
		t.Errorf("featured_objects: got %d, want %d", n, homeObjects)
	}
	if n := len(body["latest_articles"].([]any)); n != homeArticles {
		t.Errorf("latest_articles: got %d, want %d", n, homeArticles)
	}
}

func TestListServices(t *testing.T) {
	f := newFakeContent()
	f.services = append(f.services, &models.Service{ID: 2, Title: models.Localized{"en": "Retired"}})
	h := testRouter(f.handler())

	code, body := get(t, h, "/en/services")
	if code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", code)
	}
	services := body["services"].([]any)
	if len(services) != 1 || services[0].(map[string]any)["slug"] != "residency" {
		t.Errorf("services: %v", services)
	}
}

func TestShowObject(t *testing.T) {
	f := newFakeContent()
	f.objects = append(f.objects, models.InvestmentObject{ID: 2, Title: models.Localized{"en": "Sold"}, CountryID: 1})
	h := testRouter(f.handler())

	code, body := get(t, h, "/en/objects/1")
	if code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", code)
	}
	obj := body["investment_object"].(map[string]any)
	if obj["title"] != "Gold Bars Vault" || obj["expected_roi"] != "3.10" {
		t.Errorf("investment_object: %v", obj)
	}

	for _, path := range []string{"/en/objects/2", "/en/objects/99", "/en/objects/abc", "/en/objects/0", "/en/objects/-1"} {
		code, _ := get(t, h, path)
		if code != http.StatusNotFound {
			t.Errorf("%s: got %d, want 404", path, code)
		}
	}
}

func TestStoreErrorsAre500(t *testing.T) {
	f := newFakeContent()
	f.err = errStoreDown
	h := testRouter(f.handler())

	for _, path := range []string{
		"/en/countries",
		"/en/countries/spain",
		"/en/articles/invest-in-gold",
		"/en/search?q=gold",
		"/en/",
		"/en/services",
		"/en/objects/1",
	} {
		code, body := get(t, h, path)
		if code != http.StatusInternalServerError {
			t.Errorf("%s: got %d, want 500", path, code)
		}
		if body["error"] != "internal server error" {
			t.Errorf("%s: error %v leaks details", path, body["error"])
		}
	}
}

func TestValidateQuery(t *testing.T) {
	tests := []struct {
		q    string
		want bool
	}{
		{"gold", true},
		{"", true},
		{"  ", true},
		{"é", true},
		{"oro", true},
		{strings.Repeat("ñ", 100), true},
		{strings.Repeat("ñ", 101), false},
	}
	for _, tt := range tests {
		if got := validateQuery(tt.q) == ""; got != tt.want {
			t.Errorf("validateQuery(%q) ok = %v, want %v", tt.q, got, tt.want)
		}
	}
}

// testSlugCache returns a slug cache on Valkey DB 15, skipping the test
// when Valkey is unavailable.
func testSlugCache(t *testing.T) (*cache.SlugCache, *redis.Client) {
	t.Helper()
	host := os.Getenv("VALKEY_HOST")
	if host == "" {
		host = "localhost"
	}
	port := os.Getenv("VALKEY_PORT")
	if port == "" {
		port = "6379"
	}
	client := redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Password: os.Getenv("VALKEY_PASSWORD"),
		DB:       15,
	})
	if err := client.Ping(context.Background()).Err(); err != nil {
		client.Close()
		t.Skipf("skipping integration test: Valkey not reachable: %v", err)
	}
	sc := cache.NewSlugCache(client, time.Minute)
	t.Cleanup(func() {
		sc.InvalidateAll(context.Background())
		client.Close()
	})
	return sc, client
}

func TestShowCountry_CacheHit(t *testing.T) {
	sc, _ := testSlugCache(t)
	f := newFakeContent()
	h := f.handler()
	h.Cache = sc
	r := testRouter(h)

	if code, _ := get(t, r, "/en/countries/spain"); code != http.StatusOK {
		t.Fatalf("first request: got %d", code)
	}
	id, ok := sc.Get(context.Background(), "en", models.TableCountries, "spain")
	if !ok || id != 1 {
		t.Fatalf("cache after miss: id %d ok %v", id, ok)
	}

	if code, _ := get(t, r, "/en/countries/spain"); code != http.StatusOK {
		t.Fatalf("second request: got %d", code)
	}
	if f.byIDHits != 1 {
		t.Errorf("FindByID calls: got %d, want 1 (served through the cache)", f.byIDHits)
	}
}

func TestShowCountry_StaleCacheFallsBack(t *testing.T) {
	sc, _ := testSlugCache(t)
	ctx := context.Background()
	f := newFakeContent()
	h := f.handler()
	h.Cache = sc
	r := testRouter(h)

	// The cached id points at a record that no longer holds the slug.
	sc.Set(ctx, "en", models.TableCountries, "spain", 2)

	code, body := get(t, r, "/en/countries/spain")
	if code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", code)
	}
	if body["country"].(map[string]any)["id"] != float64(1) {
		t.Errorf("country: %v", body["country"])
	}
	if id, _ := sc.Get(ctx, "en", models.TableCountries, "spain"); id != 1 {
		t.Errorf("cache not refreshed: id %d", id)
	}
}
