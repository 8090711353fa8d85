//go:build integration

package integration

import (
	"net/http"
	"testing"
)

func TestListProducts(t *testing.T) {
	resp := doGet(t, "/api/products")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	products := decodeJSON[[]productResponse](t, resp)
	if len(products) != 6 {
		t.Fatalf("expected 6 products, got %d", len(products))
	}
}

func TestGetProduct_Fields(t *testing.T) {
	resp := doGet(t, "/api/products/linen-shirt")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	p := decodeJSON[productResponse](t, resp)

	if p.Name != "Linen Shirt" {
		t.Errorf("name: got %q, want %q", p.Name, "Linen Shirt")
	}
	if p.Price != 49.90 {
		t.Errorf("price: got %v, want 49.90", p.Price)
	}
	if p.Category != "apparel" {
		t.Errorf("category: got %q, want %q", p.Category, "apparel")
	}
	if p.Image == "" {
		t.Error("image is empty")
	}
	if len(p.VariantOptions["size"]) == 0 {
		t.Error("variant_options.size is empty")
	}
	if !p.Available {
		t.Error("expected product to be available")
	}
}

func TestGetProduct_NotFound(t *testing.T) {
	resp := doGet(t, "/api/products/no-such-product")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}

	body := decodeJSON[errorResponse](t, resp)
	if body.Message == "" {
		t.Error("expected error message")
	}
}

func TestGetProduct_Unavailable(t *testing.T) {
	resp := doGet(t, "/api/products/retired-poster")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	p := decodeJSON[productResponse](t, resp)
	if p.Available {
		t.Error("expected retired-poster to be unavailable")
	}
}
