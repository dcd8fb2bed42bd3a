// Package inference wraps the external text/vision inference service used
// for item categorization and barcode identification. Both calls are
// best-effort: every failure surfaces as ErrInference and the caller
// substitutes defaults, so adding an item never blocks on the service.
package inference

import (
	"context"
	"errors"
	"fmt"

	"github.com/nivke/cartmate/internal/models"
)

// ErrInference is the sentinel wrapped by every classification or
// identification failure, including timeouts. Callers match with errors.Is
// and fall back to defaults; the error is never shown as a blocking state.
var ErrInference = errors.New("inference service failure")

// Product is the result of identifying a scanned barcode.
type Product struct {
	Name     string `json:"name"`
	Category string `json:"category"`
}

// Classifier assigns categories to item names and identifies products from
// barcode values.
type Classifier interface {
	// Classify returns a short category label for the item name.
	Classify(ctx context.Context, itemName string) (string, error)

	// IdentifyByBarcode resolves a raw barcode value into a product name
	// and category.
	IdentifyByBarcode(ctx context.Context, barcode string) (Product, error)
}

// FallbackProduct is the generic product used when identification fails:
// a name referencing the raw barcode and the default category.
func FallbackProduct(barcode string) Product {
	return Product{
		Name:     fmt.Sprintf("Barcode %s", barcode),
		Category: models.DefaultCategory,
	}
}

// Disabled is a Classifier used when no API key is configured. It reports
// ErrInference for every call so callers take their normal fallback path.
type Disabled struct{}

// Ensure Disabled implements Classifier
var _ Classifier = Disabled{}

func (Disabled) Classify(context.Context, string) (string, error) {
	return "", fmt.Errorf("%w: classification disabled", ErrInference)
}

func (Disabled) IdentifyByBarcode(context.Context, string) (Product, error) {
	return Product{}, fmt.Errorf("%w: identification disabled", ErrInference)
}
