//go:build pact
// +build pact

package pacttest

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

const (
	ProviderName = "farmart-api"
	ConsumerName = "farmart-mobile"

	StateBaseline      = "marketplace baseline"
	StateFarmerSession = "farmer session active"
	StateListingExists = "listing with id 301 exists"
	StateListingGone   = "no listing with id 404"
)

const (
	ExistingListingID int64 = 301
	MissingListingID  int64 = 404

	FarmerUsername = "pact-farmer"
	FarmerPassword = "pact-pass-123"
	SessionToken   = "pact-session-token"
)

// PactDir returns the workspace-level directory for generated pact files.
func PactDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "pacts")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact dir: %v", err)
	}
	return dir
}

// PactFile returns the canonical pact file path for the mobile consumer.
func PactFile(t testing.TB) string {
	t.Helper()
	return filepath.Join(PactDir(t), ConsumerName+"-"+ProviderName+".json")
}

// LogDir returns the log output directory for pact-go.
func LogDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "bin", "pact-logs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact log dir: %v", err)
	}
	return dir
}

// ExampleListingPayload provides stable test data for listing interactions.
func ExampleListingPayload() map[string]any {
	return map[string]any{
		"id":          ExistingListingID,
		"farmerId":    int64(10),
		"name":        "Galla Goat",
		"animalType":  "GOAT",
		"breed":       "Galla",
		"ageMonths":   int32(12),
		"priceCents":  int64(800_000),
		"description": "hardy drought-tolerant breed",
		"imageUrls":   []string{"https://cdn.farmart.example/listings/galla.jpg"},
		"quantity":    int64(3),
		"soldOut":     false,
	}
}

// projectRoot walks up from this file to the workspace root.
func projectRoot(t testing.TB) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("cannot determine caller for pact paths")
	}
	return filepath.Clean(filepath.Join(filepath.Dir(file), "..", ".."))
}
