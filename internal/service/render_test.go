package service

import (
	"strings"
	"testing"

	"homefinder-be/internal/entity"
)

func TestRenderListingDocument(t *testing.T) {
	l := &entity.Listing{
		Id:          42,
		Title:       "Bright two-bedroom near Riverside Park",
		Address:     "12 Elm Street",
		City:        "Springfield",
		District:    "Riverside",
		Rooms:       2,
		Halls:       1,
		AreaSqm:     78.5,
		TotalPrice:  315000,
		UnitPrice:   4012,
		Orientation: "south",
		Tags:        []string{"park", "renovated"},
		Description: "Quiet block, morning light.",
	}

	doc := RenderListingDocument(l)

	for _, want := range []string{
		"Listing 42: Bright two-bedroom near Riverside Park",
		"Address: 12 Elm Street, Riverside Springfield",
		"Layout: 2 room(s), 1 hall(s)",
		"Area: 78.5 sqm",
		"Total price: 315000",
		"Unit price: 4012 per sqm",
		"Orientation: south",
		"Tags: park, renovated",
		"Quiet block, morning light.",
	} {
		if !strings.Contains(doc, want) {
			t.Errorf("document missing %q:\n%s", want, doc)
		}
	}
}

func TestRenderListingDocumentOmitsEmptyFields(t *testing.T) {
	l := &entity.Listing{Id: 1, Title: "Bare", Address: "A", City: "C"}

	doc := RenderListingDocument(l)

	for _, unwanted := range []string{"Orientation:", "Decoration:", "Floor:", "Tags:"} {
		if strings.Contains(doc, unwanted) {
			t.Errorf("document contains %q for a listing without that field:\n%s", unwanted, doc)
		}
	}
}

func TestRenderKnowledgeChunk(t *testing.T) {
	e := &entity.KnowledgeEmbedding{Id: 9, ArticleId: 3, Document: "Transfer tax is assessed on the sale price."}

	got := RenderKnowledgeChunk(e)
	want := "Reference 3: Transfer tax is assessed on the sale price."
	if got != want {
		t.Errorf("RenderKnowledgeChunk = %q, want %q", got, want)
	}
}

func TestUnitPrice(t *testing.T) {
	if got := unitPrice(315000, 78.5); got != 4012 {
		t.Errorf("unitPrice(315000, 78.5) = %d, want 4012", got)
	}
	if got := unitPrice(100000, 0); got != 0 {
		t.Errorf("unitPrice with zero area = %d, want 0", got)
	}
}
