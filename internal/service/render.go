package service

import (
	"fmt"
	"strings"

	"homefinder-be/internal/entity"
)

// RenderListingDocument flattens a listing into the text the vector index
// stores and the chat model reads. Retrieval renders items with this same
// function, so the text a vector was computed from and the text served as
// context never drift apart.
func RenderListingDocument(l *entity.Listing) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Listing %d: %s\n", l.Id, l.Title)
	fmt.Fprintf(&b, "Address: %s, %s %s\n", l.Address, l.District, l.City)
	fmt.Fprintf(&b, "Layout: %d room(s), %d hall(s)\n", l.Rooms, l.Halls)
	fmt.Fprintf(&b, "Area: %.1f sqm\n", l.AreaSqm)
	fmt.Fprintf(&b, "Total price: %d\n", l.TotalPrice)
	fmt.Fprintf(&b, "Unit price: %d per sqm\n", l.UnitPrice)
	if l.Orientation != "" {
		fmt.Fprintf(&b, "Orientation: %s\n", l.Orientation)
	}
	if l.Decoration != "" {
		fmt.Fprintf(&b, "Decoration: %s\n", l.Decoration)
	}
	if l.Floor != "" {
		fmt.Fprintf(&b, "Floor: %s\n", l.Floor)
	}
	if len(l.Tags) > 0 {
		fmt.Fprintf(&b, "Tags: %s\n", strings.Join(l.Tags, ", "))
	}
	if l.Description != "" {
		fmt.Fprintf(&b, "%s\n", l.Description)
	}
	return b.String()
}

// RenderKnowledgeChunk flattens one indexed article chunk for the chat
// context block.
func RenderKnowledgeChunk(e *entity.KnowledgeEmbedding) string {
	return fmt.Sprintf("Reference %d: %s", e.ArticleId, e.Document)
}
