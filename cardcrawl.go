// Package cardcrawl extracts structured trading-card records from card
// database websites. It recovers a typed card schema from presentation
// markup (the pokemon-card.com detail page) and from the JSON hydration
// payload embedded in server-rendered pages (Gatherer).
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., goquery/, sqlite/, nextjs/).
package cardcrawl
