package database

import (
	"log"

	"gorm.io/gorm"
)

// Capabilities describes optional parts of the schema, resolved once at startup.
type Capabilities struct {
	Categories bool
}

// ProbeCapabilities checks which optional relations the connected schema has.
// Category support needs both the categories table and its recipe join table.
func ProbeCapabilities(db *gorm.DB) Capabilities {
	m := db.Migrator()
	caps := Capabilities{
		Categories: m.HasTable("categories") && m.HasTable("recipe_categories"),
	}
	log.Printf("schema capabilities: categories=%t", caps.Categories)
	return caps
}
