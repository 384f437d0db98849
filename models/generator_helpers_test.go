package models_test

import (
	"gorm.io/gorm"

	"github.com/italianshoes/catalog/app/variants"
	"github.com/italianshoes/catalog/models"
)

func newGenerator(db *gorm.DB) *variants.Generator {
	return variants.NewGenerator(models.NewVariantsRepository(db))
}

func generateRequest(product string) variants.Request {
	return variants.Request{ProductID: product, OptionCodes: []string{"size", "color"}, SKUPrefix: "OXF"}
}
