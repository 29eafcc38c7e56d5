package domain

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidationError(t *testing.T) {
	err := fmt.Errorf("create: %w", &ValidationError{Fields: []string{"name", "price"}})
	assert.True(t, IsValidation(err))
	assert.Equal(t, "create: Missing or invalid fields: name, price", err.Error())
	assert.Equal(t, "Cart is empty", NewValidationError("Cart is empty").Error())
	assert.False(t, IsValidation(ErrNotFound))
}

func TestItemPatch(t *testing.T) {
	assert.True(t, ItemPatch{}.Empty())

	name, stock := "Pot", 0
	it := Item{Name: "Kettle", Stock: 3, ImageURLs: []string{"a"}}
	p := ItemPatch{Name: &name, Stock: &stock, ImageURLs: []string{"b", "c"}}
	assert.False(t, p.Empty())
	p.Apply(&it)
	assert.Equal(t, Item{Name: "Pot", Stock: 0, ImageURLs: []string{"b", "c"}}, it)

	assert.Equal(t, 40, Page{Number: 3, Size: 20}.Offset())
}
