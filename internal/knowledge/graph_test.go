package knowledge_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sahtein/internal/knowledge"
)

func TestFindDishByVariation(t *testing.T) {
	g := knowledge.NewGraph()

	dish := g.FindDish("houmous")
	require.NotNil(t, dish)
	assert.Equal(t, "hummus", dish.Name)
	assert.Equal(t, knowledge.CategoryMezzeCold, dish.Category)
}

func TestFindDishPartial(t *testing.T) {
	g := knowledge.NewGraph()

	dish := g.FindDish("une recette de kebbeh frite")
	require.NotNil(t, dish)
	assert.Equal(t, "kebbeh", dish.Name)
}

func TestFindDishPartialIsStable(t *testing.T) {
	g := knowledge.NewGraph()

	// "kebbeh kafta" partial-matches two dishes; the first one of the
	// repertoire must win on every lookup.
	for i := 0; i < 50; i++ {
		dish := g.FindDish("kebbeh kafta")
		require.NotNil(t, dish)
		assert.Equal(t, "kebbeh", dish.Name)
	}
}

func TestFindDishUnknown(t *testing.T) {
	g := knowledge.NewGraph()

	assert.Nil(t, g.FindDish("boeuf bourguignon"))
	assert.Nil(t, g.FindDish(""))
}

func TestIsLebaneseDish(t *testing.T) {
	g := knowledge.NewGraph()

	assert.True(t, g.IsLebaneseDish("tabbouleh"))
	assert.True(t, g.IsLebaneseDish("taboulé"))
	assert.False(t, g.IsLebaneseDish("tajine"))
	assert.False(t, g.IsLebaneseDish("pizza"))
}

func TestKeyIngredients(t *testing.T) {
	g := knowledge.NewGraph()

	ingredients := g.KeyIngredients("hummus")
	assert.Contains(t, ingredients, "pois chiches")
	assert.Contains(t, ingredients, "tahini")

	assert.Nil(t, g.KeyIngredients("sushi"))
}

func TestDishesByCategory(t *testing.T) {
	g := knowledge.NewGraph()

	desserts := g.DishesByCategory(knowledge.CategoryDessert)
	assert.Contains(t, desserts, "baklava")
	assert.Contains(t, desserts, "maamoul")
	assert.NotContains(t, desserts, "hummus")
}

func TestDishesByIngredient(t *testing.T) {
	g := knowledge.NewGraph()

	dishes := g.DishesByIngredient("pois chiches")
	assert.Contains(t, dishes, "hummus")
	assert.Contains(t, dishes, "falafel")
}

func TestLenCountsDistinctDishes(t *testing.T) {
	g := knowledge.NewGraph()

	// Variations share one entry.
	assert.Greater(t, g.Len(), 15)
}
