package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWhereBuilder(t *testing.T) {
	w := NewWhere(int64(7))
	w.Raw("c.user_id = $1")
	w.Add("ci.product_id = $%d", int64(3))
	w.Add("ci.quantity >= $%d", 2)

	assert.Equal(t, " WHERE c.user_id = $1 AND ci.product_id = $2 AND ci.quantity >= $3", w.SQL())
	assert.Equal(t, []any{int64(7), int64(3), 2}, w.Args())
}

func TestWhereEmpty(t *testing.T) {
	w := NewWhere()
	assert.Equal(t, "", w.SQL())
	assert.Empty(t, w.Args())
}

func TestContainsEscapesWildcards(t *testing.T) {
	assert.Equal(t, "%mug%", Contains("mug"))
	assert.Equal(t, `%50\%\_off%`, Contains("50%_off"))
}
