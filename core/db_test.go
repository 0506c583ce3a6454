package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_DBOrdering_String(t *testing.T) {
	assert.Equal(t, "created_at DESC", DBOrdering{Field: "created_at"}.String())
	assert.Equal(t, "created_at ASC", DBOrdering{Field: "created_at", Ascending: true}.String())
}
