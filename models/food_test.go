package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeTags(t *testing.T) {
	assert.Equal(t, "spicy,ramen", NormalizeTags(" spicy , ramen "))
	assert.Equal(t, "spicy", NormalizeTags("spicy,Spicy,SPICY"))
	assert.Equal(t, "a,b", NormalizeTags("a,,b,"))
	assert.Equal(t, "", NormalizeTags("  ,  "))
	assert.Equal(t, "", NormalizeTags(""))
}

func TestTagList(t *testing.T) {
	f := Food{Tags: "spicy, ramen ,"}
	assert.Equal(t, []string{"spicy", "ramen"}, f.TagList())

	empty := Food{Tags: "  "}
	assert.Nil(t, empty.TagList())
}
