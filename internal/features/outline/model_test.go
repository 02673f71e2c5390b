package outline

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/schema"
)

func parseRelation(t *testing.T, model interface{}, name string) *schema.Relationship {
	t.Helper()
	s, err := schema.Parse(model, &sync.Map{}, schema.NamingStrategy{})
	require.NoError(t, err)
	rel, ok := s.Relationships.Relations[name]
	require.True(t, ok, "relation %s not declared", name)
	return rel
}

func assertCascade(t *testing.T, rel *schema.Relationship) {
	t.Helper()
	constraint := rel.ParseConstraint()
	require.NotNil(t, constraint, "relation %s carries no foreign key constraint", rel.Name)
	assert.Equal(t, "CASCADE", constraint.OnDelete)
}

// Deleting a course must remove its sections, lectures, and every progress
// and homework row hanging off those lectures, without application-side
// bookkeeping.
func TestOwnershipCascades(t *testing.T) {
	assertCascade(t, parseRelation(t, &Section{}, "Course"))
	assertCascade(t, parseRelation(t, &Section{}, "Lectures"))
	assertCascade(t, parseRelation(t, &Lecture{}, "Progress"))
	assertCascade(t, parseRelation(t, &Lecture{}, "Homework"))
}
