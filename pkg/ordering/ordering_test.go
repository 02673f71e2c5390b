package ordering

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type row struct {
	Name     string
	Position int
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		items []row
		want  []int
	}{
		{name: "empty", items: nil, want: nil},
		{name: "single", items: []row{{Name: "a", Position: 9}}, want: []int{0}},
		{
			name:  "gaps and duplicates collapse",
			items: []row{{Name: "a", Position: 3}, {Name: "b", Position: 3}, {Name: "c", Position: 7}},
			want:  []int{0, 1, 2},
		},
		{
			name:  "order of input is preserved",
			items: []row{{Name: "z", Position: 0}, {Name: "a", Position: 1}},
			want:  []int{0, 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.items, func(r *row, pos int) { r.Position = pos })

			positions := make([]int, 0, len(got))
			for _, r := range got {
				positions = append(positions, r.Position)
			}

			assert.Equal(t, len(tt.items), len(got))
			for i, want := range tt.want {
				assert.Equal(t, want, positions[i])
			}
			assert.True(t, IsDense(positions))
		})
	}
}

func TestNormalizeKeepsNames(t *testing.T) {
	items := []row{{Name: "intro", Position: 5}, {Name: "outro", Position: 1}}
	Normalize(items, func(r *row, pos int) { r.Position = pos })

	assert.Equal(t, "intro", items[0].Name)
	assert.Equal(t, 0, items[0].Position)
	assert.Equal(t, "outro", items[1].Name)
	assert.Equal(t, 1, items[1].Position)
}

func TestSortByPosition(t *testing.T) {
	items := []row{{Name: "c", Position: 2}, {Name: "a", Position: 0}, {Name: "b", Position: 1}}
	SortByPosition(items, func(r row) int { return r.Position })

	assert.Equal(t, []row{{Name: "a", Position: 0}, {Name: "b", Position: 1}, {Name: "c", Position: 2}}, items)
}

func TestSortByPositionStable(t *testing.T) {
	items := []row{{Name: "first", Position: 1}, {Name: "second", Position: 1}, {Name: "head", Position: 0}}
	SortByPosition(items, func(r row) int { return r.Position })

	assert.Equal(t, "head", items[0].Name)
	assert.Equal(t, "first", items[1].Name)
	assert.Equal(t, "second", items[2].Name)
}

func TestIsDense(t *testing.T) {
	tests := []struct {
		name      string
		positions []int
		want      bool
	}{
		{name: "empty", positions: nil, want: true},
		{name: "dense", positions: []int{0, 1, 2}, want: true},
		{name: "gap", positions: []int{0, 2, 3}, want: false},
		{name: "duplicate", positions: []int{0, 1, 1}, want: false},
		{name: "negative", positions: []int{-1, 0, 1}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsDense(tt.positions))
		})
	}
}
