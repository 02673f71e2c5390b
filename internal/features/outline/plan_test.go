package outline

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func idPtr(id uuid.UUID) *uuid.UUID { return &id }

func TestBuildPlanValidation(t *testing.T) {
	courseID := uuid.New()
	dupID := uuid.New()

	tests := []struct {
		name    string
		desired []SectionInput
		node    string
	}{
		{
			name:    "empty section title",
			desired: []SectionInput{{Title: "  "}},
			node:    "section[0]",
		},
		{
			name: "empty lecture title",
			desired: []SectionInput{{
				Title:    "Intro",
				Lectures: []LectureInput{{Title: "L1"}, {Title: ""}},
			}},
			node: "section[0].lecture[1]",
		},
		{
			name: "duplicate section id",
			desired: []SectionInput{
				{ID: idPtr(dupID), Title: "A"},
				{ID: idPtr(dupID), Title: "B"},
			},
			node: "section[1]",
		},
		{
			name: "duplicate lecture id",
			desired: []SectionInput{{
				Title: "Intro",
				Lectures: []LectureInput{
					{ID: idPtr(dupID), Title: "L1"},
					{ID: idPtr(dupID), Title: "L2"},
				},
			}},
			node: "section[0].lecture[1]",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := buildPlan(courseID, tc.desired, persistedIDs{})
			require.Error(t, err)

			ve, ok := err.(*ValidationError)
			require.True(t, ok, "expected ValidationError, got %T", err)
			assert.Equal(t, tc.node, ve.Node)
		})
	}
}

func TestBuildPlanAssignsDensePositions(t *testing.T) {
	courseID := uuid.New()

	desired := []SectionInput{
		{Title: "Basics", Lectures: []LectureInput{{Title: "A"}, {Title: "B"}, {Title: "C"}}},
		{Title: "Advanced", Lectures: []LectureInput{{Title: "D"}}},
	}

	p, err := buildPlan(courseID, desired, persistedIDs{})
	require.NoError(t, err)

	require.Len(t, p.sectionUpserts, 2)
	assert.Equal(t, 0, p.sectionUpserts[0].Position)
	assert.Equal(t, 1, p.sectionUpserts[1].Position)

	require.Len(t, p.lectureUpserts, 4)
	basicsID := p.sectionUpserts[0].ID
	advancedID := p.sectionUpserts[1].ID

	var basicsPositions, advancedPositions []int
	for _, lec := range p.lectureUpserts {
		switch lec.SectionID {
		case basicsID:
			basicsPositions = append(basicsPositions, lec.Position)
		case advancedID:
			advancedPositions = append(advancedPositions, lec.Position)
		}
	}
	assert.Equal(t, []int{0, 1, 2}, basicsPositions)
	assert.Equal(t, []int{0}, advancedPositions)

	assert.Equal(t, 4, p.totalLectures)
	assert.NotEqual(t, uuid.Nil, basicsID)
	for _, lec := range p.lectureUpserts {
		assert.NotEqual(t, uuid.Nil, lec.ID)
	}
}

func TestBuildPlanReorderKeepsIdentity(t *testing.T) {
	courseID := uuid.New()
	sectionA := uuid.New()
	sectionB := uuid.New()

	persisted := persistedIDs{
		sections:          []uuid.UUID{sectionA, sectionB},
		lecturesBySection: map[uuid.UUID][]uuid.UUID{},
	}

	// [A, B] resubmitted as [B, A].
	p, err := buildPlan(courseID, []SectionInput{
		{ID: idPtr(sectionB), Title: "B"},
		{ID: idPtr(sectionA), Title: "A"},
	}, persisted)
	require.NoError(t, err)

	assert.Empty(t, p.deleteSectionIDs)
	assert.Empty(t, p.deleteLectureIDs)

	require.Len(t, p.sectionUpserts, 2)
	assert.Equal(t, sectionB, p.sectionUpserts[0].ID)
	assert.Equal(t, 0, p.sectionUpserts[0].Position)
	assert.Equal(t, sectionA, p.sectionUpserts[1].ID)
	assert.Equal(t, 1, p.sectionUpserts[1].Position)
}

func TestBuildPlanDeletions(t *testing.T) {
	courseID := uuid.New()
	keptSection := uuid.New()
	droppedSection := uuid.New()
	keptLecture := uuid.New()
	droppedLecture := uuid.New()

	persisted := persistedIDs{
		sections: []uuid.UUID{keptSection, droppedSection},
		lecturesBySection: map[uuid.UUID][]uuid.UUID{
			keptSection:    {keptLecture, droppedLecture},
			droppedSection: {uuid.New()},
		},
	}

	p, err := buildPlan(courseID, []SectionInput{
		{ID: idPtr(keptSection), Title: "Kept", Lectures: []LectureInput{
			{ID: idPtr(keptLecture), Title: "Stays"},
		}},
	}, persisted)
	require.NoError(t, err)

	// Dropped section relies on cascade for its lectures.
	assert.Equal(t, []uuid.UUID{droppedSection}, p.deleteSectionIDs)
	assert.Equal(t, []uuid.UUID{droppedLecture}, p.deleteLectureIDs)
}

func TestBuildPlanMovedLectureNotDeleted(t *testing.T) {
	courseID := uuid.New()
	sectionA := uuid.New()
	sectionB := uuid.New()
	moved := uuid.New()

	persisted := persistedIDs{
		sections: []uuid.UUID{sectionA, sectionB},
		lecturesBySection: map[uuid.UUID][]uuid.UUID{
			sectionA: {moved},
		},
	}

	p, err := buildPlan(courseID, []SectionInput{
		{ID: idPtr(sectionA), Title: "A"},
		{ID: idPtr(sectionB), Title: "B", Lectures: []LectureInput{
			{ID: idPtr(moved), Title: "Moved"},
		}},
	}, persisted)
	require.NoError(t, err)

	assert.Empty(t, p.deleteLectureIDs, "moved lecture must be re-parented, not deleted")

	var found *Lecture
	for i := range p.lectureUpserts {
		if p.lectureUpserts[i].ID == moved {
			found = &p.lectureUpserts[i]
		}
	}
	require.NotNil(t, found)
	assert.Equal(t, sectionB, found.SectionID)
	assert.Equal(t, 0, found.Position)
}

func TestBuildPlanEmptyTreeDeletesEverything(t *testing.T) {
	courseID := uuid.New()
	sectionA := uuid.New()
	sectionB := uuid.New()

	persisted := persistedIDs{
		sections: []uuid.UUID{sectionA, sectionB},
		lecturesBySection: map[uuid.UUID][]uuid.UUID{
			sectionA: {uuid.New(), uuid.New()},
		},
	}

	p, err := buildPlan(courseID, nil, persisted)
	require.NoError(t, err)

	assert.ElementsMatch(t, []uuid.UUID{sectionA, sectionB}, p.deleteSectionIDs)
	assert.Empty(t, p.deleteLectureIDs)
	assert.Empty(t, p.sectionUpserts)
	assert.Equal(t, 0, p.totalLectures)
}

func TestBuildPlanIdempotent(t *testing.T) {
	courseID := uuid.New()
	sectionID := uuid.New()
	lectureID := uuid.New()

	desired := []SectionInput{
		{ID: idPtr(sectionID), Title: "Intro", Lectures: []LectureInput{
			{ID: idPtr(lectureID), Title: "Welcome"},
		}},
	}

	persisted := persistedIDs{
		sections:          []uuid.UUID{sectionID},
		lecturesBySection: map[uuid.UUID][]uuid.UUID{sectionID: {lectureID}},
	}

	first, err := buildPlan(courseID, desired, persisted)
	require.NoError(t, err)
	second, err := buildPlan(courseID, desired, persisted)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Empty(t, first.deleteSectionIDs)
	assert.Empty(t, first.deleteLectureIDs)
}
