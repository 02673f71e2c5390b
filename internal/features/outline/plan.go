package outline

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/coursehub/curriculum-server-go/pkg/ordering"
)

// LectureInput is one desired lecture node. A nil ID means "create".
type LectureInput struct {
	ID                         *uuid.UUID `json:"id"`
	Title                      string     `json:"title"`
	Duration                   *int       `json:"duration"`
	VideoURL                   *string    `json:"videoUrl"`
	IsFree                     bool       `json:"isFree"`
	RequiresHomeworkCompletion bool       `json:"requiresHomeworkCompletion"`
}

// SectionInput is one desired section node with its lectures in desired
// order. A nil ID means "create".
type SectionInput struct {
	ID       *uuid.UUID     `json:"id"`
	Title    string         `json:"title"`
	Lectures []LectureInput `json:"lectures"`
}

// plan is the full set of writes a reconciliation will apply: upserts in
// submission order, then deletions derived from the persisted id sets.
type plan struct {
	sectionUpserts   []Section
	lectureUpserts   []Lecture
	deleteSectionIDs []uuid.UUID
	deleteLectureIDs []uuid.UUID
	totalLectures    int
}

// buildPlan validates the desired tree, assigns dense positions, and diffs
// it against the persisted id sets. It performs no I/O.
func buildPlan(courseID uuid.UUID, desired []SectionInput, persisted persistedIDs) (plan, error) {
	if err := validateTree(desired); err != nil {
		return plan{}, err
	}

	p := plan{}
	desiredSectionIDs := map[uuid.UUID]struct{}{}
	desiredLectureIDs := map[uuid.UUID]struct{}{}

	for _, input := range desired {
		sec := Section{
			CourseID: courseID,
			Title:    strings.TrimSpace(input.Title),
		}
		if input.ID != nil {
			sec.ID = *input.ID
		} else {
			sec.ID = uuid.New()
		}
		desiredSectionIDs[sec.ID] = struct{}{}

		for _, lecInput := range input.Lectures {
			lec := Lecture{
				SectionID:                  sec.ID,
				Title:                      strings.TrimSpace(lecInput.Title),
				Duration:                   lecInput.Duration,
				VideoURL:                   lecInput.VideoURL,
				IsFree:                     lecInput.IsFree,
				RequiresHomeworkCompletion: lecInput.RequiresHomeworkCompletion,
			}
			if lecInput.ID != nil {
				lec.ID = *lecInput.ID
			} else {
				lec.ID = uuid.New()
			}
			desiredLectureIDs[lec.ID] = struct{}{}
			p.lectureUpserts = append(p.lectureUpserts, lec)
			p.totalLectures++
		}

		p.sectionUpserts = append(p.sectionUpserts, sec)
	}

	// Dense sibling positions. Sections over the whole course, lectures per
	// owning section.
	ordering.Normalize(p.sectionUpserts, func(s *Section, pos int) { s.Position = pos })
	perSection := map[uuid.UUID]int{}
	for i := range p.lectureUpserts {
		lec := &p.lectureUpserts[i]
		lec.Position = perSection[lec.SectionID]
		perSection[lec.SectionID]++
	}

	for _, sectionID := range persisted.sections {
		if _, kept := desiredSectionIDs[sectionID]; !kept {
			// Cascade removes the section's lectures with it.
			p.deleteSectionIDs = append(p.deleteSectionIDs, sectionID)
			continue
		}
		for _, lectureID := range persisted.lecturesBySection[sectionID] {
			if _, kept := desiredLectureIDs[lectureID]; !kept {
				p.deleteLectureIDs = append(p.deleteLectureIDs, lectureID)
			}
		}
	}

	return p, nil
}

func validateTree(desired []SectionInput) error {
	seenSections := map[uuid.UUID]struct{}{}
	seenLectures := map[uuid.UUID]struct{}{}

	for si, sec := range desired {
		node := fmt.Sprintf("section[%d]", si)

		if strings.TrimSpace(sec.Title) == "" {
			return &ValidationError{Node: node, Reason: "title must not be empty"}
		}

		if sec.ID != nil {
			if _, dup := seenSections[*sec.ID]; dup {
				return &ValidationError{Node: node, Reason: "duplicate section id in submission"}
			}
			seenSections[*sec.ID] = struct{}{}
		}

		for li, lec := range sec.Lectures {
			lectureNode := fmt.Sprintf("%s.lecture[%d]", node, li)

			if strings.TrimSpace(lec.Title) == "" {
				return &ValidationError{Node: lectureNode, Reason: "title must not be empty"}
			}

			if lec.ID != nil {
				if _, dup := seenLectures[*lec.ID]; dup {
					return &ValidationError{Node: lectureNode, Reason: "duplicate lecture id in submission"}
				}
				seenLectures[*lec.ID] = struct{}{}
			}
		}
	}

	return nil
}
