package quiz

import (
	"errors"

	"github.com/kakomon/kakomon-backend/internal/model"
)

// ErrIncompleteYear is returned by Partition when any group range has a
// missing or duplicated question number.
var ErrIncompleteYear = errors.New("year is missing questions for at least one big group")

// GroupDef is one "big question": a contiguous range of question numbers.
type GroupDef struct {
	ID   int `json:"id"`
	From int `json:"from"`
	To   int `json:"to"`
}

// BigGroups covers question numbers 1–60 in ascending id order.
var BigGroups = []GroupDef{
	{ID: 1, From: 1, To: 16},
	{ID: 2, From: 17, To: 20},
	{ID: 3, From: 21, To: 24},
	{ID: 4, From: 25, To: 32},
	{ID: 5, From: 33, To: 48},
	{ID: 6, From: 49, To: 51},
	{ID: 7, From: 52, To: 54},
	{ID: 8, From: 55, To: 57},
	{ID: 9, From: 58, To: 60},
}

// Groups 3 and 6–9 share a figure or a passage, so a session must take each
// of them whole from a single year.
var yearLockedGroups = map[int]bool{3: true, 6: true, 7: true, 8: true, 9: true}

// YearLocked reports whether the group may not be mixed across years.
func (d GroupDef) YearLocked() bool {
	return yearLockedGroups[d.ID]
}

// Contains reports whether n falls inside the group's range.
func (d GroupDef) Contains(n int) bool {
	return n >= d.From && n <= d.To
}

// GroupOf returns the group containing question number n.
func GroupOf(n int) (GroupDef, bool) {
	for _, d := range BigGroups {
		if d.Contains(n) {
			return d, true
		}
	}
	return GroupDef{}, false
}

// Groups maps a group id to its questions in numeric order.
type Groups map[int][]model.Question

// Partition splits one year's questions into big groups. It is all or
// nothing: a single gap or duplicate anywhere fails the whole year.
func Partition(questions []model.Question) (Groups, error) {
	byNum := make(map[int]model.Question, len(questions))
	for _, q := range questions {
		if _, dup := byNum[q.QuestionNumber]; dup {
			if _, ok := GroupOf(q.QuestionNumber); ok {
				return nil, ErrIncompleteYear
			}
		}
		byNum[q.QuestionNumber] = q
	}

	groups := make(Groups, len(BigGroups))
	for _, def := range BigGroups {
		list := make([]model.Question, 0, def.To-def.From+1)
		for n := def.From; n <= def.To; n++ {
			q, ok := byNum[n]
			if !ok {
				return nil, ErrIncompleteYear
			}
			list = append(list, q)
		}
		groups[def.ID] = list
	}
	return groups, nil
}
