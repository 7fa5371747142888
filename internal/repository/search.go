package repository

import (
	"strings"

	"sideeffect/internal/models"

	"gorm.io/gorm"
)

// RecruitSearch is the criteria of one recruit board page.
type RecruitSearch struct {
	LastID     *uint
	Keyword    string
	StackTypes []models.StackType
	PageSize   int
}

type predicate struct {
	query string
	args  []any
}

// recruitQuery is the rendered form of a RecruitSearch: joins and predicates in
// the order they are applied, each present only when its input was given.
type recruitQuery struct {
	joins      []string
	predicates []predicate
	distinct   bool
	limit      int
}

func buildRecruitQuery(s RecruitSearch) recruitQuery {
	q := recruitQuery{limit: s.PageSize}

	if s.LastID != nil {
		q.predicates = append(q.predicates, predicate{"recruit_boards.id < ?", []any{*s.LastID}})
	}

	if len(s.StackTypes) > 0 {
		q.joins = append(q.joins, "JOIN board_stacks ON board_stacks.recruit_board_id = recruit_boards.id")
		q.predicates = append(q.predicates, predicate{"board_stacks.stack_type IN ?", []any{s.StackTypes}})
		q.distinct = true
	}

	if strings.TrimSpace(s.Keyword) != "" {
		like := "%" + s.Keyword + "%"
		q.predicates = append(q.predicates, predicate{
			"(recruit_boards.title LIKE ? OR recruit_boards.contents LIKE ?)", []any{like, like},
		})
	}
	return q
}

func (q recruitQuery) apply(db *gorm.DB) *gorm.DB {
	db = db.Model(&models.RecruitBoard{})
	if q.distinct {
		db = db.Distinct("recruit_boards.*")
	}
	for _, j := range q.joins {
		db = db.Joins(j)
	}
	for _, p := range q.predicates {
		db = db.Where(p.query, p.args...)
	}
	return db.Order("recruit_boards.id DESC").Limit(q.limit)
}
