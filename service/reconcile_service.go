package service

import (
	"fmt"
	"log"

	"github.com/mosakai/sns-sdk/models"
)

// ReconcileService 计数对账
// 冗余计数的主保障是“边/内容变更 + 计数调整同事务”；这里是兜底的批量对账：
// 把存量计数和活跃边的 COUNT 逐行比对，记录偏差，可选原地修复。
// 适合作为低峰期的定期巡检任务由调用方触发，SDK 内部不起后台调度。
type ReconcileService struct{ *Service }

func NewReconcileService(s *Service) *ReconcileService { return &ReconcileService{Service: s} }

// CounterDivergence 一条计数偏差记录
type CounterDivergence struct {
	Entity string `json:"entity"` // user/post/comment
	ID     uint64 `json:"id"`
	Column string `json:"column"`
	Stored int64  `json:"stored"`
	Actual int64  `json:"actual"`
}

type reconcileRow struct {
	ID     uint64
	Stored int64
	Actual int64
}

// counterAudit 一项对账规则：countExpr 是以 t 为外层行的相关子查询。
type counterAudit struct {
	entity    string
	table     string
	column    string
	countExpr string
}

func (s *ReconcileService) audits() []counterAudit {
	var (
		userTbl    = models.User{}.TableName()
		followTbl  = models.Follow{}.TableName()
		likeTbl    = models.Like{}.TableName()
		postTbl    = models.Post{}.TableName()
		commentTbl = models.Comment{}.TableName()
	)
	return []counterAudit{
		{"user", userTbl, "followers_count",
			fmt.Sprintf("SELECT COUNT(*) FROM %s e WHERE e.following_id = t.id AND e.status = %d", followTbl, models.EdgeStatusActive)},
		{"user", userTbl, "following_count",
			fmt.Sprintf("SELECT COUNT(*) FROM %s e WHERE e.follower_id = t.id AND e.status = %d", followTbl, models.EdgeStatusActive)},
		{"user", userTbl, "posts_count",
			fmt.Sprintf("SELECT COUNT(*) FROM %s p WHERE p.user_id = t.id AND p.status <> %d", postTbl, models.ContentStatusDeleted)},
		{"post", postTbl, "like_count",
			fmt.Sprintf("SELECT COUNT(*) FROM %s e WHERE e.target_id = t.id AND e.target_type = '%s' AND e.status = %d",
				likeTbl, models.LikeTargetPost, models.EdgeStatusActive)},
		{"post", postTbl, "comment_count",
			fmt.Sprintf("SELECT COUNT(*) FROM %s c WHERE c.post_id = t.id AND c.status <> %d", commentTbl, models.ContentStatusDeleted)},
		{"comment", commentTbl, "like_count",
			fmt.Sprintf("SELECT COUNT(*) FROM %s e WHERE e.target_id = t.id AND e.target_type = '%s' AND e.status = %d",
				likeTbl, models.LikeTargetComment, models.EdgeStatusActive)},
		{"comment", commentTbl, "reply_count",
			fmt.Sprintf("SELECT COUNT(*) FROM %s c WHERE c.parent_id = t.id AND c.status <> %d", commentTbl, models.ContentStatusDeleted)},
	}
}

// Run 执行全量对账，返回发现的偏差；repair 为 true 时原地修复。
func (s *ReconcileService) Run(repair bool) ([]CounterDivergence, error) {
	var out []CounterDivergence
	for _, a := range s.audits() {
		divs, err := s.runOne(a, repair)
		if err != nil {
			return out, fmt.Errorf("对账 %s.%s 失败: %w", a.entity, a.column, err)
		}
		out = append(out, divs...)
	}
	return out, nil
}

func (s *ReconcileService) runOne(a counterAudit, repair bool) ([]CounterDivergence, error) {
	query := fmt.Sprintf(
		"SELECT t.id AS id, t.%s AS stored, (%s) AS actual FROM %s t HAVING stored <> actual",
		a.column, a.countExpr, a.table)

	var rows []reconcileRow
	if err := s.DB.Raw(query).Scan(&rows).Error; err != nil {
		return nil, err
	}

	divs := make([]CounterDivergence, 0, len(rows))
	for _, r := range rows {
		d := CounterDivergence{Entity: a.entity, ID: r.ID, Column: a.column, Stored: r.Stored, Actual: r.Actual}
		divs = append(divs, d)
		log.Printf("计数偏差: %s id=%d %s 存量=%d 实际=%d", d.Entity, d.ID, d.Column, d.Stored, d.Actual)

		if repair {
			// 带旧值条件的修复，避免覆盖对账期间的正常写入
			res := s.DB.Exec(fmt.Sprintf("UPDATE %s SET %s = ? WHERE id = ? AND %s = ?", a.table, a.column, a.column),
				r.Actual, r.ID, r.Stored)
			if res.Error != nil {
				return divs, res.Error
			}
			if res.RowsAffected == 0 {
				log.Printf("计数偏差: %s id=%d %s 对账期间已被修改，跳过修复", d.Entity, d.ID, d.Column)
			}
		}
	}
	return divs, nil
}
