package service

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/gradeseer/gradeseer-api/internal/dto"
	"github.com/gradeseer/gradeseer-api/internal/grading"
	"github.com/gradeseer/gradeseer-api/internal/models"
	appErrors "github.com/gradeseer/gradeseer-api/pkg/errors"
)

const dashboardUpcomingLimit = 10

type dashboardSubjectRepository interface {
	ListTrees(ctx context.Context, userID string) ([]models.SubjectTree, error)
}

// DashboardService aggregates per-subject grades, GPA, and upcoming
// work into a per-user overview, cached in redis.
type DashboardService struct {
	subjects dashboardSubjectRepository
	cache    *CacheService
	logger   *zap.Logger
}

// NewDashboardService constructs a DashboardService.
func NewDashboardService(subjects dashboardSubjectRepository, cache *CacheService, logger *zap.Logger) *DashboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{subjects: subjects, cache: cache, logger: logger}
}

// Overview returns the dashboard aggregation for a user, serving from
// cache when possible.
func (s *DashboardService) Overview(ctx context.Context, userID string) (*dto.DashboardOverview, error) {
	key := dashboardCacheKey(userID)
	if s.cache != nil {
		var cached dto.DashboardOverview
		if hit, err := s.cache.Get(ctx, key, &cached); err == nil && hit {
			return &cached, nil
		}
	}

	trees, err := s.subjects.ListTrees(ctx, userID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load subjects")
	}

	overview := BuildOverview(trees)

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, overview, 0); err != nil {
			s.logger.Warn("failed to cache dashboard overview", zap.String("user_id", userID), zap.Error(err))
		}
	}
	return overview, nil
}

// BuildOverview derives the dashboard aggregation from assembled
// subject trees. Cards use the raw-excluding percentage and the
// display scale; GPA weights the display grade points by units.
func BuildOverview(trees []models.SubjectTree) *dto.DashboardOverview {
	overview := &dto.DashboardOverview{
		Subjects:       make([]dto.SubjectCard, 0, len(trees)),
		NeedsAttention: []dto.SubjectCard{},
		Upcoming:       []dto.UpcomingItem{},
	}

	entries := make([]grading.GPAEntry, 0, len(trees))
	for _, tree := range trees {
		percent := grading.RawSubjectPercent(tree)
		point := grading.GradePoint(percent, grading.ScaleDisplay)

		var allItems []models.Item
		for _, comp := range tree.Components {
			allItems = append(allItems, comp.Items...)
			weight := grading.Weight(comp.Component)
			for _, item := range comp.Items {
				if item.Score != nil {
					continue
				}
				due := ""
				if item.Date != nil {
					due = *item.Date
				}
				overview.Upcoming = append(overview.Upcoming, dto.UpcomingItem{
					SubjectName: tree.Name,
					Component:   comp.Name,
					Name:        item.Name,
					Weight:      weight,
					DueDate:     due,
				})
			}
		}

		card := dto.SubjectCard{
			SubjectID:      tree.ID,
			Name:           tree.Name,
			IsMajor:        tree.IsMajor,
			Units:          tree.Units,
			CurrentPercent: percent,
			GradePoint:     point,
			Completion:     grading.Completion(allItems),
			TargetGrade:    tree.TargetGrade,
			SafetyZone:     cardZone(point, percent, tree.TargetGrade),
		}
		overview.Subjects = append(overview.Subjects, card)
		entries = append(entries, grading.GPAEntry{GradePoint: point, Units: tree.Units})

		if tree.TargetGrade != nil && point > *tree.TargetGrade {
			overview.NeedsAttention = append(overview.NeedsAttention, card)
		}
	}

	overview.GPA = grading.GPA(entries)

	// Most recently dated pending work first; undated items sink.
	sort.SliceStable(overview.Upcoming, func(i, j int) bool {
		return overview.Upcoming[i].DueDate > overview.Upcoming[j].DueDate
	})
	if len(overview.Upcoming) > dashboardUpcomingLimit {
		overview.Upcoming = overview.Upcoming[:dashboardUpcomingLimit]
	}
	return overview
}

func cardZone(point, percent float64, target *float64) grading.SafetyZone {
	if target != nil {
		switch {
		case point <= *target:
			return grading.ZoneGreen
		case percent >= 71:
			return grading.ZoneYellow
		default:
			return grading.ZoneRed
		}
	}
	switch {
	case percent >= 75:
		return grading.ZoneGreen
	case percent >= 65:
		return grading.ZoneYellow
	default:
		return grading.ZoneRed
	}
}

func dashboardCacheKey(userID string) string {
	return fmt.Sprintf("dashboard:user:%s", userID)
}
