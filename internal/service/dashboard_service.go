package service

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/gradeflow/gradeflow-api/internal/dto"
	"github.com/gradeflow/gradeflow-api/internal/models"
	"github.com/gradeflow/gradeflow-api/internal/repository"
)

const dashboardCacheKey = "dashboard:professor"

// DashboardService produces aggregated submission metrics for professors.
type DashboardService interface {
	GetDashboard(ctx context.Context) (dto.DashboardResponse, error)
}

type dashboardService struct {
	submissions repository.SubmissionRepository
	cache       *redis.Client
	cacheTTL    time.Duration
	logger      zerolog.Logger
	now         func() time.Time
}

// NewDashboardService builds the dashboard aggregator. The cache client may
// be nil; aggregation then runs on every request.
func NewDashboardService(submissions repository.SubmissionRepository, cache *redis.Client, ttl time.Duration, logger zerolog.Logger) DashboardService {
	return &dashboardService{
		submissions: submissions,
		cache:       cache,
		cacheTTL:    ttl,
		logger:      logger.With().Str("component", "dashboard_service").Logger(),
		now:         time.Now,
	}
}

func (s *dashboardService) GetDashboard(ctx context.Context) (dto.DashboardResponse, error) {
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, dashboardCacheKey).Result(); err == nil {
			var response dto.DashboardResponse
			if unmarshalErr := json.Unmarshal([]byte(cached), &response); unmarshalErr == nil {
				response.CacheHit = true
				s.logger.Debug().Msg("dashboard cache hit")
				return response, nil
			}
		} else if err != redis.Nil {
			s.logger.Warn().Err(err).Msg("failed to read dashboard cache")
		}
	}

	submissions, err := s.submissions.List(ctx, repository.SubmissionFilter{})
	if err != nil {
		return dto.DashboardResponse{}, err
	}

	response := s.buildResponse(submissions)

	if s.cache != nil {
		if payload, err := json.Marshal(response); err == nil {
			if err := s.cache.Set(ctx, dashboardCacheKey, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to store dashboard cache")
			}
		}
	}

	return response, nil
}

func (s *dashboardService) buildResponse(submissions []models.Submission) dto.DashboardResponse {
	response := dto.DashboardResponse{
		TotalSubmissions: int64(len(submissions)),
		PerStudentCounts: []dto.StudentSubmissionCount{},
		GeneratedAt:      s.now().UTC(),
	}

	byStudent := make(map[uint]*dto.StudentSubmissionCount)
	for _, submission := range submissions {
		if response.LatestSubmission == nil || submission.SubmittedAt.After(*response.LatestSubmission) {
			at := submission.SubmittedAt
			response.LatestSubmission = &at
		}

		entry, ok := byStudent[submission.StudentID]
		if !ok {
			entry = &dto.StudentSubmissionCount{
				StudentID: submission.StudentID,
				StudentNo: submission.Student.StudentNo,
				Name:      submission.Student.Name,
			}
			byStudent[submission.StudentID] = entry
		}
		entry.Submissions++
	}

	response.DistinctStudents = int64(len(byStudent))
	for _, entry := range byStudent {
		response.PerStudentCounts = append(response.PerStudentCounts, *entry)
	}

	// Map iteration order is random; keep the payload stable across requests.
	sort.Slice(response.PerStudentCounts, func(i, j int) bool {
		return response.PerStudentCounts[i].StudentNo < response.PerStudentCounts[j].StudentNo
	})

	return response
}
