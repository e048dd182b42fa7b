package service

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/unipath/catalog/internal/cache"
	"github.com/unipath/catalog/internal/model"
)

// Readers the catalog service needs from the store. The pgx
// repositories implement them; tests use in-memory fakes.
type CountryReader interface {
	List(ctx context.Context) ([]model.Country, error)
	GetByID(ctx context.Context, id int64) (*model.Country, error)
}

type UniversityReader interface {
	List(ctx context.Context, term string, f model.UniversityFilter) ([]model.University, error)
	GetByID(ctx context.Context, id int64) (*model.University, error)
}

type CourseReader interface {
	List(ctx context.Context, term string, f model.CourseFilter) ([]model.Course, error)
	GetByID(ctx context.Context, id int64) (*model.Course, error)
}

type PathwayReader interface {
	List(ctx context.Context) ([]model.Pathway, error)
}

// Cache keys for the reference collections
const (
	cacheKeyCountries = "countries"
	cacheKeyPathways  = "pathways"
)

// CatalogService serves the read-only reference data. Countries and
// pathways go through the cache; universities and courses change often
// enough that every read goes to the store.
type CatalogService struct {
	countryRepo    CountryReader
	universityRepo UniversityReader
	courseRepo     CourseReader
	pathwayRepo    PathwayReader
	countryCache   *cache.Cache[[]model.Country]
	pathwayCache   *cache.Cache[[]model.Pathway]
	logger         *zap.Logger
}

func NewCatalogService(
	countryRepo CountryReader,
	universityRepo UniversityReader,
	courseRepo CourseReader,
	pathwayRepo PathwayReader,
	logger *zap.Logger,
) *CatalogService {
	return &CatalogService{
		countryRepo:    countryRepo,
		universityRepo: universityRepo,
		courseRepo:     courseRepo,
		pathwayRepo:    pathwayRepo,
		countryCache:   cache.New[[]model.Country](),
		pathwayCache:   cache.New[[]model.Pathway](),
		logger:         logger,
	}
}

// ListCountries returns all countries, cached after the first read.
func (s *CatalogService) ListCountries(ctx context.Context) ([]model.Country, error) {
	return s.countryCache.GetOrLoad(ctx, cacheKeyCountries, s.countryRepo.List)
}

// GetCountry fetches one country by id.
func (s *CatalogService) GetCountry(ctx context.Context, id int64) (*model.Country, error) {
	return s.countryRepo.GetByID(ctx, id)
}

// ListUniversities returns universities matching the structural filter.
func (s *CatalogService) ListUniversities(ctx context.Context, f model.UniversityFilter) ([]model.University, error) {
	return s.universityRepo.List(ctx, "", f)
}

// SearchUniversities adds a case-insensitive substring match over
// name, city and state.
func (s *CatalogService) SearchUniversities(ctx context.Context, term string, f model.UniversityFilter) ([]model.University, error) {
	return s.universityRepo.List(ctx, term, f)
}

// GetUniversity fetches one university with its country embedded.
func (s *CatalogService) GetUniversity(ctx context.Context, id int64) (*model.University, error) {
	return s.universityRepo.GetByID(ctx, id)
}

// ListCourses returns courses matching the structural filter.
func (s *CatalogService) ListCourses(ctx context.Context, f model.CourseFilter) ([]model.Course, error) {
	return s.courseRepo.List(ctx, "", f)
}

// SearchCourses adds a substring match over the program name.
func (s *CatalogService) SearchCourses(ctx context.Context, term string, f model.CourseFilter) ([]model.Course, error) {
	return s.courseRepo.List(ctx, term, f)
}

// GetCourse fetches one course with its university and country embedded.
func (s *CatalogService) GetCourse(ctx context.Context, id int64) (*model.Course, error) {
	return s.courseRepo.GetByID(ctx, id)
}

// ListPathways returns all pathways, cached after the first read.
func (s *CatalogService) ListPathways(ctx context.Context) ([]model.Pathway, error) {
	return s.pathwayCache.GetOrLoad(ctx, cacheKeyPathways, s.pathwayRepo.List)
}

// Statistics fans out the four list reads concurrently and reduces to
// counts. A failed branch degrades to 0 for that collection instead of
// failing the aggregate; the dashboard should dim, not go blank.
func (s *CatalogService) Statistics(ctx context.Context) model.Statistics {
	var (
		stats model.Statistics
		g     errgroup.Group
	)

	g.Go(func() error {
		countries, err := s.ListCountries(ctx)
		if err != nil {
			s.logger.Warn("statistics: countries read failed", zap.Error(err))
			return nil
		}
		stats.Countries = len(countries)
		return nil
	})

	g.Go(func() error {
		universities, err := s.ListUniversities(ctx, model.UniversityFilter{})
		if err != nil {
			s.logger.Warn("statistics: universities read failed", zap.Error(err))
			return nil
		}
		stats.Universities = len(universities)
		return nil
	})

	g.Go(func() error {
		courses, err := s.ListCourses(ctx, model.CourseFilter{})
		if err != nil {
			s.logger.Warn("statistics: courses read failed", zap.Error(err))
			return nil
		}
		stats.Courses = len(courses)
		return nil
	})

	g.Go(func() error {
		pathways, err := s.ListPathways(ctx)
		if err != nil {
			s.logger.Warn("statistics: pathways read failed", zap.Error(err))
			return nil
		}
		stats.Pathways = len(pathways)
		return nil
	})

	// branches never return errors, Wait only synchronizes
	_ = g.Wait()

	return stats
}

// InvalidateCaches drops the reference caches; the next list reads go
// to the store.
func (s *CatalogService) InvalidateCaches() {
	s.countryCache.InvalidateAll()
	s.pathwayCache.InvalidateAll()
	s.logger.Info("reference caches invalidated")
}
