package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/mealplanner/backend/internal/domain"
	"github.com/mealplanner/backend/internal/infrastructure/logging"
	"go.uber.org/zap"
)

const (
	defaultDetectionCacheTTL = 24 * time.Hour
	defaultMinConfidence     = 0.25
	noCatalogDataMessage     = "No data found"
)

// DetectionServiceConfig holds configuration for the detection service
type DetectionServiceConfig struct {
	CacheTTL      time.Duration
	MinConfidence float64
}

// DetectionService resolves foods in an uploaded image against the catalog
type DetectionService struct {
	cache         domain.CacheRepository
	detector      domain.ObjectDetector
	catalog       domain.FoodCatalog
	logger        *zap.Logger
	cacheTTL      time.Duration
	minConfidence float64
}

// NewDetectionService creates a new detection service with dependencies.
// cache may be nil, in which case every image goes to the detector.
func NewDetectionService(
	cache domain.CacheRepository,
	detector domain.ObjectDetector,
	catalog domain.FoodCatalog,
	logger *zap.Logger,
	config DetectionServiceConfig,
) *DetectionService {
	cacheTTL := config.CacheTTL
	if cacheTTL <= 0 {
		cacheTTL = defaultDetectionCacheTTL
	}

	minConfidence := config.MinConfidence
	if minConfidence <= 0 {
		minConfidence = defaultMinConfidence
	}

	return &DetectionService{
		cache:         cache,
		detector:      detector,
		catalog:       catalog,
		logger:        logging.OrNop(logger),
		cacheTTL:      cacheTTL,
		minConfidence: minConfidence,
	}
}

// DetectFoods runs the detector on an image and matches the labels it reports
// against the catalog.
// Flow: check cache -> call detector -> filter labels -> cache -> resolve against catalog
func (s *DetectionService) DetectFoods(ctx context.Context, image []byte, filename string) (*domain.DetectionResult, error) {
	if s.detector == nil {
		return nil, domain.ErrDetectorDisabled
	}
	if len(image) == 0 {
		return nil, domain.ErrInvalidImage
	}
	if s.catalog == nil {
		return nil, domain.ErrCatalogUnavailable
	}

	cacheKey := generateImageCacheKey(image)

	if labels, err := s.getFromCache(ctx, cacheKey); err == nil {
		s.logger.Debug("detection cache hit", zap.String("key", cacheKey))
		result := s.resolveLabels(labels)
		result.Source = "Cache"
		return result, nil
	}

	detections, err := s.detector.Detect(ctx, image, filename)
	if err != nil {
		if errors.Is(err, domain.ErrDetectorFailure) || errors.Is(err, context.Canceled) ||
			errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrDetectorFailure, err)
	}

	labels := detectedLabels(detections, s.minConfidence)

	if err := s.setInCache(ctx, cacheKey, labels); err != nil {
		s.logger.Warn("failed to cache detection result", zap.String("key", cacheKey), zap.Error(err))
	}

	result := s.resolveLabels(labels)
	result.Source = "Detector"

	s.logger.Info("foods detected",
		zap.Int("detections", len(detections)),
		zap.Strings("labels", labels),
	)

	return result, nil
}

// detectedLabels keeps confident detections and turns class names such as
// "chapati_roti" into catalog-style names. The result is de-duplicated and sorted.
func detectedLabels(detections []domain.Detection, minConfidence float64) []string {
	seen := make(map[string]struct{})
	labels := make([]string, 0, len(detections))
	for _, d := range detections {
		if d.Confidence < minConfidence {
			continue
		}
		label := strings.TrimSpace(strings.ReplaceAll(d.Label, "_", " "))
		if label == "" {
			continue
		}
		if _, dup := seen[label]; dup {
			continue
		}
		seen[label] = struct{}{}
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return labels
}

// resolveLabels matches each label against the catalog
func (s *DetectionService) resolveLabels(labels []string) *domain.DetectionResult {
	result := &domain.DetectionResult{
		DetectedClasses: labels,
		FoodDetails:     make([]domain.DetectedFood, 0, len(labels)),
	}
	for _, label := range labels {
		food, err := s.catalog.FindByName(label)
		if err != nil {
			result.FoodDetails = append(result.FoodDetails, domain.DetectedFood{
				Label: label,
				Error: noCatalogDataMessage,
			})
			continue
		}
		result.FoodDetails = append(result.FoodDetails, domain.DetectedFood{Label: label, Food: food})
	}
	return result
}

// generateImageCacheKey keys detections by image content.
// Format: "detection:{sha256 hex}"
func generateImageCacheKey(image []byte) string {
	sum := sha256.Sum256(image)
	return "detection:" + hex.EncodeToString(sum[:])
}

// getFromCache retrieves cached labels for an image
func (s *DetectionService) getFromCache(ctx context.Context, key string) ([]string, error) {
	if s.cache == nil {
		return nil, domain.ErrCacheMiss
	}

	data, err := s.cache.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	var labels []string
	if err := json.Unmarshal(data, &labels); err != nil {
		return nil, domain.ErrCacheMiss
	}
	return labels, nil
}

// setInCache stores the labels for an image
func (s *DetectionService) setInCache(ctx context.Context, key string, labels []string) error {
	if s.cache == nil {
		return nil
	}

	data, err := json.Marshal(labels)
	if err != nil {
		return err
	}
	return s.cache.Set(ctx, key, data, s.cacheTTL)
}
