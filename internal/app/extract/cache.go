package extract

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"procurement/internal/app/dto"

	"github.com/sirupsen/logrus"
)

// ResultCache хранит результаты распознавания по хэшу содержимого
type ResultCache interface {
	LoadExtraction(ctx context.Context, digest string) ([]byte, bool, error)
	StoreExtraction(ctx context.Context, digest string, payload []byte) error
}

// CachedExtractor не отправляет повторно в модель уже распознанный документ.
// Ошибки кэша не ломают распознавание, только логируются.
type CachedExtractor struct {
	next  Extractor
	cache ResultCache
}

func NewCachedExtractor(next Extractor, cache ResultCache) *CachedExtractor {
	return &CachedExtractor{next: next, cache: cache}
}

func (c *CachedExtractor) Extract(ctx context.Context, filename string, data []byte) (dto.ProcurementRequest, error) {
	digest := Digest(data)

	payload, ok, err := c.cache.LoadExtraction(ctx, digest)
	if err != nil {
		logrus.WithError(err).Warn("extraction cache lookup failed")
	}
	if ok {
		var req dto.ProcurementRequest
		if err := json.Unmarshal(payload, &req); err == nil {
			logrus.Infof("extraction cache hit for %s", filename)
			return normalize(req), nil
		}
		logrus.Warnf("dropping undecodable cache entry %s", digest)
	}

	req, err := c.next.Extract(ctx, filename, data)
	if err != nil {
		return dto.ProcurementRequest{}, err
	}

	if payload, err := json.Marshal(req); err == nil {
		if err := c.cache.StoreExtraction(ctx, digest, payload); err != nil {
			logrus.WithError(err).Warn("extraction cache store failed")
		}
	}
	return req, nil
}

func (c *CachedExtractor) PredictCommodityGroup(ctx context.Context, req dto.ProcurementRequest) (string, error) {
	return c.next.PredictCommodityGroup(ctx, req)
}

// Digest: SHA-256 содержимого документа в hex
func Digest(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
