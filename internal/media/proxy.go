package media

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/kdcar/kdcar-backend/internal/carms"
	pkgerrors "github.com/kdcar/kdcar-backend/pkg/errors"
	"github.com/kdcar/kdcar-backend/pkg/logger"
	"github.com/kdcar/kdcar-backend/pkg/metrics"
)

// CacheControl is sent with every proxied image.
const CacheControl = "public, max-age=31536000, immutable"

type assetFetcher interface {
	Configured() bool
	FetchAsset(ctx context.Context, path string) (*carms.Asset, error)
}

// Image is a proxied inventory image ready to be written to the client.
type Image struct {
	ContentType string
	Body        []byte
}

// Proxy streams inventory images through the website's own origin.
type Proxy struct {
	fetcher assetFetcher
	logg    *logger.Logger
	metrics *metrics.ImageProxyMetrics
}

// NewProxy builds an image proxy. logg and m may be nil.
func NewProxy(fetcher assetFetcher, logg *logger.Logger, m *metrics.ImageProxyMetrics) *Proxy {
	if logg == nil {
		logg = logger.Nop()
	}
	return &Proxy{fetcher: fetcher, logg: logg, metrics: m}
}

// Fetch loads the image at path from the inventory host. Errors are typed
// *pkgerrors.Error values whose HTTPStatus is the status to answer with.
func (p *Proxy) Fetch(ctx context.Context, path string) (*Image, error) {
	img, err := p.fetch(ctx, path)
	if err != nil {
		p.metrics.IncResponse(pkgerrors.StatusOf(err))
		return nil, err
	}
	p.metrics.IncResponse(http.StatusOK)
	return img, nil
}

func (p *Proxy) fetch(ctx context.Context, path string) (*Image, error) {
	if strings.TrimSpace(path) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "Missing image path")
	}
	if p.fetcher == nil || !p.fetcher.Configured() {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "CARMS API not configured")
	}

	asset, err := p.fetcher.FetchAsset(ctx, path)
	if err != nil {
		var reqErr *carms.RequestError
		if errors.As(err, &reqErr) {
			p.logg.Warn(p.logg.WithFields(ctx, map[string]any{
				"status": reqErr.Status,
				"path":   path,
			}), "media.upstream_status")
			return nil, pkgerrors.Wrap(pkgerrors.CodeUpstream, err, fmt.Sprintf("Failed to fetch image: %d", reqErr.Status)).
				WithStatus(reqErr.Status)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "Failed to proxy image")
	}

	contentType, ok := resolveContentType(asset.ContentType, asset.URL, asset.Body)
	if !ok {
		upstream := asset.ContentType
		if upstream == "" {
			upstream = "unknown"
		}
		p.logg.Warn(p.logg.WithField(ctx, "content_type", upstream), "media.unsupported_content_type")
		return nil, pkgerrors.New(pkgerrors.CodeUnsupportedMedia, "Unsupported image content type").
			WithDetails(map[string]any{"contentType": upstream})
	}

	return &Image{ContentType: contentType, Body: asset.Body}, nil
}
