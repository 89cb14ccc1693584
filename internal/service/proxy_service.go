package service

import (
	"bytes"
	"errors"
	"fmt"
	"net/url"
	"slices"
	"strings"

	"maxcavator/pkg/config"

	"github.com/gofiber/fiber/v2"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

var (
	ErrProxyInvalidURL     = errors.New("invalid proxy url")
	ErrProxyHostNotAllowed = errors.New("host is not in the proxy allowlist")
	ErrProxyUpstream       = errors.New("upstream fetch failed")
	ErrProxyTooLarge       = errors.New("upstream document is too large")
	ErrProxyNotPDF         = errors.New("upstream document is not a PDF")
)

const maxProxyRedirects = 5

type ProxiedPDF struct {
	Body      []byte
	PageCount int
}

// ProxyService fetches remote PDFs on behalf of browsers blocked by CORS.
// Only http(s) URLs are followed, optionally restricted to an allowlist of hosts
// that also applies to redirect targets, and the body must be a readable PDF.
type ProxyService struct {
	cfg    *config.ProxyConfig
	logger *zap.Logger
}

func NewProxyService(cfg *config.ProxyConfig, logger *zap.Logger) *ProxyService {
	return &ProxyService{
		cfg:    cfg,
		logger: logger,
	}
}

// FetchPDF downloads a PDF, following up to maxProxyRedirects redirects. Every
// hop is validated against the same URL policy as the original request.
func (s *ProxyService) FetchPDF(rawURL string) (*ProxiedPDF, error) {
	target, err := s.validateURL(rawURL)
	if err != nil {
		return nil, err
	}

	var body []byte
	for hop := 0; ; hop++ {
		code, data, location, err := s.get(target)
		if err != nil {
			return nil, err
		}

		if !isRedirect(code) {
			if code != fiber.StatusOK {
				return nil, fmt.Errorf("%w: status %d", ErrProxyUpstream, code)
			}
			body = data
			break
		}

		if hop >= maxProxyRedirects {
			return nil, fmt.Errorf("%w: more than %d redirects", ErrProxyUpstream, maxProxyRedirects)
		}
		if location == "" {
			return nil, fmt.Errorf("%w: status %d without Location", ErrProxyUpstream, code)
		}
		next, err := target.Parse(location)
		if err != nil {
			return nil, fmt.Errorf("%w: bad redirect location: %w", ErrProxyUpstream, err)
		}
		if target, err = s.validateURL(next.String()); err != nil {
			return nil, err
		}

		s.logger.Debug("Following PDF redirect",
			zap.Int("status", code),
			zap.String("host", target.Hostname()),
		)
	}

	if s.cfg.MaxBytes > 0 && len(body) > s.cfg.MaxBytes {
		return nil, fmt.Errorf("%w: %d bytes", ErrProxyTooLarge, len(body))
	}

	pages, err := api.PageCount(bytes.NewReader(body), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrProxyNotPDF, err)
	}

	s.logger.Info("PDF proxied",
		zap.String("host", target.Hostname()),
		zap.Int("bytes", len(body)),
		zap.Int("pages", pages),
	)

	return &ProxiedPDF{Body: body, PageCount: pages}, nil
}

// get performs a single request without following redirects. The size cap is
// enforced by fasthttp while the body is read.
func (s *ProxyService) get(target *url.URL) (int, []byte, string, error) {
	resp := fiber.AcquireResponse()
	defer fiber.ReleaseResponse(resp)

	agent := fiber.Get(target.String())
	agent.SetResponse(resp)
	if agent.HostClient != nil && s.cfg.MaxBytes > 0 {
		agent.MaxResponseBodySize = s.cfg.MaxBytes
	}
	if s.cfg.Timeout > 0 {
		agent.Timeout(s.cfg.Timeout)
	}

	code, body, errs := agent.Bytes()
	if len(errs) > 0 {
		err := errors.Join(errs...)
		if errors.Is(err, fasthttp.ErrBodyTooLarge) {
			return 0, nil, "", fmt.Errorf("%w: over %d bytes", ErrProxyTooLarge, s.cfg.MaxBytes)
		}
		return 0, nil, "", fmt.Errorf("%w: %w", ErrProxyUpstream, err)
	}

	return code, body, string(resp.Header.Peek(fiber.HeaderLocation)), nil
}

func isRedirect(code int) bool {
	switch code {
	case fiber.StatusMovedPermanently, fiber.StatusFound, fiber.StatusSeeOther,
		fiber.StatusTemporaryRedirect, fiber.StatusPermanentRedirect:
		return true
	}
	return false
}

func (s *ProxyService) validateURL(rawURL string) (*url.URL, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return nil, fmt.Errorf("%w: url is required", ErrProxyInvalidURL)
	}

	target, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrProxyInvalidURL, err)
	}
	if target.Scheme != "http" && target.Scheme != "https" {
		return nil, fmt.Errorf("%w: unsupported scheme %q", ErrProxyInvalidURL, target.Scheme)
	}
	if target.Hostname() == "" {
		return nil, fmt.Errorf("%w: missing host", ErrProxyInvalidURL)
	}

	if len(s.cfg.AllowedHosts) > 0 && !slices.Contains(s.cfg.AllowedHosts, strings.ToLower(target.Hostname())) {
		return nil, fmt.Errorf("%w: %s", ErrProxyHostNotAllowed, target.Hostname())
	}

	return target, nil
}
