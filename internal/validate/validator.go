// Package validate checks extracted contact URLs for reachability.
// Validation is optional and purely additive: results are attached to
// records, never used to drop them.
package validate

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/rmaksimov/founderscout/internal/model"
	"github.com/rmaksimov/founderscout/internal/util"
)

const validateMaxRetries = 3

// validateSleepFunc is the sleep function used between retries (injectable for tests)
var validateSleepFunc = time.Sleep

// Validator checks contact links concurrently with HEAD requests
type Validator struct {
	httpClient *http.Client
	userAgent  string
	maxWorkers int
}

// NewValidator creates a contact-link validator
func NewValidator(cfg model.ValidationConfig, httpCfg model.HTTPConfig) *Validator {
	workers := cfg.Workers
	if workers <= 0 {
		workers = 10
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	proxyFunc := util.NewProxyFunc(httpCfg.HTTPProxy, httpCfg.HTTPSProxy, httpCfg.NoProxy)

	return &Validator{
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				Proxy: proxyFunc,
			},
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("stopped after 3 redirects")
				}
				return nil
			},
		},
		userAgent:  httpCfg.UserAgent,
		maxWorkers: workers,
	}
}

// ValidateRecords checks every http(s) contact channel on every record
// and fills each record's Validation slice in channel-kind order.
// Email addresses are skipped; there is nothing to HEAD.
func (v *Validator) ValidateRecords(ctx context.Context, records []*model.Record) {
	type job struct {
		record *model.Record
		slot   int
		kind   model.ChannelKind
		url    string
	}

	var jobs []job
	for _, record := range records {
		record.Validation = nil
		for _, kind := range model.ChannelKinds {
			if kind == model.ChannelEmail {
				continue
			}
			url, ok := record.ContactChannels[kind]
			if !ok {
				continue
			}
			record.Validation = append(record.Validation, model.ChannelValidation{Kind: kind, URL: url})
			jobs = append(jobs, job{record: record, slot: len(record.Validation) - 1, kind: kind, url: url})
		}
	}
	if len(jobs) == 0 {
		return
	}

	var wg sync.WaitGroup
	semaphore := make(chan struct{}, v.maxWorkers)

	for _, j := range jobs {
		wg.Add(1)
		go func(j job) {
			defer wg.Done()

			select {
			case <-ctx.Done():
				j.record.Validation[j.slot].Error = "context cancelled"
				return
			case semaphore <- struct{}{}:
			}
			defer func() { <-semaphore }()

			j.record.Validation[j.slot] = v.validateSingleWithRetry(ctx, j.kind, j.url)
		}(j)
	}

	wg.Wait()
}

// validateSingle issues one HEAD request for a contact URL
func (v *Validator) validateSingle(ctx context.Context, kind model.ChannelKind, url string) model.ChannelValidation {
	result := model.ChannelValidation{
		Kind: kind,
		URL:  url,
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		result.Error = fmt.Sprintf("create request: %v", err)
		result.IsDead = true
		return result
	}

	req.Header.Set("User-Agent", v.userAgent)

	resp, err := v.httpClient.Do(req)
	if err != nil {
		result.Error = fmt.Sprintf("request failed: %v", err)
		result.IsDead = true
		return result
	}
	defer func() { _ = resp.Body.Close() }()

	result.StatusCode = resp.StatusCode

	if resp.StatusCode >= 200 && resp.StatusCode < 400 {
		result.IsAccessible = true
	} else if resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone {
		result.IsDead = true
	}

	return result
}

// validateSingleWithRetry retries transient failures with exponential backoff
func (v *Validator) validateSingleWithRetry(ctx context.Context, kind model.ChannelKind, url string) model.ChannelValidation {
	var result model.ChannelValidation
	for attempt := 0; attempt < validateMaxRetries; attempt++ {
		result = v.validateSingle(ctx, kind, url)
		if !isRetryableResult(result) {
			return result
		}
		if attempt < validateMaxRetries-1 {
			backoff := time.Duration(1<<uint(attempt)) * time.Second
			validateSleepFunc(backoff)
		}
	}
	return result
}

// isRetryableResult returns true for results that indicate transient failures
func isRetryableResult(result model.ChannelValidation) bool {
	if result.StatusCode >= 500 && result.StatusCode < 600 {
		return true
	}
	if result.StatusCode == http.StatusTooManyRequests {
		return true
	}
	if result.Error != "" && isRetryableNetworkError(result.Error) {
		return true
	}
	return false
}

// isRetryableNetworkError checks error strings for transient network failures
func isRetryableNetworkError(errMsg string) bool {
	s := strings.ToLower(errMsg)
	return strings.Contains(s, "timeout") ||
		strings.Contains(s, "connection refused") ||
		strings.Contains(s, "connection reset")
}
