package validate

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rmaksimov/founderscout/internal/model"
)

func newTestValidator(workers int) *Validator {
	cfg := model.ValidationConfig{Workers: workers, Timeout: 5 * time.Second}
	return NewValidator(cfg, model.HTTPConfig{UserAgent: "founderscout-test/1.0"})
}

func TestValidateRecords(t *testing.T) {
	var flaky atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok":
			w.WriteHeader(http.StatusOK)
		case "/gone":
			w.WriteHeader(http.StatusGone)
		case "/flaky":
			if flaky.Add(1) < 3 {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			w.WriteHeader(http.StatusOK)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	// No real backoff in tests
	origSleep := validateSleepFunc
	validateSleepFunc = func(time.Duration) {}
	defer func() { validateSleepFunc = origSleep }()

	record := &model.Record{
		OrganizationName: "Acme Robotics",
		ContactChannels: map[model.ChannelKind]string{
			model.ChannelEmail:    "jane@acme.example", // skipped, nothing to HEAD
			model.ChannelWebsite:  server.URL + "/ok",
			model.ChannelLinkedIn: server.URL + "/gone",
			model.ChannelTwitter:  server.URL + "/flaky",
		},
	}

	v := newTestValidator(4)
	v.ValidateRecords(context.Background(), []*model.Record{record})

	if len(record.Validation) != 3 {
		t.Fatalf("expected 3 validated channels, got %d: %v", len(record.Validation), record.Validation)
	}

	byKind := make(map[model.ChannelKind]model.ChannelValidation)
	for _, cv := range record.Validation {
		byKind[cv.Kind] = cv
	}

	if cv := byKind[model.ChannelWebsite]; !cv.IsAccessible || cv.StatusCode != http.StatusOK {
		t.Errorf("website: %+v", cv)
	}
	if cv := byKind[model.ChannelLinkedIn]; !cv.IsDead || cv.IsAccessible {
		t.Errorf("gone link must be dead: %+v", cv)
	}
	if cv := byKind[model.ChannelTwitter]; !cv.IsAccessible {
		t.Errorf("flaky link must recover after retry: %+v", cv)
	}
	if _, ok := byKind[model.ChannelEmail]; ok {
		t.Error("email channel must not be validated")
	}
}

func TestValidateRecords_UnreachableHost(t *testing.T) {
	origSleep := validateSleepFunc
	validateSleepFunc = func(time.Duration) {}
	defer func() { validateSleepFunc = origSleep }()

	record := &model.Record{
		OrganizationName: "Acme",
		ContactChannels: map[model.ChannelKind]string{
			model.ChannelWebsite: "http://127.0.0.1:1/unreachable",
		},
	}

	v := newTestValidator(1)
	v.ValidateRecords(context.Background(), []*model.Record{record})

	if len(record.Validation) != 1 {
		t.Fatalf("expected 1 result, got %d", len(record.Validation))
	}
	cv := record.Validation[0]
	if !cv.IsDead || cv.Error == "" {
		t.Errorf("unreachable host must be dead with an error: %+v", cv)
	}
}

func TestValidateRecords_NoContacts(t *testing.T) {
	record := &model.Record{OrganizationName: "Acme"}

	v := newTestValidator(1)
	v.ValidateRecords(context.Background(), []*model.Record{record})

	if record.Validation != nil {
		t.Errorf("no contacts, no validation entries: %v", record.Validation)
	}
}

func TestIsRetryableResult(t *testing.T) {
	tests := []struct {
		name   string
		result model.ChannelValidation
		want   bool
	}{
		{"server error", model.ChannelValidation{StatusCode: 503}, true},
		{"rate limited", model.ChannelValidation{StatusCode: 429}, true},
		{"timeout error", model.ChannelValidation{Error: "request failed: context deadline exceeded (Client.Timeout exceeded)"}, true},
		{"not found", model.ChannelValidation{StatusCode: 404}, false},
		{"ok", model.ChannelValidation{StatusCode: 200, IsAccessible: true}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isRetryableResult(tt.result); got != tt.want {
				t.Errorf("isRetryableResult(%+v) = %v, want %v", tt.result, got, tt.want)
			}
		})
	}
}
