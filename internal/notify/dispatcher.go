package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"
)

// application identifies this service to the push provider.
const application = "umbrella"

// Dispatcher submits notification records to the external push capability.
// Dispatch failures are reported, never retried.
type Dispatcher struct {
	pushURL string
	authKey string
	client  *http.Client
	log     *zap.Logger
}

func NewDispatcher(client *http.Client, pushURL, authKey string, log *zap.Logger) *Dispatcher {
	return &Dispatcher{
		pushURL: pushURL,
		authKey: authKey,
		client:  client,
		log:     log,
	}
}

// Dispatch sends one record. The provider's status and body are always
// returned; a non-2xx status additionally yields an error the caller is
// expected to log without escalating.
func (d *Dispatcher) Dispatch(ctx context.Context, rec Record) (Outcome, error) {
	envelope, err := json.Marshal(rec)
	if err != nil {
		return Outcome{}, fmt.Errorf("encode notification: %w", err)
	}

	form := url.Values{}
	form.Set("notification", string(envelope))
	form.Set("application", application)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.pushURL, strings.NewReader(form.Encode()))
	if err != nil {
		return Outcome{}, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("auth-key", d.authKey)

	resp, err := d.client.Do(req)
	if err != nil {
		return Outcome{}, fmt.Errorf("push request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err != nil {
		d.log.Warn("reading push provider response failed", zap.Error(err))
	}

	outcome := Outcome{Status: resp.StatusCode, Body: string(body)}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return outcome, fmt.Errorf("push provider rejected notification: status %d", resp.StatusCode)
	}
	return outcome, nil
}
