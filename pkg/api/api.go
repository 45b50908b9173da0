package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// PayloadHook is notified with the wire form of every payload write, after the
// payload has been stored.
type PayloadHook func(raw string) error

type hookEntry struct {
	id int
	fn PayloadHook
}

// Api is the transport between the panel and the agent endpoint. It keeps the
// most recent request and response payloads and notifies subscribers whenever
// one of them is written.
type Api struct {
	endpoint  string
	client    *http.Client
	scheduler Scheduler

	mu              sync.Mutex
	requestPayload  string
	responsePayload string
	requestHooks    []hookEntry
	responseHooks   []hookEntry
	nextHookID      int

	inflight sync.WaitGroup
}

// ErrNoScheduler is returned by SendRequest when the Api was built without
// WithScheduler.
var ErrNoScheduler = errors.New("api: no scheduler configured")

type Option func(*Api)

func WithHTTPClient(c *http.Client) Option {
	return func(a *Api) { a.client = c }
}

func WithScheduler(s Scheduler) Option {
	return func(a *Api) { a.scheduler = s }
}

func WithTimeout(d time.Duration) Option {
	return func(a *Api) {
		if d > 0 {
			a.client = &http.Client{Timeout: d}
		}
	}
}

// New builds an Api for endpoint. Responses are only delivered through a
// scheduler, so callers that send requests must pass WithScheduler.
func New(endpoint string, opts ...Option) *Api {
	a := &Api{
		endpoint: endpoint,
		client:   &http.Client{Timeout: 30 * time.Second},
	}
	for _, o := range opts {
		o(a)
	}
	return a
}

// OnRequestPayload subscribes hook to request payload writes and returns a
// function removing the subscription.
func (a *Api) OnRequestPayload(hook PayloadHook) func() {
	return a.subscribe(&a.requestHooks, hook)
}

func (a *Api) OnResponsePayload(hook PayloadHook) func() {
	return a.subscribe(&a.responseHooks, hook)
}

func (a *Api) subscribe(list *[]hookEntry, hook PayloadHook) func() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.nextHookID++
	id := a.nextHookID
	*list = append(*list, hookEntry{id: id, fn: hook})
	return func() {
		a.mu.Lock()
		defer a.mu.Unlock()
		for i, h := range *list {
			if h.id == id {
				*list = append((*list)[:i:i], (*list)[i+1:]...)
				return
			}
		}
	}
}

// SetRequestPayload stores raw and then runs the request hooks. The first hook
// error is returned; the payload stays stored either way.
func (a *Api) SetRequestPayload(raw string) error {
	a.mu.Lock()
	a.requestPayload = raw
	hooks := append([]hookEntry(nil), a.requestHooks...)
	a.mu.Unlock()
	return runHooks(hooks, raw)
}

func (a *Api) SetResponsePayload(raw string) error {
	a.mu.Lock()
	a.responsePayload = raw
	hooks := append([]hookEntry(nil), a.responseHooks...)
	a.mu.Unlock()
	return runHooks(hooks, raw)
}

func runHooks(hooks []hookEntry, raw string) error {
	for _, h := range hooks {
		if err := h.fn(raw); err != nil {
			return err
		}
	}
	return nil
}

// GetRequestPayload returns the last request payload, or nil if none was set.
func (a *Api) GetRequestPayload() (*ChatPayload, error) {
	a.mu.Lock()
	raw := a.requestPayload
	a.mu.Unlock()
	if raw == "" {
		return nil, nil
	}
	return ParsePayload(raw)
}

func (a *Api) GetResponsePayload() (*ChatPayload, error) {
	a.mu.Lock()
	raw := a.responsePayload
	a.mu.Unlock()
	if raw == "" {
		return nil, nil
	}
	return ParsePayload(raw)
}

// SendRequest records the outgoing payload and posts it to the endpoint. The
// request payload is set synchronously; the response is delivered later on the
// scheduler. An empty text sends an empty input, which lets the agent open the
// conversation.
func (a *Api) SendRequest(ctx context.Context, text string, convContext map[string]any) error {
	if a.scheduler == nil {
		return ErrNoScheduler
	}
	payload := ChatPayload{Input: &Message{}, Context: convContext}
	if text != "" {
		payload.Input.Text = Text{text}
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return errors.Wrap(err, "marshal request payload")
	}

	if err := a.SetRequestPayload(string(body)); err != nil {
		return err
	}

	a.inflight.Add(1)
	go func() {
		defer a.inflight.Done()
		resp, err := a.post(ctx, body)
		if err != nil {
			log.Error().Err(err).Str("endpoint", a.endpoint).Msg("chat request failed")
			return
		}
		a.scheduler.Post(func() {
			if err := a.SetResponsePayload(resp); err != nil {
				log.Error().Err(err).Msg("could not handle response payload")
			}
		})
	}()
	return nil
}

// Wait blocks until every request started by SendRequest has completed and its
// response has been handed to the scheduler.
func (a *Api) Wait() {
	a.inflight.Wait()
}

func (a *Api) post(ctx context.Context, body []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", errors.Wrap(err, "build request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "post message")
	}
	defer func() { _ = resp.Body.Close() }()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errors.Wrap(err, "read response")
	}
	if resp.StatusCode != http.StatusOK {
		return "", errors.Errorf("unexpected status %d: %s", resp.StatusCode, bytes.TrimSpace(b))
	}
	if len(bytes.TrimSpace(b)) == 0 {
		return "", errors.New("empty response body")
	}
	log.Debug().Int("bytes", len(b)).Msg("received chat response")
	return string(b), nil
}
