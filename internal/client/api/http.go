package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/flashdeck/flashdeck/internal/client/models"
	"github.com/flashdeck/flashdeck/internal/common"
	"github.com/flashdeck/flashdeck/internal/logging"
)

const (
	contentTypeJSON = "application/json"
	contentTypeForm = "application/x-www-form-urlencoded"
)

// HTTPClient is the concrete Client talking to the backend REST API. It is
// the single configured HTTP client of the application: base URL, default
// JSON content type, bearer-token injection from the TokenSource, and global
// 401 detection all live here and nowhere else.
type HTTPClient struct {
	baseURL         string
	http            *http.Client
	session         TokenSource
	log             logging.Logger
	requestTimeout  time.Duration
	transferTimeout time.Duration
}

// NewHTTPClient builds a client for the API at baseURL. requestTimeout bounds
// JSON calls; transferTimeout bounds uploads and exports, which block on
// server-side card generation and can run much longer.
func NewHTTPClient(baseURL string, requestTimeout, transferTimeout time.Duration, session TokenSource, log logging.Logger) *HTTPClient {
	return &HTTPClient{
		baseURL:         strings.TrimRight(baseURL, "/"),
		http:            &http.Client{},
		session:         session,
		log:             log,
		requestTimeout:  requestTimeout,
		transferTimeout: transferTimeout,
	}
}

// do performs one HTTP call and returns the raw response body. Bearer
// injection and authentication-expiry detection happen here for every
// request; individual resource calls never re-check auth.
func (c *HTTPClient) do(ctx context.Context, method, path string, body io.Reader, contentType string, timeout time.Duration) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	token := c.session.Token()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrUnavailable, err)
	}

	if resp.StatusCode == http.StatusUnauthorized && token != "" {
		c.log.Warn(ctx, "session rejected by server", "method", method, "path", path)
		c.session.Expire()
		return nil, common.ErrUnauthorized
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, &RequestError{Status: resp.StatusCode, Message: errorDetail(data, resp.Status)}
	}

	return data, nil
}

// errorDetail extracts the server's error message. The backend wraps errors
// as {"detail": "..."}; anything else falls back to the raw body or the
// status line.
func errorDetail(data []byte, status string) string {
	var payload struct {
		Detail any `json:"detail"`
	}
	if err := json.Unmarshal(data, &payload); err == nil {
		if msg, ok := payload.Detail.(string); ok && msg != "" {
			return msg
		}
	}
	if len(data) > 0 {
		return string(data)
	}
	return status
}

func (c *HTTPClient) decode(endpoint string, data []byte, v any) error {
	if err := json.Unmarshal(data, v); err != nil {
		return &DecodeError{Endpoint: endpoint, Err: err}
	}
	return nil
}

// Register creates a new account. It does not authenticate the client.
func (c *HTTPClient) Register(ctx context.Context, email, password string) error {
	body, err := json.Marshal(map[string]string{"email": email, "password": password})
	if err != nil {
		return err
	}
	_, err = c.do(ctx, http.MethodPost, "/auth/register", bytes.NewReader(body), contentTypeJSON, c.requestTimeout)
	return err
}

// Login exchanges credentials for an access token. The endpoint expects
// form-encoded fields named username/password. Invalid credentials map to
// common.ErrInvalidCredentials with the server's message preserved.
func (c *HTTPClient) Login(ctx context.Context, email, password string) (string, error) {
	form := url.Values{}
	form.Set("username", email)
	form.Set("password", password)

	data, err := c.do(ctx, http.MethodPost, "/auth/login", strings.NewReader(form.Encode()), contentTypeForm, c.requestTimeout)
	if err != nil {
		var reqErr *RequestError
		if errors.As(err, &reqErr) && (reqErr.Status == http.StatusBadRequest || reqErr.Status == http.StatusUnauthorized) {
			return "", fmt.Errorf("%w: %s", common.ErrInvalidCredentials, reqErr.Message)
		}
		return "", err
	}

	var resp struct {
		AccessToken string `json:"access_token"`
	}
	if err := c.decode("login", data, &resp); err != nil {
		return "", err
	}
	if resp.AccessToken == "" {
		return "", &DecodeError{Endpoint: "login", Err: fmt.Errorf("missing access_token")}
	}
	return resp.AccessToken, nil
}

// ListDecks returns all of the user's decks with their cached card counts.
func (c *HTTPClient) ListDecks(ctx context.Context) ([]models.Deck, error) {
	data, err := c.do(ctx, http.MethodGet, "/cards/decks", nil, "", c.requestTimeout)
	if err != nil {
		return nil, err
	}
	var decks []models.Deck
	if err := c.decode("decks", data, &decks); err != nil {
		return nil, err
	}
	return decks, nil
}

// DeleteDeck removes a deck and its cards server-side.
func (c *HTTPClient) DeleteDeck(ctx context.Context, id int) error {
	_, err := c.do(ctx, http.MethodDelete, "/cards/decks/"+strconv.Itoa(id), nil, "", c.requestTimeout)
	return err
}

// ExportDeck fetches one deck's cards as a text payload, returned verbatim.
func (c *HTTPClient) ExportDeck(ctx context.Context, id int) ([]byte, error) {
	return c.do(ctx, http.MethodGet, "/cards/decks/"+strconv.Itoa(id)+"/export", nil, "", c.transferTimeout)
}

// ListCards returns the user's cards, optionally scoped to one deck.
func (c *HTTPClient) ListCards(ctx context.Context, deckID *int) ([]models.Card, error) {
	path := "/cards/"
	if deckID != nil {
		path += "?deck_id=" + strconv.Itoa(*deckID)
	}
	data, err := c.do(ctx, http.MethodGet, path, nil, "", c.requestTimeout)
	if err != nil {
		return nil, err
	}
	var cards []models.Card
	if err := c.decode("cards", data, &cards); err != nil {
		return nil, err
	}
	return cards, nil
}

// UpdateCard replaces a card's question and answer, returning the updated card.
func (c *HTTPClient) UpdateCard(ctx context.Context, id int, question, answer string) (*models.Card, error) {
	body, err := json.Marshal(map[string]string{"question": question, "answer": answer})
	if err != nil {
		return nil, err
	}
	data, err := c.do(ctx, http.MethodPut, "/cards/"+strconv.Itoa(id), bytes.NewReader(body), contentTypeJSON, c.requestTimeout)
	if err != nil {
		return nil, err
	}
	var card models.Card
	if err := c.decode("card", data, &card); err != nil {
		return nil, err
	}
	return &card, nil
}

// DeleteCard removes a single card.
func (c *HTTPClient) DeleteCard(ctx context.Context, id int) error {
	_, err := c.do(ctx, http.MethodDelete, "/cards/"+strconv.Itoa(id), nil, "", c.requestTimeout)
	return err
}

// UploadPDF sends the file at path as a multipart request and returns the
// cards the server generated from it. The call blocks until generation
// finishes, so it runs under the transfer timeout.
func (c *HTTPClient) UploadPDF(ctx context.Context, path string) ([]models.Card, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, f); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	data, err := c.do(ctx, http.MethodPost, "/cards/upload", &buf, w.FormDataContentType(), c.transferTimeout)
	if err != nil {
		return nil, err
	}

	var cards []models.Card
	if err := c.decode("upload", data, &cards); err != nil {
		return nil, err
	}
	return cards, nil
}

// ExportAllCards fetches every card as a text payload, returned verbatim.
func (c *HTTPClient) ExportAllCards(ctx context.Context) ([]byte, error) {
	return c.do(ctx, http.MethodGet, "/cards/export/txt", nil, "", c.transferTimeout)
}
