package translator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"gitlab.com/transcodeuz/subtitle-translator/config"
	"gitlab.com/transcodeuz/subtitle-translator/pkg/logger"
	"gitlab.com/transcodeuz/subtitle-translator/tools/subtitle"
)

// Error is returned for any failed translation attempt: transport error,
// non-200 response or an unexpected response shape. The failure channel is a
// typed error, never text smuggled through the translated string.
type Error struct {
	Detail string
}

func (e *Error) Error() string {
	return "translation failed: " + e.Detail
}

// ErrorText renders a translation error the way the preview channel shows it
// once per run.
func ErrorText(err error) string {
	var trErr *Error
	if errors.As(err, &trErr) {
		return fmt.Sprintf("[Translation error: %s]", trErr.Detail)
	}

	return fmt.Sprintf("[Translation error: %s]", err)
}

// Papago is the NMT client for the Papago translation endpoint
type Papago struct {
	cfg    *config.Config
	log    logger.Logger
	client *http.Client
}

// New - returns the Papago client with a bounded per-request timeout
func New(cfg *config.Config, log logger.Logger) subtitle.Translator {
	return &Papago{
		cfg: cfg,
		log: log,
		client: &http.Client{
			Timeout: cfg.TranslateTimeout,
		},
	}
}

type papagoResponse struct {
	Message struct {
		Result struct {
			TranslatedText string `json:"translatedText"`
		} `json:"result"`
	} `json:"message"`
}

// Translate issues a single synchronous request, no retries. Empty input
// short-circuits to empty output without a network call.
func (p *Papago) Translate(ctx context.Context, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", nil
	}

	form := url.Values{}
	form.Set("source", p.cfg.SourceLanguage)
	form.Set("target", p.cfg.TargetLanguage)
	form.Set("text", text)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.cfg.PapagoURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", &Error{Detail: err.Error()}
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("X-NCP-APIGW-API-KEY-ID", p.cfg.PapagoClientID)
	req.Header.Set("X-NCP-APIGW-API-KEY", p.cfg.PapagoSecret)

	res, err := p.client.Do(req)
	if err != nil {
		p.log.Error("Error while calling translation endpoint", logger.Error(err))
		return "", &Error{Detail: err.Error()}
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		p.log.Error(
			"Translation endpoint returned non-200",
			logger.Int("status", res.StatusCode),
			logger.String("body", string(body)),
		)
		return "", &Error{Detail: fmt.Sprintf("unexpected status %d", res.StatusCode)}
	}

	var payload papagoResponse
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		p.log.Error("Error while decoding translation response", logger.Error(err))
		return "", &Error{Detail: "malformed response: " + err.Error()}
	}

	if payload.Message.Result.TranslatedText == "" {
		return "", &Error{Detail: "empty translated text in response"}
	}

	return payload.Message.Result.TranslatedText, nil
}
