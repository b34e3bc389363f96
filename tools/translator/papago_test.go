package translator

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"gitlab.com/transcodeuz/subtitle-translator/config"
	"gitlab.com/transcodeuz/subtitle-translator/pkg/logger"
)

func testConfig(endpoint string) *config.Config {
	cfg := &config.Config{}
	cfg.PapagoURL = endpoint
	cfg.PapagoClientID = "id"
	cfg.PapagoSecret = "secret"
	cfg.SourceLanguage = "ko"
	cfg.TargetLanguage = "en"
	cfg.TranslateTimeout = 2 * time.Second
	return cfg
}

func TestTranslate(t *testing.T) {
	var gotID, gotKey, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID = r.Header.Get("X-NCP-APIGW-API-KEY-ID")
		gotKey = r.Header.Get("X-NCP-APIGW-API-KEY")
		if err := r.ParseForm(); err != nil {
			t.Errorf("ParseForm: %v", err)
		}
		gotBody = r.PostForm.Encode()
		w.Write([]byte(`{"message":{"result":{"translatedText":"Hello"}}}`))
	}))
	defer srv.Close()

	tr := New(testConfig(srv.URL), logger.New("error", "test"))

	got, err := tr.Translate(context.Background(), "안녕하세요")
	if err != nil {
		t.Fatalf("Translate returned error: %v", err)
	}
	if got != "Hello" {
		t.Fatalf("Translate = %q, want %q", got, "Hello")
	}
	if gotID != "id" || gotKey != "secret" {
		t.Fatalf("credential headers not attached: %q %q", gotID, gotKey)
	}
	if !strings.Contains(gotBody, "source=ko") || !strings.Contains(gotBody, "target=en") {
		t.Fatalf("unexpected form body: %q", gotBody)
	}
}

func TestTranslateEmptyInput(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("empty input must not reach the network")
	}))
	defer srv.Close()

	tr := New(testConfig(srv.URL), logger.New("error", "test"))

	got, err := tr.Translate(context.Background(), "   ")
	if err != nil {
		t.Fatalf("Translate returned error: %v", err)
	}
	if got != "" {
		t.Fatalf("Translate = %q, want empty", got)
	}
}

func TestTranslateHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	tr := New(testConfig(srv.URL), logger.New("error", "test"))

	_, err := tr.Translate(context.Background(), "안녕하세요")
	var trErr *Error
	if !errors.As(err, &trErr) {
		t.Fatalf("expected *Error, got %T: %v", err, err)
	}
	if !strings.Contains(trErr.Detail, "429") {
		t.Fatalf("expected status in detail, got %q", trErr.Detail)
	}
	if !strings.HasPrefix(ErrorText(err), "[Translation error: ") {
		t.Fatalf("unexpected preview text: %q", ErrorText(err))
	}
}

func TestTranslateMalformedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"unexpected":true}`))
	}))
	defer srv.Close()

	tr := New(testConfig(srv.URL), logger.New("error", "test"))

	_, err := tr.Translate(context.Background(), "안녕하세요")
	var trErr *Error
	if !errors.As(err, &trErr) {
		t.Fatalf("expected *Error, got %T: %v", err, err)
	}
}
