package analyzer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/okian/vigil/internal/domain/facial"
	"github.com/okian/vigil/internal/domain/model"
)

func testFrame() model.FrameSample {
	return model.FrameSample{
		Pixels: []uint8{1, 2, 3, 4},
		Width:  2,
		Height: 2,
		TS:     time.Unix(1_700_000_000, 0),
	}
}

func TestHTTPAnalyzer_RoundTrip(t *testing.T) {
	var gotReq analyzeRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("expected application/json, got %q", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decode request: %v", err)
		}
		_ = json.NewEncoder(w).Encode(analyzeResponse{Faces: []faceResponse{
			{
				Emotion:    "angry",
				Confidence: 0.9,
				Indicators: map[string]float64{model.IndicatorBrowFurrow: 0.6},
			},
		}})
	}))
	defer srv.Close()

	a := NewHTTPAnalyzer(srv.URL)
	faces, err := a.Analyze(context.Background(), testFrame())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotReq.Width != 2 || gotReq.Height != 2 {
		t.Errorf("unexpected request dimensions: %dx%d", gotReq.Width, gotReq.Height)
	}
	if !bytes.Equal(gotReq.Pixels, []byte{1, 2, 3, 4}) {
		t.Errorf("unexpected request pixels: %v", gotReq.Pixels)
	}

	if len(faces) != 1 {
		t.Fatalf("expected 1 face, got %d", len(faces))
	}
	if faces[0].Emotion != "angry" || faces[0].Confidence != 0.9 {
		t.Errorf("unexpected face: %+v", faces[0])
	}
	if faces[0].Indicators[model.IndicatorBrowFurrow] != 0.6 {
		t.Errorf("unexpected indicators: %v", faces[0].Indicators)
	}
}

func TestHTTPAnalyzer_NoFaces(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(analyzeResponse{})
	}))
	defer srv.Close()

	a := NewHTTPAnalyzer(srv.URL)
	faces, err := a.Analyze(context.Background(), testFrame())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(faces) != 0 {
		t.Errorf("expected no faces, got %d", len(faces))
	}
}

func TestHTTPAnalyzer_NonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "model loading", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	a := NewHTTPAnalyzer(srv.URL)
	_, err := a.Analyze(context.Background(), testFrame())
	if !errors.Is(err, ErrUnexpectedStatus) {
		t.Errorf("expected ErrUnexpectedStatus, got %v", err)
	}
}

func TestHTTPAnalyzer_MalformedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))
	defer srv.Close()

	a := NewHTTPAnalyzer(srv.URL)
	if _, err := a.Analyze(context.Background(), testFrame()); err == nil {
		t.Error("expected a decode error")
	}
}

func TestHTTPAnalyzer_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(2 * time.Second):
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()

	a := NewHTTPAnalyzer(srv.URL, WithTimeout(50*time.Millisecond))
	if _, err := a.Analyze(context.Background(), testFrame()); err == nil {
		t.Error("expected a timeout error")
	}
}

func TestStaticAnalyzer_Replay(t *testing.T) {
	scripted := [][]facial.FaceAnalysis{
		{{Emotion: "happy", Confidence: 1.0}},
		nil,
		{{Emotion: "angry", Confidence: 0.8}},
	}
	errs := []error{nil, errors.New("flaky frame")}
	a := NewStaticAnalyzer(scripted, errs)
	ctx := context.Background()

	faces, err := a.Analyze(ctx, testFrame())
	if err != nil || len(faces) != 1 || faces[0].Emotion != "happy" {
		t.Errorf("frame 0: got %v, %v", faces, err)
	}

	if _, err := a.Analyze(ctx, testFrame()); err == nil {
		t.Error("frame 1: expected scripted error")
	}

	faces, err = a.Analyze(ctx, testFrame())
	if err != nil || len(faces) != 1 || faces[0].Emotion != "angry" {
		t.Errorf("frame 2: got %v, %v", faces, err)
	}

	// Past the script, the analyzer sees an empty room.
	faces, err = a.Analyze(ctx, testFrame())
	if err != nil || len(faces) != 0 {
		t.Errorf("frame 3: got %v, %v", faces, err)
	}
}
