package httpadapter

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"strconv"

	"github.com/couchcryptid/storm-spi-service/internal/domain"
	"github.com/couchcryptid/storm-spi-service/internal/scoring"
)

const maxBodyBytes = 64 << 10

const (
	msgInvalidInput = "Every parameter must be a number. Please correct the highlighted fields."
	msgInference    = "The prediction models could not score this input. Please try again later."
	msgUnavailable  = "The request was canceled before it could be scored."
	msgBadRequest   = "The submission could not be read."
)

//go:embed templates/main.html
var templateFS embed.FS

var pageTemplate = template.Must(template.New("main.html").Funcs(template.FuncMap{
	"pct": func(v float64) string { return strconv.FormatFloat(v, 'f', 1, 64) },
}).ParseFS(templateFS, "templates/main.html"))

type formField struct {
	Name    string
	Label   string
	Value   string
	Problem string
}

type pageData struct {
	Fields []formField
	Result *domain.PredictionResult
	Error  string
}

func newPageData(in domain.RawInput, err error) pageData {
	problems := fieldProblems(err)
	p := pageData{Fields: make([]formField, domain.FeatureCount)}
	for i, f := range domain.Features {
		v, _ := in.Value(i)
		p.Fields[i] = formField{Name: f.Name, Label: f.Label, Value: v, Problem: problems[f.Name]}
	}
	return p
}

// fieldProblems maps column name to a short message for each invalid field.
func fieldProblems(err error) map[string]string {
	out := make(map[string]string)
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		return out
	}
	for _, p := range verr.Problems {
		var (
			missing  *domain.MissingFieldError
			parseErr *domain.ParseError
		)
		switch {
		case errors.As(p, &missing):
			out[missing.Field] = "a value is required"
		case errors.As(p, &parseErr):
			out[parseErr.Field] = "not a number"
		}
	}
	return out
}

// statusFor maps a scoring error to an HTTP status and user-facing message.
func statusFor(err error) (int, string) {
	var (
		verr *domain.ValidationError
		ierr *domain.ModelInferenceError
	)
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest, msgInvalidInput
	case errors.As(err, &ierr):
		return http.StatusInternalServerError, msgInference
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable, msgUnavailable
	default:
		return http.StatusInternalServerError, msgInference
	}
}

func (s *Server) handleForm(w http.ResponseWriter, _ *http.Request) {
	s.render(w, http.StatusOK, newPageData(domain.RawInput{}, nil))
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		s.logger.Info("form parse failed", "error", err)
		p := newPageData(domain.RawInput{}, nil)
		p.Error = msgBadRequest
		s.render(w, http.StatusBadRequest, p)
		return
	}

	values := make(map[string]string, len(r.PostForm))
	for k, v := range r.PostForm {
		if len(v) > 0 {
			values[k] = v[0]
		}
	}

	out, err := s.scorer.Score(r.Context(), values)
	p := newPageData(out.Input, err)
	if err != nil {
		status, msg := statusFor(err)
		p.Error = msg
		s.render(w, status, p)
		return
	}
	p.Result = &out.Result
	s.render(w, http.StatusOK, p)
}

func (s *Server) render(w http.ResponseWriter, status int, p pageData) {
	var buf bytes.Buffer
	if err := s.page.Execute(&buf, p); err != nil {
		s.logger.Error("render page", "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// fieldError is one invalid field in a JSON error response.
type fieldError struct {
	Field   string `json:"field"`
	Label   string `json:"label"`
	Problem string `json:"problem"`
}

type errorResponse struct {
	State  string             `json:"state"`
	Error  string             `json:"error"`
	Fields []fieldError       `json:"fields,omitempty"`
	Inputs []domain.EchoField `json:"inputs,omitempty"`
}

type predictResponse struct {
	State string `json:"state"`
	domain.PredictionResult
}

func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	values, err := decodeValues(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		s.logger.Info("predict body rejected", "error", err)
		writeJSON(w, http.StatusBadRequest, errorResponse{State: scoring.Rejected.String(), Error: err.Error()})
		return
	}

	out, err := s.scorer.Score(r.Context(), values)
	if err != nil {
		status, msg := statusFor(err)
		resp := errorResponse{State: out.State.String(), Error: msg, Inputs: out.Input.Echo()}
		problems := fieldProblems(err)
		for _, f := range domain.Features {
			if p, ok := problems[f.Name]; ok {
				resp.Fields = append(resp.Fields, fieldError{Field: f.Name, Label: f.Label, Problem: p})
			}
		}
		writeJSON(w, status, resp)
		return
	}
	writeJSON(w, http.StatusOK, predictResponse{State: out.State.String(), PredictionResult: out.Result})
}

// decodeValues reads a flat JSON object. Numbers keep their literal text;
// strings pass through; null is treated as absent.
func decodeValues(body io.Reader) (map[string]string, error) {
	dec := json.NewDecoder(body)
	dec.UseNumber()

	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode request body: %w", err)
	}

	values := make(map[string]string, len(raw))
	for k, v := range raw {
		switch t := v.(type) {
		case nil:
		case json.Number:
			values[k] = t.String()
		case string:
			values[k] = t
		default:
			return nil, fmt.Errorf("field %q: expected a number or string", k)
		}
	}
	return values, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
