package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"golang.org/x/oauth2"

	"github.com/amishk599/cvbuilder/internal/model"
	"github.com/amishk599/cvbuilder/internal/session"
	"github.com/amishk599/cvbuilder/internal/store"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...Option) (*Client, *session.Session) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	sess := session.New(store.NewMemoryStore())
	return NewClient(srv.URL, srv.Client(), sess, discardLogger(), opts...), sess
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func TestUploadPhoto_SendsMultipartFile(t *testing.T) {
	var gotName, gotType, gotBody, gotContentType string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != EndpointUpload || r.Method != http.MethodPost {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
		gotContentType = r.Header.Get("Content-Type")
		f, hdr, err := r.FormFile("file")
		if err != nil {
			t.Errorf("FormFile: %v", err)
			return
		}
		defer f.Close()
		data, _ := io.ReadAll(f)
		gotName, gotType, gotBody = hdr.Filename, hdr.Header.Get("Content-Type"), string(data)
		writeJSON(w, http.StatusOK, map[string]string{"path": "/uploads/a.jpg"})
	})

	path, err := c.UploadPhoto(context.Background(), model.PhotoFile{
		Name: "a.jpg", ContentType: "image/jpeg", Data: []byte("img"),
	})
	if err != nil {
		t.Fatalf("UploadPhoto: %v", err)
	}
	if path != "/uploads/a.jpg" {
		t.Errorf("path = %q", path)
	}
	if !strings.HasPrefix(gotContentType, "multipart/form-data; boundary=") {
		t.Errorf("Content-Type = %q, want multipart with boundary", gotContentType)
	}
	if gotName != "a.jpg" || gotType != "image/jpeg" || gotBody != "img" {
		t.Errorf("file = %q %q %q", gotName, gotType, gotBody)
	}
}

func TestSaveCV_IncludesBearerAndJSON(t *testing.T) {
	var gotAuth, gotType string
	var gotBody map[string]string
	c, sess := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotType = r.Header.Get("Content-Type")
		json.NewDecoder(r.Body).Decode(&gotBody)
		writeJSON(w, http.StatusOK, map[string]any{"id": 123, "name": "Alex", "note": "Stored in database"})
	})
	if err := sess.Set(&oauth2.Token{AccessToken: "xyz"}); err != nil {
		t.Fatal(err)
	}

	saved, err := c.SaveCV(context.Background(), model.Draft{Name: "Alex"})
	if err != nil {
		t.Fatalf("SaveCV: %v", err)
	}
	if saved.ID != 123 {
		t.Errorf("ID = %d, want 123", saved.ID)
	}
	if gotAuth != "Bearer xyz" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if gotType != "application/json" {
		t.Errorf("Content-Type = %q", gotType)
	}
	if gotBody["name"] != "Alex" {
		t.Errorf("body name = %q", gotBody["name"])
	}
	if _, ok := gotBody["job_description"]; !ok {
		t.Error("body missing job_description")
	}
}

func TestSaveCV_WithoutSessionMakesNoRequest(t *testing.T) {
	calls := 0
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) { calls++ })

	_, err := c.SaveCV(context.Background(), model.Draft{Name: "Alex"})
	if !errors.Is(err, model.ErrSignInRequired) {
		t.Fatalf("err = %v, want ErrSignInRequired", err)
	}
	if calls != 0 {
		t.Errorf("requests = %d, want 0", calls)
	}
}

func TestAnalyze_CallsCorrectEndpoints(t *testing.T) {
	var paths []string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		score := 70
		if r.URL.Path == EndpointLLM {
			score = 72
		}
		writeJSON(w, http.StatusOK, map[string]any{"matching_score": score})
	})

	fast, err := c.AnalyzeCV(context.Background(), model.Draft{})
	if err != nil {
		t.Fatalf("AnalyzeCV: %v", err)
	}
	llm, err := c.AnalyzeCVLLM(context.Background(), model.Draft{})
	if err != nil {
		t.Fatalf("AnalyzeCVLLM: %v", err)
	}

	fs, _ := fast.Summary()
	ls, _ := llm.Summary()
	if fs.MatchingScore != 70 || ls.MatchingScore != 72 {
		t.Errorf("scores = %v, %v", fs.MatchingScore, ls.MatchingScore)
	}
	if len(paths) != 2 || paths[0] != EndpointFast || paths[1] != EndpointLLM {
		t.Errorf("paths = %v", paths)
	}
}

func TestGenerateCV_ReturnsBytes(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != EndpointGenerate {
			t.Errorf("path = %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/pdf")
		w.Write([]byte("%PDF-1.4 x"))
	})

	doc, err := c.GenerateCV(context.Background(), model.Draft{Name: "Alex"})
	if err != nil {
		t.Fatalf("GenerateCV: %v", err)
	}
	if string(doc) != "%PDF-1.4 x" {
		t.Errorf("doc = %q", doc)
	}
}

func TestGenerateCV_FailureStatus(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("Internal Server Error"))
	})

	_, err := c.GenerateCV(context.Background(), model.Draft{})
	var re *model.RequestError
	if !errors.As(err, &re) || re.StatusCode != 500 {
		t.Fatalf("err = %v, want RequestError 500", err)
	}
}

func TestRegisterAndLogin_StoresToken(t *testing.T) {
	var loginForm map[string]string
	c, sess := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case EndpointRegister:
			var body map[string]string
			json.NewDecoder(r.Body).Decode(&body)
			writeJSON(w, http.StatusOK, map[string]any{"id": 1, "email": body["email"], "username": body["username"]})
		case EndpointLogin:
			if ct := r.Header.Get("Content-Type"); ct != "application/x-www-form-urlencoded" {
				t.Errorf("login Content-Type = %q", ct)
			}
			r.ParseForm()
			loginForm = map[string]string{
				"grant_type": r.PostForm.Get("grant_type"),
				"username":   r.PostForm.Get("username"),
				"password":   r.PostForm.Get("password"),
			}
			writeJSON(w, http.StatusOK, map[string]string{"access_token": "tok", "token_type": "bearer"})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	})

	user, err := c.Register(context.Background(), "a@a.com", "p", "alex")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if user.ID != 1 || user.Username != "alex" {
		t.Errorf("user = %+v", user)
	}
	if sess.Active() {
		t.Error("register alone must not sign in")
	}

	tok, err := c.Login(context.Background(), "a@a.com", "p")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if tok.AccessToken != "tok" {
		t.Errorf("AccessToken = %q", tok.AccessToken)
	}
	if got := sess.Token(); got == nil || got.AccessToken != "tok" {
		t.Errorf("session token = %v", got)
	}
	if loginForm["grant_type"] != "password" || loginForm["username"] != "a@a.com" || loginForm["password"] != "p" {
		t.Errorf("login form = %v", loginForm)
	}
}

func TestLogin_BadCredentialsSurfaceDetail(t *testing.T) {
	tests := []struct {
		name   string
		status int
	}{
		{"unauthorized", http.StatusUnauthorized},
		{"bad request", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			notified := 0
			c, sess := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, tt.status, map[string]string{"detail": "Invalid credentials"})
			}, WithUnauthorizedHandler(func() { notified++ }))

			_, err := c.Login(context.Background(), "alex", "wrong")
			var de *model.DomainError
			if !errors.As(err, &de) || de.Message != "Invalid credentials" {
				t.Fatalf("err = %v, want DomainError with detail", err)
			}
			if errors.Is(err, model.ErrUnauthorized) {
				t.Error("bad credentials reported as an expired session")
			}
			if notified != 0 {
				t.Errorf("unauthorized handler calls = %d, want 0", notified)
			}
			if sess.Active() {
				t.Error("failed login must not store a token")
			}
		})
	}
}

func TestLogin_BadCredentialsKeepExistingSession(t *testing.T) {
	c, sess := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Invalid credentials"})
	})
	sess.Set(&oauth2.Token{AccessToken: "still-valid"})

	if _, err := c.Login(context.Background(), "other", "wrong"); err == nil {
		t.Fatal("expected login error")
	}
	if got := sess.Token(); got == nil || got.AccessToken != "still-valid" {
		t.Errorf("session token = %v, want the previous token kept", got)
	}
}

func TestMe_UnauthorizedClearsSessionAndNotifies(t *testing.T) {
	notified := 0
	c, sess := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Unauthorized"})
	}, WithUnauthorizedHandler(func() { notified++ }))
	sess.Set(&oauth2.Token{AccessToken: "will-expire"})

	_, err := c.Me(context.Background())
	if !errors.Is(err, model.ErrUnauthorized) {
		t.Fatalf("err = %v, want ErrUnauthorized", err)
	}
	if sess.Active() {
		t.Error("session should be cleared after 401")
	}
	if notified != 1 {
		t.Errorf("unauthorized handler calls = %d, want 1", notified)
	}
}

func TestErrors_Normalised(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantMsg string
		domain  bool
	}{
		{"detail string", 503, `{"detail":"Service down"}`, "Service down", true},
		{"message field", 500, `{"message":"db locked"}`, "db locked", true},
		{"validation list", 422, `{"detail":[{"loc":["body","email"],"msg":"value is not a valid email address"}]}`, "value is not a valid email address", true},
		{"unparsable", 500, `<html>oops</html>`, "Request failed (500)", false},
		{"empty object", 502, `{}`, "Request failed (502)", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})
			_, err := c.AnalyzeCV(context.Background(), model.Draft{})
			if err == nil {
				t.Fatal("expected error")
			}
			if got := model.Message(err); got != tt.wantMsg {
				t.Errorf("Message = %q, want %q", got, tt.wantMsg)
			}
			var de *model.DomainError
			if errors.As(err, &de) != tt.domain {
				t.Errorf("DomainError = %v, want %v", !tt.domain, tt.domain)
			}
			if model.StatusCode(err) != tt.status {
				t.Errorf("StatusCode = %d, want %d", model.StatusCode(err), tt.status)
			}
		})
	}
}

func TestNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	c := NewClient(url, &http.Client{}, session.New(store.NewMemoryStore()), discardLogger())
	_, err := c.AnalyzeCV(context.Background(), model.Draft{})
	var ne *model.NetworkError
	if !errors.As(err, &ne) {
		t.Fatalf("err = %v, want NetworkError", err)
	}
	if model.Message(err) != "Network error (server unreachable)" {
		t.Errorf("Message = %q", model.Message(err))
	}
}

func TestGetCVAndList(t *testing.T) {
	c, sess := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/cv/7/raw":
			writeJSON(w, http.StatusOK, map[string]any{"id": 7, "name": "Alex", "skills": "Go", "created_at": "2025-01-01T00:00:00"})
		case EndpointMyCVs:
			writeJSON(w, http.StatusOK, []map[string]any{{"id": 7, "name": "Alex"}, {"id": 3, "name": "Alex (old)"}})
		default:
			writeJSON(w, http.StatusNotFound, map[string]string{"detail": "CV not found"})
		}
	})
	sess.Set(&oauth2.Token{AccessToken: "xyz"})

	cv, err := c.GetCV(context.Background(), 7)
	if err != nil {
		t.Fatalf("GetCV: %v", err)
	}
	if cv.ID != 7 || cv.Draft.Skills != "Go" {
		t.Errorf("cv = %+v", cv)
	}

	list, err := c.ListCVs(context.Background())
	if err != nil {
		t.Fatalf("ListCVs: %v", err)
	}
	if len(list) != 2 || list[1].ID != 3 {
		t.Errorf("list = %+v", list)
	}

	_, err = c.GetCV(context.Background(), 99)
	if model.Message(err) != "CV not found" {
		t.Errorf("missing cv err = %v", err)
	}
}

func TestStatus(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "time": "2025-01-01T00:00:00Z"})
	})
	st, err := c.Status(context.Background())
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if st.Status != "ok" {
		t.Errorf("status = %q", st.Status)
	}
}
