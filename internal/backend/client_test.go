package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/terraincognita07/pitlane/internal/services"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client := NewClient(server.URL+"/api/", time.Second, nil)
	client.now = func() time.Time { return time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC) }
	return client
}

func TestLoginSendsHeadersAndBuildsSession(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/login", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "ro", r.Header.Get("Accept-Language"))
		assert.Empty(t, r.Header.Get("Authorization"))

		body := map[string]string{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "user1@gmail.com", body["email"])

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"success":true,"token":"tok-1","token_type":"Bearer","user":{"first_name":"Test","last_name":"User","email":"user1@gmail.com"}}`)
	})

	session, err := client.Login(context.Background(), services.LoginInput{Email: "user1@gmail.com", Password: "Password123!"}, "ro")
	require.NoError(t, err)
	assert.Equal(t, "tok-1", session.Token)
	assert.Equal(t, "Test User", session.Name)
	assert.Equal(t, time.Date(2025, 5, 8, 12, 0, 0, 0, time.UTC), session.ExpiresAt)
}

func TestErrorsCarryBackendMessage(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/login":
			w.WriteHeader(http.StatusUnauthorized)
			fmt.Fprint(w, `{"message":"Username or password does not match"}`)
		case "/api/forgot-password":
			w.WriteHeader(http.StatusTooManyRequests)
			fmt.Fprint(w, `{"error":"Too Many Attempts."}`)
		default:
			w.WriteHeader(http.StatusInternalServerError)
			fmt.Fprint(w, `not json`)
		}
	})
	ctx := context.Background()

	_, err := client.Login(ctx, services.LoginInput{Email: "a@b.co", Password: "x"}, "en")
	var gatewayErr *services.GatewayError
	require.True(t, errors.As(err, &gatewayErr))
	assert.True(t, gatewayErr.Unauthorized())
	assert.Equal(t, "rest.login.message", services.BackendMessageKey(gatewayErr.Message))

	err = client.ForgotPassword(ctx, services.ForgotPasswordInput{Email: "a@b.co"}, "127.0.0.1", "en")
	require.True(t, errors.As(err, &gatewayErr))
	assert.Equal(t, services.BackendMessageTooManyAttempts, gatewayErr.Message)

	err = client.ResetPassword(ctx, services.ResetPasswordInput{Token: "t", Password: "Aa1!aaaa", ConfirmPassword: "Aa1!aaaa"}, "en")
	require.True(t, errors.As(err, &gatewayErr))
	assert.Equal(t, "Something went wrong", gatewayErr.Message)
}

func TestRegisterSplitsName(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		body := map[string]string{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Ana", body["first_name"])
		assert.Equal(t, "Maria Pop", body["last_name"])
		assert.Equal(t, body["password"], body["password_confirmation"])
		fmt.Fprint(w, `{"success":true,"user":{"first_name":"Ana","last_name":"Maria Pop","email":"ana@example.com"}}`)
	})

	result, err := client.Register(context.Background(), services.RegistrationInput{
		Name:            "Ana Maria Pop",
		Email:           "ana@example.com",
		Password:        "Password123!",
		ConfirmPassword: "Password123!",
	}, "en")
	require.NoError(t, err)
	assert.Equal(t, "Ana Maria Pop", result.Name)
	assert.Equal(t, "ana@example.com", result.Email)
}

func TestLogoutSendsBearerAndIgnoresUnauthorized(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok-9", r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"message":"Unauthenticated."}`)
	})

	err := client.Logout(context.Background(), services.Session{Token: "tok-9"}, "en")
	assert.NoError(t, err)
}

func TestUnreachableBackendIsUnavailable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	server.Close()
	client := NewClient(server.URL, 200*time.Millisecond, nil)

	_, err := client.Login(context.Background(), services.LoginInput{Email: "a@b.co", Password: "x"}, "en")
	assert.ErrorIs(t, err, services.ErrAuthUnavailable)
}

func TestListCoursesAcceptsEnvelopeAndArray(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/courses", r.URL.Path)
		assert.Equal(t, "100", r.URL.Query().Get("itemsPerPage"))
		fmt.Fprint(w, `{"data":[{"id":3,"title":" Racing Lines ","description":"d","price":"189.5","duration":6,"image_url":"/uploads/kart3.jpg"}],"last_page":1}`)
	})

	courses, err := client.ListCourses(context.Background())
	require.NoError(t, err)
	require.Len(t, courses, 1)
	assert.Equal(t, "Racing Lines", courses[0].Title)
	assert.Equal(t, 189.5, courses[0].Price)
	assert.Equal(t, "6", courses[0].Duration)
	assert.Equal(t, "/uploads/kart3.jpg", courses[0].ImageURL)

	list, _, err := decodeCoursePage(json.RawMessage(`[{"id":1,"title":"Basics","price":99,"duration":"2 hours","imageUrl":"/uploads/kart1.jpg"}]`))
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "2 hours", list[0].model().Duration)
}
