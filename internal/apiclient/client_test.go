package apiclient_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Rrens/storefront-assistant/internal/apiclient"
	"github.com/Rrens/storefront-assistant/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func staticToken(token string) apiclient.TokenSource {
	return apiclient.TokenFunc(func(ctx context.Context) (string, error) {
		return token, nil
	})
}

func newTestClient(t *testing.T, token string, h http.HandlerFunc) *apiclient.Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return apiclient.New(srv.URL+"/api", staticToken(token), apiclient.WithTimeout(5*time.Second))
}

func TestClient_AttachesBearerToken(t *testing.T) {
	var gotAuth string
	client := newTestClient(t, "abc123", func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{"id":"u1","name":"Ada","email":"ada@example.com"}`))
	})

	user, err := client.GetProfile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer abc123", gotAuth)
	assert.Equal(t, "Ada", user.Name)
}

func TestClient_OmitsHeaderWithoutToken(t *testing.T) {
	var hasAuth bool
	client := newTestClient(t, "", func(w http.ResponseWriter, r *http.Request) {
		_, hasAuth = r.Header["Authorization"]
		w.Write([]byte(`[]`))
	})

	products, err := client.SearchProducts(context.Background(), "laptop")
	require.NoError(t, err)
	assert.False(t, hasAuth)
	assert.Empty(t, products)
}

func TestClient_ErrorNormalization(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantMsg string
	}{
		{"single message", http.StatusUnauthorized, `{"message":"Invalid credentials"}`, "Invalid credentials"},
		{"field error list", http.StatusBadRequest, `{"errors":[{"msg":"Email is invalid","param":"email"},{"msg":"Password too short","param":"password"}]}`, "Email is invalid, Password too short"},
		{"string list", http.StatusBadRequest, `{"errors":["a","b"]}`, "a, b"},
		{"field map", http.StatusBadRequest, `{"errors":{"password":"too short","email":"required"}}`, "required, too short"},
		{"error string", http.StatusForbidden, `{"error":"Forbidden"}`, "Forbidden"},
		{"nested error", http.StatusInternalServerError, `{"error":{"message":"boom"}}`, "boom"},
		{"detail", http.StatusNotFound, `{"detail":"Not found"}`, "Not found"},
		{"empty object", http.StatusBadGateway, `{}`, "Request failed with status 502"},
		{"non json", http.StatusServiceUnavailable, `upstream down`, "upstream down"},
		{"html", http.StatusBadGateway, `<html>bad gateway</html>`, "Request failed with status 502"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, "", func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})

			_, err := client.Login(context.Background(), domain.UserLogin{Email: "a@b.co", Password: "x"})
			require.Error(t, err)
			assert.Equal(t, tt.wantMsg, err.Error())

			var apiErr *apiclient.Error
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.status, apiErr.Status)
		})
	}
}

func TestClient_FieldErrorsExposed(t *testing.T) {
	client := newTestClient(t, "", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"errors":[{"msg":"Email is invalid","param":"email"}]}`))
	})

	_, err := client.Register(context.Background(), domain.UserCreate{})
	var apiErr *apiclient.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, map[string]string{"email": "Email is invalid"}, apiErr.Fields)
}

func TestClient_NetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	client := apiclient.New(srv.URL, nil)
	_, err := client.StartSession(context.Background(), "laptop")
	require.Error(t, err)
	assert.NotEmpty(t, err.Error())
}

func TestClient_MalformedSuccessBody(t *testing.T) {
	client := newTestClient(t, "", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"session_id":`))
	})

	_, err := client.StartSession(context.Background(), "laptop")
	assert.Error(t, err)
}

func TestClient_ChatEndpoints(t *testing.T) {
	type call struct {
		method string
		path   string
		body   map[string]any
	}
	var calls []call

	client := newTestClient(t, "tok", func(w http.ResponseWriter, r *http.Request) {
		c := call{method: r.Method, path: r.URL.Path}
		if data, _ := io.ReadAll(r.Body); len(data) > 0 {
			json.Unmarshal(data, &c.body)
		}
		calls = append(calls, c)

		switch r.URL.Path {
		case "/api/chat/start-session":
			w.Write([]byte(`{"session_id":"s1","message":"Hi","products":[]}`))
		case "/api/chat/message":
			w.Write([]byte(`{"message":"Sure","products":[{"id":7,"name":"X1","price":"499.99","brand":"Acme"}],"filters":{"max_price":500}}`))
		case "/api/conversations/s 1":
			w.Write([]byte(`{"messages":[{"sender":"user","text":"laptop"},{"sender":"bot","text":"Hi"}]}`))
		case "/api/search-sessions":
			w.Write([]byte(`{"sessions":[{"session_id":"s1","category":"laptop"}]}`))
		case "/api/chat/link-session":
			w.Write([]byte(`{"success":true}`))
		case "/api/sessions/s1/products":
			w.Write([]byte(`{"products":[{"id":"p1","name":"Air"}]}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	ctx := context.Background()

	start, err := client.StartSession(ctx, "laptop")
	require.NoError(t, err)
	assert.Equal(t, "s1", start.SessionID)
	assert.Equal(t, "Hi", start.Message)

	reply, err := client.SendMessage(ctx, "s1", "budget $500")
	require.NoError(t, err)
	require.Len(t, reply.Products, 1)
	assert.Equal(t, "7", reply.Products[0].ID)
	assert.Equal(t, 499.99, reply.Products[0].Price)
	assert.Equal(t, "Acme", reply.Products[0].Attributes["brand"])
	assert.Equal(t, float64(500), reply.Filters["max_price"])

	conv, err := client.GetConversation(ctx, "s 1")
	require.NoError(t, err)
	assert.Equal(t, "s 1", conv.SessionID)
	assert.Len(t, conv.Messages, 2)

	sessions, err := client.ListSearchSessions(ctx)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, "laptop", sessions[0].Category)

	require.NoError(t, client.LinkSession(ctx, "s1"))

	products, err := client.GetSessionProducts(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Air", products[0].Name)

	require.Len(t, calls, 6)
	assert.Equal(t, map[string]any{"category": "laptop"}, calls[0].body)
	assert.Equal(t, map[string]any{"session_id": "s1", "message": "budget $500"}, calls[1].body)
	assert.Equal(t, http.MethodPost, calls[4].method)
	assert.Equal(t, map[string]any{"session_id": "s1"}, calls[4].body)
}

func TestClient_OrdersAndPayments(t *testing.T) {
	client := newTestClient(t, "tok", func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/api/orders":
			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(`{"order":{"id":"o1","total":10,"status":"pending","items":[{"product_id":"p1","quantity":1}]}}`))
		case r.Method == http.MethodGet && r.URL.Path == "/api/orders":
			w.Write([]byte(`[{"id":"o1"},{"id":"o2"}]`))
		case r.URL.Path == "/api/orders/o1":
			w.Write([]byte(`{"id":"o1","status":"paid"}`))
		case r.URL.Path == "/api/payments/create-intent":
			w.Write([]byte(`{"client_secret":"cs_1","payment_intent_id":"pi_1"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"message":"nope"}`))
		}
	})

	ctx := context.Background()

	order, err := client.CreateOrder(ctx, domain.OrderCreate{Items: []domain.OrderItem{{ProductID: "p1", Quantity: 1}}})
	require.NoError(t, err)
	assert.Equal(t, "o1", order.ID)
	assert.Equal(t, domain.OrderStatusPending, order.Status)

	orders, err := client.ListOrders(ctx)
	require.NoError(t, err)
	assert.Len(t, orders, 2)

	got, err := client.GetOrder(ctx, "o1")
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusPaid, got.Status)

	intent, err := client.CreatePaymentIntent(ctx, domain.PaymentIntentCreate{OrderID: "o1"})
	require.NoError(t, err)
	assert.Equal(t, "cs_1", intent.ClientSecret)

	_, err = client.GetProduct(ctx, "missing")
	assert.EqualError(t, err, "nope")
}

func TestClient_GoogleLoginURL(t *testing.T) {
	client := apiclient.New("http://shop.local/api/", nil)
	assert.Equal(t, "http://shop.local/api/auth/google-login", client.GoogleLoginURL())
}

type countingTransport struct {
	calls int
	next  http.RoundTripper
}

func (t *countingTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	t.calls++
	return t.next.RoundTrip(r)
}

func TestClient_WithTimeoutLeavesSharedClientAlone(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"products":[]}`))
	}))
	defer srv.Close()

	transport := &countingTransport{next: http.DefaultTransport}
	shared := &http.Client{Transport: transport}

	client := apiclient.New(srv.URL+"/api", nil,
		apiclient.WithHTTPClient(shared),
		apiclient.WithTimeout(2*time.Second),
	)

	_, err := client.SearchProducts(context.Background(), "laptop")
	require.NoError(t, err)

	assert.Equal(t, time.Duration(0), shared.Timeout)
	assert.Equal(t, 1, transport.calls)
}
