package instagram

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/wolfman30/igdm-router/internal/messenger"
)

func TestSendMessage(t *testing.T) {
	var received map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if r.URL.Path != "/me/messages" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if r.URL.Query().Get("access_token") != "test_token" {
			t.Errorf("unexpected access token: %s", r.URL.Query().Get("access_token"))
		}
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Fatal(err)
		}
		resp := SendResponse{RecipientID: "user_1", MessageID: "mid_001"}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := NewClient("test_token", "")
	client.SetGraphAPIBase(server.URL)

	msg := messenger.QuickReply("Pick one", []messenger.Option{{Title: "A", Payload: "P_A"}}).WithDelay(2 * time.Second)
	resp, err := client.Send(context.Background(), "user_1", msg)
	if err != nil {
		t.Fatal(err)
	}
	if resp.MessageID != "mid_001" {
		t.Errorf("message_id = %s, want mid_001", resp.MessageID)
	}

	recipient := received["recipient"].(map[string]any)
	if recipient["id"] != "user_1" {
		t.Errorf("sent to = %v, want user_1", recipient["id"])
	}
	message := received["message"].(map[string]any)
	if message["text"] != "Pick one" {
		t.Errorf("sent text = %v", message["text"])
	}
	if _, ok := message["delay"]; ok {
		t.Error("delay must never reach the Graph API")
	}
	replies := message["quick_replies"].([]any)
	first := replies[0].(map[string]any)
	if first["content_type"] != "text" || first["payload"] != "P_A" {
		t.Errorf("quick reply = %v", first)
	}
}

func TestSendMessageAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := SendResponse{
			Error: &SendError{Code: 100, Message: "Invalid token", Type: "OAuthException"},
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := NewClient("bad_token", server.URL)

	err := client.SendMessage(context.Background(), "user_1", messenger.Text("test"))
	var apiErr *SendError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *SendError, got %v", err)
	}
	if apiErr.Code != 100 {
		t.Errorf("code = %d, want 100", apiErr.Code)
	}
}

func TestSendMessageUnexpectedStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := NewClient("token", server.URL)
	if err := client.SendMessage(context.Background(), "user_1", messenger.Text("x")); err == nil {
		t.Fatal("expected error for 502")
	}
}

func TestSendMessageRequiresRecipient(t *testing.T) {
	client := NewClient("token", "http://127.0.0.1:0")
	if err := client.SendMessage(context.Background(), "", messenger.Text("x")); !errors.Is(err, ErrRecipientRequired) {
		t.Fatalf("expected ErrRecipientRequired, got %v", err)
	}
}

func TestGetUserProfile(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/igsid_42" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if r.URL.Query().Get("fields") != "name,profile_pic" {
			t.Errorf("fields = %s", r.URL.Query().Get("fields"))
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"igsid_42","name":"Peter Chang","profile_pic":"https://x/p.jpg"}`))
	}))
	defer server.Close()

	client := NewClient("token", server.URL)
	profile, err := client.GetUserProfile(context.Background(), "igsid_42")
	if err != nil {
		t.Fatal(err)
	}
	if profile.Name != "Peter Chang" {
		t.Errorf("name = %s", profile.Name)
	}
}

func TestGetUserProfileError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"message":"Unsupported get request","type":"GraphMethodException","code":100}}`))
	}))
	defer server.Close()

	client := NewClient("token", server.URL)
	if _, err := client.GetUserProfile(context.Background(), "nobody"); err == nil {
		t.Fatal("expected error")
	}
}
