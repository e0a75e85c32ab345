package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/wisetee/orderline-backend/internal/agent"
	"github.com/wisetee/orderline-backend/pkg/config"
	pkgerrors "github.com/wisetee/orderline-backend/pkg/errors"
)

type stubAgent struct {
	result *agent.TurnResult
	err    error
	got    agent.TurnInput
}

func (s *stubAgent) Turn(_ context.Context, input agent.TurnInput) (*agent.TurnResult, error) {
	s.got = input
	if s.err != nil {
		return nil, s.err
	}
	if s.result != nil {
		return s.result, nil
	}
	return &agent.TurnResult{ConversationID: input.ConversationID, Reply: "ok"}, nil
}

func decodeChatResponse(t *testing.T, body *bytes.Buffer) chatResponse {
	t.Helper()
	var envelope struct {
		Data chatResponse `json:"data"`
	}
	if err := json.Unmarshal(body.Bytes(), &envelope); err != nil {
		t.Fatalf("parse response: %v", err)
	}
	return envelope.Data
}

func TestChatTurnAssignsConversationID(t *testing.T) {
	t.Parallel()

	svc := &stubAgent{}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/chat", strings.NewReader(`{"message":"I want pizza"}`))
	resp := httptest.NewRecorder()
	ChatTurn(svc, nil)(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	data := decodeChatResponse(t, resp.Body)
	if data.ConversationID == "" {
		t.Fatalf("expected generated conversation id")
	}
	if data.ConversationID != svc.got.ConversationID {
		t.Fatalf("response id %q does not match turn input %q", data.ConversationID, svc.got.ConversationID)
	}
	if svc.got.Content != "I want pizza" {
		t.Fatalf("unexpected content %q", svc.got.Content)
	}
	if svc.got.Source != defaultSource {
		t.Fatalf("expected source %q got %q", defaultSource, svc.got.Source)
	}
}

func TestChatTurnKeepsProvidedConversationID(t *testing.T) {
	t.Parallel()

	svc := &stubAgent{}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/chat", strings.NewReader(`{"conversation_id":"conv-1","message":"hello"}`))
	req.Header.Set("Referer", "https://wisetee.store/shop")
	resp := httptest.NewRecorder()
	ChatTurn(svc, nil)(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if svc.got.ConversationID != "conv-1" {
		t.Fatalf("expected conv-1 got %q", svc.got.ConversationID)
	}
	if svc.got.Source != "https://wisetee.store/shop" {
		t.Fatalf("expected referer source got %q", svc.got.Source)
	}
}

func TestChatTurnRejectsMissingMessage(t *testing.T) {
	t.Parallel()

	svc := &stubAgent{}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/chat", strings.NewReader(`{"conversation_id":"conv-1"}`))
	resp := httptest.NewRecorder()
	ChatTurn(svc, nil)(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
	if svc.got.ConversationID != "" {
		t.Fatalf("agent should not run on invalid input")
	}
}

func TestChatTurnPropagatesAgentError(t *testing.T) {
	t.Parallel()

	svc := &stubAgent{err: pkgerrors.New(pkgerrors.CodeInternal, "boom")}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/chat", strings.NewReader(`{"message":"hello"}`))
	resp := httptest.NewRecorder()
	ChatTurn(svc, nil)(resp, req)

	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 got %d", resp.Code)
	}
}

func proofRequest(t *testing.T, conversationID, message, contentType string, payload []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	if conversationID != "" {
		if err := writer.WriteField("conversation_id", conversationID); err != nil {
			t.Fatalf("write conversation_id: %v", err)
		}
	}
	if message != "" {
		if err := writer.WriteField("message", message); err != nil {
			t.Fatalf("write message: %v", err)
		}
	}
	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="file"; filename="proof.png"`)
	header.Set("Content-Type", contentType)
	part, err := writer.CreatePart(header)
	if err != nil {
		t.Fatalf("create file part: %v", err)
	}
	if _, err := part.Write(payload); err != nil {
		t.Fatalf("write file payload: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/chat/proof", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func TestChatProofStoresFileAndRunsTurn(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	svc := &stubAgent{result: &agent.TurnResult{
		ConversationID: "conv-9",
		Reply:          "confirmed",
		OrderNumber:    "0123456789",
	}}
	uploads := config.UploadsConfig{Dir: dir, MaxUploadMB: 5}

	req := proofRequest(t, "conv-9", "paid via bank", "image/png", []byte("fake-png-bytes"))
	resp := httptest.NewRecorder()
	ChatProof(svc, uploads, nil)(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	data := decodeChatResponse(t, resp.Body)
	if data.OrderNumber != "0123456789" {
		t.Fatalf("expected order number in response, got %q", data.OrderNumber)
	}

	if !strings.HasPrefix(svc.got.ImageURL, uploadURLPrefix) {
		t.Fatalf("expected image url under %s got %q", uploadURLPrefix, svc.got.ImageURL)
	}
	if !strings.HasSuffix(svc.got.ImageURL, ".png") {
		t.Fatalf("expected png extension got %q", svc.got.ImageURL)
	}

	stored := filepath.Join(dir, strings.TrimPrefix(svc.got.ImageURL, uploadURLPrefix))
	contents, err := os.ReadFile(stored)
	if err != nil {
		t.Fatalf("stored file missing: %v", err)
	}
	if string(contents) != "fake-png-bytes" {
		t.Fatalf("stored file corrupted: %q", contents)
	}
}

func TestChatProofRejectsUnsupportedType(t *testing.T) {
	t.Parallel()

	svc := &stubAgent{}
	uploads := config.UploadsConfig{Dir: t.TempDir(), MaxUploadMB: 5}

	req := proofRequest(t, "conv-1", "", "image/gif", []byte("gif-bytes"))
	resp := httptest.NewRecorder()
	ChatProof(svc, uploads, nil)(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
	if svc.got.ConversationID != "" {
		t.Fatalf("agent should not run for rejected uploads")
	}
}

func TestChatProofRequiresConversationID(t *testing.T) {
	t.Parallel()

	svc := &stubAgent{}
	uploads := config.UploadsConfig{Dir: t.TempDir(), MaxUploadMB: 5}

	req := proofRequest(t, "", "paid", "image/png", []byte("png"))
	resp := httptest.NewRecorder()
	ChatProof(svc, uploads, nil)(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestChatProofRequiresFile(t *testing.T) {
	t.Parallel()

	svc := &stubAgent{}
	uploads := config.UploadsConfig{Dir: t.TempDir(), MaxUploadMB: 5}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	if err := writer.WriteField("conversation_id", "conv-1"); err != nil {
		t.Fatalf("write field: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/chat/proof", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp := httptest.NewRecorder()
	ChatProof(svc, uploads, nil)(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}
