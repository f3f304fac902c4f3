package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"devmap/internal/apperr"
	"devmap/internal/logging"
)

type fakeRetriever struct {
	answer string
	err    error
	asked  []string
}

func (f *fakeRetriever) RetrieveAndGenerate(_ context.Context, question string) (string, error) {
	f.asked = append(f.asked, question)
	return f.answer, f.err
}

func testLogger() *logging.Logger {
	return logging.NewLogger(logging.Config{
		Level:  logging.ErrorLevel,
		Format: logging.JSONFormat,
		Output: io.Discard,
	})
}

func TestGatewayAnswer(t *testing.T) {
	backend := &fakeRetriever{answer: "Ravi Kumar works mostly on payments."}
	g := NewGateway(backend, testLogger())

	answer, err := g.Answer(context.Background(), "Who owns payments?")
	if err != nil {
		t.Fatalf("Answer failed: %v", err)
	}
	if answer != "Ravi Kumar works mostly on payments." {
		t.Errorf("Unexpected answer: %q", answer)
	}
	if len(backend.asked) != 1 || backend.asked[0] != "Who owns payments?" {
		t.Errorf("Backend asked %v", backend.asked)
	}
}

func TestGatewayRejectsEmptyQuestion(t *testing.T) {
	g := NewGateway(&fakeRetriever{}, testLogger())

	for _, q := range []string{"", "   ", "\n\t"} {
		_, err := g.Answer(context.Background(), q)
		if err == nil {
			t.Errorf("Expected error for question %q", q)
			continue
		}
		if apperr.CodeOf(err) != apperr.InvalidInput {
			t.Errorf("Expected InvalidInput code, got %q", apperr.CodeOf(err))
		}
	}
}

func TestGatewayBackendFailure(t *testing.T) {
	g := NewGateway(&fakeRetriever{err: fmt.Errorf("index offline")}, testLogger())

	_, err := g.Answer(context.Background(), "anything")
	if err == nil {
		t.Fatal("Expected error for backend failure")
	}
	if apperr.CodeOf(err) != apperr.BackendFailure {
		t.Errorf("Expected BackendFailure code, got %q", apperr.CodeOf(err))
	}
}

func TestBackendClientRequestShape(t *testing.T) {
	var got map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("Malformed request body: %v", err)
		}
		fmt.Fprintln(w, `{"output":{"text":"the answer"}}`)
	}))
	defer server.Close()

	client := NewBackendClient(BackendConfig{
		Endpoint:        server.URL,
		KnowledgeBaseID: "kb-123",
		ModelARN:        "arn:model/test",
	})

	answer, err := client.RetrieveAndGenerate(context.Background(), "the question")
	if err != nil {
		t.Fatalf("RetrieveAndGenerate failed: %v", err)
	}
	if answer != "the answer" {
		t.Errorf("Unexpected answer: %q", answer)
	}

	input, _ := got["input"].(map[string]interface{})
	if input["text"] != "the question" {
		t.Errorf("Expected question in input.text, got %v", input)
	}
	cfg, _ := got["retrieveAndGenerateConfiguration"].(map[string]interface{})
	if cfg["type"] != "KNOWLEDGE_BASE" {
		t.Errorf("Expected KNOWLEDGE_BASE type, got %v", cfg["type"])
	}
	kbCfg, _ := cfg["knowledgeBaseConfiguration"].(map[string]interface{})
	if kbCfg["knowledgeBaseId"] != "kb-123" {
		t.Errorf("Expected knowledge base id, got %v", kbCfg["knowledgeBaseId"])
	}
	if kbCfg["modelArn"] != "arn:model/test" {
		t.Errorf("Expected model arn, got %v", kbCfg["modelArn"])
	}
}

func TestBackendClientErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "throttled", http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewBackendClient(BackendConfig{Endpoint: server.URL, KnowledgeBaseID: "kb"})
	if _, err := client.RetrieveAndGenerate(context.Background(), "q"); err == nil {
		t.Error("Expected error for backend error status")
	}
}

func TestBackendClientMisconfigured(t *testing.T) {
	client := NewBackendClient(BackendConfig{})
	if _, err := client.RetrieveAndGenerate(context.Background(), "q"); err == nil {
		t.Error("Expected error for missing endpoint and knowledge base id")
	}
}
