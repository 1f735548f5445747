package amqp

import (
	"testing"
)

func TestSyncMessageRoundTrip(t *testing.T) {
	msg := NewTransactionSyncMessage("abc-123")
	if msg.Kind != KindTransactionSync {
		t.Fatalf("expected kind %q, got %q", KindTransactionSync, msg.Kind)
	}

	body, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}

	decoded, err := SyncMessageFromJSON(body)
	if err != nil {
		t.Fatalf("SyncMessageFromJSON: %v", err)
	}
	if decoded.TransactionID != "abc-123" {
		t.Errorf("expected transaction id abc-123, got %q", decoded.TransactionID)
	}
	if decoded.Kind != KindTransactionSync {
		t.Errorf("expected kind %q, got %q", KindTransactionSync, decoded.Kind)
	}
}

func TestDeleteMessageKind(t *testing.T) {
	msg := NewTransactionDeleteMessage("abc-123")
	if msg.Kind != KindTransactionDelete {
		t.Errorf("expected kind %q, got %q", KindTransactionDelete, msg.Kind)
	}
}

func TestSyncMessageFromInvalidJSON(t *testing.T) {
	if _, err := SyncMessageFromJSON([]byte("{not json")); err == nil {
		t.Error("expected error for invalid JSON")
	}
}
