package amqp

import (
	"encoding/json"
	"time"
)

// Message kinds routed through the sync queue.
const (
	KindTransactionSync   = "transaction.sync"
	KindTransactionDelete = "transaction.delete"
)

// SyncMessage asks the worker to mirror a transaction to the external
// exporter. Delete messages carry the same shape with a different kind.
type SyncMessage struct {
	Kind          string    `json:"kind"`
	TransactionID string    `json:"transaction_id"`
	Timestamp     time.Time `json:"timestamp"`
}

func NewTransactionSyncMessage(transactionID string) *SyncMessage {
	return &SyncMessage{
		Kind:          KindTransactionSync,
		TransactionID: transactionID,
		Timestamp:     time.Now(),
	}
}

func NewTransactionDeleteMessage(transactionID string) *SyncMessage {
	return &SyncMessage{
		Kind:          KindTransactionDelete,
		TransactionID: transactionID,
		Timestamp:     time.Now(),
	}
}

func (m *SyncMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func SyncMessageFromJSON(data []byte) (*SyncMessage, error) {
	var msg SyncMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
