package flow

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/mizan/crimewatch-api/schema"
	"github.com/mizan/crimewatch-api/store"
)

// memoryRecordStore is a deterministic record store kept in memory
type memoryRecordStore struct {
	sync.Mutex
	seq       int
	documents map[string][]schema.RawRecord
}

func newMemoryRecordStore() *memoryRecordStore {
	return &memoryRecordStore{
		documents: make(map[string][]schema.RawRecord),
	}
}

func (m *memoryRecordStore) CreateDocument(_ context.Context, collection, documentID string, fields schema.ReportFields) (*schema.RawRecord, error) {
	m.Lock()
	defer m.Unlock()

	m.seq++
	if documentID == schema.UniqueID {
		documentID = fmt.Sprintf("report-%04d", m.seq)
	}

	for _, d := range m.documents[collection] {
		if d.ID == documentID {
			return nil, store.ErrDocumentExists
		}
	}

	latitude, longitude := fields.Latitude, fields.Longitude
	record := schema.RawRecord{
		ID:          documentID,
		Crime:       fields.Crime,
		Description: fields.Description,
		Date:        fields.Date,
		Latitude:    &latitude,
		Longitude:   &longitude,
		VictimID:    fields.VictimID,
		CreatedAt:   time.Unix(int64(m.seq), 0).UTC(),
	}
	m.documents[collection] = append(m.documents[collection], record)

	return &record, nil
}

func (m *memoryRecordStore) ListDocuments(_ context.Context, collection string) (*schema.DocumentList, error) {
	m.Lock()
	defer m.Unlock()

	documents := make([]schema.RawRecord, len(m.documents[collection]))
	copy(documents, m.documents[collection])

	return &schema.DocumentList{
		Total:     len(documents),
		Documents: documents,
	}, nil
}

func (m *memoryRecordStore) GetDocument(_ context.Context, collection, documentID string) (*schema.RawRecord, error) {
	m.Lock()
	defer m.Unlock()

	for _, d := range m.documents[collection] {
		if d.ID == documentID {
			record := d
			return &record, nil
		}
	}
	return nil, store.ErrRecordNotFound
}

func (m *memoryRecordStore) UpdateDocument(_ context.Context, collection, documentID string, patch schema.RecordPatch) error {
	m.Lock()
	defer m.Unlock()

	for i, d := range m.documents[collection] {
		if d.ID == documentID {
			m.documents[collection][i].Address = patch.Address
			return nil
		}
	}
	return store.ErrRecordNotFound
}

func (m *memoryRecordStore) Ping() error {
	return nil
}

func (m *memoryRecordStore) count(collection string) int {
	m.Lock()
	defer m.Unlock()
	return len(m.documents[collection])
}
