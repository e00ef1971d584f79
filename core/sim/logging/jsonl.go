package logging

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"sync"
)

// JSONLStore stores tick records in a JSONL file, one record per line.
type JSONLStore struct {
	path string
	mu   sync.Mutex
}

// NewJSONLStore creates the file if needed and returns the store.
func NewJSONLStore(path string) (*JSONLStore, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return nil, err
	}
	if cerr := f.Close(); cerr != nil {
		return nil, cerr
	}
	return &JSONLStore{path: path}, nil
}

func (s *JSONLStore) Append(ctx context.Context, rec TickRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()
	return json.NewEncoder(f).Encode(rec)
}

func (s *JSONLStore) Query(ctx context.Context, q Query) ([]TickRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, err := os.Open(s.path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	var res []TickRecord
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var r TickRecord
		if err := json.Unmarshal(scanner.Bytes(), &r); err != nil {
			continue
		}
		if r.Time < q.Start {
			continue
		}
		if q.End != 0 && r.Time > q.End {
			continue
		}
		if q.DriverID != 0 && q.DriverID != AnyDriver && !touchesDriver(r, q.DriverID) {
			continue
		}
		res = append(res, r)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return res, nil
}

func touchesDriver(r TickRecord, id int) bool {
	for _, d := range r.Assignments {
		if d == id {
			return true
		}
	}
	for _, d := range r.Deliveries {
		if d.DriverID == id {
			return true
		}
	}
	for _, m := range r.Mutations {
		if m.DriverID == id {
			return true
		}
	}
	return false
}

func (s *JSONLStore) Close() error { return nil }
