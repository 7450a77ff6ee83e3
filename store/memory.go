package store

import (
	"context"
	"fmt"
	"sync"
)

// MemoryRowStore is an in-memory RowStore implementing the same
// append/read contract as the workbook store. Tests substitute it for
// the real gateway; it is also handy for local experiments.
type MemoryRowStore struct {
	mu     sync.Mutex
	sheets map[string][][]string
}

// NewMemoryRowStore seeds one sheet per entry in headers with its
// header row.
func NewMemoryRowStore(headers map[string][]string) *MemoryRowStore {
	sheets := make(map[string][][]string, len(headers))
	for sheet, header := range headers {
		if len(header) == 0 {
			sheets[sheet] = [][]string{}
			continue
		}
		sheets[sheet] = [][]string{append([]string(nil), header...)}
	}
	return &MemoryRowStore{sheets: sheets}
}

func (s *MemoryRowStore) AppendRows(ctx context.Context, sheet string, rows [][]interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sheets[sheet]; !ok {
		return fmt.Errorf("unknown sheet %q", sheet)
	}
	for _, row := range rows {
		cells := make([]string, len(row))
		for i, v := range row {
			cells[i] = fmt.Sprint(v)
		}
		s.sheets[sheet] = append(s.sheets[sheet], cells)
	}
	return nil
}

func (s *MemoryRowStore) GetRows(ctx context.Context, sheet string) ([][]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, ok := s.sheets[sheet]
	if !ok {
		return nil, fmt.Errorf("unknown sheet %q", sheet)
	}
	out := make([][]string, len(rows))
	for i, row := range rows {
		out[i] = append([]string(nil), row...)
	}
	return out, nil
}

type memoryImage struct {
	data        []byte
	contentType string
}

// MemoryImageStore is an in-memory ImageStore for tests.
type MemoryImageStore struct {
	mu     sync.Mutex
	nextID int
	images map[string]memoryImage
}

func NewMemoryImageStore() *MemoryImageStore {
	return &MemoryImageStore{images: map[string]memoryImage{}}
}

func (s *MemoryImageStore) Upload(ctx context.Context, data []byte, filename, contentType string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	id := fmt.Sprintf("mem-%03d", s.nextID)
	s.images[id] = memoryImage{data: append([]byte(nil), data...), contentType: contentType}
	return id, nil
}

func (s *MemoryImageStore) Fetch(ctx context.Context, id string) ([]byte, string, error) {
	if err := ctx.Err(); err != nil {
		return nil, "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	img, ok := s.images[id]
	if !ok {
		return nil, "", fmt.Errorf("image %q not found", id)
	}
	return img.data, img.contentType, nil
}
