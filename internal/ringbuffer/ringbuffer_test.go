package ringbuffer

import (
	"errors"
	"testing"
)

func TestRingBuffer(t *testing.T) {
	tests := []struct {
		name    string
		size    int
		writes  []string
		readLen int
		want    string
		wantLen int
	}{
		{name: "empty", size: 4, readLen: 4, want: "", wantLen: 0},
		{name: "partial", size: 4, writes: []string{"ab"}, readLen: 4, want: "ab", wantLen: 0},
		{name: "exact fill", size: 4, writes: []string{"abcd"}, readLen: 2, want: "ab", wantLen: 2},
		{name: "wrap", size: 4, writes: []string{"abc", "de"}, readLen: 4, want: "abcd", wantLen: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := New(tt.size)
			var got []byte
			for i, w := range tt.writes {
				if _, err := r.WriteString(w); err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				// Make room so the next write wraps
				if i == 0 && len(tt.writes) > 1 {
					b, _ := r.ReadByte()
					got = append(got, b)
				}
			}

			p := make([]byte, tt.readLen-len(got))
			n, err := r.Read(p)
			if err != nil && !errors.Is(err, ErrBufferIsEmpty) {
				t.Fatalf("unexpected error: %v", err)
			}
			got = append(got, p[:n]...)
			if string(got) != tt.want {
				t.Errorf("read %q, want %q", got, tt.want)
			}
			if r.Len() != tt.wantLen {
				t.Errorf("Len() = %d, want %d", r.Len(), tt.wantLen)
			}
		})
	}
}

func TestRingBufferFull(t *testing.T) {
	r := New(2)
	if err := r.WriteByte(1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := r.WriteByte(2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := r.WriteByte(3); !errors.Is(err, ErrBufferIsFull) {
		t.Errorf("expected ErrBufferIsFull, got %v", err)
	}
	if r.Len() != 2 {
		t.Errorf("Len() = %d, want 2", r.Len())
	}

	r.Reset()
	if _, err := r.ReadByte(); !errors.Is(err, ErrBufferIsEmpty) {
		t.Errorf("expected ErrBufferIsEmpty, got %v", err)
	}
}
