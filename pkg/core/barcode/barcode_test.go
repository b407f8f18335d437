package barcode

import (
	"context"
	"errors"
	"math/big"
	"strconv"
	"sync"
	"testing"
	"testing/quick"
	"time"
)

func TestNext(t *testing.T) {
	cases := []struct {
		name     string
		existing []string
		want     string
	}{
		{"empty", nil, "000001"},
		{"empty slice", []string{}, "000001"},
		{"gap", []string{"000001", "000002", "000005"}, "000006"},
		{"non digits ignored", []string{"abc", "", "000003"}, "000004"},
		{"short code numeric", []string{"7"}, "000008"},
		{"numeric not lexical", []string{"9", "10"}, "000011"},
		{"only garbage", []string{"A-1", " 12", "12 ", "-5", "+3", "1.5"}, "000001"},
		{"zero", []string{"000000"}, "000001"},
		{"width overflow", []string{"999999"}, "1000000"},
		{"wide input", []string{"000000123456789", "5"}, "123456790"},
		{"beyond uint64", []string{"99999999999999999999"}, "100000000000000000000"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Next(tc.existing); got != tc.want {
				t.Fatalf("Next(%q) = %q, want %q", tc.existing, got, tc.want)
			}
		})
	}
}

func TestNextIsGreaterThanEveryInput(t *testing.T) {
	prop := func(nums []uint32) bool {
		codes := make([]string, 0, len(nums))
		for _, n := range nums {
			codes = append(codes, strconv.FormatUint(uint64(n), 10))
		}
		got, ok := new(big.Int).SetString(Next(codes), 10)
		if !ok {
			return false
		}
		for _, c := range codes {
			v, _ := new(big.Int).SetString(c, 10)
			if got.Cmp(v) <= 0 {
				return false
			}
		}
		return len(Next(codes)) >= Width
	}
	if err := quick.Check(prop, nil); err != nil {
		t.Fatalf("property violated: %v", err)
	}
}

func TestNextN(t *testing.T) {
	got := NextN([]string{"000009"}, 3)
	want := []string{"000010", "000011", "000012"}
	if len(got) != len(want) {
		t.Fatalf("NextN len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("NextN[%d] = %q, want %q", i, got[i], want[i])
		}
	}
	if n := NextN(nil, 0); len(n) != 0 {
		t.Fatalf("NextN(0) = %v, want empty", n)
	}
	if first := NextN(nil, 1)[0]; first != Next(nil) {
		t.Fatalf("NextN first = %q, want %q", first, Next(nil))
	}
}

func TestIsNumeric(t *testing.T) {
	for code, want := range map[string]bool{
		"":       false,
		"0":      true,
		"000123": true,
		"12a":    false,
		"١٢":     false,
	} {
		if got := IsNumeric(code); got != want {
			t.Fatalf("IsNumeric(%q) = %v, want %v", code, got, want)
		}
	}
}

func TestLocalLockerExclusive(t *testing.T) {
	l := NewLocalLocker()
	ctx := context.Background()

	var mu sync.Mutex
	holders, maxHolders := 0, 0
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			release, err := l.Lock(ctx)
			if err != nil {
				t.Errorf("Lock: %v", err)
				return
			}
			mu.Lock()
			holders++
			if holders > maxHolders {
				maxHolders = holders
			}
			mu.Unlock()
			time.Sleep(time.Millisecond)
			mu.Lock()
			holders--
			mu.Unlock()
			release()
			release()
		}()
	}
	wg.Wait()
	if maxHolders != 1 {
		t.Fatalf("lock held by %d goroutines at once", maxHolders)
	}
}

func TestLocalLockerHonorsContext(t *testing.T) {
	l := NewLocalLocker()
	release, err := l.Lock(context.Background())
	if err != nil {
		t.Fatalf("Lock: %v", err)
	}
	defer release()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if _, err := l.Lock(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}
